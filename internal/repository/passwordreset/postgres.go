package passwordreset

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Upsert(ctx context.Context, in Reset) error {
	const q = `
INSERT INTO password_resets (email, user_id, otp_hash, attempts, verified, expires_at)
VALUES (lower($1), $2, $3, 0, FALSE, $4)
ON CONFLICT (email) DO UPDATE SET
    user_id = EXCLUDED.user_id,
    otp_hash = EXCLUDED.otp_hash,
    attempts = 0,
    verified = FALSE,
    reset_token = NULL,
    token_expires_at = NULL,
    expires_at = EXCLUDED.expires_at,
    created_at = now()
`
	_, err := r.pool.Exec(ctx, q, in.Email, in.UserID, in.OTPHash, in.ExpiresAt)
	return err
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*Reset, error) {
	const q = `
SELECT email, user_id, otp_hash, attempts, verified, COALESCE(reset_token, ''), expires_at, token_expires_at, created_at
FROM password_resets
WHERE email = lower($1)
LIMIT 1
`
	var out Reset
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&out.Email,
		&out.UserID,
		&out.OTPHash,
		&out.Attempts,
		&out.Verified,
		&out.ResetToken,
		&out.ExpiresAt,
		&out.TokenExpiresAt,
		&out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) IncrementAttempts(ctx context.Context, email string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE password_resets SET attempts = attempts + 1 WHERE email = lower($1)`, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MarkVerified(ctx context.Context, email, token string, tokenExpiresAt time.Time) error {
	const q = `
UPDATE password_resets
SET verified = TRUE, reset_token = $1, token_expires_at = $2
WHERE email = lower($3)
`
	cmd, err := r.pool.Exec(ctx, q, token, tokenExpiresAt, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM password_resets WHERE email = lower($1)`, email)
	return err
}
