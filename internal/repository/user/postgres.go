package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `
id, full_name, username, email, COALESCE(phone_no, ''), COALESCE(address, ''),
password_hash, role, COALESCE(google_id, ''), profile_image, email_verified, last_login, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (full_name, username, email, phone_no, address, password_hash, role, google_id, email_verified)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9)
RETURNING ` + userColumns
	role := u.Role
	if role == "" {
		role = "user"
	}
	return r.scanUser(r.pool.QueryRow(
		ctx,
		q,
		u.FullName,
		u.Username,
		strings.ToLower(u.Email),
		u.PhoneNo,
		u.Address,
		u.PasswordHash,
		role,
		u.GoogleID,
		u.EmailVerified,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, id))
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 LIMIT 1`, username))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email))
}

func (r *postgresRepo) UpdatePhone(ctx context.Context, id int64, phone string) (*domain.User, error) {
	const q = `UPDATE users SET phone_no = $1 WHERE id = $2 RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, phone, id))
}

func (r *postgresRepo) UpdateEmail(ctx context.Context, id int64, email string) (*domain.User, error) {
	const q = `UPDATE users SET email = lower($1) WHERE id = $2 RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, email, id))
}

func (r *postgresRepo) UpdateAddress(ctx context.Context, id int64, address string) (*domain.User, error) {
	const q = `UPDATE users SET address = NULLIF($1, '') WHERE id = $2 RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, address, id))
}

func (r *postgresRepo) UpdateProfileImage(ctx context.Context, id int64, image []byte) (*domain.User, error) {
	const q = `UPDATE users SET profile_image = $1 WHERE id = $2 RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, image, id))
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		r.logger.Printf("user repo: update password id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) LinkGoogle(ctx context.Context, id int64, googleID string) (*domain.User, error) {
	const q = `
UPDATE users
SET google_id = COALESCE(google_id, $1),
    email_verified = TRUE,
    last_login = now()
WHERE id = $2
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(ctx, q, googleID, id))
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Username,
		&u.Email,
		&u.PhoneNo,
		&u.Address,
		&u.PasswordHash,
		&u.Role,
		&u.GoogleID,
		&u.ProfileImage,
		&u.EmailVerified,
		&u.LastLogin,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	return &u, nil
}
