package passwordreset

import (
	"context"
	"time"
)

// Reset holds one pending password-reset request per email.
type Reset struct {
	Email          string
	UserID         int64
	OTPHash        string
	Attempts       int
	Verified       bool
	ResetToken     string
	ExpiresAt      time.Time
	TokenExpiresAt *time.Time
	CreatedAt      time.Time
}

type Repository interface {
	// Upsert replaces any existing request for the email with a fresh one.
	Upsert(ctx context.Context, r Reset) error
	GetByEmail(ctx context.Context, email string) (*Reset, error)
	IncrementAttempts(ctx context.Context, email string) error
	// MarkVerified flags the request verified and stores the reset token.
	MarkVerified(ctx context.Context, email, token string, tokenExpiresAt time.Time) error
	Delete(ctx context.Context, email string) error
}
