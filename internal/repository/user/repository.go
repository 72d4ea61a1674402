package user

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePhone(ctx context.Context, id int64, phone string) (*domain.User, error)
	UpdateEmail(ctx context.Context, id int64, email string) (*domain.User, error)
	UpdateAddress(ctx context.Context, id int64, address string) (*domain.User, error)
	UpdateProfileImage(ctx context.Context, id int64, image []byte) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// LinkGoogle records the Google account id, marks the email verified and
	// stamps last_login.
	LinkGoogle(ctx context.Context, id int64, googleID string) (*domain.User, error)
}
