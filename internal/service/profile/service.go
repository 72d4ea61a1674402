package profile

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"storefront/internal/domain"
	userrepo "storefront/internal/repository/user"
)

var (
	// ErrInvalidPhone is returned for anything but a 10-digit number.
	ErrInvalidPhone = errors.New("phone must be 10 digits")
	// ErrInvalidEmail is returned for malformed addresses.
	ErrInvalidEmail = errors.New("valid email required")
	// ErrEmailTaken is returned when another account owns the email.
	ErrEmailTaken = errors.New("email already in use")
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Resizer re-encodes an uploaded avatar to fit the profile bounds.
type Resizer interface {
	FitProfile(data []byte, contentType string) ([]byte, error)
}

// Service manages account profile fields.
type Service struct {
	repo    userrepo.Repository
	resizer Resizer
}

func New(repo userrepo.Repository, resizer Resizer) *Service {
	return &Service{repo: repo, resizer: resizer}
}

func (s *Service) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdatePhone(ctx context.Context, userID int64, phone string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	return s.repo.UpdatePhone(ctx, userID, phone)
}

func (s *Service) UpdateEmail(ctx context.Context, userID int64, email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	u, err := s.repo.UpdateEmail(ctx, userID, email)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateAddress(ctx context.Context, userID int64, address string) (*domain.User, error) {
	return s.repo.UpdateAddress(ctx, userID, strings.TrimSpace(address))
}

func (s *Service) UpdateImage(ctx context.Context, userID int64, image []byte, contentType string) (*domain.User, error) {
	if len(image) == 0 {
		return nil, errors.New("image required")
	}
	if s.resizer != nil {
		resized, err := s.resizer.FitProfile(image, contentType)
		if err != nil {
			return nil, err
		}
		image = resized
	}
	return s.repo.UpdateProfileImage(ctx, userID, image)
}
