package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"
	userrepo "storefront/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession indicates the provided session token could not be validated.
	ErrInvalidSession = errors.New("invalid session")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service handles signup/login flows and session resolution.
type Service struct {
	repo        userrepo.Repository
	sessions    *sessionManager
	sessionTTL  time.Duration
	passwordMin int
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, sessions sessionrepo.Repository) *Service {
	return &Service{
		repo:        repo,
		sessions:    newSessionManager(sessions),
		sessionTTL:  24 * time.Hour,
		passwordMin: 6,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	FullName string `json:"fullname"`
	Username string `json:"uname"`
	Email    string `json:"email"`
	PhoneNo  string `json:"number"`
	Password string `json:"password"`
}

// Signup registers a new user.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, errors.New("username required")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !emailPattern.MatchString(email) {
		return nil, errors.New("valid email required")
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, fmt.Errorf("password must be at least %d characters", s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.User{
		FullName:     strings.TrimSpace(in.FullName),
		Username:     username,
		Email:        email,
		PhoneNo:      strings.TrimSpace(in.PhoneNo),
		PasswordHash: string(hashed),
	})
}

// Login validates credentials and returns the user plus a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// IssueSession mints a session for an already-authenticated user (OAuth path).
func (s *Service) IssueSession(ctx context.Context, userID int64) (string, error) {
	return s.sessions.Issue(ctx, userID, s.sessionTTL)
}

// Logout invalidates the session token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// LookupBySession returns the user bound to a valid session token.
func (s *Service) LookupBySession(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.sessions.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidSession
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return u, nil
}

// PurgeExpiredSessions removes sessions whose expiry has passed. Meant to run
// periodically; Validate already rejects stale tokens, this reclaims the rows.
func (s *Service) PurgeExpiredSessions(ctx context.Context) error {
	return s.sessions.PurgeExpired(ctx)
}

// SessionTTLSeconds exposes the session lifetime in seconds for cookie max-age.
func (s *Service) SessionTTLSeconds() int {
	return int(s.sessionTTL.Seconds())
}
