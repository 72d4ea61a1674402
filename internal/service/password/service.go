package password

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"strings"
	"time"

	"storefront/internal/domain"
	resetrepo "storefront/internal/repository/passwordreset"
	userrepo "storefront/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUnknownEmail is returned when no account matches the email.
	ErrUnknownEmail = errors.New("no account for email")
	// ErrNoResetRequest indicates there is no pending reset for the email.
	ErrNoResetRequest = errors.New("no reset request found")
	// ErrOTPExpired is returned once the code's 15 minute window has passed.
	ErrOTPExpired = errors.New("otp expired")
	// ErrTooManyAttempts is returned after the third wrong code.
	ErrTooManyAttempts = errors.New("too many attempts")
	// ErrInvalidOTP is returned for a wrong code with attempts remaining.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrInvalidResetToken covers missing, mismatched or expired reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrWrongPassword is returned by Change when the old password is wrong.
	ErrWrongPassword = errors.New("old password incorrect")
)

// Mailer delivers one-time codes.
type Mailer interface {
	SendOTP(ctx context.Context, to, otp string) error
}

// Service implements the forgot/verify/reset/change password flows.
type Service struct {
	users       userrepo.Repository
	resets      resetrepo.Repository
	mailer      Mailer
	logger      *log.Logger
	otpTTL      time.Duration
	tokenTTL    time.Duration
	maxAttempts int
	passwordMin int
}

func New(users userrepo.Repository, resets resetrepo.Repository, mailer Mailer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:       users,
		resets:      resets,
		mailer:      mailer,
		logger:      logger,
		otpTTL:      15 * time.Minute,
		tokenTTL:    5 * time.Minute,
		maxAttempts: 3,
		passwordMin: 6,
	}
}

// Forgot generates a one-time code, stores its hash and emails it.
func (s *Service) Forgot(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return errors.New("email required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUnknownEmail
		}
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.resets.Upsert(ctx, resetrepo.Reset{
		Email:     email,
		UserID:    u.ID,
		OTPHash:   string(hashed),
		ExpiresAt: time.Now().Add(s.otpTTL),
	}); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(ctx, email, otp); err != nil {
		s.logger.Printf("password: send otp email=%s error=%v", email, err)
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// VerifyOTP checks the submitted code and, on success, returns a short-lived
// reset token. Expiry or exhausting attempts deletes the pending request.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	rec, err := s.resets.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrNoResetRequest
		}
		return "", err
	}

	if time.Now().After(rec.ExpiresAt) {
		_ = s.resets.Delete(ctx, email)
		return "", ErrOTPExpired
	}
	if rec.Attempts >= s.maxAttempts {
		_ = s.resets.Delete(ctx, email)
		return "", ErrTooManyAttempts
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.OTPHash), []byte(strings.TrimSpace(otp))); err != nil {
		if err := s.resets.IncrementAttempts(ctx, email); err != nil {
			return "", err
		}
		return "", ErrInvalidOTP
	}

	token, err := randomResetToken()
	if err != nil {
		return "", err
	}
	if err := s.resets.MarkVerified(ctx, email, token, time.Now().Add(s.tokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// Reset sets a new password for the account behind a verified reset request.
func (s *Service) Reset(ctx context.Context, email, token, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < s.passwordMin {
		return fmt.Errorf("password must be at least %d characters", s.passwordMin)
	}

	rec, err := s.resets.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !rec.Verified || rec.ResetToken == "" || rec.ResetToken != token {
		return ErrInvalidResetToken
	}
	if rec.TokenExpiresAt == nil || time.Now().After(*rec.TokenExpiresAt) {
		_ = s.resets.Delete(ctx, email)
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, rec.UserID, string(hashed)); err != nil {
		return err
	}
	return s.resets.Delete(ctx, email)
}

// Change updates the password of a logged-in user after checking the old one.
func (s *Service) Change(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < s.passwordMin {
		return fmt.Errorf("password must be at least %d characters", s.passwordMin)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(oldPassword))); err != nil {
		return ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, string(hashed))
}

func generateOTP() (string, error) {
	// 6 digits, 100000..999999
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func randomResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
