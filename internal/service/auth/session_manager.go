package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"
)

type sessionManager struct {
	repo sessionrepo.Repository
}

func newSessionManager(repo sessionrepo.Repository) *sessionManager {
	return &sessionManager{repo: repo}
}

func (m *sessionManager) Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	expiresAt := time.Now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, sessionrepo.Session{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("session token collision")
}

func (m *sessionManager) Validate(ctx context.Context, token string) (int64, bool) {
	s, err := m.repo.Get(ctx, token)
	if err != nil {
		return 0, false
	}
	if time.Now().After(s.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return 0, false
	}
	return s.UserID, true
}

func (m *sessionManager) Revoke(ctx context.Context, token string) error {
	return m.repo.Delete(ctx, token)
}

func (m *sessionManager) PurgeExpired(ctx context.Context) error {
	return m.repo.DeleteExpired(ctx)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
