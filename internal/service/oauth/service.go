package oauth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/domain"
	userrepo "storefront/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v1/userinfo"
	consentEndpoint  = "https://accounts.google.com/o/oauth2/v2/auth"
)

// ErrExchangeFailed wraps any failure talking to Google.
var ErrExchangeFailed = errors.New("google code exchange failed")

// Config carries the Google OAuth client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Service signs users in through Google's authorization-code flow.
type Service struct {
	cfg    Config
	users  userrepo.Repository
	client *http.Client
	logger *log.Logger

	tokenURL    string
	userinfoURL string
}

func New(cfg Config, users userrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		cfg:         cfg,
		users:       users,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
		tokenURL:    tokenEndpoint,
		userinfoURL: userinfoEndpoint,
	}
}

// AuthURL builds the consent-screen URL the front-end redirects to.
func (s *Service) AuthURL() string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", s.cfg.ClientID)
	q.Set("redirect_uri", s.cfg.RedirectURI)
	q.Set("scope", "openid email profile")
	return consentEndpoint + "?" + q.Encode()
}

type googleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Login exchanges the authorization code, fetches the Google profile and
// returns the matching local user, creating one on first login.
func (s *Service) Login(ctx context.Context, code string) (*domain.User, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("authorization code required")
	}

	accessToken, err := s.exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	gu, err := s.userinfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if gu.Email == "" {
		return nil, fmt.Errorf("%w: userinfo missing email", ErrExchangeFailed)
	}

	u, err := s.users.GetByEmail(ctx, gu.Email)
	if err == nil {
		return s.users.LinkGoogle(ctx, u.ID, gu.ID)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// First login: provision an account. OAuth users have no usable password,
	// so store a hash of random bytes nobody knows.
	placeholder, err := randomPasswordHash()
	if err != nil {
		return nil, err
	}
	created, err := s.users.Create(ctx, domain.User{
		FullName:      gu.Name,
		Username:      usernameFromEmail(gu.Email),
		Email:         gu.Email,
		PasswordHash:  placeholder,
		GoogleID:      gu.ID,
		EmailVerified: true,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("oauth: created user id=%d email=%s", created.ID, created.Email)
	return created, nil
}

func (s *Service) exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("redirect_uri", s.cfg.RedirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status=%d body=%s", ErrExchangeFailed, resp.StatusCode, body)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrExchangeFailed)
	}
	return out.AccessToken, nil
}

func (s *Service) userinfo(ctx context.Context, accessToken string) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status=%d", ErrExchangeFailed, resp.StatusCode)
	}

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	return &gu, nil
}

func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

func randomPasswordHash() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword(raw, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
