package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain"
)

type memoryUserRepo struct {
	nextID int64
	users  map[int64]domain.User
}

func newMemoryUserRepo(users ...domain.User) *memoryUserRepo {
	r := &memoryUserRepo{nextID: 100, users: make(map[int64]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	clone := u
	return &clone, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := u
	return &clone, nil
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) UpdatePhone(_ context.Context, id int64, phone string) (*domain.User, error) {
	u := r.users[id]
	u.PhoneNo = phone
	r.users[id] = u
	return &u, nil
}

func (r *memoryUserRepo) UpdateEmail(_ context.Context, id int64, email string) (*domain.User, error) {
	u := r.users[id]
	u.Email = email
	r.users[id] = u
	return &u, nil
}

func (r *memoryUserRepo) UpdateAddress(_ context.Context, id int64, address string) (*domain.User, error) {
	u := r.users[id]
	u.Address = address
	r.users[id] = u
	return &u, nil
}

func (r *memoryUserRepo) UpdateProfileImage(_ context.Context, id int64, image []byte) (*domain.User, error) {
	u := r.users[id]
	u.ProfileImage = image
	r.users[id] = u
	return &u, nil
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r *memoryUserRepo) LinkGoogle(_ context.Context, id int64, googleID string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.GoogleID = googleID
	u.EmailVerified = true
	r.users[id] = u
	clone := u
	return &clone, nil
}

// fakeGoogle serves the token and userinfo endpoints.
func fakeGoogle(t *testing.T, userinfoBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected token method %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" {
			t.Fatalf("unexpected grant_type %q", r.PostForm.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-123"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer at-123" {
			t.Fatalf("unexpected authorization %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(userinfoBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testService(users *memoryUserRepo, srv *httptest.Server) *Service {
	svc := New(Config{ClientID: "cid", ClientSecret: "secret", RedirectURI: "http://localhost/cb"}, users, nil)
	svc.tokenURL = srv.URL + "/token"
	svc.userinfoURL = srv.URL + "/userinfo"
	return svc
}

func TestAuthURL_ContainsClientAndScope(t *testing.T) {
	svc := New(Config{ClientID: "cid", RedirectURI: "http://localhost/cb"}, newMemoryUserRepo(), nil)

	u := svc.AuthURL()
	if !strings.Contains(u, "client_id=cid") {
		t.Fatalf("missing client_id in %s", u)
	}
	if !strings.Contains(u, "response_type=code") {
		t.Fatalf("missing response_type in %s", u)
	}
	if !strings.Contains(u, "scope=openid+email+profile") {
		t.Fatalf("missing scope in %s", u)
	}
}

func TestLogin_CreatesUserOnFirstLogin(t *testing.T) {
	users := newMemoryUserRepo()
	srv := fakeGoogle(t, `{"id":"g-1","email":"new@example.com","name":"New User"}`)
	svc := testService(users, srv)

	u, err := svc.Login(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Email != "new@example.com" || u.GoogleID != "g-1" {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.Username != "new" {
		t.Fatalf("expected username derived from email, got %q", u.Username)
	}
	if !u.EmailVerified {
		t.Fatal("google accounts arrive verified")
	}
	if u.PasswordHash == "" {
		t.Fatal("expected placeholder password hash")
	}
}

func TestLogin_LinksExistingAccount(t *testing.T) {
	users := newMemoryUserRepo(domain.User{ID: 7, Email: "known@example.com", Username: "known"})
	srv := fakeGoogle(t, `{"id":"g-9","email":"known@example.com","name":"Known"}`)
	svc := testService(users, srv)

	u, err := svc.Login(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != 7 || u.GoogleID != "g-9" {
		t.Fatalf("expected linked account, got %+v", u)
	}
	if len(users.users) != 1 {
		t.Fatalf("no new account must be created, got %d", len(users.users))
	}
}

func TestLogin_EmptyCode(t *testing.T) {
	svc := New(Config{}, newMemoryUserRepo(), nil)

	if _, err := svc.Login(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty code")
	}
}

func TestLogin_ExchangeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	svc := New(Config{}, newMemoryUserRepo(), nil)
	svc.tokenURL = srv.URL
	svc.userinfoURL = srv.URL

	_, err := svc.Login(context.Background(), "bad-code")
	if !errors.Is(err, ErrExchangeFailed) {
		t.Fatalf("expected ErrExchangeFailed, got %v", err)
	}
}

func TestLogin_MissingEmailInProfile(t *testing.T) {
	users := newMemoryUserRepo()
	srv := fakeGoogle(t, `{"id":"g-1","name":"No Email"}`)
	svc := testService(users, srv)

	_, err := svc.Login(context.Background(), "auth-code")
	if !errors.Is(err, ErrExchangeFailed) {
		t.Fatalf("expected ErrExchangeFailed, got %v", err)
	}
	if len(users.users) != 0 {
		t.Fatalf("no account must be created, got %d", len(users.users))
	}
}

func TestUsernameFromEmail(t *testing.T) {
	if got := usernameFromEmail("alice@example.com"); got != "alice" {
		t.Fatalf("expected alice, got %q", got)
	}
	if got := usernameFromEmail("no-at-sign"); got != "no-at-sign" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
