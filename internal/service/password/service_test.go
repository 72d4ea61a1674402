package password

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	resetrepo "storefront/internal/repository/passwordreset"
)

type memoryUserRepo struct {
	users map[int64]domain.User
}

func newMemoryUserRepo(users ...domain.User) *memoryUserRepo {
	r := &memoryUserRepo{users: make(map[int64]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
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
	u := r.users[id]
	u.GoogleID = googleID
	r.users[id] = u
	return &u, nil
}

type memoryResetRepo struct {
	byEmail map[string]resetrepo.Reset
}

func newMemoryResetRepo() *memoryResetRepo {
	return &memoryResetRepo{byEmail: make(map[string]resetrepo.Reset)}
}

func (r *memoryResetRepo) Upsert(_ context.Context, rec resetrepo.Reset) error {
	r.byEmail[rec.Email] = rec
	return nil
}

func (r *memoryResetRepo) GetByEmail(_ context.Context, email string) (*resetrepo.Reset, error) {
	rec, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := rec
	return &clone, nil
}

func (r *memoryResetRepo) IncrementAttempts(_ context.Context, email string) error {
	rec, ok := r.byEmail[email]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Attempts++
	r.byEmail[email] = rec
	return nil
}

func (r *memoryResetRepo) MarkVerified(_ context.Context, email, token string, tokenExpiresAt time.Time) error {
	rec, ok := r.byEmail[email]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Verified = true
	rec.ResetToken = token
	rec.TokenExpiresAt = &tokenExpiresAt
	r.byEmail[email] = rec
	return nil
}

func (r *memoryResetRepo) Delete(_ context.Context, email string) error {
	delete(r.byEmail, email)
	return nil
}

// fakeMailer captures the last OTP instead of sending mail.
type fakeMailer struct {
	lastTo  string
	lastOTP string
	err     error
}

func (m *fakeMailer) SendOTP(_ context.Context, to, otp string) error {
	if m.err != nil {
		return m.err
	}
	m.lastTo = to
	m.lastOTP = otp
	return nil
}

func testUser(t *testing.T) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return domain.User{ID: 1, Username: "tester", Email: "tester@example.com", PasswordHash: string(hash)}
}

func TestForgot_StoresHashedOTPAndMails(t *testing.T) {
	users := newMemoryUserRepo(testUser(t))
	resets := newMemoryResetRepo()
	mailer := &fakeMailer{}
	svc := New(users, resets, mailer, nil)

	if err := svc.Forgot(context.Background(), "Tester@Example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}

	if mailer.lastTo != "tester@example.com" {
		t.Fatalf("expected mail to tester, got %q", mailer.lastTo)
	}
	if len(mailer.lastOTP) != 6 {
		t.Fatalf("expected 6 digit otp, got %q", mailer.lastOTP)
	}

	rec := resets.byEmail["tester@example.com"]
	if rec.OTPHash == mailer.lastOTP || rec.OTPHash == "" {
		t.Fatal("otp must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.OTPHash), []byte(mailer.lastOTP)); err != nil {
		t.Fatalf("stored hash does not match mailed otp: %v", err)
	}
}

func TestForgot_UnknownEmail(t *testing.T) {
	svc := New(newMemoryUserRepo(), newMemoryResetRepo(), &fakeMailer{}, nil)

	if err := svc.Forgot(context.Background(), "nobody@example.com"); err != ErrUnknownEmail {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
}

func TestVerifyOTP_FullResetFlow(t *testing.T) {
	users := newMemoryUserRepo(testUser(t))
	resets := newMemoryResetRepo()
	mailer := &fakeMailer{}
	svc := New(users, resets, mailer, nil)
	ctx := context.Background()

	if err := svc.Forgot(ctx, "tester@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}

	token, err := svc.VerifyOTP(ctx, "tester@example.com", mailer.lastOTP)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if token == "" {
		t.Fatal("expected reset token")
	}

	if err := svc.Reset(ctx, "tester@example.com", token, "newpass1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	u, _ := users.GetByID(ctx, 1)
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass1")); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
	if _, ok := resets.byEmail["tester@example.com"]; ok {
		t.Fatal("reset request must be deleted after use")
	}
}

func TestVerifyOTP_WrongCodeCountsAttempts(t *testing.T) {
	users := newMemoryUserRepo(testUser(t))
	resets := newMemoryResetRepo()
	mailer := &fakeMailer{}
	svc := New(users, resets, mailer, nil)
	ctx := context.Background()

	if err := svc.Forgot(ctx, "tester@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.VerifyOTP(ctx, "tester@example.com", "000000"); err != ErrInvalidOTP {
			t.Fatalf("attempt %d: expected ErrInvalidOTP, got %v", i+1, err)
		}
	}

	// Fourth try is rejected outright and the request is discarded.
	if _, err := svc.VerifyOTP(ctx, "tester@example.com", mailer.lastOTP); err != ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, "tester@example.com", mailer.lastOTP); err != ErrNoResetRequest {
		t.Fatalf("expected ErrNoResetRequest after discard, got %v", err)
	}
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	users := newMemoryUserRepo(testUser(t))
	resets := newMemoryResetRepo()
	mailer := &fakeMailer{}
	svc := New(users, resets, mailer, nil)
	ctx := context.Background()

	if err := svc.Forgot(ctx, "tester@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}

	rec := resets.byEmail["tester@example.com"]
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	resets.byEmail["tester@example.com"] = rec

	if _, err := svc.VerifyOTP(ctx, "tester@example.com", mailer.lastOTP); err != ErrOTPExpired {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
	if _, ok := resets.byEmail["tester@example.com"]; ok {
		t.Fatal("expired request must be deleted")
	}
}

func TestVerifyOTP_NoPendingRequest(t *testing.T) {
	svc := New(newMemoryUserRepo(testUser(t)), newMemoryResetRepo(), &fakeMailer{}, nil)

	if _, err := svc.VerifyOTP(context.Background(), "tester@example.com", "123456"); err != ErrNoResetRequest {
		t.Fatalf("expected ErrNoResetRequest, got %v", err)
	}
}

func TestReset_RejectsBadToken(t *testing.T) {
	users := newMemoryUserRepo(testUser(t))
	resets := newMemoryResetRepo()
	mailer := &fakeMailer{}
	svc := New(users, resets, mailer, nil)
	ctx := context.Background()

	if err := svc.Forgot(ctx, "tester@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, "tester@example.com", mailer.lastOTP); err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := svc.Reset(ctx, "tester@example.com", "wrong-token", "newpass1"); err != ErrInvalidResetToken {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
}

func TestReset_RejectsExpiredToken(t *testing.T) {
	users := newMemoryUserRepo(testUser(t))
	resets := newMemoryResetRepo()
	mailer := &fakeMailer{}
	svc := New(users, resets, mailer, nil)
	ctx := context.Background()

	if err := svc.Forgot(ctx, "tester@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	token, err := svc.VerifyOTP(ctx, "tester@example.com", mailer.lastOTP)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	rec := resets.byEmail["tester@example.com"]
	past := time.Now().Add(-time.Minute)
	rec.TokenExpiresAt = &past
	resets.byEmail["tester@example.com"] = rec

	if err := svc.Reset(ctx, "tester@example.com", token, "newpass1"); err != ErrInvalidResetToken {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
}

func TestReset_RejectsShortPassword(t *testing.T) {
	svc := New(newMemoryUserRepo(testUser(t)), newMemoryResetRepo(), &fakeMailer{}, nil)

	if err := svc.Reset(context.Background(), "tester@example.com", "tok", "abc"); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestChange_ChecksOldPassword(t *testing.T) {
	users := newMemoryUserRepo(testUser(t))
	svc := New(users, newMemoryResetRepo(), &fakeMailer{}, nil)
	ctx := context.Background()

	if err := svc.Change(ctx, 1, "wrongpass", "newpass1"); err != ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	if err := svc.Change(ctx, 1, "oldpass", "newpass1"); err != nil {
		t.Fatalf("change: %v", err)
	}
	u, _ := users.GetByID(ctx, 1)
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass1")); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
}

func TestGenerateOTP_SixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		for _, r := range otp {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in otp %q", otp)
			}
		}
	}
}
