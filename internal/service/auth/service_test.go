package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/veytrix/busgo/internal/domain"
	"github.com/veytrix/busgo/internal/repository"
)

type fakeDirectory struct {
	admins map[string]*domain.Admin
	logs   []domain.AdminLog
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	a, ok := f.admins[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeDirectory) InsertLog(ctx context.Context, l *domain.AdminLog) error {
	f.logs = append(f.logs, *l)
	return nil
}

func seedAdmin(t *testing.T, f *fakeDirectory, email, password string) *domain.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	a := &domain.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Ops Admin",
		Role:         "admin",
	}
	f.admins[email] = a
	return a
}

func TestLoginAndVerify(t *testing.T) {
	f := &fakeDirectory{admins: make(map[string]*domain.Admin)}
	admin := seedAdmin(t, f, "ops@example.com", "s3cret")
	svc := newService(f, Config{Secret: []byte("test-secret")})

	token, got, err := svc.Login(context.Background(), "ops@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != admin.ID {
		t.Fatalf("admin id mismatch")
	}
	if len(f.logs) != 1 || f.logs[0].Action != "login" {
		t.Fatalf("login not logged: %+v", f.logs)
	}

	sess, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sess.AdminID != admin.ID || sess.Email != "ops@example.com" || sess.Role != "admin" {
		t.Fatalf("session = %+v", sess)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	f := &fakeDirectory{admins: make(map[string]*domain.Admin)}
	seedAdmin(t, f, "ops@example.com", "s3cret")
	svc := newService(f, Config{Secret: []byte("test-secret")})

	if _, _, err := svc.Login(context.Background(), "ops@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
}

func TestVerifyRejectsGarbageAndWrongKey(t *testing.T) {
	f := &fakeDirectory{admins: make(map[string]*domain.Admin)}
	seedAdmin(t, f, "ops@example.com", "s3cret")

	issuer := newService(f, Config{Secret: []byte("key-one")})
	verifier := newService(f, Config{Secret: []byte("key-two")})

	token, _, err := issuer.Login(context.Background(), "ops@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong key: got %v", err)
	}

	if _, err := issuer.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	f := &fakeDirectory{admins: make(map[string]*domain.Admin)}
	seedAdmin(t, f, "ops@example.com", "s3cret")
	svc := newService(f, Config{Secret: []byte("test-secret"), TokenTTL: -time.Minute})

	token, _, err := svc.Login(context.Background(), "ops@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
