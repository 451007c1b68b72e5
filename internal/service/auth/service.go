// Package auth replaces the old local-storage token check with a signed
// session token and a single guard: handlers get a typed Session from
// the request context or a 401, never an ad hoc token read.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/veytrix/busgo/internal/domain"
	"github.com/veytrix/busgo/internal/repository"
	postgresrepo "github.com/veytrix/busgo/internal/repository/postgres"
)

// Session is the authenticated admin identity carried through a request.
type Session struct {
	AdminID uuid.UUID
	Email   string
	Role    string
}

// Directory is the slice of the store the auth flow needs.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	InsertLog(ctx context.Context, l *domain.AdminLog) error
}

type pgDirectory struct {
	store *postgresrepo.Store
}

func (d pgDirectory) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return d.store.Admins().GetByEmail(ctx, email)
}

func (d pgDirectory) InsertLog(ctx context.Context, l *domain.AdminLog) error {
	return d.store.Admins().InsertLog(ctx, l)
}

type Config struct {
	Secret   []byte
	TokenTTL time.Duration
}

type Service struct {
	dir Directory
	cfg Config
}

func New(store *postgresrepo.Store, cfg Config) *Service {
	return newService(pgDirectory{store: store}, cfg)
}

func newService(dir Directory, cfg Config) *Service {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 12 * time.Hour
	}

	return &Service{dir: dir, cfg: cfg}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login checks the password and issues a signed session token. A login
// entry is appended to the admin log; failure to log does not fail the
// login.
//
// Returns auth.ErrInvalidCredentials for an unknown email or a wrong
// password; the two cases are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	const op = "service.auth.Login"

	admin, err := s.dir.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
		Email: admin.Email,
		Role:  admin.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	_ = s.dir.InsertLog(ctx, &domain.AdminLog{
		AdminID:  admin.ID,
		Action:   "login",
		Entity:   "admin",
		EntityID: admin.ID.String(),
	})

	return token, admin, nil
}

// Verify parses and validates a session token.
//
// Returns auth.ErrTokenExpired for an expired token and
// auth.ErrInvalidToken for anything else that does not check out.
func (s *Service) Verify(tokenString string) (Session, error) {
	const op = "service.auth.Verify"

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) { return s.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return Session{
		AdminID: adminID,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}
