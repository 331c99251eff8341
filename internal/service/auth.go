package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on a failed login. The message does not
// distinguish unknown email from wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the persistence surface for admin accounts.
// *repository.UserRepository implements it.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, u *model.User) error
}

// AuthService issues admin JWTs.
type AuthService struct {
	users    UserStore
	secret   string
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, secret string, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: tokenTTL, logger: logger}
}

// Login checks credentials and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return "", validationf("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// EnsureAdmin seeds the initial admin account when the users table is empty.
// It is a no-op when users exist or no seed credentials are configured.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u := &model.User{
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Name:         name,
		Role:         "admin",
	}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}
	s.logger.Info("seeded admin account", slog.String("email", u.Email))
	return nil
}
