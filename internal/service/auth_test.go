package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	mu   sync.Mutex
	rows map[string]*model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: map[string]*model.User{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = uuid.New().String()
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func TestLogin(t *testing.T) {
	users := newFakeUsers()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &model.User{
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         "admin",
	}))

	svc := NewAuthService(users, "testsecret", time.Hour, testLogger())
	ctx := context.Background()

	_, err = svc.Login(ctx, model.LoginRequest{Email: "admin@example.com"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ghost@example.com", Password: "s3cret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	tokenStr, err := svc.Login(ctx, model.LoginRequest{Email: "Admin@Example.com", Password: "s3cret"})
	require.NoError(t, err, "email lookup is case-insensitive")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		return []byte("testsecret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "admin@example.com", claims["email"])
	require.Equal(t, "admin", claims["role"])
}

func TestEnsureAdmin(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users, "testsecret", time.Hour, testLogger())
	ctx := context.Background()

	// No seed credentials configured: a no-op.
	require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))
	require.Empty(t, users.rows)

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "s3cret", "Admin"))
	require.Len(t, users.rows, 1)

	// Second call must not create a duplicate.
	require.NoError(t, svc.EnsureAdmin(ctx, "other@example.com", "pw", "Other"))
	require.Len(t, users.rows, 1)

	_, err := svc.Login(ctx, model.LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err, "seeded admin can log in")
}
