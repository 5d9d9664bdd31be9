package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/reconova/reconova/internal/auth"
	"github.com/reconova/reconova/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *auth.Service {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	return auth.NewService(db, jwtService)
}

func TestService_Register(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	t.Run("creates member user with token", func(t *testing.T) {
		resp, err := service.Register(ctx, auth.RegisterInput{
			Email:    "new@example.com",
			Password: "password123",
			Name:     "New User",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "member", resp.User.Role)
		assert.True(t, resp.User.IsActive)
		assert.False(t, resp.User.IsPlanActive)
		assert.NotEqual(t, "password123", resp.User.PasswordHash)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := service.Register(ctx, auth.RegisterInput{
			Email:    "new@example.com",
			Password: "password123",
			Name:     "Dup",
		})
		assert.ErrorIs(t, err, auth.ErrUserExists)
	})
}

func TestService_Login(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, auth.RegisterInput{
		Email:    "login@example.com",
		Password: "password123",
		Name:     "Login User",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := service.Login(ctx, auth.LoginInput{
			Email:    "login@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "login@example.com", resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, auth.LoginInput{
			Email:    "login@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(ctx, auth.LoginInput{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
