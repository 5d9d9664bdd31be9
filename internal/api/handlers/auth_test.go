package handlers_test

import (
	"net/http"
	"testing"

	"github.com/reconova/reconova/internal/api/dto"
	"github.com/reconova/reconova/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthEndpoints(t *testing.T) {
	env := setupAPI(t, false)

	register := dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
		Name:     "Alice",
	}

	t.Run("register", func(t *testing.T) {
		rr := env.do(t, testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", register))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp dto.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.Equal(t, "member", resp.User.Role)
	})

	t.Run("register duplicate", func(t *testing.T) {
		rr := env.do(t, testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", register))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("register short password", func(t *testing.T) {
		bad := register
		bad.Email = "bob@example.com"
		bad.Password = "short"
		rr := env.do(t, testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", bad))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("login", func(t *testing.T) {
		rr := env.do(t, testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", dto.LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		}))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)

		// Token works against a protected endpoint
		me := env.do(t, testutil.AuthenticatedRequest(t, "GET", "/api/v1/me", nil, resp.Token))
		assert.Equal(t, http.StatusOK, me.Code)
	})

	t.Run("login wrong password", func(t *testing.T) {
		rr := env.do(t, testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", dto.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrongpassword",
		}))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("protected endpoint without token", func(t *testing.T) {
		rr := env.do(t, testutil.UnauthenticatedRequest(t, "GET", "/api/v1/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
