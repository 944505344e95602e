package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service"
)

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("creates a member account with a token", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := doRequest(t, env.authHandler.Register, http.MethodPost, "/api/auth/register",
			nil, map[string]any{
				"name":     "Ana Lima",
				"email":    "ana@example.com",
				"password": "secret-password",
			}, nil)

		require.Equal(t, http.StatusCreated, recorder.Code)
		var auth AuthResponse
		decodeData(t, recorder, &auth)
		require.NotNil(t, auth.User)
		assert.Equal(t, "Ana Lima", auth.User.Name)
		assert.Equal(t, "ana@example.com", auth.User.Email)
		assert.Equal(t, domain.RoleMember, auth.User.Role)
		assert.Equal(t, "test-token", auth.Token)

		// The hash must never leave the server.
		assert.NotContains(t, recorder.Body.String(), "hashed:")
		assert.NotContains(t, recorder.Body.String(), "secret-password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustUser(t, "ana@example.com", domain.RoleMember)

		recorder := doRequest(t, env.authHandler.Register, http.MethodPost, "/api/auth/register",
			nil, map[string]any{
				"name":     "Ana Lima",
				"email":    "ana@example.com",
				"password": "secret-password",
			}, nil)

		require.Equal(t, http.StatusConflict, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, string(service.CodeUserExists), body.Code)
	})

	t.Run("short password yields field details", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := doRequest(t, env.authHandler.Register, http.MethodPost, "/api/auth/register",
			nil, map[string]any{
				"name":     "Ana Lima",
				"email":    "ana@example.com",
				"password": "short",
			}, nil)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		body := decodeError(t, recorder)
		assert.Equal(t, string(service.CodeValidation), body.Code)
		assert.Contains(t, body.Details, "password")
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustUser(t, "ana@example.com", domain.RoleMember)

		recorder := doRequest(t, env.authHandler.Login, http.MethodPost, "/api/auth/login",
			nil, map[string]any{
				"email":    "ana@example.com",
				"password": "secret123",
			}, nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var auth AuthResponse
		decodeData(t, recorder, &auth)
		assert.Equal(t, "test-token", auth.Token)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustUser(t, "ana@example.com", domain.RoleMember)

		wrongPassword := doRequest(t, env.authHandler.Login, http.MethodPost, "/api/auth/login",
			nil, map[string]any{"email": "ana@example.com", "password": "wrong"}, nil)
		unknownUser := doRequest(t, env.authHandler.Login, http.MethodPost, "/api/auth/login",
			nil, map[string]any{"email": "ghost@example.com", "password": "whatever"}, nil)

		require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
		assert.Equal(t, decodeError(t, wrongPassword), decodeError(t, unknownUser))
		assert.Equal(t, string(service.CodeInvalidCredentials), decodeError(t, wrongPassword).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := doRequest(t, env.authHandler.Login, http.MethodPost, "/api/auth/login",
			nil, "[]", nil)

		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestAuthHandlerMe(t *testing.T) {
	t.Run("returns the caller's profile", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.mustUser(t, "ana@example.com", domain.RoleMember)

		recorder := doRequest(t, env.authHandler.Me, http.MethodGet, "/api/auth/me",
			callerFor(user), nil, nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		var profile domain.User
		decodeData(t, recorder, &profile)
		assert.Equal(t, user.ID, profile.ID)
		assert.Equal(t, user.Email, profile.Email)
	})

	t.Run("without a caller", func(t *testing.T) {
		env := newTestEnv(t)

		recorder := doRequest(t, env.authHandler.Me, http.MethodGet, "/api/auth/me",
			nil, nil, nil)

		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
