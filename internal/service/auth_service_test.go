package service

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/mocks"
)

func newAuthService(userStore *mocks.MockUserStore) *AuthService {
	return NewAuthService(
		userStore,
		&mocks.MockPasswordHasher{},
		&mocks.MockJWTService{Token: "test-token"},
		slog.Default(),
	)
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates member account and returns token", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := newAuthService(userStore)

		user, token, err := svc.Register(ctx, "Ana Souza", "ana@example.com", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, "test-token", token)
		assert.Equal(t, domain.RoleMember, user.Role)
		assert.Equal(t, "hashed:secret-password", user.HashedPassword)

		stored, err := userStore.GetByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("duplicate email yields USER_EXISTS conflict", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := newAuthService(userStore)

		_, _, err := svc.Register(ctx, "Ana Souza", "ana@example.com", "secret-password")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "Another Ana", "ana@example.com", "other-password")
		assertAppError(t, err, http.StatusConflict, CodeUserExists)
	})

	t.Run("invalid email is a validation error", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := newAuthService(userStore)

		_, _, err := svc.Register(ctx, "Ana Souza", "not-an-email", "secret-password")
		assertAppError(t, err, http.StatusUnprocessableEntity, CodeValidation)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := newAuthService(userStore)

		registered, _, err := svc.Register(ctx, "Ana Souza", "ana@example.com", "secret-password")
		require.NoError(t, err)

		user, token, err := svc.Login(ctx, "ana@example.com", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, "test-token", token)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := newAuthService(userStore)

		_, _, err := svc.Register(ctx, "Ana Souza", "ana@example.com", "secret-password")
		require.NoError(t, err)

		_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "secret-password")
		assertAppError(t, unknownErr, http.StatusUnauthorized, CodeInvalidCredentials)

		_, _, wrongErr := svc.Login(ctx, "ana@example.com", "wrong-password")
		assertAppError(t, wrongErr, http.StatusUnauthorized, CodeInvalidCredentials)

		unknownApp, _ := AsAppError(unknownErr)
		wrongApp, _ := AsAppError(wrongErr)
		assert.Equal(t, unknownApp.Message, wrongApp.Message)
	})
}
