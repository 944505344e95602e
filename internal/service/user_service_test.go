package service

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/mocks"
)

func TestUserServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates name and role", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := NewUserService(userStore, slog.Default())
		user := mustUser(t, userStore, "ana@example.com", domain.RoleMember)

		name := "Ana Lima"
		role := domain.RoleAdmin
		updated, err := svc.Update(ctx, user.ID, UserPatch{Name: &name, Role: &role})
		require.NoError(t, err)
		assert.Equal(t, "Ana Lima", updated.Name)
		assert.Equal(t, domain.RoleAdmin, updated.Role)
	})

	t.Run("empty patch is a validation error", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := NewUserService(userStore, slog.Default())
		user := mustUser(t, userStore, "ana@example.com", domain.RoleMember)

		_, err := svc.Update(ctx, user.ID, UserPatch{})
		assertAppError(t, err, http.StatusUnprocessableEntity, CodeValidation)
	})

	t.Run("invalid role is a validation error", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := NewUserService(userStore, slog.Default())
		user := mustUser(t, userStore, "ana@example.com", domain.RoleMember)

		role := domain.Role("superuser")
		_, err := svc.Update(ctx, user.ID, UserPatch{Role: &role})
		assertAppError(t, err, http.StatusUnprocessableEntity, CodeValidation)
	})

	t.Run("unknown user", func(t *testing.T) {
		userStore := mocks.NewMockUserStore()
		svc := NewUserService(userStore, slog.Default())

		name := "Ana Lima"
		_, err := svc.Update(ctx, uuid.New(), UserPatch{Name: &name})
		assertAppError(t, err, http.StatusNotFound, CodeNotFound)
	})
}

func TestUserServiceDelete(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	svc := NewUserService(userStore, slog.Default())
	user := mustUser(t, userStore, "ana@example.com", domain.RoleMember)

	require.NoError(t, svc.Delete(ctx, user.ID))

	err := svc.Delete(ctx, user.ID)
	assertAppError(t, err, http.StatusNotFound, CodeNotFound)
}

func TestUserServiceGetProfile(t *testing.T) {
	ctx := context.Background()
	userStore := mocks.NewMockUserStore()
	svc := NewUserService(userStore, slog.Default())
	user := mustUser(t, userStore, "ana@example.com", domain.RoleMember)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)

	_, err = svc.GetProfile(ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound, CodeNotFound)
}
