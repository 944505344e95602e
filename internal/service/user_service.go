package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// UserService provides admin-only user management plus the authenticated
// "who am I" read. Role gating for the admin operations happens at the
// routing layer; this service assumes it already passed.
type UserService struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userStore store.UserStore, logger *slog.Logger) *UserService {
	return &UserService{
		userStore: userStore,
		logger:    logger.With("component", "user_service"),
	}
}

// UserPatch carries the recognized fields of a user update.
// nil fields are left unchanged.
type UserPatch struct {
	Name *string
	Role *domain.Role
}

// GetProfile retrieves the calling user's own profile.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.getUser(ctx, userID)
}

// List retrieves all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.getUser(ctx, userID)
}

// Update applies a partial update of name and/or role.
// An empty patch is a validation error.
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, patch UserPatch) (*domain.User, error) {
	if patch.Name == nil && patch.Role == nil {
		return nil, Validation("At least one field must be provided.")
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, Validation("Invalid role.")
		}
		user.Role = *patch.Role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userStore.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, NotFound("User not found.")
		}
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated", "user_id", userID)
	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.userStore.Delete(ctx, userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return NotFound("User not found.")
		}
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

func (s *UserService) getUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, NotFound("User not found.")
		}
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
