package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// seedAdminUser creates the initial admin account from configuration.
// It is a no-op when the seed credentials are unset or the account
// already exists, so restarts are safe.
func (app *application) seedAdminUser(ctx context.Context) error {
	email := app.config.Auth.SeedAdminEmail
	password := app.config.Auth.SeedAdminPassword
	if email == "" || password == "" {
		app.logger.Debug("seed admin credentials not configured, skipping")
		return nil
	}

	_, err := app.userStore.GetByEmail(ctx, email)
	if err == nil {
		app.logger.Debug("seed admin already exists", "email", email)
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to look up seed admin: %w", err)
	}

	hashed, err := app.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin, err := domain.NewUser("Administrator", email, hashed)
	if err != nil {
		return fmt.Errorf("invalid seed admin user: %w", err)
	}
	admin.Role = domain.RoleAdmin

	if err := app.userStore.Create(ctx, admin); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil
		}
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	app.logger.Info("seed admin created", "email", email)
	return nil
}
