package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/platform/postgres"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

// application holds the shared application dependencies so wiring and
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	teamStore store.TeamStore
	taskStore store.TaskStore

	jwtService auth.JWTService
	hasher     auth.PasswordHasher

	authService *service.AuthService
	userService *service.UserService
	teamService *service.TeamService
	taskService *service.TaskService
}

// newApplication creates an application instance with all dependencies
// initialized. Configuration, logger and database must already be
// established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db)
	app.teamStore = postgres.NewPostgresTeamStore(db)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	app.authService = service.NewAuthService(app.userStore, app.hasher, app.jwtService, logger)
	app.userService = service.NewUserService(app.userStore, logger)
	app.teamService = service.NewTeamService(app.teamStore, app.userStore, app.taskStore, logger)
	app.taskService = service.NewTaskService(app.taskStore, app.teamStore, app.userStore, store.NewTxRunner(db), logger)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
