package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskboard/taskboard-api/internal/api"
	apiMiddleware "github.com/taskboard/taskboard-api/internal/api/middleware"
)

// setupRouter wires all routes and middleware. Admin-only routes sit
// behind RequireAdmin; everything else under /api (except auth) behind
// Authenticate.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	authHandler := api.NewAuthHandler(app.authService, app.userService)
	userHandler := api.NewUserHandler(app.userService)
	teamHandler := api.NewTeamHandler(app.teamService)
	taskHandler := api.NewTaskHandler(app.taskService)
	healthHandler := api.NewHealthHandler(app.db)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	r.Route("/api", func(r chi.Router) {
		// Public authentication endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			// Team reads are membership-scoped in the service
			r.Get("/teams", teamHandler.List)
			r.Get("/teams/{id}", teamHandler.Get)

			// Task lifecycle; per-operation policy lives in the service
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Patch("/tasks/{id}/status", taskHandler.UpdateStatus)
			r.Delete("/tasks/{id}", taskHandler.Delete)
			r.Get("/tasks/{id}/history", taskHandler.History)

			// Admin-only management routes
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)

				r.Get("/users", userHandler.List)
				r.Get("/users/{id}", userHandler.Get)
				r.Put("/users/{id}", userHandler.Update)
				r.Delete("/users/{id}", userHandler.Delete)

				r.Post("/teams", teamHandler.Create)
				r.Put("/teams/{id}", teamHandler.Update)
				r.Delete("/teams/{id}", teamHandler.Delete)
				r.Post("/teams/{id}/members", teamHandler.AddMember)
				r.Delete("/teams/{id}/members/{userId}", teamHandler.RemoveMember)
			})
		})
	})

	r.Get("/health", healthHandler.Check)

	return r
}
