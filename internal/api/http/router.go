package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/benefits-service/internal/api/http/handlers"
	"github.com/spec-kit/benefits-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Cases          *handlers.CasesHandler
	AdminCases     *handlers.AdminCasesHandler
	AdminUsers     *handlers.AdminUsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	app.Get("/benefits", cfg.Cases.ListBenefits)

	authenticated := cfg.AuthMiddleware.Handle
	app.Get("/me", authenticated, auth.RequireAuthenticated(), cfg.Users.Me)

	cases := app.Group("/cases", authenticated, auth.RequireAuthenticated())
	cases.Post("/", cfg.Cases.CreateCase)
	cases.Get("/", cfg.Cases.ListCases)
	cases.Get("/:id", cfg.Cases.GetCase)
	cases.Get("/:id/renewal-reminder", cfg.Cases.RenewalReminder)

	admin := app.Group("/admin", authenticated, auth.RequireAdmin())
	admin.Get("/cases", cfg.AdminCases.ListCases)
	admin.Get("/cases/:id", cfg.AdminCases.GetCase)
	admin.Patch("/cases/:id", cfg.AdminCases.SetStatus)
	admin.Patch("/cases/:id/confirm-completed", cfg.AdminCases.ConfirmCompleted)
	admin.Patch("/cases/:id/processing", cfg.AdminCases.UpdateProcessing)
	admin.Patch("/cases/:id/renewed", cfg.AdminCases.MarkRenewed)
	admin.Delete("/cases/:id", cfg.AdminCases.DeleteCase)
	admin.Get("/cases/:id/history", cfg.AdminCases.ListHistory)
	admin.Get("/users", cfg.AdminUsers.ListUsers)
	admin.Patch("/users/:id/demote", cfg.AdminUsers.Demote)
}
