package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vacq/booking-service/internal/api/http/handlers"
	"github.com/vacq/booking-service/internal/auth"
	"github.com/vacq/booking-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Hospitals *handlers.HospitalsHandler
	Guard     *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Guards are attached per route; a fiber
// group middleware would also run for sibling routes sharing the prefix.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authenticated := cfg.Guard.RequireAuthenticated()
	adminOnly := auth.RequireRole(domain.RoleAdmin)

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", authenticated, cfg.Auth.Me)
	authGroup.Put("/updatepassword", authenticated, cfg.Auth.UpdatePassword)
	authGroup.Post("/forgotpassword", cfg.Auth.ForgotPassword)
	authGroup.Put("/resetpassword/:resettoken", cfg.Auth.ResetPassword)

	hospitals := v1.Group("/hospitals")
	hospitals.Get("/", cfg.Hospitals.List)
	hospitals.Get("/vacCenters", cfg.Hospitals.VacCenters)
	hospitals.Get("/:id", cfg.Hospitals.Get)
	hospitals.Post("/", authenticated, adminOnly, cfg.Hospitals.Create)
	hospitals.Put("/:id", authenticated, adminOnly, cfg.Hospitals.Update)
	hospitals.Delete("/:id", authenticated, adminOnly, cfg.Hospitals.Delete)
}
