package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/repcrafter/gateway/internal/api/http/handlers"
	"github.com/repcrafter/gateway/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Session           *handlers.SessionHandler
	Checkout          *handlers.CheckoutHandler
	Chat              *handlers.ChatHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api", cfg.SessionMiddleware.Load)
	api.Post("/auth/google-verify", cfg.Session.GoogleVerify)
	api.Get("/me", cfg.Session.Me)
	api.Post("/logout", cfg.Session.Logout)
	api.Post("/checkout", cfg.Checkout.Create)
	api.Options("/chat", cfg.Chat.Preflight)
	api.Post("/chat", cfg.Chat.Send)
}
