// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"mentorpay/internal/handlers"
	"mentorpay/internal/middleware"
	"mentorpay/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles the HTTP handlers mounted by SetupRoutes.
type Handlers struct {
	Accounts *handlers.AccountHandler
	Products *handlers.ProductHandler
	Checkout *handlers.CheckoutHandler
	Webhooks *handlers.WebhookHandler
	Admin    *handlers.AdminHandler
	Health   *handlers.HealthHandler
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, h Handlers, auth *middleware.AuthMiddleware) {
	app.Get("/health", h.Health.HealthCheck)

	api := app.Group("/api")
	api.Get("/health", h.Health.HealthCheck)

	// Public routes
	api.Get("/products", h.Products.ListProducts)
	api.Post("/checkout", auth.Optional, h.Checkout.CreateSession)
	api.Post("/webhooks/payment-events", h.Webhooks.PaymentEvents)

	// Recipient account routes
	accounts := api.Group("/accounts", auth.Handler)
	accounts.Post("/", h.Accounts.CreateAccount)
	accounts.Post("/link", h.Accounts.CreateLink)
	accounts.Get("/status", h.Accounts.GetStatus)
	accounts.Post("/status/refresh", h.Accounts.RefreshStatus)

	api.Post("/products", auth.Handler, h.Products.CreateProduct)

	admin := api.Group("/admin", auth.Handler, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/payment-events", h.Admin.ListPaymentEvents)
}
