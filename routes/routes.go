package routes

import (
	"stocklens/handlers"
	"stocklens/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, api *handlers.API) {
	v1 := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := v1.Group("/auth")
	auth.Post("/login", api.HandleLogin)

	// --- Read Routes (any authenticated session) ---
	v1.Get("/dashboard", middleware.JWTMiddleware, api.HandleDashboard)
	v1.Post("/periods/switch", middleware.JWTMiddleware, api.HandleSwitchPeriod)
	v1.Get("/brands/:brand", middleware.JWTMiddleware, api.HandleBrandDetail)
	v1.Get("/products", middleware.JWTMiddleware, api.HandleProducts)
	v1.Post("/insights", middleware.JWTMiddleware, api.HandleInsights)

	// --- Admin Routes ---
	admin := v1.Group("/admin", middleware.JWTMiddleware, middleware.AdminRequired)
	admin.Post("/upload", api.HandleUpload)
	admin.Post("/sync-storage", api.HandleSyncStorage)
	admin.Post("/fetch-ga4", api.HandleFetchGA4)
	admin.Get("/passwords", api.HandleListPasswordTargets)
	admin.Put("/passwords", api.HandleUpdatePassword)

	// --- Scheduler Routes (shared secret, no JWT) ---
	internal := v1.Group("/internal")
	internal.Post("/scheduled-update", api.HandleScheduledUpdate)
}
