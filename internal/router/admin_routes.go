package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/middleware"
)

// registerAdmin registers the admin login and every admin-only endpoint.
// Each protected route carries AdminOnly itself so public routes on the
// same paths (POST /api/bookings, GET /api/pricing) stay open.
func registerAdmin(api *echo.Group, d Deps) {
	api.POST("/admin/login", d.Auth.AdminLogin)

	admin := middleware.AdminOnly(d.Tokens)

	// ---- Bookings ----
	api.GET("/bookings", d.Bookings.List, admin)
	api.GET("/bookings/export", d.Bookings.Export, admin)
	api.GET("/bookings/:id", d.Bookings.Get, admin)
	api.PUT("/bookings/:id/status", d.Bookings.UpdateStatus, admin)

	// ---- Inbox ----
	api.GET("/contact", d.Contact.List, admin)

	// ---- Pricing ----
	api.POST("/pricing", d.Pricing.Create, admin)
	api.PUT("/pricing/:id", d.Pricing.Update, admin)
	api.DELETE("/pricing/:id", d.Pricing.Delete, admin)
}
