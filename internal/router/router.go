package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/waste-pickup/internal/handler"
	"github.com/iliyamo/waste-pickup/internal/logger"
	"github.com/iliyamo/waste-pickup/internal/middleware"
)

// Deps is everything the route tables need.  Cache and RateLimit may be
// no-op middleware when Redis is not configured.
type Deps struct {
	Auth     *handler.AuthHandler
	Bookings *handler.BookingHandler
	Contact  *handler.ContactHandler
	Pricing  *handler.PricingHandler

	Tokens    middleware.TokenVerifier
	RateLimit echo.MiddlewareFunc
	Cache     *middleware.ResponseCache

	UploadDir   string
	BodyLimit   string
	CORSOrigins []string
	Log         *logger.Logger
}

// New builds the echo instance with the global middleware stack and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	if len(d.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: d.CORSOrigins}))
	}

	RegisterRoutes(e)
	RegisterAPI(e, d)
	return e
}

// RegisterRoutes registers the operational endpoints that sit outside /api.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAPI mounts /api and /uploads.
func RegisterAPI(e *echo.Echo, d Deps) {
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	limit := d.BodyLimit
	if limit == "" {
		limit = "6M"
	}
	rate := d.RateLimit
	if rate == nil {
		rate = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	api := e.Group("/api", echomw.BodyLimit(limit), rate)

	registerUser(api, d)
	registerAdmin(api, d)

	api.POST("/bookings", d.Bookings.Create, middleware.OptionalAuth(d.Tokens))
	api.POST("/contact", d.Contact.Submit)
	api.GET("/pricing", d.Pricing.List, d.Cache.Middleware())
}
