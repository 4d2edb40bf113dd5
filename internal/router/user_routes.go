package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/middleware"
	"github.com/iliyamo/waste-pickup/internal/model"
)

// registerUser registers account endpoints under /api/users.  Register and
// login are public; the rest require a token.
func registerUser(api *echo.Group, d Deps) {
	g := api.Group("/users")
	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login)

	auth := middleware.JWTAuth(d.Tokens)
	g.GET("/me", d.Auth.Me, auth, middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	g.GET("/me/bookings", d.Bookings.Mine, auth, middleware.RequireRole(model.RoleUser))
}
