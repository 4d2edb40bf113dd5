package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/model"
)

// RequireRole enforces that the authenticated role is one of roles.  It must
// run after JWTAuth; a missing role is reported as 403 like any other.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Role(c)] {
				return deny(c, apperror.Forbidden("insufficient role"))
			}
			return next(c)
		}
	}
}

// AdminOnly chains JWTAuth and RequireRole(admin).
func AdminOnly(v TokenVerifier) echo.MiddlewareFunc {
	auth, role := JWTAuth(v), RequireRole(model.RoleAdmin)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return auth(role(next))
	}
}
