package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/utils"
)

// TokenVerifier checks a raw session token.  *utils.SessionIssuer satisfies it.
type TokenVerifier interface {
	Verify(raw string) (utils.Claims, error)
}

// JWTAuth validates the Bearer token and stores the subject id and role on
// the context (see UserID and Role).  A missing, malformed or expired token
// yields 401.
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return deny(c, apperror.Unauthorized("missing bearer token"))
			}
			claims, err := v.Verify(raw)
			if err != nil {
				return deny(c, apperror.Unauthorized("invalid or expired token"))
			}
			c.Set(ctxUserID, claims.SubjectID)
			c.Set(ctxRole, claims.Role)
			return next(c)
		}
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// every request through.  A bad token is treated as no token.
func OptionalAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if claims, err := v.Verify(raw); err == nil {
					c.Set(ctxUserID, claims.SubjectID)
					c.Set(ctxRole, claims.Role)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(auth[len(prefix):])
	return raw, raw != ""
}
