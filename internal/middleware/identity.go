package middleware

// identity.go holds the context keys written by the auth middleware and the
// accessors handlers use to read them back.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/apperror"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated subject id, if any.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the authenticated role, or "" for anonymous requests.
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// subjectKey identifies the caller for rate limiting.  It uses the identity
// already on the context, or else verifies the bearer token with tokens.
func subjectKey(c echo.Context, tokens TokenVerifier) (string, bool) {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10), true
	}
	if tokens == nil {
		return "", false
	}
	raw, ok := bearerToken(c)
	if !ok {
		return "", false
	}
	claims, err := tokens.Verify(raw)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(claims.SubjectID, 10), true
}

// deny writes the JSON error body used across the API.
func deny(c echo.Context, e *apperror.AppError) error {
	return c.JSON(e.HTTPStatus, echo.Map{"error": e.Message, "code": e.Code})
}
