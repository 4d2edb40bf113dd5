package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/logger"
	"github.com/iliyamo/waste-pickup/internal/middleware"
)

// dbTimeout bounds the persistence work of a single request.
const dbTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// respondError writes err as {"error", "code", "details"}.  Unexpected
// failures are logged with their cause and reported with a generic message.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	ae := apperror.As(err)
	if ae.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"code", ae.Code,
			"error", err,
		)
	}
	body := echo.Map{"error": ae.Message, "code": ae.Code}
	if len(ae.Details) > 0 {
		body["details"] = ae.Details
	}
	return c.JSON(ae.HTTPStatus, body)
}

func invalidBody() error {
	return apperror.Validation("invalid request body", nil)
}

// getUserID returns the authenticated subject id.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperror.Unauthorized("authentication required")
	}
	return id, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.FieldError("id", "must be a positive integer")
	}
	return id, nil
}
