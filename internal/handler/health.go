package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness probe for load balancers.  It returns plain "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
