package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/logger"
	"github.com/iliyamo/waste-pickup/internal/service"
)

type ContactHandler struct {
	Inbox *service.Inbox
	Log   *logger.Logger
}

func NewContactHandler(inbox *service.Inbox, log *logger.Logger) *ContactHandler {
	return &ContactHandler{Inbox: inbox, Log: log}
}

// Submit: POST /api/contact
func (h *ContactHandler) Submit(c echo.Context) error {
	var req service.ContactRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, invalidBody())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := h.Inbox.Submit(ctx, req)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"messageId": id})
}

// List: GET /api/contact (admin)
func (h *ContactHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	msgs, err := h.Inbox.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}
