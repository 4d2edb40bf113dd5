package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/waste-pickup/internal/logger"
	"github.com/iliyamo/waste-pickup/internal/service"
)

// CacheInvalidator drops cached catalog responses after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type PricingHandler struct {
	Catalog *service.CatalogManager
	Cache   CacheInvalidator
	Log     *logger.Logger
}

func NewPricingHandler(catalog *service.CatalogManager, cache CacheInvalidator, log *logger.Logger) *PricingHandler {
	return &PricingHandler{Catalog: catalog, Cache: cache, Log: log}
}

// List: GET /api/pricing
func (h *PricingHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.Catalog.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create: POST /api/pricing
func (h *PricingHandler) Create(c echo.Context) error {
	var req service.PricingRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, invalidBody())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	it, err := h.Catalog.Create(ctx, req)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusCreated, echo.Map{"item": it})
}

// Update: PUT /api/pricing/:id
func (h *PricingHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	var req service.PricingUpdate
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.Log, invalidBody())
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	it, err := h.Catalog.Update(ctx, id, req)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusOK, echo.Map{"item": it})
}

// Delete: DELETE /api/pricing/:id
func (h *PricingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Catalog.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusOK, echo.Map{"id": id, "deleted": true})
}

func (h *PricingHandler) invalidate(ctx context.Context) {
	if h.Cache != nil {
		h.Cache.Invalidate(ctx)
	}
}
