package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/model"
	"github.com/iliyamo/waste-pickup/internal/repository"
)

type PricingStore interface {
	List(ctx context.Context) ([]model.PricingItem, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id uint64) (model.PricingItem, error)
	Create(ctx context.Context, it *model.PricingItem) error
	Update(ctx context.Context, id uint64, p model.PricingPatch, updatedAt time.Time) error
	Delete(ctx context.Context, id uint64) error
}

// PricingRequest is the body of a catalog create.
type PricingRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=1000"`
	Price       float64 `json:"price" validate:"gte=0,lte=99999999.99"`
}

// PricingUpdate is the body of a catalog update; absent fields are left
// unchanged.
type PricingUpdate struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string  `json:"description" validate:"omitnil,max=1000"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0,lte=99999999.99"`
}

// roundPrice rounds half up to whole cents, the precision of the price
// column.  It works on the shortest decimal form of p so 6.555 becomes 6.56
// as the database stores it.  p is never negative here.
func roundPrice(p float64) float64 {
	whole, frac, _ := strings.Cut(strconv.FormatFloat(p, 'f', -1, 64), ".")
	if len(frac) <= 2 {
		return p
	}
	cents, err := strconv.ParseInt(whole+frac[:2], 10, 64)
	if err != nil {
		return math.Round(p*100) / 100
	}
	if frac[2] >= '5' {
		cents++
	}
	return float64(cents) / 100
}

// CatalogManager maintains the pricing catalog.
type CatalogManager struct {
	store    PricingStore
	validate *validator.Validate
	now      func() time.Time
}

func NewCatalogManager(store PricingStore) *CatalogManager {
	return &CatalogManager{store: store, validate: NewValidator(time.Now), now: time.Now}
}

// List returns the catalog ordered by name.
func (m *CatalogManager) List(ctx context.Context) ([]model.PricingItem, error) {
	items, err := m.store.List(ctx)
	if err != nil {
		return nil, apperror.Persistence("could not list pricing", err)
	}
	return items, nil
}

func (m *CatalogManager) Create(ctx context.Context, req PricingRequest) (model.PricingItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := validate(m.validate, req); err != nil {
		return model.PricingItem{}, err
	}
	now := m.now().UTC()
	it := model.PricingItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       roundPrice(req.Price),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.store.Create(ctx, &it); err != nil {
		return model.PricingItem{}, apperror.Persistence("could not create pricing item", err)
	}
	return it, nil
}

// Update applies the present fields of req to item id and refreshes its
// updated_at.  It returns the stored item after the update.
func (m *CatalogManager) Update(ctx context.Context, id uint64, req PricingUpdate) (model.PricingItem, error) {
	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		req.Name = &n
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		req.Description = &d
	}
	if err := validate(m.validate, req); err != nil {
		return model.PricingItem{}, err
	}

	if req.Price != nil {
		p := roundPrice(*req.Price)
		req.Price = &p
	}

	patch := model.PricingPatch{Name: req.Name, Description: req.Description, Price: req.Price}
	if err := m.store.Update(ctx, id, patch, m.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PricingItem{}, apperror.NotFound("pricing item")
		}
		return model.PricingItem{}, apperror.Persistence("could not update pricing item", err)
	}
	it, err := m.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.PricingItem{}, apperror.NotFound("pricing item")
		}
		return model.PricingItem{}, apperror.Persistence("could not load pricing item", err)
	}
	return it, nil
}

func (m *CatalogManager) Delete(ctx context.Context, id uint64) error {
	if err := m.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("pricing item")
		}
		return apperror.Persistence("could not delete pricing item", err)
	}
	return nil
}

// SeedIfEmpty inserts items when the catalog has no rows and returns how
// many were inserted.
func (m *CatalogManager) SeedIfEmpty(ctx context.Context, items []PricingRequest) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	n, err := m.store.Count(ctx)
	if err != nil {
		return 0, apperror.Persistence("could not count pricing items", err)
	}
	if n > 0 {
		return 0, nil
	}
	for i, it := range items {
		if _, err := m.Create(ctx, it); err != nil {
			return i, err
		}
	}
	return len(items), nil
}
