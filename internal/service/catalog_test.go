package service

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/repository/memstore"
)

func newCatalog() *CatalogManager {
	m := NewCatalogManager(memstore.NewPricing())
	m.now = func() time.Time { return fixedNow }
	return m
}

func TestCatalogCreateAndList(t *testing.T) {
	m := newCatalog()
	ctx := context.Background()

	for _, req := range []PricingRequest{
		{Name: "Paper", Price: 5},
		{Name: "Electronics", Description: "small appliances", Price: 20},
		{Name: "Glass", Price: 0},
	} {
		if _, err := m.Create(ctx, req); err != nil {
			t.Fatalf("Create(%s): %v", req.Name, err)
		}
	}

	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Electronics", "Glass", "Paper"}
	for i, it := range items {
		if it.Name != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, it.Name, want[i])
		}
	}
}

func TestCatalogCreate_Rejects(t *testing.T) {
	m := newCatalog()
	for _, req := range []PricingRequest{
		{Name: "Paper", Price: -1},
		{Name: "  ", Price: 1},
	} {
		if _, err := m.Create(context.Background(), req); codeOf(err) != apperror.CodeValidation {
			t.Errorf("Create(%+v) code = %q, want validation", req, codeOf(err))
		}
	}
}

func TestCatalogUpdate(t *testing.T) {
	m := newCatalog()
	ctx := context.Background()
	it, err := m.Create(ctx, PricingRequest{Name: "Paper", Description: "old", Price: 5})
	if err != nil {
		t.Fatal(err)
	}

	later := fixedNow.Add(time.Hour)
	m.now = func() time.Time { return later }
	price := 7.5
	got, err := m.Update(ctx, it.ID, PricingUpdate{Price: &price})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Price != 7.5 || got.Description != "old" || got.Name != "Paper" {
		t.Errorf("updated = %+v", got)
	}
	if !got.UpdatedAt.Equal(later) || !got.CreatedAt.Equal(fixedNow) {
		t.Errorf("timestamps created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	neg := -3.0
	if _, err := m.Update(ctx, it.ID, PricingUpdate{Price: &neg}); codeOf(err) != apperror.CodeValidation {
		t.Errorf("negative price code = %q", codeOf(err))
	}
	if _, err := m.Update(ctx, 999, PricingUpdate{Price: &price}); codeOf(err) != apperror.CodeNotFound {
		t.Errorf("unknown id code = %q", codeOf(err))
	}
}

func TestCatalogDelete(t *testing.T) {
	m := newCatalog()
	ctx := context.Background()
	it, _ := m.Create(ctx, PricingRequest{Name: "Paper", Price: 5})

	if err := m.Delete(ctx, it.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, it.ID); codeOf(err) != apperror.CodeNotFound {
		t.Errorf("second Delete code = %q", codeOf(err))
	}
}

func TestCatalogSeedIfEmpty(t *testing.T) {
	m := newCatalog()
	ctx := context.Background()
	seed := []PricingRequest{{Name: "Paper", Price: 5}, {Name: "Metal", Price: 8}}

	n, err := m.SeedIfEmpty(ctx, seed)
	if err != nil || n != 2 {
		t.Fatalf("first seed = %d, %v", n, err)
	}
	n, err = m.SeedIfEmpty(ctx, seed)
	if err != nil || n != 0 {
		t.Fatalf("second seed = %d, %v", n, err)
	}
	items, _ := m.List(ctx)
	if len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
}

func TestCatalogPriceBoundsAndRounding(t *testing.T) {
	m := newCatalog()
	ctx := context.Background()

	for _, price := range []float64{1e9, 100000000} {
		_, err := m.Create(ctx, PricingRequest{Name: "Gold", Price: price})
		if codeOf(err) != apperror.CodeValidation || detailsOf(err)["price"] == "" {
			t.Errorf("Create(price=%v) = %v, want price validation error", price, err)
		}
	}

	it, err := m.Create(ctx, PricingRequest{Name: "Paper", Price: 6.555})
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := m.store.GetByID(ctx, it.ID)
	if it.Price != 6.56 || stored.Price != 6.56 {
		t.Errorf("price returned %v, stored %v, want 6.56", it.Price, stored.Price)
	}

	upd := 2.345
	got, err := m.Update(ctx, it.ID, PricingUpdate{Price: &upd})
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != 2.35 {
		t.Errorf("updated price = %v, want 2.35", got.Price)
	}

	huge := 1e9
	if _, err := m.Update(ctx, it.ID, PricingUpdate{Price: &huge}); codeOf(err) != apperror.CodeValidation {
		t.Errorf("Update(price=1e9) code = %q, want validation", codeOf(err))
	}
}

func TestRoundPrice(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{5, 5},
		{7.5, 7.5},
		{6.555, 6.56},
		{6.554, 6.55},
		{0.005, 0.01},
		{99999999.99, 99999999.99},
	}
	for _, tt := range tests {
		if got := roundPrice(tt.in); got != tt.want {
			t.Errorf("roundPrice(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
