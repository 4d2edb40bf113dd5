package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/waste-pickup/internal/model"
)

const pricingColumns = "id,name,description,price,created_at,updated_at"

// PricingRepo encapsulates queries over the `pricing` catalog table.
type PricingRepo struct{ DB *sqlx.DB }

func NewPricingRepo(db *sqlx.DB) *PricingRepo { return &PricingRepo{DB: db} }

// List returns the catalog ordered by name.
func (r *PricingRepo) List(ctx context.Context) ([]model.PricingItem, error) {
	out := []model.PricingItem{}
	err := r.DB.SelectContext(ctx, &out, "SELECT "+pricingColumns+" FROM pricing ORDER BY name, id")
	return out, err
}

func (r *PricingRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM pricing")
	return n, err
}

func (r *PricingRepo) GetByID(ctx context.Context, id uint64) (model.PricingItem, error) {
	var it model.PricingItem
	err := r.DB.GetContext(ctx, &it, "SELECT "+pricingColumns+" FROM pricing WHERE id=? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return it, ErrNotFound
	}
	return it, err
}

// Create inserts it and fills in its ID.
func (r *PricingRepo) Create(ctx context.Context, it *model.PricingItem) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO pricing (name, description, price, created_at, updated_at) VALUES (?,?,?,?,?)",
		it.Name, it.Description, it.Price, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// Update applies the non-nil fields of p and always sets updated_at.
// created_at is never touched.  It returns ErrNotFound when no row matches.
func (r *PricingRepo) Update(ctx context.Context, id uint64, p model.PricingPatch, updatedAt time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []any{updatedAt}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *p.Price)
	}
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx, "UPDATE pricing SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PricingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM pricing WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
