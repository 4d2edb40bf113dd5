package model

import "time"

// PricingItem is a priced waste category of the catalog (`pricing` table).
// Price is never negative; UpdatedAt moves on every update while CreatedAt
// stays fixed.
type PricingItem struct {
	ID          uint64    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// PricingPatch carries the optional fields of a catalog update.
type PricingPatch struct {
	Name        *string
	Description *string
	Price       *float64
}

// Empty reports whether the patch changes nothing.
func (p PricingPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil
}
