// Package warehouse provides the Warehouse catalog.
// Warehouses represent physical locations holding product stock.
package warehouse

import (
	"context"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
)

// Warehouse represents a storage location for goods.
type Warehouse struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  *string   `db:"location" json:"location,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewWarehouse creates a new Warehouse with generated ID.
func NewWarehouse(name string) *Warehouse {
	now := time.Now().UTC()
	return &Warehouse{
		ID:        id.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks entity invariants.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Touch updates the modification timestamp.
func (w *Warehouse) Touch() {
	w.UpdatedAt = time.Now().UTC()
}
