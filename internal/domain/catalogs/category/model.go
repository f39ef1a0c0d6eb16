// Package category provides the product category catalog.
package category

import (
	"context"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
)

// Category groups products for navigation and reporting.
type Category struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// NewCategory creates a new Category with generated ID.
func NewCategory(name string) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:        id.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks entity invariants.
func (c *Category) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Touch updates the modification timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now().UTC()
}
