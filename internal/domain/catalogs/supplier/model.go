// Package supplier provides the Supplier catalog.
// Suppliers are the counterparties products are purchased from.
package supplier

import (
	"context"
	"regexp"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
)

// Supplier represents a purchasing counterparty.
type Supplier struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewSupplier creates a new active Supplier with generated ID.
func NewSupplier(name string) *Supplier {
	now := time.Now().UTC()
	return &Supplier{
		ID:        id.New(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks entity invariants.
func (s *Supplier) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if s.Email != nil && *s.Email != "" && !emailPattern.MatchString(*s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email").
			WithDetail("value", *s.Email)
	}
	return nil
}

// Touch updates the modification timestamp.
func (s *Supplier) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
