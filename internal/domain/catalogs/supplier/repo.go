package supplier

import (
	"context"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// ListFilter extends the common filter with supplier-specific options.
type ListFilter struct {
	domain.ListFilter

	// ActiveOnly restricts results to active suppliers
	ActiveOnly bool
}

// Repository defines the interface for Supplier persistence.
type Repository interface {
	Create(ctx context.Context, sup *Supplier) error
	GetByID(ctx context.Context, id id.ID) (*Supplier, error)
	Update(ctx context.Context, sup *Supplier) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Supplier], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
}
