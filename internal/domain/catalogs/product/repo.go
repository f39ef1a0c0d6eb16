package product

import (
	"context"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// ListFilter extends the common filter with product-specific options.
type ListFilter struct {
	domain.ListFilter

	CategoryID *id.ID
	SupplierID *id.ID
}

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id id.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Product], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
