package warehouse

import (
	"context"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	Create(ctx context.Context, wh *Warehouse) error
	GetByID(ctx context.Context, id id.ID) (*Warehouse, error)
	Update(ctx context.Context, wh *Warehouse) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Warehouse], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
}
