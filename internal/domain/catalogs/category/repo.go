package category

import (
	"context"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	Create(ctx context.Context, cat *Category) error
	GetByID(ctx context.Context, id id.ID) (*Category, error)
	Update(ctx context.Context, cat *Category) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Category], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}
