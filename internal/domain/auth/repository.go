package auth

import (
	"context"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// UserRepository defines the interface for User persistence.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
