package dto

import (
	"stockpilot/internal/domain/catalogs/category"
)

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	cat := category.NewCategory(r.Name)
	cat.Description = r.Description
	return cat
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCategoryRequest) ApplyTo(cat *category.Category) {
	cat.Name = r.Name
	cat.Description = r.Description
}
