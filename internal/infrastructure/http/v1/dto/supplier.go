package dto

import (
	"stockpilot/internal/domain/catalogs/supplier"
)

// CreateSupplierRequest is the request body for creating a supplier.
type CreateSupplierRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	sup := supplier.NewSupplier(r.Name)
	sup.Email = r.Email
	sup.Phone = r.Phone
	sup.Address = r.Address
	return sup
}

// UpdateSupplierRequest is the request body for updating a supplier.
type UpdateSupplierRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	IsActive bool    `json:"isActive"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSupplierRequest) ApplyTo(sup *supplier.Supplier) {
	sup.Name = r.Name
	sup.Email = r.Email
	sup.Phone = r.Phone
	sup.Address = r.Address
	sup.IsActive = r.IsActive
}
