package dto

import (
	"stockpilot/internal/domain/catalogs/warehouse"
)

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Name     string  `json:"name" binding:"required"`
	Location *string `json:"location"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Name)
	wh.Location = r.Location
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Name     string  `json:"name" binding:"required"`
	Location *string `json:"location"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Name = r.Name
	wh.Location = r.Location
}
