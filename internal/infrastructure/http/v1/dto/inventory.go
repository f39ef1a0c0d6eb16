package dto

import (
	"stockpilot/internal/domain/inventory"
)

// CreateMovementRequest is the request body for recording a stock movement.
type CreateMovementRequest struct {
	ProductID       string `json:"productId" binding:"required,uuid"`
	WarehouseID     string `json:"warehouseId" binding:"required,uuid"`
	Direction       string `json:"direction" binding:"required"`
	Quantity        int64  `json:"quantity" binding:"required"`
	ReferenceNumber string `json:"referenceNumber"`
	Notes           string `json:"notes"`
}

// MovementResponse is the response body for a recorded movement.
type MovementResponse struct {
	Movement *inventory.Movement `json:"movement"`
	Record   *inventory.Record   `json:"record"`
}

// FromMovementResult creates response DTO from the service result.
func FromMovementResult(res *inventory.MovementResult) *MovementResponse {
	return &MovementResponse{
		Movement: res.Movement,
		Record:   res.Record,
	}
}

// AdjustQuantityRequest is the request body for a manual stock adjustment.
type AdjustQuantityRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}
