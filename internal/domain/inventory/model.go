// Package inventory provides the stock movement ledger and the materialized
// inventory records derived from it.
//
// The movement table is append-only: every stock change is recorded once and
// never edited. The inventory table caches the current quantity per
// (product, warehouse) pair; at most one record exists per pair, enforced by a
// unique constraint at the storage layer.
package inventory

import (
	"time"

	"stockpilot/internal/core/id"
)

// Direction indicates whether a movement increases or decreases stock.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Valid reports whether the direction is a known value.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Delta returns the signed quantity change for the given amount.
func (d Direction) Delta(quantity int64) int64 {
	if d == DirectionOut {
		return -quantity
	}
	return quantity
}

// Movement is an immutable ledger entry recording a single stock change
// for a product at a warehouse, attributed to a user.
type Movement struct {
	ID          id.ID     `db:"id" json:"id"`
	ProductID   id.ID     `db:"product_id" json:"productId"`
	WarehouseID id.ID     `db:"warehouse_id" json:"warehouseId"`
	UserID      id.ID     `db:"user_id" json:"userId"`
	Direction   Direction `db:"direction" json:"direction"`
	Quantity    int64     `db:"quantity" json:"quantity"`

	// ReferenceNumber is optional free text (e.g. a purchase-order id),
	// stored as-is.
	ReferenceNumber *string `db:"reference_number" json:"referenceNumber,omitempty"`
	Notes           *string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Record is the current cached stock quantity for one product at one warehouse.
type Record struct {
	ID          id.ID     `db:"id" json:"id"`
	ProductID   id.ID     `db:"product_id" json:"productId"`
	WarehouseID id.ID     `db:"warehouse_id" json:"warehouseId"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	LastUpdated time.Time `db:"last_updated" json:"lastUpdated"`
}

// RecordDetail is a Record joined with catalog data for list views.
type RecordDetail struct {
	Record

	ProductSKU    string `db:"product_sku" json:"productSku"`
	ProductName   string `db:"product_name" json:"productName"`
	WarehouseName string `db:"warehouse_name" json:"warehouseName"`
	MinStock      int64  `db:"min_stock" json:"minStock"`
}

// IsLowStock reports whether the cached quantity is at or below the
// product's minimum-stock threshold.
func (d RecordDetail) IsLowStock() bool {
	return d.MinStock > 0 && d.Quantity <= d.MinStock
}

// MovementInput is a request to record a stock movement.
// ActingUserID must be resolved by the caller from the current session
// before invocation.
type MovementInput struct {
	ProductID       id.ID
	WarehouseID     id.ID
	Direction       Direction
	Quantity        int64
	ReferenceNumber string
	Notes           string
	ActingUserID    id.ID
}

// MovementResult is returned on a successful RecordMovement call.
type MovementResult struct {
	Movement *Movement `json:"movement"`
	Record   *Record   `json:"inventory"`
}
