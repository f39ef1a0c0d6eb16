package inventory

import (
	"context"
	"time"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// MovementFilter filters the movement ledger.
type MovementFilter struct {
	ProductID   *id.ID
	WarehouseID *id.ID
	UserID      *id.ID
	Direction   *Direction
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// Normalize clamps pagination to safe bounds.
func (f *MovementFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// RecordFilter filters inventory record listings.
type RecordFilter struct {
	ProductID   *id.ID
	WarehouseID *id.ID

	// LowStockOnly restricts results to records at or below the
	// product's minimum-stock threshold
	LowStockOnly bool

	Search string
	Limit  int
	Offset int
}

// Normalize clamps pagination to safe bounds.
func (f *RecordFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Repository defines persistence for movements and inventory records.
//
// The quantity-changing operations are deliberately expressed as atomic
// storage-level increments rather than read-modify-write: two concurrent
// movements for the same pair must never lose an update or produce a
// duplicate record.
type Repository interface {
	// CreateMovement appends one ledger row. Movements are never updated
	// or deleted.
	CreateMovement(ctx context.Context, m *Movement) error

	// ListMovements returns ledger entries, newest first.
	ListMovements(ctx context.Context, filter MovementFilter) (domain.ListResult[*Movement], error)

	// GetRecord retrieves an inventory record by its ID.
	GetRecord(ctx context.Context, recordID id.ID) (*Record, error)

	// FindRecord retrieves the record for a (product, warehouse) pair,
	// or a not-found error if the pair has never received stock.
	FindRecord(ctx context.Context, productID, warehouseID id.ID) (*Record, error)

	// UpsertReceipt atomically adds quantity to the pair's record,
	// creating it with the given quantity as opening balance if absent.
	// Safe under concurrent first inserts for the same pair.
	UpsertReceipt(ctx context.Context, productID, warehouseID id.ID, quantity int64, now time.Time) (*Record, error)

	// ApplyDelta atomically adjusts an existing record's quantity by the
	// signed delta. Returns a not-found error if no record exists for the
	// pair; it never creates one.
	ApplyDelta(ctx context.Context, productID, warehouseID id.ID, delta int64, now time.Time) (*Record, error)

	// OverwriteQuantity sets an absolute quantity on an existing record
	// (manual stock-opname adjustment).
	OverwriteQuantity(ctx context.Context, recordID id.ID, quantity int64, now time.Time) (*Record, error)

	// ListRecords returns inventory records joined with catalog data.
	ListRecords(ctx context.Context, filter RecordFilter) (domain.ListResult[*RecordDetail], error)
}
