package inventory

import (
	"context"
	"fmt"
	"time"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/audit"
	"stockpilot/pkg/logger"
)

// ExistsChecker is the slice of a catalog repository the processor needs:
// referential validation of product and warehouse ids.
type ExistsChecker interface {
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// Service validates stock movement requests, appends the ledger entry, and
// reconciles the affected inventory record.
//
// The ledger write and the reconciliation run inside one transaction: if the
// reconciliation fails (including the no-stock-to-withdraw case) the movement
// insert is rolled back, so the ledger never carries an entry that did not
// affect inventory.
type Service struct {
	repo       Repository
	products   ExistsChecker
	warehouses ExistsChecker
	txManager  tx.Manager
	auditor    audit.Recorder
}

// NewService creates the movement processor.
func NewService(
	repo Repository,
	products ExistsChecker,
	warehouses ExistsChecker,
	txManager tx.Manager,
	auditor audit.Recorder,
) *Service {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &Service{
		repo:       repo,
		products:   products,
		warehouses: warehouses,
		txManager:  txManager,
		auditor:    auditor,
	}
}

// RecordMovement processes a stock movement request.
//
// Order of checks matches the externally observable semantics: quantity is
// validated first, then the acting user, then references; nothing is written
// until all checks pass.
func (s *Service) RecordMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be greater than zero").
			WithDetail("field", "quantity").
			WithDetail("value", input.Quantity)
	}
	if id.IsNil(input.ActingUserID) {
		return nil, apperror.NewUnauthorized("no authenticated session")
	}
	if !input.Direction.Valid() {
		return nil, apperror.NewValidation("direction must be 'in' or 'out'").
			WithDetail("field", "direction").
			WithDetail("value", string(input.Direction))
	}

	if err := s.checkReference(ctx, s.products, "product", input.ProductID); err != nil {
		return nil, err
	}
	if err := s.checkReference(ctx, s.warehouses, "warehouse", input.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	movement := &Movement{
		ID:          id.New(),
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		UserID:      input.ActingUserID,
		Direction:   input.Direction,
		Quantity:    input.Quantity,
		CreatedAt:   now,
	}
	if input.ReferenceNumber != "" {
		ref := input.ReferenceNumber
		movement.ReferenceNumber = &ref
	}
	if input.Notes != "" {
		notes := input.Notes
		movement.Notes = &notes
	}

	var record *Record
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateMovement(ctx, movement); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}

		var err error
		switch input.Direction {
		case DirectionIn:
			// Atomic insert-or-increment: concurrent first receipts for a
			// brand-new pair both land on a single record.
			record, err = s.repo.UpsertReceipt(ctx, input.ProductID, input.WarehouseID, input.Quantity, now)
		case DirectionOut:
			// Decrement only an existing record. A pair that has never
			// received stock cannot be withdrawn from; the quantity of an
			// existing record is allowed to go negative.
			record, err = s.repo.ApplyDelta(ctx, input.ProductID, input.WarehouseID, input.Direction.Delta(input.Quantity), now)
			if err != nil && apperror.IsNotFound(err) {
				return apperror.NewNoStockToWithdraw(
					input.ProductID.String(), input.WarehouseID.String())
			}
		}
		if err != nil {
			return fmt.Errorf("reconcile inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock movement recorded",
		"movement_id", movement.ID,
		"product_id", input.ProductID,
		"warehouse_id", input.WarehouseID,
		"direction", string(input.Direction),
		"quantity", input.Quantity,
		"new_quantity", record.Quantity,
	)

	return &MovementResult{Movement: movement, Record: record}, nil
}

// AdjustQuantity overwrites an inventory record's quantity directly
// (manual stock-opname). No ledger entry is created for this path; the
// overwrite is captured in the audit trail instead.
func (s *Service) AdjustQuantity(ctx context.Context, recordID id.ID, newQuantity int64, actingUserID id.ID) (*Record, error) {
	if newQuantity < 0 {
		return nil, apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity").
			WithDetail("value", newQuantity)
	}
	if id.IsNil(actingUserID) {
		return nil, apperror.NewUnauthorized("no authenticated session")
	}

	prev, err := s.repo.GetRecord(ctx, recordID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("inventory record", recordID.String())
		}
		return nil, err
	}

	var record *Record
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		record, err = s.repo.OverwriteQuantity(ctx, recordID, newQuantity, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}

	entry, aerr := audit.NewEntry(audit.ActionAdjust, "inventory", recordID.String(), actingUserID.String(), map[string]any{
		"previous_quantity": prev.Quantity,
		"new_quantity":      newQuantity,
	})
	if aerr == nil {
		if aerr = s.auditor.Record(ctx, entry); aerr != nil {
			logger.Warn(ctx, "audit record failed", "error", aerr, "record_id", recordID)
		}
	}

	logger.Info(ctx, "inventory quantity adjusted",
		"record_id", recordID,
		"previous_quantity", prev.Quantity,
		"new_quantity", newQuantity,
	)

	return record, nil
}

// GetRecord retrieves a single inventory record.
func (s *Service) GetRecord(ctx context.Context, recordID id.ID) (*Record, error) {
	rec, err := s.repo.GetRecord(ctx, recordID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("inventory record", recordID.String())
		}
		return nil, err
	}
	return rec, nil
}

// ListRecords returns inventory records joined with catalog data.
func (s *Service) ListRecords(ctx context.Context, filter RecordFilter) (domain.ListResult[*RecordDetail], error) {
	filter.Normalize()
	return s.repo.ListRecords(ctx, filter)
}

// ListMovements returns ledger entries, newest first.
func (s *Service) ListMovements(ctx context.Context, filter MovementFilter) (domain.ListResult[*Movement], error) {
	filter.Normalize()
	return s.repo.ListMovements(ctx, filter)
}

func (s *Service) checkReference(ctx context.Context, checker ExistsChecker, entity string, refID id.ID) error {
	if id.IsNil(refID) {
		return apperror.NewValidation(entity + " id is required").
			WithDetail("field", entity+"Id")
	}
	exists, err := checker.Exists(ctx, refID)
	if err != nil {
		return fmt.Errorf("check %s: %w", entity, err)
	}
	if !exists {
		return apperror.NewNotFound(entity, refID.String())
	}
	return nil
}
