package supplier

import (
	"context"
	"fmt"

	"stockpilot/internal/core/apperror"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/core/tx"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/audit"
	"stockpilot/pkg/logger"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &Service{repo: repo, txManager: txManager, auditor: auditor}
}

// Create validates and persists a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, sup)
	})
	if err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	logger.Info(ctx, "supplier created", "supplier_id", sup.ID, "name", sup.Name)
	return nil
}

// GetByID retrieves a supplier by ID.
func (s *Service) GetByID(ctx context.Context, supID id.ID) (*Supplier, error) {
	sup, err := s.repo.GetByID(ctx, supID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("supplier", supID.String())
		}
		return nil, err
	}
	return sup, nil
}

// Update validates and persists supplier changes.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	sup.Touch()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, sup)
	})
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// SetActive toggles the supplier's active flag.
func (s *Service) SetActive(ctx context.Context, supID id.ID, active bool) error {
	sup, err := s.GetByID(ctx, supID)
	if err != nil {
		return err
	}
	sup.IsActive = active
	return s.Update(ctx, sup)
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, supID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, supID)
	})
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}

	if entry, aerr := audit.NewEntry(audit.ActionDelete, "supplier", supID.String(), appctx.GetUserID(ctx), nil); aerr == nil {
		if aerr = s.auditor.Record(ctx, entry); aerr != nil {
			logger.Warn(ctx, "audit record failed", "error", aerr, "supplier_id", supID)
		}
	}

	logger.Info(ctx, "supplier deleted", "supplier_id", supID)
	return nil
}

// List retrieves suppliers with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Supplier], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}
