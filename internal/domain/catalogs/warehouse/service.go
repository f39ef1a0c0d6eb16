package warehouse

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

// Service provides business logic for the Warehouse catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txManager tx.Manager, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &Service{repo: repo, txManager: txManager, auditor: auditor}
}

// Create validates and persists a new warehouse.
func (s *Service) Create(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, wh)
	})
	if err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}

	logger.Info(ctx, "warehouse created", "warehouse_id", wh.ID, "name", wh.Name)
	return nil
}

// GetByID retrieves a warehouse by ID.
func (s *Service) GetByID(ctx context.Context, whID id.ID) (*Warehouse, error) {
	wh, err := s.repo.GetByID(ctx, whID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("warehouse", whID.String())
		}
		return nil, err
	}
	return wh, nil
}

// Update validates and persists warehouse changes.
func (s *Service) Update(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}
	wh.Touch()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, wh)
	})
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// Delete removes a warehouse.
func (s *Service) Delete(ctx context.Context, whID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, whID)
	})
	if err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}

	if entry, aerr := audit.NewEntry(audit.ActionDelete, "warehouse", whID.String(), appctx.GetUserID(ctx), nil); aerr == nil {
		if aerr = s.auditor.Record(ctx, entry); aerr != nil {
			logger.Warn(ctx, "audit record failed", "error", aerr, "warehouse_id", whID)
		}
	}

	logger.Info(ctx, "warehouse deleted", "warehouse_id", whID)
	return nil
}

// List retrieves warehouses with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Warehouse], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}
