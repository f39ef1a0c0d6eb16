package category

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

// Service provides business logic for the Category catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &Service{repo: repo, txManager: txManager, auditor: auditor}
}

// Create validates and persists a new category.
func (s *Service) Create(ctx context.Context, cat *Category) error {
	if err := cat.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByName(ctx, cat.Name)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("category", "name", cat.Name)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, cat)
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	logger.Info(ctx, "category created", "category_id", cat.ID, "name", cat.Name)
	return nil
}

// GetByID retrieves a category by ID.
func (s *Service) GetByID(ctx context.Context, catID id.ID) (*Category, error) {
	cat, err := s.repo.GetByID(ctx, catID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("category", catID.String())
		}
		return nil, err
	}
	return cat, nil
}

// Update validates and persists category changes.
func (s *Service) Update(ctx context.Context, cat *Category) error {
	if err := cat.Validate(ctx); err != nil {
		return err
	}
	cat.Touch()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, cat)
	})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category.
func (s *Service) Delete(ctx context.Context, catID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, catID)
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if entry, aerr := audit.NewEntry(audit.ActionDelete, "category", catID.String(), appctx.GetUserID(ctx), nil); aerr == nil {
		if aerr = s.auditor.Record(ctx, entry); aerr != nil {
			logger.Warn(ctx, "audit record failed", "error", aerr, "category_id", catID)
		}
	}

	logger.Info(ctx, "category deleted", "category_id", catID)
	return nil
}

// List retrieves categories with filtering and pagination.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Category], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}
