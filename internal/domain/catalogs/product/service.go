package product

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

// Service provides business logic for the Product catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	auditor   audit.Recorder
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager, auditor audit.Recorder) *Service {
	if auditor == nil {
		auditor = audit.NopRecorder{}
	}
	return &Service{repo: repo, txManager: txManager, auditor: auditor}
}

// Create validates and persists a new product.
// SKU uniqueness is checked up front; the storage layer carries a unique
// constraint as the last line of defense.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsBySKU(ctx, p.SKU)
	if err != nil {
		return fmt.Errorf("check sku: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "sku", p.SKU)
	return nil
}

// GetByID retrieves a product by ID.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, err
	}
	return p, nil
}

// GetBySKU retrieves a product by its SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, err
	}
	return p, nil
}

// Update validates and persists product changes.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	p.Touch()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, productID)
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if entry, aerr := audit.NewEntry(audit.ActionDelete, "product", productID.String(), appctx.GetUserID(ctx), nil); aerr == nil {
		if aerr = s.auditor.Record(ctx, entry); aerr != nil {
			logger.Warn(ctx, "audit record failed", "error", aerr, "product_id", productID)
		}
	}

	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

// List retrieves products with filtering and pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Product], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}
