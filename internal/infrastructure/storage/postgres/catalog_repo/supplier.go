package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalogs/supplier"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const suppliersTable = "suppliers"

var supplierColumns = []string{"id", "name", "email", "phone", "address", "is_active", "created_at", "updated_at"}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new supplier.
func (r *SupplierRepo) Create(ctx context.Context, sup *supplier.Supplier) error {
	q := r.builder.Insert(suppliersTable).
		Columns(supplierColumns...).
		Values(sup.ID, sup.Name, sup.Email, sup.Phone, sup.Address, sup.IsActive, sup.CreatedAt, sup.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID retrieves a supplier by ID.
func (r *SupplierRepo) GetByID(ctx context.Context, supID id.ID) (*supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(suppliersTable).
		Where(squirrel.Eq{"id": supID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sup supplier.Supplier
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &sup, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", supID.String())
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &sup, nil
}

// Update modifies an existing supplier.
func (r *SupplierRepo) Update(ctx context.Context, sup *supplier.Supplier) error {
	q := r.builder.Update(suppliersTable).
		Set("name", sup.Name).
		Set("email", sup.Email).
		Set("phone", sup.Phone).
		Set("address", sup.Address).
		Set("is_active", sup.IsActive).
		Set("updated_at", sup.UpdatedAt).
		Where(squirrel.Eq{"id": sup.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", sup.ID.String())
	}
	return nil
}

// Delete removes a supplier.
func (r *SupplierRepo) Delete(ctx context.Context, supID id.ID) error {
	q := r.builder.Delete(suppliersTable).Where(squirrel.Eq{"id": supID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("supplier is referenced by products")
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supID.String())
	}
	return nil
}

// List retrieves suppliers with filtering and pagination.
func (r *SupplierRepo) List(ctx context.Context, filter supplier.ListFilter) (domain.ListResult[*supplier.Supplier], error) {
	result := domain.ListResult[*supplier.Supplier]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().From(suppliersTable)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	if filter.ActiveOnly {
		base = base.Where(squirrel.Eq{"is_active": true})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count suppliers: %w", err)
	}

	q := base.Columns(supplierColumns...).
		OrderBy(postgres.OrderClause(filter.OrderBy, "name")).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select suppliers: %w", err)
	}
	return result, nil
}

// Exists checks if a supplier exists.
func (r *SupplierRepo) Exists(ctx context.Context, supID id.ID) (bool, error) {
	return postgres.ExistsByColumn(ctx, r.txManager, r.builder, suppliersTable, "id", supID)
}
