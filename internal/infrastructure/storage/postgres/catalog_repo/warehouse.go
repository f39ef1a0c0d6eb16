package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalogs/warehouse"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const warehousesTable = "warehouses"

var warehouseColumns = []string{"id", "name", "location", "created_at", "updated_at"}

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new warehouse.
func (r *WarehouseRepo) Create(ctx context.Context, wh *warehouse.Warehouse) error {
	q := r.builder.Insert(warehousesTable).
		Columns(warehouseColumns...).
		Values(wh.ID, wh.Name, wh.Location, wh.CreatedAt, wh.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("warehouse", "name", wh.Name)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID retrieves a warehouse by ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	q := r.builder.Select(warehouseColumns...).
		From(warehousesTable).
		Where(squirrel.Eq{"id": whID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var wh warehouse.Warehouse
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &wh, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", whID.String())
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &wh, nil
}

// Update modifies an existing warehouse.
func (r *WarehouseRepo) Update(ctx context.Context, wh *warehouse.Warehouse) error {
	q := r.builder.Update(warehousesTable).
		Set("name", wh.Name).
		Set("location", wh.Location).
		Set("updated_at", wh.UpdatedAt).
		Where(squirrel.Eq{"id": wh.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", wh.ID.String())
	}
	return nil
}

// Delete removes a warehouse. Fails if inventory or movements reference it.
func (r *WarehouseRepo) Delete(ctx context.Context, whID id.ID) error {
	q := r.builder.Delete(warehousesTable).Where(squirrel.Eq{"id": whID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("warehouse has inventory or movement history")
		}
		return fmt.Errorf("delete warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", whID.String())
	}
	return nil
}

// List retrieves warehouses with filtering and pagination.
func (r *WarehouseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*warehouse.Warehouse], error) {
	result := domain.ListResult[*warehouse.Warehouse]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().From(warehousesTable)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"location": pattern},
		})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count warehouses: %w", err)
	}

	q := base.Columns(warehouseColumns...).
		OrderBy(postgres.OrderClause(filter.OrderBy, "name")).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select warehouses: %w", err)
	}
	return result, nil
}

// Exists checks if a warehouse exists.
func (r *WarehouseRepo) Exists(ctx context.Context, whID id.ID) (bool, error) {
	return postgres.ExistsByColumn(ctx, r.txManager, r.builder, warehousesTable, "id", whID)
}
