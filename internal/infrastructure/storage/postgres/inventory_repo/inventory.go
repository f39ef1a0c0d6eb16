// Package inventory_repo persists the stock movement ledger and the
// per (product, warehouse) inventory records.
//
// Quantity changes go through single statements that increment in
// place (ON CONFLICT upsert, quantity = quantity + delta) so that
// concurrent movements for the same pair serialize on the row instead
// of racing through a read-modify-write cycle.
package inventory_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const (
	movementsTable = "stock_movements"
	inventoryTable = "inventory"
)

var (
	movementColumns = []string{
		"id", "product_id", "warehouse_id", "user_id", "direction",
		"quantity", "reference_number", "notes", "created_at",
	}
	recordColumns = []string{"id", "product_id", "warehouse_id", "quantity", "last_updated"}
)

// Repo implements inventory.Repository on PostgreSQL.
type Repo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ inventory.Repository = (*Repo)(nil)

// NewRepo creates a new inventory repository.
func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMovement appends one ledger row.
func (r *Repo) CreateMovement(ctx context.Context, m *inventory.Movement) error {
	q := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(m.ID, m.ProductID, m.WarehouseID, m.UserID, m.Direction,
			m.Quantity, m.ReferenceNumber, m.Notes, m.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("movement references a missing product, warehouse or user")
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListMovements returns ledger entries, newest first.
func (r *Repo) ListMovements(ctx context.Context, filter inventory.MovementFilter) (domain.ListResult[*inventory.Movement], error) {
	result := domain.ListResult[*inventory.Movement]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().From(movementsTable)
	if filter.ProductID != nil {
		base = base.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		base = base.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.UserID != nil {
		base = base.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Direction != nil {
		base = base.Where(squirrel.Eq{"direction": *filter.Direction})
	}
	if filter.FromDate != nil {
		base = base.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		base = base.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count movements: %w", err)
	}

	q := base.Columns(movementColumns...).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select movements: %w", err)
	}
	return result, nil
}

// GetRecord retrieves an inventory record by its ID.
func (r *Repo) GetRecord(ctx context.Context, recordID id.ID) (*inventory.Record, error) {
	q := r.builder.Select(recordColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"id": recordID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec inventory.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory record", recordID.String())
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// FindRecord retrieves the record for a (product, warehouse) pair.
func (r *Repo) FindRecord(ctx context.Context, productID, warehouseID id.ID) (*inventory.Record, error) {
	q := r.builder.Select(recordColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"product_id": productID, "warehouse_id": warehouseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec inventory.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory record", productID.String()+"/"+warehouseID.String())
		}
		return nil, fmt.Errorf("find inventory record: %w", err)
	}
	return &rec, nil
}

// UpsertReceipt adds quantity to the pair's record, creating it if absent.
// The ON CONFLICT arbiter is the unique (product_id, warehouse_id) index,
// so two concurrent first receipts converge on a single row.
func (r *Repo) UpsertReceipt(ctx context.Context, productID, warehouseID id.ID, quantity int64, now time.Time) (*inventory.Record, error) {
	q := r.builder.Insert(inventoryTable).
		Columns(recordColumns...).
		Values(id.New(), productID, warehouseID, quantity, now).
		Suffix(`ON CONFLICT (product_id, warehouse_id) DO UPDATE
			SET quantity = ` + inventoryTable + `.quantity + EXCLUDED.quantity,
			    last_updated = EXCLUDED.last_updated
			RETURNING id, product_id, warehouse_id, quantity, last_updated`)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert: %w", err)
	}

	var rec inventory.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return nil, apperror.NewConflict("inventory references a missing product or warehouse")
		}
		return nil, fmt.Errorf("upsert inventory record: %w", err)
	}
	return &rec, nil
}

// ApplyDelta adjusts an existing record's quantity by the signed delta.
// No row for the pair means not-found; this never creates a record.
func (r *Repo) ApplyDelta(ctx context.Context, productID, warehouseID id.ID, delta int64, now time.Time) (*inventory.Record, error) {
	q := r.builder.Update(inventoryTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Set("last_updated", now).
		Where(squirrel.Eq{"product_id": productID, "warehouse_id": warehouseID}).
		Suffix("RETURNING id, product_id, warehouse_id, quantity, last_updated")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var rec inventory.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory record", productID.String()+"/"+warehouseID.String())
		}
		return nil, fmt.Errorf("apply inventory delta: %w", err)
	}
	return &rec, nil
}

// OverwriteQuantity sets an absolute quantity on an existing record.
func (r *Repo) OverwriteQuantity(ctx context.Context, recordID id.ID, quantity int64, now time.Time) (*inventory.Record, error) {
	q := r.builder.Update(inventoryTable).
		Set("quantity", quantity).
		Set("last_updated", now).
		Where(squirrel.Eq{"id": recordID}).
		Suffix("RETURNING id, product_id, warehouse_id, quantity, last_updated")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var rec inventory.Record
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory record", recordID.String())
		}
		return nil, fmt.Errorf("overwrite inventory quantity: %w", err)
	}
	return &rec, nil
}

// ListRecords returns inventory records joined with catalog data.
func (r *Repo) ListRecords(ctx context.Context, filter inventory.RecordFilter) (domain.ListResult[*inventory.RecordDetail], error) {
	result := domain.ListResult[*inventory.RecordDetail]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().
		From(inventoryTable + " i").
		Join("products p ON p.id = i.product_id").
		Join("warehouses w ON w.id = i.warehouse_id")
	if filter.ProductID != nil {
		base = base.Where(squirrel.Eq{"i.product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		base = base.Where(squirrel.Eq{"i.warehouse_id": *filter.WarehouseID})
	}
	if filter.LowStockOnly {
		base = base.Where("p.min_stock > 0 AND i.quantity <= p.min_stock")
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.sku": pattern},
		})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count inventory records: %w", err)
	}

	q := base.Columns(
		"i.id", "i.product_id", "i.warehouse_id", "i.quantity", "i.last_updated",
		"p.sku AS product_sku", "p.name AS product_name",
		"w.name AS warehouse_name", "p.min_stock",
	).
		OrderBy("p.name ASC, w.name ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select inventory records: %w", err)
	}
	return result, nil
}
