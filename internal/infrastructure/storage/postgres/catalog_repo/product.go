package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalogs/product"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"id", "sku", "name", "description", "category_id", "supplier_id",
	"unit", "min_stock", "purchase_price", "selling_price", "image_url",
	"created_at", "updated_at",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder.Insert(productsTable).
		Columns(productColumns...).
		Values(p.ID, p.SKU, p.Name, p.Description, p.CategoryID, p.SupplierID,
			p.Unit, p.MinStock, p.PurchasePrice, p.SellingPrice, p.ImageURL,
			p.CreatedAt, p.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("product", "sku", p.SKU)
		}
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("referenced category or supplier does not exist")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, prodID id.ID) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": prodID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", prodID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetBySKU retrieves a product by its SKU (case-insensitive).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"sku": strings.ToUpper(strings.TrimSpace(sku))}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return &p, nil
}

// Update modifies an existing product.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder.Update(productsTable).
		Set("sku", p.SKU).
		Set("name", p.Name).
		Set("description", p.Description).
		Set("category_id", p.CategoryID).
		Set("supplier_id", p.SupplierID).
		Set("unit", p.Unit).
		Set("min_stock", p.MinStock).
		Set("purchase_price", p.PurchasePrice).
		Set("selling_price", p.SellingPrice).
		Set("image_url", p.ImageURL).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("product", "sku", p.SKU)
		}
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("referenced category or supplier does not exist")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

// Delete removes a product. Fails if inventory or movements reference it.
func (r *ProductRepo) Delete(ctx context.Context, prodID id.ID) error {
	q := r.builder.Delete(productsTable).Where(squirrel.Eq{"id": prodID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("product has inventory or movement history")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", prodID.String())
	}
	return nil
}

// List retrieves products with filtering and pagination.
func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) (domain.ListResult[*product.Product], error) {
	result := domain.ListResult[*product.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().From(productsTable)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}
	if filter.CategoryID != nil {
		base = base.Where(squirrel.Eq{"category_id": *filter.CategoryID})
	}
	if filter.SupplierID != nil {
		base = base.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count products: %w", err)
	}

	q := base.Columns(productColumns...).
		OrderBy(postgres.OrderClause(filter.OrderBy, "name")).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select products: %w", err)
	}
	return result, nil
}

// Exists checks if a product exists.
func (r *ProductRepo) Exists(ctx context.Context, prodID id.ID) (bool, error) {
	return postgres.ExistsByColumn(ctx, r.txManager, r.builder, productsTable, "id", prodID)
}

// ExistsBySKU checks if a product with the given SKU exists.
func (r *ProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	return postgres.ExistsByColumn(ctx, r.txManager, r.builder, productsTable, "sku", strings.ToUpper(strings.TrimSpace(sku)))
}
