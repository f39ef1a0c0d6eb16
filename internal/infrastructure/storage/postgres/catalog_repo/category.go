// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/catalogs/category"
	"stockpilot/internal/infrastructure/storage/postgres"
)

const categoriesTable = "categories"

var categoryColumns = []string{"id", "name", "description", "created_at", "updated_at"}

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ category.Repository = (*CategoryRepo)(nil)

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new category.
func (r *CategoryRepo) Create(ctx context.Context, cat *category.Category) error {
	q := r.builder.Insert(categoriesTable).
		Columns(categoryColumns...).
		Values(cat.ID, cat.Name, cat.Description, cat.CreatedAt, cat.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("category", "name", cat.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepo) GetByID(ctx context.Context, catID id.ID) (*category.Category, error) {
	q := r.builder.Select(categoryColumns...).
		From(categoriesTable).
		Where(squirrel.Eq{"id": catID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cat category.Category
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &cat, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", catID.String())
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &cat, nil
}

// Update modifies an existing category.
func (r *CategoryRepo) Update(ctx context.Context, cat *category.Category) error {
	q := r.builder.Update(categoriesTable).
		Set("name", cat.Name).
		Set("description", cat.Description).
		Set("updated_at", cat.UpdatedAt).
		Where(squirrel.Eq{"id": cat.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("category", "name", cat.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", cat.ID.String())
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepo) Delete(ctx context.Context, catID id.ID) error {
	q := r.builder.Delete(categoriesTable).Where(squirrel.Eq{"id": catID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("category is referenced by products")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", catID.String())
	}
	return nil
}

// List retrieves categories with filtering and pagination.
func (r *CategoryRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*category.Category], error) {
	result := domain.ListResult[*category.Category]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().From(categoriesTable)
	if filter.Search != "" {
		base = base.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count categories: %w", err)
	}

	q := base.Columns(categoryColumns...).
		OrderBy(postgres.OrderClause(filter.OrderBy, "name")).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select categories: %w", err)
	}
	return result, nil
}

// Exists checks if a category exists.
func (r *CategoryRepo) Exists(ctx context.Context, catID id.ID) (bool, error) {
	return postgres.ExistsByColumn(ctx, r.txManager, r.builder, categoriesTable, "id", catID)
}

// ExistsByName checks if a category with the given name exists.
func (r *CategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	return postgres.ExistsByColumn(ctx, r.txManager, r.builder, categoriesTable, "name", name)
}
