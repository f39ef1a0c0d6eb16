package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// ExistsByColumn runs SELECT EXISTS for a single equality predicate.
func ExistsByColumn(ctx context.Context, txm *TxManager, builder squirrel.StatementBuilderType, table, column string, value any) (bool, error) {
	q := builder.Select("1").
		Prefix("SELECT EXISTS (").
		From(table).
		Where(squirrel.Eq{column: value}).
		Suffix(")")

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var exists bool
	querier := txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check exists on %s: %w", table, err)
	}
	return exists, nil
}

// OrderClause converts an API sort expression ("name", "-created_at") into
// an ORDER BY clause, falling back to the default for unknown input.
func OrderClause(orderBy, fallback string) string {
	col := orderBy
	if col == "" {
		col = fallback
	}

	desc := strings.HasPrefix(col, "-")
	col = strings.TrimPrefix(col, "-")

	// Only plain identifiers pass through; anything else falls back.
	for _, r := range col {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			col = fallback
			desc = false
			break
		}
	}

	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
