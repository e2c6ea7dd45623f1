package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	CountRows(ctx context.Context, table string, conds squirrel.Eq) (int, error)
	CountPerDay(ctx context.Context, table string, since time.Time) ([]DayCount, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CountRows(ctx context.Context, table string, conds squirrel.Eq) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("count(*)").From(table)
	if len(conds) > 0 {
		query = query.Where(conds)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s failed: %w", table, err)
	}
	return count, nil
}

// CountPerDay buckets rows of a table by the calendar day of created_at,
// starting at since. Days with no rows are absent from the result.
func (r *pgxRepository) CountPerDay(ctx context.Context, table string, since time.Time) ([]DayCount, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("created_at::date AS day", "count(*)").
		From(table).
		Where(squirrel.GtOrEq{"created_at": since}).
		GroupBy("day").
		OrderBy("day ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build per-day count query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("per-day count of %s failed: %w", table, err)
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan per-day count failed: %w", err)
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}
