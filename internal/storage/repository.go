// Package storage implements the query catalog against the hosted Postgres
// database. All access is read-only; the connection pool is constructed once
// at process start and injected wherever queries are needed.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"painel/internal/core"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository opens a pooled connection and verifies it. The
// databaseURL must already carry an sslmode that enforces TLS; config
// validation guarantees that before this is called.
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// Ping reports whether the database is reachable; used by the readiness probe.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return core.NewDataAccessError("ping", err)
	}
	return nil
}

// DistinctReferenceMonths returns the months available in the top-providers
// view, deduplicated, most recent first. An empty view yields an empty slice.
func (r *PostgresRepository) DistinctReferenceMonths(ctx context.Context) ([]core.Month, error) {
	const op = "distinct reference months"

	rows, err := r.pool.Query(ctx, queryDistinctReferenceMonths)
	if err != nil {
		return nil, core.NewDataAccessError(op, err)
	}
	defer rows.Close()

	var months []core.Month
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, core.NewDataAccessError(op, err)
		}
		months = append(months, core.MonthOf(t))
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewDataAccessError(op, err)
	}
	return months, nil
}

// TopProvidersForMonth returns up to topN providers for the month, highest
// total first, ties broken by provider name ascending.
func (r *PostgresRepository) TopProvidersForMonth(ctx context.Context, month core.Month, topN int) ([]core.TopProvider, error) {
	const op = "top providers for month"

	if !core.ValidTopN(topN) {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidTopN, topN)
	}

	rows, err := r.pool.Query(ctx, queryTopProvidersForMonth, month.Time, topN)
	if err != nil {
		return nil, core.NewDataAccessError(op, err)
	}
	defer rows.Close()

	var ranking []core.TopProvider
	for rows.Next() {
		var (
			t     time.Time
			p     core.TopProvider
			total decimal.Decimal
		)
		if err := rows.Scan(&t, &p.Provider, &total); err != nil {
			return nil, core.NewDataAccessError(op, err)
		}
		p.Month = core.MonthOf(t)
		p.TotalPaid = total
		ranking = append(ranking, p)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewDataAccessError(op, err)
	}

	slog.DebugContext(ctx, "Ranking fetched", "month", month.String(), "top_n", topN, "rows", len(ranking))
	return ranking, nil
}

// TotalExcludingProvider sums total_pago over the top-topN ranking for the
// month, skipping rows whose provider exactly matches excluded. Returns zero
// when the ranking or the filtered set is empty.
func (r *PostgresRepository) TotalExcludingProvider(ctx context.Context, month core.Month, topN int, excluded string) (decimal.Decimal, error) {
	const op = "total excluding provider"

	if !core.ValidTopN(topN) {
		return decimal.Zero, fmt.Errorf("%w: %d", core.ErrInvalidTopN, topN)
	}

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, queryTotalExcludingProvider, month.Time, topN, excluded).Scan(&total); err != nil {
		return decimal.Zero, core.NewDataAccessError(op, err)
	}
	return total, nil
}

// MonthlyCategoryTotals returns sum(abs(valor)) grouped by truncated month and
// category, restricted to payments with a non-null date. Payments without a
// category aggregate under "Sem categoria".
func (r *PostgresRepository) MonthlyCategoryTotals(ctx context.Context) ([]core.MonthlyCategoryTotal, error) {
	const op = "monthly category totals"

	rows, err := r.pool.Query(ctx, queryMonthlyCategoryTotals)
	if err != nil {
		return nil, core.NewDataAccessError(op, err)
	}
	defer rows.Close()

	var totals []core.MonthlyCategoryTotal
	for rows.Next() {
		var (
			t   time.Time
			mct core.MonthlyCategoryTotal
		)
		if err := rows.Scan(&t, &mct.Category, &mct.TotalPaid); err != nil {
			return nil, core.NewDataAccessError(op, err)
		}
		mct.Month = core.MonthOf(t)
		totals = append(totals, mct)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewDataAccessError(op, err)
	}
	return totals, nil
}

// YearOverYearByCategory left-joins each (month, category) total against the
// same calendar month one year earlier. Rows without a prior-year match keep a
// null prior total; the variance fields follow core.Variance.
func (r *PostgresRepository) YearOverYearByCategory(ctx context.Context) ([]core.YearOverYear, error) {
	const op = "year over year by category"

	rows, err := r.pool.Query(ctx, queryYearOverYearByCategory)
	if err != nil {
		return nil, core.NewDataAccessError(op, err)
	}
	defer rows.Close()

	var out []core.YearOverYear
	for rows.Next() {
		var (
			t   time.Time
			yoy core.YearOverYear
		)
		if err := rows.Scan(&t, &yoy.Year, &yoy.MonthNumber, &yoy.Category, &yoy.TotalCurrent, &yoy.TotalPrior); err != nil {
			return nil, core.NewDataAccessError(op, err)
		}
		yoy.Month = core.MonthOf(t)
		yoy.VarianceAbs, yoy.VariancePct = core.Variance(yoy.TotalCurrent, yoy.TotalPrior)
		out = append(out, yoy)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewDataAccessError(op, err)
	}
	return out, nil
}
