package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"MetricsGuard/internal/domain"
	"MetricsGuard/internal/ports"
)

// PostgresSource reads the six KPI tables from the metrics warehouse.
type PostgresSource struct {
	db *sql.DB
}

var _ ports.RowSource = (*PostgresSource)(nil)

// Open connects to Postgres with the given DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewPostgresSource wires a sql.DB implementation.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) query(ctx context.Context, builder sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	return rows, nil
}

// Usage loads raw usage rows.
func (s *PostgresSource) Usage(ctx context.Context) ([]domain.UsageRow, error) {
	rows, err := s.query(ctx, sq.
		Select("year_month", "card_company", "usage_amount").
		From("credit_card_usage"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UsageRow
	for rows.Next() {
		var r domain.UsageRow
		if err := rows.Scan(&r.YearMonth, &r.CardCompany, &r.UsageAmount); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MonthlyUsage loads per-company monthly aggregates.
func (s *PostgresSource) MonthlyUsage(ctx context.Context) ([]domain.MonthlyUsageRow, error) {
	rows, err := s.query(ctx, sq.
		Select("year_month", "card_company", "total_usage_amount").
		From("kpi_monthly_usage"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MonthlyUsageRow
	for rows.Next() {
		var r domain.MonthlyUsageRow
		if err := rows.Scan(&r.YearMonth, &r.CardCompany, &r.TotalUsageAmount); err != nil {
			return nil, fmt.Errorf("scan monthly usage row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarketShares loads market share rows.
func (s *PostgresSource) MarketShares(ctx context.Context) ([]domain.ShareRow, error) {
	rows, err := s.query(ctx, sq.
		Select("year_month", "card_company", "market_share_pct", "share_change_pp").
		From("kpi_market_share"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ShareRow
	for rows.Next() {
		var r domain.ShareRow
		var change sql.NullFloat64
		if err := rows.Scan(&r.YearMonth, &r.CardCompany, &r.MarketSharePct, &change); err != nil {
			return nil, fmt.Errorf("scan share row: %w", err)
		}
		r.ShareChangePP = change.Float64
		out = append(out, r)
	}
	return out, rows.Err()
}

// Growth loads reported growth figures. Baselines and rates may be NULL for
// companies without enough history.
func (s *PostgresSource) Growth(ctx context.Context) ([]domain.GrowthRow, error) {
	rows, err := s.query(ctx, sq.
		Select("year_month", "card_company", "current_amount", "prev_month_amount",
			"prev_year_amount", "mom_growth_rate", "yoy_growth_rate").
		From("kpi_growth_rate"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GrowthRow
	for rows.Next() {
		var r domain.GrowthRow
		var current, prevMonth, prevYear, mom, yoy sql.NullFloat64
		if err := rows.Scan(&r.YearMonth, &r.CardCompany, &current, &prevMonth, &prevYear, &mom, &yoy); err != nil {
			return nil, fmt.Errorf("scan growth row: %w", err)
		}
		r.CurrentAmount = nullableFloat(current)
		r.PrevMonthAmount = nullableFloat(prevMonth)
		r.PrevYearAmount = nullableFloat(prevYear)
		r.MoMGrowthRate = nullableFloat(mom)
		r.YoYGrowthRate = nullableFloat(yoy)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Activation loads activation rate rows.
func (s *PostgresSource) Activation(ctx context.Context) ([]domain.ActivationRow, error) {
	rows, err := s.query(ctx, sq.
		Select("year_month", "card_company", "activation_rate").
		From("kpi_activation_rate"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivationRow
	for rows.Next() {
		var r domain.ActivationRow
		if err := rows.Scan(&r.YearMonth, &r.CardCompany, &r.ActivationRate); err != nil {
			return nil, fmt.Errorf("scan activation row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CategoryShares loads business-category share rows.
func (s *PostgresSource) CategoryShares(ctx context.Context) ([]domain.CategoryRow, error) {
	rows, err := s.query(ctx, sq.
		Select("year_month", "card_company", "business_category", "category_share_pct").
		From("kpi_category_usage"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CategoryRow
	for rows.Next() {
		var r domain.CategoryRow
		if err := rows.Scan(&r.YearMonth, &r.CardCompany, &r.BusinessCategory, &r.CategorySharePct); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
