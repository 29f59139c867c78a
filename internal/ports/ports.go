package ports

import (
	"context"
	"time"

	"MetricsGuard/internal/domain"
)

// RowSource pulls materialized KPI row-sets for one validation run. Row-sets
// are consumed per call and never retained by the core.
type RowSource interface {
	Usage(ctx context.Context) ([]domain.UsageRow, error)
	MonthlyUsage(ctx context.Context) ([]domain.MonthlyUsageRow, error)
	MarketShares(ctx context.Context) ([]domain.ShareRow, error)
	Growth(ctx context.Context) ([]domain.GrowthRow, error)
	Activation(ctx context.Context) ([]domain.ActivationRow, error)
	CategoryShares(ctx context.Context) ([]domain.CategoryRow, error)
}

// Notifier delivers a preformatted message under a severity tag. The core
// knows nothing about channels, retries, or credentials.
type Notifier interface {
	Notify(ctx context.Context, tag string, message string) error
}

// Scheduler controls when validation runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
