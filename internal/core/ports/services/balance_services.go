package services

import (
	"context"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// BalanceSvcFacade is the read side of the ledger: dashboard totals, monthly
// rollups, and per-worker mutual balances.
type BalanceSvcFacade interface {
	// Dashboard returns the aggregated totals, optionally scoped to a worker.
	Dashboard(ctx context.Context, actor domain.Actor, workerID *int64) (*domain.DashboardTotals, error)

	// Monthly returns per-calendar-month rollups for the last months months,
	// newest first, including the cumulative to-pay running balance.
	Monthly(ctx context.Context, actor domain.Actor, months int) ([]domain.MonthlyRollup, error)

	// Mutual returns outstanding per-worker debt lines above the epsilon.
	Mutual(ctx context.Context, actor domain.Actor) ([]domain.MutualBalance, error)
}
