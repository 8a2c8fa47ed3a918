package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// BalanceRepository defines the aggregation queries behind the balance
// engine. All sums are computed in SQL; the service layer only combines them.
type BalanceRepository interface {
	// DashboardSums returns the per-class dashboard sums, optionally scoped to
	// one worker (matched as the shift's worker, falling back to the
	// obligation's recipient, and for the unpaid sum as payer too).
	DashboardSums(ctx context.Context, workerID *int64) (domain.DashboardTotals, error)

	// MonthlyClassSums returns per-calendar-month obligation sums for
	// occurred_at in [from, to).
	MonthlyClassSums(ctx context.Context, from, to time.Time) ([]domain.MonthlyClassRow, error)

	// MonthlyShiftStats returns per-calendar-month visit counts and work
	// seconds over closed work shifts started in [from, to).
	MonthlyShiftStats(ctx context.Context, from, to time.Time) ([]domain.MonthlyShiftRow, error)

	// CumulativeDebtBefore returns the all-time paid debt-class and paid
	// repayment-class sums with occurred_at strictly before the given instant.
	CumulativeDebtBefore(ctx context.Context, before time.Time) (debt, repayment decimal.Decimal, err error)

	// MutualBalances returns, per worker, paid debt received minus paid
	// repayments made, including zero lines (the service applies the epsilon).
	MutualBalances(ctx context.Context) ([]domain.MutualBalance, error)
}
