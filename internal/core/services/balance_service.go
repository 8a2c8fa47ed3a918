package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wagetrack/wagetrack/internal/apperrors"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
)

// balanceService combines the store's aggregation rows into the dashboard,
// monthly, and mutual views. All class arithmetic happens here so the SQL
// stays a plain per-class sum.
type balanceService struct {
	balanceRepo portsrepo.BalanceRepository
	now         func() time.Time
}

// NewBalanceService creates the balance read service. nowFn may be nil, in
// which case time.Now (UTC) is used.
func NewBalanceService(balanceRepo portsrepo.BalanceRepository, nowFn func() time.Time) portssvc.BalanceSvcFacade {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &balanceService{balanceRepo: balanceRepo, now: nowFn}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// Dashboard returns aggregated totals. Non-admins are always scoped to their
// own worker id.
func (s *balanceService) Dashboard(ctx context.Context, actor domain.Actor, workerID *int64) (*domain.DashboardTotals, error) {
	if !actor.Admin {
		workerID = &actor.UserID
	}

	totals, err := s.balanceRepo.DashboardSums(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard sums: %w", err)
	}

	totals.Total = totals.Salary.
		Add(totals.Credits).
		Add(totals.Bonus).
		Add(totals.Expenses).
		Sub(totals.Repayment)
	totals.DebtBalance = totals.Credits.Sub(totals.Repayment)
	return &totals, nil
}

// Monthly returns rollups for the last months calendar months, newest first.
// Admin only. The to-pay column is the cumulative paid debt minus paid
// repayments up to and including each month.
func (s *balanceService) Monthly(ctx context.Context, actor domain.Actor, months int) ([]domain.MonthlyRollup, error) {
	if !actor.Admin {
		return nil, apperrors.ErrForbidden
	}
	if months <= 0 {
		months = 12
	}

	now := s.now()
	// Window spans whole calendar months ending with the current one.
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	from := to.AddDate(0, -months, 0)

	classRows, err := s.balanceRepo.MonthlyClassSums(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly class sums: %w", err)
	}
	shiftRows, err := s.balanceRepo.MonthlyShiftStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly shift stats: %w", err)
	}
	openingDebt, openingRepayment, err := s.balanceRepo.CumulativeDebtBefore(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load opening debt balance: %w", err)
	}

	type monthKey struct{ year, month int }
	classByMonth := make(map[monthKey]domain.MonthlyClassRow, len(classRows))
	for _, row := range classRows {
		classByMonth[monthKey{row.Year, row.Month}] = row
	}
	shiftsByMonth := make(map[monthKey]domain.MonthlyShiftRow, len(shiftRows))
	for _, row := range shiftRows {
		shiftsByMonth[monthKey{row.Year, row.Month}] = row
	}

	// Walk oldest to newest so the running to-pay balance accumulates, then
	// reverse for the newest-first presentation.
	rollups := make([]domain.MonthlyRollup, 0, months)
	running := openingDebt.Sub(openingRepayment)
	for cursor := from; cursor.Before(to); cursor = cursor.AddDate(0, 1, 0) {
		key := monthKey{cursor.Year(), int(cursor.Month())}
		class := classByMonth[key]
		shifts := shiftsByMonth[key]

		running = running.Add(class.DebtPaid).Sub(class.Repayment)

		hours := decimal.NewFromInt(shifts.WorkSeconds).
			Div(decimal.NewFromInt(secondsPerHour)).
			Round(2)
		total := class.Salary.
			Add(class.DebtPaid).
			Add(class.Bonus).
			Add(class.ExpensesPaid).
			Sub(class.Repayment)

		rollups = append(rollups, domain.MonthlyRollup{
			Year:         key.year,
			Month:        key.month,
			Visits:       shifts.Visits,
			Hours:        hours,
			Salary:       class.Salary,
			Paid:         class.DebtPaid,
			Offset:       class.Repayment.Neg(),
			ToPay:        running,
			Expenses:     class.Expenses,
			ExpensesPaid: class.ExpensesPaid,
			Bonus:        class.Bonus,
			Remaining:    class.Expenses.Sub(class.ExpensesPaid),
			Total:        total,
		})
	}

	for i, j := 0, len(rollups)-1; i < j; i, j = i+1, j-1 {
		rollups[i], rollups[j] = rollups[j], rollups[i]
	}
	return rollups, nil
}

// Mutual returns the outstanding per-worker debt lines, dropping balances
// within the settlement epsilon. Admin only.
func (s *balanceService) Mutual(ctx context.Context, actor domain.Actor) ([]domain.MutualBalance, error) {
	if !actor.Admin {
		return nil, apperrors.ErrForbidden
	}

	balances, err := s.balanceRepo.MutualBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load mutual balances: %w", err)
	}

	out := make([]domain.MutualBalance, 0, len(balances))
	for _, b := range balances {
		if b.Debt.Abs().LessThanOrEqual(domain.MutualBalanceEpsilon) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
