package domain

import "github.com/shopspring/decimal"

// DashboardTotals aggregates obligations by class and status, optionally
// scoped to one worker.
type DashboardTotals struct {
	Salary    decimal.Decimal `json:"salary"`    // all statuses
	Expenses  decimal.Decimal `json:"expenses"`  // paid only
	Credits   decimal.Decimal `json:"credits"`   // paid debt-class
	Repayment decimal.Decimal `json:"repayment"` // paid only
	Bonus     decimal.Decimal `json:"bonus"`     // paid only
	Unpaid    decimal.Decimal `json:"unpaid"`    // any class, status unpaid
	Total     decimal.Decimal `json:"total"`     // salary + credits + bonus + expenses - repayment
	// DebtBalance is credits - repayment; surfaced when > 0.
	DebtBalance decimal.Decimal `json:"debtBalance"`
}

// MonthlyRollup summarizes one calendar month.
type MonthlyRollup struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Visits       int             `json:"visits"` // distinct closed work shifts
	Hours        decimal.Decimal `json:"hours"`
	Salary       decimal.Decimal `json:"salary"`
	Paid         decimal.Decimal `json:"paid"`   // credit given in month
	Offset       decimal.Decimal `json:"offset"` // negative of repayments in month
	ToPay        decimal.Decimal `json:"toPay"`  // cumulative debt - repayment up to month end
	Expenses     decimal.Decimal `json:"expenses"`
	ExpensesPaid decimal.Decimal `json:"expensesPaid"`
	Bonus        decimal.Decimal `json:"bonus"`
	Remaining    decimal.Decimal `json:"remaining"` // expenses - expensesPaid
	Total        decimal.Decimal `json:"total"`
}

// MutualBalance is one worker's outstanding debt line: paid debt-class
// obligations received minus paid repayments made.
type MutualBalance struct {
	WorkerID   int64           `json:"workerID"`
	WorkerName string          `json:"workerName"`
	Debt       decimal.Decimal `json:"debt"`
}

// MutualBalanceEpsilon is the currency-unit threshold at or below which a
// mutual balance is treated as settled and not surfaced.
var MutualBalanceEpsilon = decimal.NewFromFloat(0.01)

// MonthlyClassRow is one month's obligation sums as aggregated by the store.
type MonthlyClassRow struct {
	Year         int
	Month        int
	Salary       decimal.Decimal // paid salary-class
	DebtPaid     decimal.Decimal // paid debt-class
	Repayment    decimal.Decimal // paid repayment-class
	Expenses     decimal.Decimal // expense-class, all statuses
	ExpensesPaid decimal.Decimal // paid expense-class
	Bonus        decimal.Decimal // paid bonus-class
}

// MonthlyShiftRow is one month's closed-work-shift stats as aggregated by the
// store.
type MonthlyShiftRow struct {
	Year        int
	Month       int
	Visits      int
	WorkSeconds int64
}
