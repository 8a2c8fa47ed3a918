package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
)

type PgxBalanceRepository struct {
	BaseRepository
}

// newPgxBalanceRepository creates the aggregation repository behind the
// balance engine.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepository {
	return &PgxBalanceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceRepository = (*PgxBalanceRepository)(nil)

// DashboardSums returns the per-class dashboard sums, optionally scoped to
// one worker. Rows generated from a shift are matched on the shift's worker;
// manual rows on whichever side of the transfer the worker sits.
func (r *PgxBalanceRepository) DashboardSums(ctx context.Context, workerID *int64) (domain.DashboardTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'SALARY'), 0),
			COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'EXPENSE' AND o.status = 'PAID'), 0),
			COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'DEBT' AND o.status = 'PAID'), 0),
			COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'REPAYMENT' AND o.status = 'PAID'), 0),
			COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'BONUS' AND o.status = 'PAID'), 0),
			COALESCE(SUM(o.amount) FILTER (WHERE o.status = 'UNPAID'), 0)
		FROM obligations o
		JOIN categories c ON c.category_id = o.category_id
		LEFT JOIN shifts s ON s.shift_id = o.shift_id
		WHERE $1::bigint IS NULL
		   OR s.worker_id = $1
		   OR (o.shift_id IS NULL AND (o.recipient_id = $1 OR o.payer_id = $1));
	`

	var totals domain.DashboardTotals
	err := r.Pool.QueryRow(ctx, query, workerID).Scan(
		&totals.Salary,
		&totals.Expenses,
		&totals.Credits,
		&totals.Repayment,
		&totals.Bonus,
		&totals.Unpaid,
	)
	if err != nil {
		return domain.DashboardTotals{}, fmt.Errorf("failed to compute dashboard sums: %w", err)
	}
	return totals, nil
}

// monthlyClassSumsQuery sums paid rows per class and month; only the expense
// column additionally carries an all-statuses sum, for the remaining-to-pay
// line of the report.
const monthlyClassSumsQuery = `
	SELECT
		EXTRACT(YEAR FROM o.occurred_at)::int,
		EXTRACT(MONTH FROM o.occurred_at)::int,
		COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'SALARY' AND o.status = 'PAID'), 0),
		COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'DEBT' AND o.status = 'PAID'), 0),
		COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'REPAYMENT' AND o.status = 'PAID'), 0),
		COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'EXPENSE'), 0),
		COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'EXPENSE' AND o.status = 'PAID'), 0),
		COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'BONUS' AND o.status = 'PAID'), 0)
	FROM obligations o
	JOIN categories c ON c.category_id = o.category_id
	WHERE o.occurred_at >= $1 AND o.occurred_at < $2
	GROUP BY 1, 2
	ORDER BY 1, 2;
`

// MonthlyClassSums returns per-calendar-month obligation sums for occurred_at
// in [from, to).
func (r *PgxBalanceRepository) MonthlyClassSums(ctx context.Context, from, to time.Time) ([]domain.MonthlyClassRow, error) {
	rows, err := r.Pool.Query(ctx, monthlyClassSumsQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly class sums: %w", err)
	}
	defer rows.Close()

	var out []domain.MonthlyClassRow
	for rows.Next() {
		var row domain.MonthlyClassRow
		if err := rows.Scan(&row.Year, &row.Month, &row.Salary, &row.DebtPaid, &row.Repayment, &row.Expenses, &row.ExpensesPaid, &row.Bonus); err != nil {
			return nil, fmt.Errorf("failed to scan monthly class row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading monthly class rows: %w", err)
	}
	return out, nil
}

// MonthlyShiftStats returns per-calendar-month visit counts and work seconds
// over closed work shifts started in [from, to).
func (r *PgxBalanceRepository) MonthlyShiftStats(ctx context.Context, from, to time.Time) ([]domain.MonthlyShiftRow, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM t.started)::int,
			EXTRACT(MONTH FROM t.started)::int,
			COUNT(*)::int,
			COALESCE(SUM(t.work_seconds), 0)::bigint
		FROM (
			SELECT
				sh.shift_id,
				MIN(seg.start_time) AS started,
				SUM(CASE WHEN seg.kind = 'WORK' THEN EXTRACT(EPOCH FROM (seg.end_time - seg.start_time)) ELSE 0 END) AS work_seconds
			FROM shifts sh
			JOIN segments seg ON seg.shift_id = sh.shift_id
			WHERE sh.kind = 'WORK'
			GROUP BY sh.shift_id
			HAVING BOOL_AND(seg.end_time IS NOT NULL)
		) t
		WHERE t.started >= $1 AND t.started < $2
		GROUP BY 1, 2
		ORDER BY 1, 2;
	`

	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly shift stats: %w", err)
	}
	defer rows.Close()

	var out []domain.MonthlyShiftRow
	for rows.Next() {
		var row domain.MonthlyShiftRow
		if err := rows.Scan(&row.Year, &row.Month, &row.Visits, &row.WorkSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan monthly shift row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading monthly shift rows: %w", err)
	}
	return out, nil
}

// CumulativeDebtBefore returns the all-time paid debt and paid repayment sums
// with occurred_at strictly before the given instant.
func (r *PgxBalanceRepository) CumulativeDebtBefore(ctx context.Context, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'DEBT' AND o.status = 'PAID'), 0),
			COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'REPAYMENT' AND o.status = 'PAID'), 0)
		FROM obligations o
		JOIN categories c ON c.category_id = o.category_id
		WHERE o.occurred_at < $1;
	`

	var debt, repayment decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, before).Scan(&debt, &repayment); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to compute cumulative debt: %w", err)
	}
	return debt, repayment, nil
}

// MutualBalances returns, per worker, paid debt received minus paid
// repayments made, including zero lines.
func (r *PgxBalanceRepository) MutualBalances(ctx context.Context) ([]domain.MutualBalance, error) {
	query := `
		SELECT
			u.user_id,
			u.display_name,
			COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'DEBT' AND o.status = 'PAID' AND o.recipient_id = u.user_id), 0)
			- COALESCE(SUM(o.amount) FILTER (WHERE c.class = 'REPAYMENT' AND o.status = 'PAID' AND o.payer_id = u.user_id), 0)
		FROM users u
		LEFT JOIN obligations o ON o.recipient_id = u.user_id OR o.payer_id = u.user_id
		LEFT JOIN categories c ON c.category_id = o.category_id
		WHERE NOT u.is_employer
		GROUP BY u.user_id, u.display_name
		ORDER BY u.user_id;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mutual balances: %w", err)
	}
	defer rows.Close()

	var out []domain.MutualBalance
	for rows.Next() {
		var b domain.MutualBalance
		if err := rows.Scan(&b.WorkerID, &b.WorkerName, &b.Debt); err != nil {
			return nil, fmt.Errorf("failed to scan mutual balance row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading mutual balance rows: %w", err)
	}
	return out, nil
}
