package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wagetrack/wagetrack/internal/apperrors"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	"github.com/wagetrack/wagetrack/internal/models"
	"github.com/wagetrack/wagetrack/internal/utils/mapping"
	"github.com/wagetrack/wagetrack/internal/utils/pagination"
)

const defaultObligationPageSize = 50

type PgxObligationRepository struct {
	BaseRepository
}

// newPgxObligationRepository creates a new repository for obligation data.
func newPgxObligationRepository(pool *pgxpool.Pool) portsrepo.ObligationRepositoryFacade {
	return &PgxObligationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ObligationRepositoryFacade = (*PgxObligationRepository)(nil)

// obligationColumns always joins categories so the class travels with every
// row.
const obligationColumns = `o.obligation_id, o.payer_id, o.recipient_id, o.category_id, c.class, o.amount, o.currency_code, o.status, o.shift_id, o.occurred_at, o.tracking_number, o.description, o.created_at, o.created_by, o.last_updated_at, o.last_updated_by`

const obligationFrom = ` FROM obligations o JOIN categories c ON c.category_id = o.category_id`

func scanObligation(row pgx.Row) (models.Obligation, error) {
	var m models.Obligation
	err := row.Scan(
		&m.ObligationID,
		&m.PayerID,
		&m.RecipientID,
		&m.CategoryID,
		&m.Class,
		&m.Amount,
		&m.CurrencyCode,
		&m.Status,
		&m.ShiftID,
		&m.OccurredAt,
		&m.TrackingNumber,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindObligationByID retrieves one obligation with its class resolved.
func (r *PgxObligationRepository) FindObligationByID(ctx context.Context, obligationID int64) (*domain.Obligation, error) {
	query := `SELECT ` + obligationColumns + obligationFrom + ` WHERE o.obligation_id = $1;`

	m, err := scanObligation(r.Pool.QueryRow(ctx, query, obligationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find obligation %d: %w", obligationID, err)
	}

	obligation := mapping.ToDomainObligation(m)
	return &obligation, nil
}

// FindObligationByShiftID retrieves the obligation generated for a shift.
func (r *PgxObligationRepository) FindObligationByShiftID(ctx context.Context, shiftID int64) (*domain.Obligation, error) {
	query := `SELECT ` + obligationColumns + obligationFrom + ` WHERE o.shift_id = $1;`

	m, err := scanObligation(r.Pool.QueryRow(ctx, query, shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find obligation for shift %d: %w", shiftID, err)
	}

	obligation := mapping.ToDomainObligation(m)
	return &obligation, nil
}

// ListObligations retrieves a newest-first page of obligations.
func (r *PgxObligationRepository) ListObligations(ctx context.Context, params portsrepo.ListObligationsParams) ([]domain.Obligation, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultObligationPageSize
	}

	query := `SELECT ` + obligationColumns + obligationFrom
	args := []any{}
	conditions := []string{}

	if params.WorkerID != nil {
		// A worker's rows are those they pay or receive.
		args = append(args, *params.WorkerID)
		conditions = append(conditions, fmt.Sprintf("(o.payer_id = $%d OR o.recipient_id = $%d)", len(args), len(args)))
	}
	if params.Status != nil {
		args = append(args, string(*params.Status))
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if params.Class != nil {
		args = append(args, string(*params.Class))
		conditions = append(conditions, fmt.Sprintf("c.class = $%d", len(args)))
	}
	if params.NextToken != nil {
		cursorTime, cursorID, err := pagination.DecodeCursor(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, cursorTime, cursorID)
		conditions = append(conditions, fmt.Sprintf("(o.occurred_at, o.obligation_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY o.occurred_at DESC, o.obligation_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var modelObligations []models.Obligation
	for rows.Next() {
		m, err := scanObligation(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan obligation row: %w", err)
		}
		modelObligations = append(modelObligations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading obligation rows: %w", err)
	}

	var nextToken *string
	if len(modelObligations) > limit {
		modelObligations = modelObligations[:limit]
		last := modelObligations[len(modelObligations)-1]
		token := pagination.EncodeCursor(last.OccurredAt, last.ObligationID)
		nextToken = &token
	}

	return mapping.ToDomainObligationSlice(modelObligations), nextToken, nil
}

// SaveObligation inserts an obligation and assigns its tracking number in the
// same transaction.
func (r *PgxObligationRepository) SaveObligation(ctx context.Context, obligation domain.Obligation) (*domain.Obligation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	saved, err := insertObligationTx(ctx, tx, obligation)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// MarkPaidAndSettle flips an unpaid obligation to paid and, when the paid row
// is debt-class, offsets every earlier unpaid salary or expense obligation
// with the same payer/recipient pair. Both steps run in one transaction so a
// crash can never leave a half-applied settlement.
func (r *PgxObligationRepository) MarkPaidAndSettle(ctx context.Context, obligationID int64, updatedBy int64, at time.Time) (*domain.Obligation, []int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	payQuery := `
		UPDATE obligations o
		SET status = 'PAID', last_updated_at = $1, last_updated_by = $2
		FROM categories c
		WHERE o.obligation_id = $3 AND o.status = 'UNPAID' AND c.category_id = o.category_id
		RETURNING o.payer_id, o.recipient_id, o.occurred_at, c.class;
	`
	var payerID, recipientID int64
	var occurredAt time.Time
	var class string
	err = tx.QueryRow(ctx, payQuery, at, updatedBy, obligationID).Scan(&payerID, &recipientID, &occurredAt, &class)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: obligation %d is not unpaid", apperrors.ErrConflict, obligationID)
		}
		return nil, nil, fmt.Errorf("failed to mark obligation %d paid: %w", obligationID, err)
	}

	var offsetIDs []int64
	if domain.CategoryClass(class) == domain.ClassDebt {
		settleQuery := `
			UPDATE obligations o
			SET status = 'OFFSET', last_updated_at = $1, last_updated_by = $2
			FROM categories c
			WHERE c.category_id = o.category_id
			  AND o.status = 'UNPAID'
			  AND c.class IN ('SALARY', 'EXPENSE')
			  AND o.payer_id = $3
			  AND o.recipient_id = $4
			  AND o.occurred_at < $5
			RETURNING o.obligation_id;
		`
		rows, err := tx.Query(ctx, settleQuery, at, updatedBy, payerID, recipientID, occurredAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to offset obligations for %d: %w", obligationID, err)
		}
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, nil, fmt.Errorf("failed to scan offset id: %w", err)
			}
			offsetIDs = append(offsetIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, nil, fmt.Errorf("failed reading offset ids: %w", err)
		}
	}

	query := `SELECT ` + obligationColumns + obligationFrom + ` WHERE o.obligation_id = $1;`
	m, err := scanObligation(tx.QueryRow(ctx, query, obligationID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload obligation %d: %w", obligationID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	paid := mapping.ToDomainObligation(m)
	return &paid, offsetIDs, nil
}

// DeleteObligation removes an obligation while it is still unpaid.
func (r *PgxObligationRepository) DeleteObligation(ctx context.Context, obligationID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM obligations WHERE obligation_id = $1 AND status = 'UNPAID';`, obligationID)
	if err != nil {
		return fmt.Errorf("failed to delete obligation %d: %w", obligationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// insertObligationTx inserts an obligation inside an existing transaction and
// assigns its tracking number from the new row id.
func insertObligationTx(ctx context.Context, tx pgx.Tx, obligation domain.Obligation) (*domain.Obligation, error) {
	m := mapping.ToModelObligation(obligation)

	insert := `
		INSERT INTO obligations (payer_id, recipient_id, category_id, amount, currency_code, status, shift_id, occurred_at, tracking_number, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '', $9, $10, $11, $12, $13)
		RETURNING obligation_id;
	`
	err := tx.QueryRow(ctx, insert,
		m.PayerID,
		m.RecipientID,
		m.CategoryID,
		m.Amount,
		m.CurrencyCode,
		m.Status,
		m.ShiftID,
		m.OccurredAt,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&m.ObligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert obligation: %w", err)
	}

	m.TrackingNumber = domain.ObligationTrackingNumber(m.ObligationID)
	if _, err := tx.Exec(ctx, `UPDATE obligations SET tracking_number = $1 WHERE obligation_id = $2;`, m.TrackingNumber, m.ObligationID); err != nil {
		return nil, fmt.Errorf("failed to assign obligation tracking number: %w", err)
	}

	saved := mapping.ToDomainObligation(m)
	saved.Class = obligation.Class
	return &saved, nil
}
