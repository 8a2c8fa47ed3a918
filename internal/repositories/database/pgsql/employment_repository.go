package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wagetrack/wagetrack/internal/apperrors"
	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	"github.com/wagetrack/wagetrack/internal/models"
	"github.com/wagetrack/wagetrack/internal/utils/mapping"
)

type PgxEmploymentRepository struct {
	BaseRepository
}

// newPgxEmploymentRepository creates a new repository for employment records.
func newPgxEmploymentRepository(pool *pgxpool.Pool) portsrepo.EmploymentRepository {
	return &PgxEmploymentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EmploymentRepository = (*PgxEmploymentRepository)(nil)

const employmentColumns = `employment_id, worker_id, hourly_rate, currency_code, active, created_at, created_by, last_updated_at, last_updated_by`

func scanEmployment(row pgx.Row) (models.EmploymentRecord, error) {
	var m models.EmploymentRecord
	err := row.Scan(
		&m.EmploymentID,
		&m.WorkerID,
		&m.HourlyRate,
		&m.CurrencyCode,
		&m.Active,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindActiveByWorker retrieves the worker's active employment record. A
// partial unique index guarantees at most one active record per worker.
func (r *PgxEmploymentRepository) FindActiveByWorker(ctx context.Context, workerID int64) (*domain.EmploymentRecord, error) {
	query := `SELECT ` + employmentColumns + ` FROM employment_records WHERE worker_id = $1 AND active;`

	m, err := scanEmployment(r.Pool.QueryRow(ctx, query, workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active employment for worker %d: %w", workerID, err)
	}

	record := mapping.ToDomainEmploymentRecord(m)
	return &record, nil
}

// ListByWorker retrieves all of a worker's employment records, newest first.
func (r *PgxEmploymentRepository) ListByWorker(ctx context.Context, workerID int64) ([]domain.EmploymentRecord, error) {
	query := `SELECT ` + employmentColumns + ` FROM employment_records WHERE worker_id = $1 ORDER BY created_at DESC, employment_id DESC;`

	rows, err := r.Pool.Query(ctx, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employment records for worker %d: %w", workerID, err)
	}
	defer rows.Close()

	var records []domain.EmploymentRecord
	for rows.Next() {
		m, err := scanEmployment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employment row: %w", err)
		}
		records = append(records, mapping.ToDomainEmploymentRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading employment rows: %w", err)
	}
	return records, nil
}
