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

const defaultShiftPageSize = 50

type PgxShiftRepository struct {
	BaseRepository
}

// newPgxShiftRepository creates a new repository for shift and segment data.
func newPgxShiftRepository(pool *pgxpool.Pool) portsrepo.ShiftRepositoryFacade {
	return &PgxShiftRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ShiftRepositoryFacade = (*PgxShiftRepository)(nil)

const shiftColumns = `shift_id, worker_id, kind, description, tracking_number, created_at, created_by, last_updated_at, last_updated_by`

const segmentColumns = `segment_id, shift_id, start_time, end_time, kind, description, created_at, created_by, last_updated_at, last_updated_by`

func scanShift(row pgx.Row) (models.Shift, error) {
	var m models.Shift
	err := row.Scan(
		&m.ShiftID,
		&m.WorkerID,
		&m.Kind,
		&m.Description,
		&m.TrackingNumber,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanSegment(row pgx.Row) (models.Segment, error) {
	var m models.Segment
	err := row.Scan(
		&m.SegmentID,
		&m.ShiftID,
		&m.StartTime,
		&m.EndTime,
		&m.Kind,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindShiftByID retrieves a shift with its segments ordered by start time.
func (r *PgxShiftRepository) FindShiftByID(ctx context.Context, shiftID int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE shift_id = $1;`

	modelShift, err := scanShift(r.Pool.QueryRow(ctx, query, shiftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find shift %d: %w", shiftID, err)
	}

	segments, err := r.segmentsForShifts(ctx, []int64{shiftID})
	if err != nil {
		return nil, err
	}

	shift := mapping.ToDomainShift(modelShift)
	shift.Segments = segments[shiftID]
	return &shift, nil
}

// FindSegmentByID retrieves a single segment.
func (r *PgxShiftRepository) FindSegmentByID(ctx context.Context, segmentID int64) (*domain.Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE segment_id = $1;`

	m, err := scanSegment(r.Pool.QueryRow(ctx, query, segmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find segment %d: %w", segmentID, err)
	}

	segment := mapping.ToDomainSegment(m)
	return &segment, nil
}

// FindOpenSegmentForWorker returns the worker's open segment anywhere in the
// ledger.
func (r *PgxShiftRepository) FindOpenSegmentForWorker(ctx context.Context, workerID int64) (*domain.Segment, error) {
	query := `
		SELECT seg.segment_id, seg.shift_id, seg.start_time, seg.end_time, seg.kind, seg.description, seg.created_at, seg.created_by, seg.last_updated_at, seg.last_updated_by
		FROM segments seg
		JOIN shifts s ON s.shift_id = seg.shift_id
		WHERE s.worker_id = $1 AND seg.end_time IS NULL
		LIMIT 1;
	`

	m, err := scanSegment(r.Pool.QueryRow(ctx, query, workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open segment for worker %d: %w", workerID, err)
	}

	segment := mapping.ToDomainSegment(m)
	return &segment, nil
}

// ListShifts retrieves a newest-first page of shifts with their segments.
func (r *PgxShiftRepository) ListShifts(ctx context.Context, params portsrepo.ListShiftsParams) ([]domain.Shift, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultShiftPageSize
	}

	query := `SELECT ` + shiftColumns + ` FROM shifts`
	args := []any{}
	conditions := []string{}

	if params.WorkerID != nil {
		args = append(args, *params.WorkerID)
		conditions = append(conditions, fmt.Sprintf("worker_id = $%d", len(args)))
	}
	if params.NextToken != nil {
		cursorTime, cursorID, err := pagination.DecodeCursor(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, cursorTime, cursorID)
		conditions = append(conditions, fmt.Sprintf("(created_at, shift_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, shift_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var modelShifts []models.Shift
	for rows.Next() {
		m, err := scanShift(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan shift row: %w", err)
		}
		modelShifts = append(modelShifts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading shift rows: %w", err)
	}

	// One extra row fetched to detect whether another page exists.
	var nextToken *string
	if len(modelShifts) > limit {
		modelShifts = modelShifts[:limit]
		last := modelShifts[len(modelShifts)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.ShiftID)
		nextToken = &token
	}

	shifts, err := r.attachSegments(ctx, modelShifts)
	if err != nil {
		return nil, nil, err
	}
	return shifts, nextToken, nil
}

// ListShiftsByWorker retrieves all of a worker's shifts with segments,
// optionally restricted to one kind.
func (r *PgxShiftRepository) ListShiftsByWorker(ctx context.Context, workerID int64, kind *domain.ShiftKind) ([]domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE worker_id = $1`
	args := []any{workerID}
	if kind != nil {
		args = append(args, string(*kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, shift_id DESC;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts for worker %d: %w", workerID, err)
	}
	defer rows.Close()

	var modelShifts []models.Shift
	for rows.Next() {
		m, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift row: %w", err)
		}
		modelShifts = append(modelShifts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading shift rows: %w", err)
	}

	return r.attachSegments(ctx, modelShifts)
}

// ListOpenShifts retrieves every shift that currently has an open segment.
func (r *PgxShiftRepository) ListOpenShifts(ctx context.Context) ([]domain.Shift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE shift_id IN (SELECT shift_id FROM segments WHERE end_time IS NULL)
		ORDER BY shift_id;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open shifts: %w", err)
	}
	defer rows.Close()

	var modelShifts []models.Shift
	for rows.Next() {
		m, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift row: %w", err)
		}
		modelShifts = append(modelShifts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading shift rows: %w", err)
	}

	return r.attachSegments(ctx, modelShifts)
}

// CreateShiftWithSegments inserts a shift, its segments, and optionally the
// obligation generated for it, all in one transaction. Tracking numbers are
// assigned from the row ids inside the same transaction.
func (r *PgxShiftRepository) CreateShiftWithSegments(ctx context.Context, shift domain.Shift, obligation *domain.Obligation) (*domain.Shift, *domain.Obligation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	modelShift := mapping.ToModelShift(shift)

	insertShift := `
		INSERT INTO shifts (worker_id, kind, description, tracking_number, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, '', $4, $5, $6, $7)
		RETURNING shift_id;
	`
	err = tx.QueryRow(ctx, insertShift,
		modelShift.WorkerID,
		modelShift.Kind,
		modelShift.Description,
		modelShift.CreatedAt,
		modelShift.CreatedBy,
		modelShift.LastUpdatedAt,
		modelShift.LastUpdatedBy,
	).Scan(&modelShift.ShiftID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert shift: %w", err)
	}

	modelShift.TrackingNumber = domain.ShiftTrackingNumber(modelShift.ShiftID)
	if _, err := tx.Exec(ctx, `UPDATE shifts SET tracking_number = $1 WHERE shift_id = $2;`, modelShift.TrackingNumber, modelShift.ShiftID); err != nil {
		return nil, nil, fmt.Errorf("failed to assign shift tracking number: %w", err)
	}

	insertSegment := `
		INSERT INTO segments (shift_id, start_time, end_time, kind, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING segment_id;
	`
	saved := mapping.ToDomainShift(modelShift)
	saved.Segments = make([]domain.Segment, len(shift.Segments))
	for i, segment := range shift.Segments {
		modelSegment := mapping.ToModelSegment(segment)
		err = tx.QueryRow(ctx, insertSegment,
			modelShift.ShiftID,
			modelSegment.StartTime,
			modelSegment.EndTime,
			modelSegment.Kind,
			modelSegment.Description,
			modelSegment.CreatedAt,
			modelSegment.CreatedBy,
			modelSegment.LastUpdatedAt,
			modelSegment.LastUpdatedBy,
		).Scan(&modelSegment.SegmentID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert segment: %w", err)
		}
		modelSegment.ShiftID = modelShift.ShiftID
		saved.Segments[i] = mapping.ToDomainSegment(modelSegment)
	}

	var savedObligation *domain.Obligation
	if obligation != nil {
		withShift := *obligation
		shiftID := modelShift.ShiftID
		withShift.ShiftID = &shiftID
		savedObligation, err = insertObligationTx(ctx, tx, withShift)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &saved, savedObligation, nil
}

// CloseAndOpenSegment closes one segment at end and opens a replacement in
// the same shift atomically.
func (r *PgxShiftRepository) CloseAndOpenSegment(ctx context.Context, closeSegmentID int64, end time.Time, open domain.Segment) (*domain.Segment, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := closeSegmentTx(ctx, tx, closeSegmentID, end, open.LastUpdatedBy); err != nil {
		return nil, err
	}

	modelSegment := mapping.ToModelSegment(open)
	insertSegment := `
		INSERT INTO segments (shift_id, start_time, end_time, kind, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING segment_id;
	`
	err = tx.QueryRow(ctx, insertSegment,
		modelSegment.ShiftID,
		modelSegment.StartTime,
		modelSegment.EndTime,
		modelSegment.Kind,
		modelSegment.Description,
		modelSegment.CreatedAt,
		modelSegment.CreatedBy,
		modelSegment.LastUpdatedAt,
		modelSegment.LastUpdatedBy,
	).Scan(&modelSegment.SegmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert replacement segment: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	opened := mapping.ToDomainSegment(modelSegment)
	return &opened, nil
}

// CloseSegmentWithObligation closes the segment at end and persists the
// generated obligation in the same transaction.
func (r *PgxShiftRepository) CloseSegmentWithObligation(ctx context.Context, segmentID int64, end time.Time, updatedBy int64, obligation *domain.Obligation) (*domain.Obligation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := closeSegmentTx(ctx, tx, segmentID, end, updatedBy); err != nil {
		return nil, err
	}

	var savedObligation *domain.Obligation
	if obligation != nil {
		savedObligation, err = insertObligationTx(ctx, tx, *obligation)
		if err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return savedObligation, nil
}

// UpdateSegment rewrites a segment's fields and persists the obligation
// generated by a closing edit in the same transaction.
func (r *PgxShiftRepository) UpdateSegment(ctx context.Context, segment domain.Segment, obligation *domain.Obligation) (*domain.Obligation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelSegment(segment)
	query := `
		UPDATE segments
		SET start_time = $1, end_time = $2, kind = $3, description = $4, last_updated_at = $5, last_updated_by = $6
		WHERE segment_id = $7;
	`
	tag, err := tx.Exec(ctx, query,
		m.StartTime,
		m.EndTime,
		m.Kind,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.SegmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update segment %d: %w", m.SegmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	var savedObligation *domain.Obligation
	if obligation != nil {
		savedObligation, err = insertObligationTx(ctx, tx, *obligation)
		if err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return savedObligation, nil
}

// UpdateShift rewrites a shift's description and kind.
func (r *PgxShiftRepository) UpdateShift(ctx context.Context, shift domain.Shift) error {
	m := mapping.ToModelShift(shift)
	query := `
		UPDATE shifts
		SET kind = $1, description = $2, last_updated_at = $3, last_updated_by = $4
		WHERE shift_id = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, m.Kind, m.Description, m.LastUpdatedAt, m.LastUpdatedBy, m.ShiftID)
	if err != nil {
		return fmt.Errorf("failed to update shift %d: %w", m.ShiftID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteSegment removes one segment.
func (r *PgxShiftRepository) DeleteSegment(ctx context.Context, segmentID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM segments WHERE segment_id = $1;`, segmentID)
	if err != nil {
		return fmt.Errorf("failed to delete segment %d: %w", segmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteShift removes a shift. Segments and the shift's obligation go with it
// via foreign key cascade.
func (r *PgxShiftRepository) DeleteShift(ctx context.Context, shiftID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM shifts WHERE shift_id = $1;`, shiftID)
	if err != nil {
		return fmt.Errorf("failed to delete shift %d: %w", shiftID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteShifts bulk-removes shifts with the same cascade rules.
func (r *PgxShiftRepository) DeleteShifts(ctx context.Context, shiftIDs []int64) error {
	if len(shiftIDs) == 0 {
		return nil
	}
	_, err := r.Pool.Exec(ctx, `DELETE FROM shifts WHERE shift_id = ANY($1);`, shiftIDs)
	if err != nil {
		return fmt.Errorf("failed to bulk delete shifts: %w", err)
	}
	return nil
}

// closeSegmentTx sets end_time on an open segment. Closing an already closed
// segment is reported as a conflict so racing stops fail cleanly.
func closeSegmentTx(ctx context.Context, tx pgx.Tx, segmentID int64, end time.Time, updatedBy int64) error {
	query := `
		UPDATE segments
		SET end_time = $1, last_updated_at = $1, last_updated_by = $2
		WHERE segment_id = $3 AND end_time IS NULL;
	`
	tag, err := tx.Exec(ctx, query, end, updatedBy, segmentID)
	if err != nil {
		return fmt.Errorf("failed to close segment %d: %w", segmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: segment %d is not open", apperrors.ErrConflict, segmentID)
	}
	return nil
}

// segmentsForShifts loads the segments of the given shifts keyed by shift id,
// ordered by start time.
func (r *PgxShiftRepository) segmentsForShifts(ctx context.Context, shiftIDs []int64) (map[int64][]domain.Segment, error) {
	if len(shiftIDs) == 0 {
		return map[int64][]domain.Segment{}, nil
	}

	query := `SELECT ` + segmentColumns + ` FROM segments WHERE shift_id = ANY($1) ORDER BY start_time, segment_id;`
	rows, err := r.Pool.Query(ctx, query, shiftIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load segments: %w", err)
	}
	defer rows.Close()

	segments := make(map[int64][]domain.Segment, len(shiftIDs))
	for rows.Next() {
		m, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment row: %w", err)
		}
		segments[m.ShiftID] = append(segments[m.ShiftID], mapping.ToDomainSegment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading segment rows: %w", err)
	}
	return segments, nil
}

func (r *PgxShiftRepository) attachSegments(ctx context.Context, modelShifts []models.Shift) ([]domain.Shift, error) {
	shiftIDs := make([]int64, len(modelShifts))
	for i, m := range modelShifts {
		shiftIDs[i] = m.ShiftID
	}
	segments, err := r.segmentsForShifts(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}

	shifts := make([]domain.Shift, len(modelShifts))
	for i, m := range modelShifts {
		shifts[i] = mapping.ToDomainShift(m)
		shifts[i].Segments = segments[m.ShiftID]
	}
	return shifts, nil
}
