package models

import "time"

// Shift is the shifts table row.
type Shift struct {
	ShiftID        int64  `db:"shift_id"`
	WorkerID       int64  `db:"worker_id"`
	Kind           string `db:"kind"`
	Description    string `db:"description"`
	TrackingNumber string `db:"tracking_number"`
	AuditFields
}

// Segment is the segments table row. EndTime is NULL while the segment runs.
type Segment struct {
	SegmentID   int64      `db:"segment_id"`
	ShiftID     int64      `db:"shift_id"`
	StartTime   time.Time  `db:"start_time"`
	EndTime     *time.Time `db:"end_time"`
	Kind        string     `db:"kind"`
	Description string     `db:"description"`
	AuditFields
}
