package domain

import "time"

// EventType enumerates the push events the ledger emits to connected clients.
type EventType string

const (
	EventShiftStarted      EventType = "shift_started"
	EventShiftStopped      EventType = "shift_stopped"
	EventShiftUpdated      EventType = "shift_updated"
	EventShiftDeleted      EventType = "shift_deleted"
	EventShiftsBulkDeleted EventType = "shifts_bulk_deleted"
	EventSegmentCreated    EventType = "segment_created"
	EventSegmentUpdated    EventType = "segment_updated"
	EventSegmentDeleted    EventType = "segment_deleted"
	EventObligationCreated EventType = "obligation_created"
	EventObligationUpdated EventType = "obligation_updated"
	EventTimerUpdate       EventType = "timer_update"
)

// Event is one push message delivered to a resolved set of user ids.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// TimerSession is the live view of one open segment, recomputed every tick.
type TimerSession struct {
	SegmentID         int64       `json:"id"`
	ShiftID           int64       `json:"shift_id"`
	WorkerID          int64       `json:"worker_id"`
	Kind              SegmentKind `json:"kind"`
	TotalWorkSeconds  int64       `json:"total_work_seconds"`
	TotalPauseSeconds int64       `json:"total_pause_seconds"`
}

// TimerUpdate carries the full set of live sessions; an empty Sessions list
// is a valid payload meaning nothing is active now.
type TimerUpdate struct {
	Sessions  []TimerSession `json:"sessions"`
	Timestamp time.Time      `json:"timestamp"`
}
