package dto

import (
	"time"

	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// StartShiftRequest starts live tracking. WorkerID may be set by an admin to
// start a shift on behalf of a worker; it defaults to the caller.
type StartShiftRequest struct {
	WorkerID    *int64 `json:"workerID,omitempty"`
	Description string `json:"description"`
}

// SwitchTaskRequest re-labels work without stopping the clock.
type SwitchTaskRequest struct {
	Description string `json:"description"`
}

// ManualSegmentRequest is one fully specified segment of a manual shift.
type ManualSegmentRequest struct {
	StartTime   time.Time          `json:"startTime" binding:"required"`
	EndTime     time.Time          `json:"endTime" binding:"required"`
	Kind        domain.SegmentKind `json:"kind" binding:"required,oneof=WORK PAUSE"`
	Description string             `json:"description"`
}

// ManualCreateShiftRequest records a past shift in one call.
type ManualCreateShiftRequest struct {
	WorkerID    int64                  `json:"workerID" binding:"required"`
	Kind        domain.ShiftKind       `json:"kind" binding:"required,oneof=WORK SICK_LEAVE VACATION DAY_OFF UNPAID_LEAVE"`
	Description string                 `json:"description"`
	Segments    []ManualSegmentRequest `json:"segments"`
	// StartTime/EndTime bound the single auto-created segment for non-work
	// kinds; ignored for kind=WORK.
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// TimeOffRequest records a non-work absence.
type TimeOffRequest struct {
	WorkerID    int64            `json:"workerID" binding:"required"`
	Kind        domain.ShiftKind `json:"kind" binding:"required,oneof=SICK_LEAVE VACATION DAY_OFF UNPAID_LEAVE"`
	StartTime   time.Time        `json:"startTime" binding:"required"`
	EndTime     time.Time        `json:"endTime" binding:"required"`
	Description string           `json:"description"`
}

// UpdateSegmentRequest edits a segment; nil fields are left unchanged.
type UpdateSegmentRequest struct {
	StartTime   *time.Time          `json:"startTime,omitempty"`
	EndTime     *time.Time          `json:"endTime,omitempty"`
	Kind        *domain.SegmentKind `json:"kind,omitempty"`
	Description *string             `json:"description,omitempty"`
}

// UpdateShiftRequest edits a shift; nil fields are left unchanged.
type UpdateShiftRequest struct {
	Description *string `json:"description,omitempty"`
}

// BulkDeleteShiftsRequest removes several shifts at once (admin only).
type BulkDeleteShiftsRequest struct {
	ShiftIDs []int64 `json:"shiftIDs" binding:"required,min=1"`
}

// ListShiftsParams holds query parameters for the shift listing.
type ListShiftsParams struct {
	WorkerID  *int64  `form:"workerID"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// SegmentResponse is the wire shape of one segment.
type SegmentResponse struct {
	SegmentID   int64              `json:"segmentID"`
	ShiftID     int64              `json:"shiftID"`
	StartTime   time.Time          `json:"startTime"`
	EndTime     *time.Time         `json:"endTime,omitempty"`
	Kind        domain.SegmentKind `json:"kind"`
	Description string             `json:"description,omitempty"`
}

// ShiftResponse is the grouped-by-shift view: segments nested under their
// shift with live totals.
type ShiftResponse struct {
	ShiftID           int64             `json:"shiftID"`
	WorkerID          int64             `json:"workerID"`
	Kind              domain.ShiftKind  `json:"kind"`
	Description       string            `json:"description,omitempty"`
	TrackingNumber    string            `json:"trackingNumber"`
	Active            bool              `json:"active"`
	TotalWorkSeconds  int64             `json:"totalWorkSeconds"`
	TotalPauseSeconds int64             `json:"totalPauseSeconds"`
	Segments          []SegmentResponse `json:"segments"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// ListShiftsResponse is one page of the shift listing.
type ListShiftsResponse struct {
	Shifts    []ShiftResponse `json:"shifts"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToSegmentResponse maps a domain segment to its wire shape.
func ToSegmentResponse(s domain.Segment) SegmentResponse {
	return SegmentResponse{
		SegmentID:   s.SegmentID,
		ShiftID:     s.ShiftID,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Kind:        s.Kind,
		Description: s.Description,
	}
}

// ToShiftResponse maps a domain shift to its wire shape, computing live
// totals against now.
func ToShiftResponse(s *domain.Shift, now time.Time) ShiftResponse {
	segments := make([]SegmentResponse, len(s.Segments))
	for i, seg := range s.Segments {
		segments[i] = ToSegmentResponse(seg)
	}
	return ShiftResponse{
		ShiftID:           s.ShiftID,
		WorkerID:          s.WorkerID,
		Kind:              s.Kind,
		Description:       s.Description,
		TrackingNumber:    s.TrackingNumber,
		Active:            !s.Closed(),
		TotalWorkSeconds:  s.WorkSeconds(now),
		TotalPauseSeconds: s.PauseSeconds(now),
		Segments:          segments,
		CreatedAt:         s.CreatedAt,
	}
}
