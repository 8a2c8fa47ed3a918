package domain

import (
	"strconv"
	"time"
)

// ShiftKind distinguishes recorded work from the leave types.
type ShiftKind string

const (
	ShiftWork        ShiftKind = "WORK"
	ShiftSickLeave   ShiftKind = "SICK_LEAVE"
	ShiftVacation    ShiftKind = "VACATION"
	ShiftDayOff      ShiftKind = "DAY_OFF"
	ShiftUnpaidLeave ShiftKind = "UNPAID_LEAVE"
)

// Valid reports whether k is a known shift kind.
func (k ShiftKind) Valid() bool {
	switch k {
	case ShiftWork, ShiftSickLeave, ShiftVacation, ShiftDayOff, ShiftUnpaidLeave:
		return true
	}
	return false
}

// IsAbsence reports whether k is a non-work leave kind.
func (k ShiftKind) IsAbsence() bool {
	return k.Valid() && k != ShiftWork
}

// GeneratesObligation reports whether closing a shift of this kind produces a
// payment obligation. Unpaid leave never does.
func (k ShiftKind) GeneratesObligation() bool {
	return k.Valid() && k != ShiftUnpaidLeave
}

// SegmentKind tags a segment as clocked work or a pause.
type SegmentKind string

const (
	SegmentWork  SegmentKind = "WORK"
	SegmentPause SegmentKind = "PAUSE"
)

// Valid reports whether k is a known segment kind.
func (k SegmentKind) Valid() bool {
	return k == SegmentWork || k == SegmentPause
}

// Segment is a contiguous sub-interval of a shift. A nil EndTime means the
// segment is open (the clock is running).
type Segment struct {
	SegmentID   int64       `json:"segmentID"`
	ShiftID     int64       `json:"shiftID"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     *time.Time  `json:"endTime,omitempty"`
	Kind        SegmentKind `json:"kind"`
	Description string      `json:"description,omitempty"`
	AuditFields
}

// Open reports whether the segment has no end time yet.
func (s Segment) Open() bool {
	return s.EndTime == nil
}

// Duration returns the elapsed time of the segment, using now as the end for
// an open segment.
func (s Segment) Duration(now time.Time) time.Duration {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if end.Before(s.StartTime) {
		return 0
	}
	return end.Sub(s.StartTime)
}

// Shift is a worker's recorded period of presence: an ordered set of
// non-overlapping segments, optionally priced into one obligation on closure.
type Shift struct {
	ShiftID        int64     `json:"shiftID"`
	WorkerID       int64     `json:"workerID"`
	Kind           ShiftKind `json:"kind"`
	Description    string    `json:"description,omitempty"`
	TrackingNumber string    `json:"trackingNumber"`
	Segments       []Segment `json:"segments,omitempty"`
	AuditFields
}

// OpenSegment returns the shift's open segment, or nil when the shift is
// closed. The ledger guarantees at most one open segment per shift.
func (s *Shift) OpenSegment() *Segment {
	for i := range s.Segments {
		if s.Segments[i].Open() {
			return &s.Segments[i]
		}
	}
	return nil
}

// Closed reports whether every segment of the shift has an end time.
func (s Shift) Closed() bool {
	for _, seg := range s.Segments {
		if seg.Open() {
			return false
		}
	}
	return true
}

// WorkSeconds sums the duration of work segments, counting an open segment up
// to now.
func (s Shift) WorkSeconds(now time.Time) int64 {
	return s.secondsByKind(SegmentWork, now)
}

// PauseSeconds sums the duration of pause segments, counting an open segment
// up to now.
func (s Shift) PauseSeconds(now time.Time) int64 {
	return s.secondsByKind(SegmentPause, now)
}

func (s Shift) secondsByKind(kind SegmentKind, now time.Time) int64 {
	var total int64
	for _, seg := range s.Segments {
		if seg.Kind == kind {
			total += int64(seg.Duration(now) / time.Second)
		}
	}
	return total
}

// Span returns the overall [min(start), max(end)) interval covered by the
// shift's segments. An open segment extends the span to now.
func (s Shift) Span(now time.Time) (time.Time, time.Time) {
	if len(s.Segments) == 0 {
		return time.Time{}, time.Time{}
	}
	start := s.Segments[0].StartTime
	end := start
	for _, seg := range s.Segments {
		if seg.StartTime.Before(start) {
			start = seg.StartTime
		}
		segEnd := now
		if seg.EndTime != nil {
			segEnd = *seg.EndTime
		}
		if segEnd.After(end) {
			end = segEnd
		}
	}
	return start, end
}

// Overlap-check granularity differs between code paths on purpose: creation
// compares at full second precision, while edits truncate to whole minutes so
// that legacy rows whose seconds were never recorded still pass the
// equal-start/equal-end edge case.
const (
	CreateOverlapGranularity = time.Second
	EditOverlapGranularity   = time.Minute
)

// IntervalsOverlap reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) strictly overlap after truncation to the given granularity.
// Adjacent intervals (one ends exactly when the other starts) do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time, granularity time.Duration) bool {
	aStart = aStart.Truncate(granularity)
	aEnd = aEnd.Truncate(granularity)
	bStart = bStart.Truncate(granularity)
	bEnd = bEnd.Truncate(granularity)
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// SegmentsOverlap applies IntervalsOverlap to two closed segments.
func SegmentsOverlap(a, b Segment, granularity time.Duration) bool {
	if a.EndTime == nil || b.EndTime == nil {
		return false
	}
	return IntervalsOverlap(a.StartTime, *a.EndTime, b.StartTime, *b.EndTime, granularity)
}

// ShiftTrackingNumber formats the globally unique tracking number assigned to
// a shift once its row identity is known.
func ShiftTrackingNumber(shiftID int64) string {
	return "A" + strconv.FormatInt(shiftID, 10)
}
