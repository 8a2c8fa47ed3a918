package mapping

import (
	"github.com/wagetrack/wagetrack/internal/core/domain"
	"github.com/wagetrack/wagetrack/internal/models"
)

// ToModelShift converts a domain Shift to a model Shift
func ToModelShift(d domain.Shift) models.Shift {
	return models.Shift{
		ShiftID:        d.ShiftID,
		WorkerID:       d.WorkerID,
		Kind:           string(d.Kind),
		Description:    d.Description,
		TrackingNumber: d.TrackingNumber,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainShift converts a model Shift to a domain Shift without segments
func ToDomainShift(m models.Shift) domain.Shift {
	return domain.Shift{
		ShiftID:        m.ShiftID,
		WorkerID:       m.WorkerID,
		Kind:           domain.ShiftKind(m.Kind),
		Description:    m.Description,
		TrackingNumber: m.TrackingNumber,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSegment converts a domain Segment to a model Segment
func ToModelSegment(d domain.Segment) models.Segment {
	return models.Segment{
		SegmentID:   d.SegmentID,
		ShiftID:     d.ShiftID,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Kind:        string(d.Kind),
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSegment converts a model Segment to a domain Segment
func ToDomainSegment(m models.Segment) domain.Segment {
	return domain.Segment{
		SegmentID:   m.SegmentID,
		ShiftID:     m.ShiftID,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Kind:        domain.SegmentKind(m.Kind),
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
