package mapping

import (
	"github.com/wagetrack/wagetrack/internal/core/domain"
	"github.com/wagetrack/wagetrack/internal/models"
)

// ToModelObligation converts a domain Obligation to a model Obligation
func ToModelObligation(d domain.Obligation) models.Obligation {
	return models.Obligation{
		ObligationID:   d.ObligationID,
		PayerID:        d.PayerID,
		RecipientID:    d.RecipientID,
		CategoryID:     d.CategoryID,
		Class:          string(d.Class),
		Amount:         d.Amount,
		CurrencyCode:   d.CurrencyCode,
		Status:         string(d.Status),
		ShiftID:        d.ShiftID,
		OccurredAt:     d.OccurredAt,
		TrackingNumber: d.TrackingNumber,
		Description:    d.Description,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainObligation converts a model Obligation to a domain Obligation
func ToDomainObligation(m models.Obligation) domain.Obligation {
	return domain.Obligation{
		ObligationID:   m.ObligationID,
		PayerID:        m.PayerID,
		RecipientID:    m.RecipientID,
		CategoryID:     m.CategoryID,
		Class:          domain.CategoryClass(m.Class),
		Amount:         m.Amount,
		CurrencyCode:   m.CurrencyCode,
		Status:         domain.ObligationStatus(m.Status),
		ShiftID:        m.ShiftID,
		OccurredAt:     m.OccurredAt,
		TrackingNumber: m.TrackingNumber,
		Description:    m.Description,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainObligationSlice converts a slice of model Obligations
func ToDomainObligationSlice(ms []models.Obligation) []domain.Obligation {
	ds := make([]domain.Obligation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainObligation(m)
	}
	return ds
}
