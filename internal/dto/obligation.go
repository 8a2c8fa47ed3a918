package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// CreateObligationRequest records a manually entered obligation: an expense,
// an advance (debt), a bonus, or a repayment.
type CreateObligationRequest struct {
	PayerID      int64           `json:"payerID" binding:"required"`
	RecipientID  int64           `json:"recipientID" binding:"required"`
	CategoryID   int64           `json:"categoryID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	OccurredAt   time.Time       `json:"occurredAt" binding:"required"`
	Description  string          `json:"description"`
}

// ListObligationsParams holds query parameters for the obligation listing.
type ListObligationsParams struct {
	WorkerID  *int64                   `form:"workerID"`
	Status    *domain.ObligationStatus `form:"status"`
	Class     *domain.CategoryClass    `form:"class"`
	Limit     int                      `form:"limit"`
	NextToken *string                  `form:"nextToken"`
}

// ObligationResponse is the wire shape of one obligation.
type ObligationResponse struct {
	ObligationID   int64                   `json:"obligationID"`
	PayerID        int64                   `json:"payerID"`
	RecipientID    int64                   `json:"recipientID"`
	CategoryID     int64                   `json:"categoryID"`
	Class          domain.CategoryClass    `json:"class"`
	Amount         decimal.Decimal         `json:"amount"`
	CurrencyCode   string                  `json:"currencyCode"`
	Status         domain.ObligationStatus `json:"status"`
	ShiftID        *int64                  `json:"shiftID,omitempty"`
	OccurredAt     time.Time               `json:"occurredAt"`
	TrackingNumber string                  `json:"trackingNumber"`
	Description    string                  `json:"description,omitempty"`
}

// ListObligationsResponse is one page of the obligation listing.
type ListObligationsResponse struct {
	Obligations []ObligationResponse `json:"obligations"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// PayObligationResponse reports a settlement: the paid obligation and the ids
// of the rows the payment auto-offset.
type PayObligationResponse struct {
	Obligation ObligationResponse `json:"obligation"`
	OffsetIDs  []int64            `json:"offsetIDs"`
}

// ToObligationResponse maps a domain obligation to its wire shape.
func ToObligationResponse(o *domain.Obligation) ObligationResponse {
	return ObligationResponse{
		ObligationID:   o.ObligationID,
		PayerID:        o.PayerID,
		RecipientID:    o.RecipientID,
		CategoryID:     o.CategoryID,
		Class:          o.Class,
		Amount:         o.Amount,
		CurrencyCode:   o.CurrencyCode,
		Status:         o.Status,
		ShiftID:        o.ShiftID,
		OccurredAt:     o.OccurredAt,
		TrackingNumber: o.TrackingNumber,
		Description:    o.Description,
	}
}

// ToObligationResponses maps a slice of domain obligations.
func ToObligationResponses(obligations []domain.Obligation) []ObligationResponse {
	out := make([]ObligationResponse, len(obligations))
	for i := range obligations {
		out[i] = ToObligationResponse(&obligations[i])
	}
	return out
}
