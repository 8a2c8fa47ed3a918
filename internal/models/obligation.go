package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Obligation is the obligations table row. Class is not a column; it is
// joined in from categories on every read.
type Obligation struct {
	ObligationID   int64           `db:"obligation_id"`
	PayerID        int64           `db:"payer_id"`
	RecipientID    int64           `db:"recipient_id"`
	CategoryID     int64           `db:"category_id"`
	Class          string          `db:"class"`
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	Status         string          `db:"status"`
	ShiftID        *int64          `db:"shift_id"`
	OccurredAt     time.Time       `db:"occurred_at"`
	TrackingNumber string          `db:"tracking_number"`
	Description    string          `db:"description"`
	AuditFields
}
