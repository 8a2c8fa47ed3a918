package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ObligationStatus is the settlement state of an obligation.
type ObligationStatus string

const (
	StatusUnpaid ObligationStatus = "UNPAID"
	StatusPaid   ObligationStatus = "PAID"
	StatusOffset ObligationStatus = "OFFSET"
)

// Valid reports whether s is a known obligation status.
func (s ObligationStatus) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusOffset:
		return true
	}
	return false
}

// CategoryClass is the settlement-relevant grouping of a category. Category
// names are operator-editable labels; the class is the stable contract that
// drives all balance arithmetic.
type CategoryClass string

const (
	ClassSalary    CategoryClass = "SALARY"
	ClassExpense   CategoryClass = "EXPENSE"
	ClassDebt      CategoryClass = "DEBT"
	ClassBonus     CategoryClass = "BONUS"
	ClassRepayment CategoryClass = "REPAYMENT"
	ClassOther     CategoryClass = "OTHER"
)

// Valid reports whether c is a known category class.
func (c CategoryClass) Valid() bool {
	switch c {
	case ClassSalary, ClassExpense, ClassDebt, ClassBonus, ClassRepayment, ClassOther:
		return true
	}
	return false
}

// Category is an operator-visible label attached to obligations, bound to
// exactly one class.
type Category struct {
	CategoryID int64         `json:"categoryID"`
	Name       string        `json:"name"`
	Class      CategoryClass `json:"class"`
	AuditFields
}

// Obligation is a financial amount owed between two parties.
type Obligation struct {
	ObligationID   int64            `json:"obligationID"`
	PayerID        int64            `json:"payerID"`
	RecipientID    int64            `json:"recipientID"`
	CategoryID     int64            `json:"categoryID"`
	Class          CategoryClass    `json:"class"` // resolved from the category on read
	Amount         decimal.Decimal  `json:"amount"`
	CurrencyCode   string           `json:"currencyCode"`
	Status         ObligationStatus `json:"status"`
	ShiftID        *int64           `json:"shiftID,omitempty"`
	OccurredAt     time.Time        `json:"occurredAt"`
	TrackingNumber string           `json:"trackingNumber"`
	Description    string           `json:"description,omitempty"`
	AuditFields
}

// SettleableBy reports whether o is auto-settled when the given debt-class
// obligation is paid: o must still be unpaid, belong to the salary or expense
// class, predate the debt, and run in the same payer->recipient direction.
// Obligations with the pair reversed represent the opposite direction of
// money flow and are never touched.
func (o Obligation) SettleableBy(debt Obligation) bool {
	if debt.Class != ClassDebt {
		return false
	}
	if o.Status != StatusUnpaid {
		return false
	}
	if o.Class != ClassSalary && o.Class != ClassExpense {
		return false
	}
	if !o.OccurredAt.Before(debt.OccurredAt) {
		return false
	}
	return o.PayerID == debt.PayerID && o.RecipientID == debt.RecipientID
}

// ObligationTrackingNumber formats the globally unique tracking number
// assigned to an obligation once its row identity is known.
func ObligationTrackingNumber(obligationID int64) string {
	return "P" + strconv.FormatInt(obligationID, 10)
}
