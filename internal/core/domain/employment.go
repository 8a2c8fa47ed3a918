package domain

import "github.com/shopspring/decimal"

// EmploymentRecord is the active hourly-rate/currency agreement for a worker.
// At most one record per worker is active at any time; the record is created
// by an admin action and read-only to the ledger core.
type EmploymentRecord struct {
	EmploymentID int64           `json:"employmentID"`
	WorkerID     int64           `json:"workerID"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"` // 2 decimal places
	CurrencyCode string          `json:"currencyCode"`
	Active       bool            `json:"active"`
	AuditFields
}
