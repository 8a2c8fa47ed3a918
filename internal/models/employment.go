package models

import "github.com/shopspring/decimal"

// EmploymentRecord is the employment_records table row.
type EmploymentRecord struct {
	EmploymentID int64           `db:"employment_id"`
	WorkerID     int64           `db:"worker_id"`
	HourlyRate   decimal.Decimal `db:"hourly_rate"`
	CurrencyCode string          `db:"currency_code"`
	Active       bool            `db:"active"`
	AuditFields
}
