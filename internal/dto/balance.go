package dto

import (
	"github.com/shopspring/decimal"
	"github.com/wagetrack/wagetrack/internal/core/domain"
)

// CategoryResponse is the wire shape of one category.
type CategoryResponse struct {
	CategoryID int64                `json:"categoryID"`
	Name       string               `json:"name"`
	Class      domain.CategoryClass `json:"class"`
}

// ToCategoryResponses maps the category taxonomy to its wire shape.
func ToCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponse{CategoryID: c.CategoryID, Name: c.Name, Class: c.Class}
	}
	return out
}

// EmploymentResponse is the wire shape of one employment record.
type EmploymentResponse struct {
	EmploymentID int64           `json:"employmentID"`
	WorkerID     int64           `json:"workerID"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	CurrencyCode string          `json:"currencyCode"`
	Active       bool            `json:"active"`
}

// ToEmploymentResponse maps a domain employment record to its wire shape.
func ToEmploymentResponse(r *domain.EmploymentRecord) EmploymentResponse {
	return EmploymentResponse{
		EmploymentID: r.EmploymentID,
		WorkerID:     r.WorkerID,
		HourlyRate:   r.HourlyRate,
		CurrencyCode: r.CurrencyCode,
		Active:       r.Active,
	}
}
