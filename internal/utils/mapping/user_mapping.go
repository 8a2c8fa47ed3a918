package mapping

import (
	"github.com/wagetrack/wagetrack/internal/core/domain"
	"github.com/wagetrack/wagetrack/internal/models"
)

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		IsEmployer:   m.IsEmployer,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEmploymentRecord converts a model EmploymentRecord to its domain shape
func ToDomainEmploymentRecord(m models.EmploymentRecord) domain.EmploymentRecord {
	return domain.EmploymentRecord{
		EmploymentID: m.EmploymentID,
		WorkerID:     m.WorkerID,
		HourlyRate:   m.HourlyRate,
		CurrencyCode: m.CurrencyCode,
		Active:       m.Active,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Class:       domain.CategoryClass(m.Class),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
