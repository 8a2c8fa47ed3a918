package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wagetrack/wagetrack/internal/core/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 12, 0, 0, 0, time.UTC)
}

func TestObligation_SettleableBy(t *testing.T) {
	const (
		employer = int64(1)
		worker   = int64(2)
	)
	debt := domain.Obligation{
		ObligationID: 10,
		PayerID:      employer,
		RecipientID:  worker,
		Class:        domain.ClassDebt,
		Amount:       decimal.NewFromInt(300),
		Status:       domain.StatusPaid,
		OccurredAt:   day(5),
	}

	day1Salary := domain.Obligation{
		PayerID: employer, RecipientID: worker,
		Class: domain.ClassSalary, Status: domain.StatusUnpaid,
		Amount: decimal.NewFromInt(100), OccurredAt: day(1),
	}
	day3Salary := domain.Obligation{
		PayerID: employer, RecipientID: worker,
		Class: domain.ClassSalary, Status: domain.StatusUnpaid,
		Amount: decimal.NewFromInt(150), OccurredAt: day(3),
	}
	// Expense in the opposite direction: worker paid, employer owes.
	day2ReversedExpense := domain.Obligation{
		PayerID: worker, RecipientID: employer,
		Class: domain.ClassExpense, Status: domain.StatusUnpaid,
		Amount: decimal.NewFromInt(50), OccurredAt: day(2),
	}
	day6Salary := domain.Obligation{
		PayerID: employer, RecipientID: worker,
		Class: domain.ClassSalary, Status: domain.StatusUnpaid,
		Amount: decimal.NewFromInt(200), OccurredAt: day(6),
	}

	assert.True(t, day1Salary.SettleableBy(debt))
	assert.True(t, day3Salary.SettleableBy(debt))
	assert.False(t, day2ReversedExpense.SettleableBy(debt), "reversed payer/recipient pair must not settle")
	assert.False(t, day6Salary.SettleableBy(debt), "obligations dated on/after the debt must not settle")

	// Same-day obligation is not strictly earlier.
	sameDay := day1Salary
	sameDay.OccurredAt = debt.OccurredAt
	assert.False(t, sameDay.SettleableBy(debt))

	// Only salary and expense classes participate.
	bonus := day1Salary
	bonus.Class = domain.ClassBonus
	assert.False(t, bonus.SettleableBy(debt))

	// A non-debt trigger settles nothing.
	notDebt := debt
	notDebt.Class = domain.ClassExpense
	assert.False(t, day1Salary.SettleableBy(notDebt))
}

func TestObligation_SettlementIdempotence(t *testing.T) {
	debt := domain.Obligation{
		PayerID: 1, RecipientID: 2,
		Class: domain.ClassDebt, Status: domain.StatusPaid,
		OccurredAt: day(5),
	}
	pool := []domain.Obligation{
		{PayerID: 1, RecipientID: 2, Class: domain.ClassSalary, Status: domain.StatusUnpaid, OccurredAt: day(1)},
		{PayerID: 1, RecipientID: 2, Class: domain.ClassExpense, Status: domain.StatusUnpaid, OccurredAt: day(3)},
		{PayerID: 1, RecipientID: 2, Class: domain.ClassSalary, Status: domain.StatusUnpaid, OccurredAt: day(6)},
	}

	apply := func() int {
		n := 0
		for i := range pool {
			if pool[i].SettleableBy(debt) {
				pool[i].Status = domain.StatusOffset
				n++
			}
		}
		return n
	}

	assert.Equal(t, 2, apply(), "first pass settles the two earlier same-direction rows")
	assert.Equal(t, 0, apply(), "second pass matches nothing because offset rows are no longer unpaid")
}

func TestObligationStatus_Valid(t *testing.T) {
	assert.True(t, domain.StatusUnpaid.Valid())
	assert.True(t, domain.StatusOffset.Valid())
	assert.False(t, domain.ObligationStatus("CANCELLED").Valid())
}

func TestCategoryClass_Valid(t *testing.T) {
	assert.True(t, domain.ClassRepayment.Valid())
	assert.False(t, domain.CategoryClass("LOAN").Valid())
}
