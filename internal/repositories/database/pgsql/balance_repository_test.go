package pgsql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The monthly report sums paid rows only, except for the all-statuses expense
// column that feeds the remaining-to-pay line. The dashboard is the one view
// that counts salary across statuses.
func TestMonthlyClassSumsQueryFiltersToPaid(t *testing.T) {
	for _, class := range []string{"SALARY", "DEBT", "REPAYMENT", "BONUS"} {
		assert.Contains(t, monthlyClassSumsQuery,
			"c.class = '"+class+"' AND o.status = 'PAID'",
			"%s must be summed over paid rows only", class)
	}
	assert.Equal(t, 2, strings.Count(monthlyClassSumsQuery, "c.class = 'EXPENSE'"),
		"expenses carry both an all-statuses and a paid-only sum")
}
