package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewPatient(t *testing.T) {
	p := NewPatient("Jane Doe", "555-0199", dec("1000"))

	assert.True(t, p.PaidAmount.IsZero())
	assert.True(t, p.RemainingAmount.Equal(dec("1000")))
	assert.True(t, p.HasRemainingPayment)
}

func TestNewPatientZeroTotal(t *testing.T) {
	p := NewPatient("Jane Doe", "555-0199", decimal.Zero)

	assert.True(t, p.RemainingAmount.IsZero())
	assert.False(t, p.HasRemainingPayment)
}

func TestApplyPaymentSequence(t *testing.T) {
	p := NewPatient("Jane Doe", "555-0199", dec("1000"))

	p.ApplyPayment(dec("400"))
	assert.True(t, p.PaidAmount.Equal(dec("400")))
	assert.True(t, p.RemainingAmount.Equal(dec("600")))
	assert.True(t, p.HasRemainingPayment)

	p.ApplyPayment(dec("600"))
	assert.True(t, p.PaidAmount.Equal(dec("1000")))
	assert.True(t, p.RemainingAmount.IsZero())
	assert.False(t, p.HasRemainingPayment)

	// Overpayment: remaining stays clamped at zero and the flag stays false.
	p.ApplyPayment(dec("50"))
	assert.True(t, p.PaidAmount.Equal(dec("1050")))
	assert.True(t, p.RemainingAmount.IsZero())
	assert.False(t, p.HasRemainingPayment)
}

func TestApplyPaymentNegativeAmountGrowsBalance(t *testing.T) {
	p := NewPatient("Jane Doe", "555-0199", dec("100"))

	p.ApplyPayment(dec("-40"))
	assert.True(t, p.PaidAmount.Equal(dec("-40")))
	assert.True(t, p.RemainingAmount.Equal(dec("140")))
	assert.True(t, p.HasRemainingPayment)
}

func TestApplyPaymentFlagUsesUnclampedDifference(t *testing.T) {
	// Once overpaid, a refund that leaves the patient still overpaid keeps
	// the flag false even though remaining_amount never went above zero.
	p := NewPatient("Jane Doe", "555-0199", dec("100"))
	p.ApplyPayment(dec("150"))
	assert.True(t, p.RemainingAmount.IsZero())
	assert.False(t, p.HasRemainingPayment)

	p.ApplyPayment(dec("-30"))
	assert.True(t, p.PaidAmount.Equal(dec("120")))
	assert.True(t, p.RemainingAmount.IsZero())
	assert.False(t, p.HasRemainingPayment)
}

func TestSummaryDefaultsPaymentHistory(t *testing.T) {
	p := NewPatient("Jane Doe", "555-0199", dec("100"))

	s := p.Summary(nil)
	assert.NotNil(t, s.PaymentHistory)
	assert.Empty(t, s.PaymentHistory)
	assert.True(t, s.TotalAmount.Equal(dec("100")))
	assert.True(t, s.HasRemainingPayment)
}
