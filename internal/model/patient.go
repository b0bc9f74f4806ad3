package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Patient is a clinic patient row together with its derived balance fields.
// The balance fields are owned by this type: every mutation goes through
// NewPatient or ApplyPayment so the arithmetic lives in one place.
type Patient struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	Name                string          `db:"name" json:"name"`
	Phone               string          `db:"phone" json:"phone"`
	TotalAmount         decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaidAmount          decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	RemainingAmount     decimal.Decimal `db:"remaining_amount" json:"remaining_amount"`
	HasRemainingPayment bool            `db:"has_remaining_payment" json:"has_remaining_payment"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
}

// NewPatient builds a patient with a zero paid amount. totalAmount is not
// checked for non-negativity; the store accepts whatever the caller sent.
func NewPatient(name, phone string, totalAmount decimal.Decimal) *Patient {
	return &Patient{
		Name:                name,
		Phone:               phone,
		TotalAmount:         totalAmount,
		PaidAmount:          decimal.Zero,
		RemainingAmount:     totalAmount,
		HasRemainingPayment: totalAmount.GreaterThan(decimal.Zero),
	}
}

// ApplyPayment folds one payment amount into the balance fields.
// remaining_amount is clamped at zero while has_remaining_payment is taken
// from the unclamped difference. The two can diverge once paid_amount
// exceeds total_amount; do not unify them.
func (p *Patient) ApplyPayment(amount decimal.Decimal) {
	p.PaidAmount = p.PaidAmount.Add(amount)
	raw := p.TotalAmount.Sub(p.PaidAmount)
	p.RemainingAmount = decimal.Max(decimal.Zero, raw)
	p.HasRemainingPayment = raw.GreaterThan(decimal.Zero)
}

// PatientSummary is the external aggregate shape: the patient re-keyed to
// camelCase plus its full payment history.
type PatientSummary struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	Phone               string          `json:"phone"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	PaidAmount          decimal.Decimal `json:"paidAmount"`
	RemainingAmount     decimal.Decimal `json:"remainingAmount"`
	HasRemainingPayment bool            `json:"hasRemainingPayment"`
	PaymentHistory      []*Payment      `json:"paymentHistory"`
}

// Summary shapes the patient and its payments into the response aggregate.
// Payment ordering is whatever the store returned.
func (p *Patient) Summary(payments []*Payment) *PatientSummary {
	if payments == nil {
		payments = []*Payment{}
	}
	return &PatientSummary{
		ID:                  p.ID,
		Name:                p.Name,
		Phone:               p.Phone,
		TotalAmount:         p.TotalAmount,
		PaidAmount:          p.PaidAmount,
		RemainingAmount:     p.RemainingAmount,
		HasRemainingPayment: p.HasRemainingPayment,
		PaymentHistory:      payments,
	}
}

type CreatePatientRequest struct {
	Name        string          `json:"name" binding:"required"`
	Phone       string          `json:"phone" binding:"required"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
