package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/dental-clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository handles patient rows and their payment history.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		// ListWithPayments returns every patient newest-first together with
		// each patient's payments keyed by patient id.
		ListWithPayments(ctx context.Context) ([]*model.Patient, map[uuid.UUID][]*model.Payment, error)
		// RecordPayment locks the owning patient row, inserts the payment and
		// updates the patient's balance fields in one transaction, returning
		// the updated patient. A missing patient surfaces as a wrapped
		// sql.ErrNoRows from the row lookup, before any payment is written.
		RecordPayment(ctx context.Context, payment *model.Payment) (*model.Patient, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		// List returns appointments ordered by date then time-of-day string.
		List(ctx context.Context) ([]*model.Appointment, error)
		// UpdateStatus sets the status and returns the updated row. A missing
		// id surfaces as a wrapped sql.ErrNoRows.
		UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Appointment, error)
		// Delete is idempotent: deleting an absent id is not an error.
		Delete(ctx context.Context, id uuid.UUID) error
	}
)
