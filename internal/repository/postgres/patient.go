package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dental-clinic-api/internal/model"
	"github.com/jwalitptl/dental-clinic-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, name, phone, total_amount, paid_amount, remaining_amount, has_remaining_payment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Phone,
		patient.TotalAmount,
		patient.PaidAmount,
		patient.RemainingAmount,
		patient.HasRemainingPayment,
		patient.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) ListWithPayments(ctx context.Context) ([]*model.Patient, map[uuid.UUID][]*model.Payment, error) {
	query := `SELECT * FROM patients ORDER BY created_at DESC`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if len(patients) == 0 {
		return patients, map[uuid.UUID][]*model.Payment{}, nil
	}

	ids := make([]uuid.UUID, 0, len(patients))
	for _, p := range patients {
		ids = append(ids, p.ID)
	}

	query, args, err := sqlx.In(`SELECT id, patient_id, amount, notes, created_at FROM payments WHERE patient_id IN (?) ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build payments query: %w", err)
	}
	var payments []*model.Payment
	if err := r.db.SelectContext(ctx, &payments, r.db.Rebind(query), args...); err != nil {
		return nil, nil, fmt.Errorf("failed to list payments: %w", err)
	}

	byPatient := make(map[uuid.UUID][]*model.Payment, len(patients))
	for _, p := range payments {
		byPatient[p.PatientID] = append(byPatient[p.PatientID], p)
	}
	return patients, byPatient, nil
}

// RecordPayment runs both writes in one transaction with the patient row
// locked, so concurrent payments against the same patient serialize instead
// of losing updates on the read-modify-write.
func (r *patientRepository) RecordPayment(ctx context.Context, payment *model.Payment) (*model.Patient, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the patient row before touching payments: a missing patient
	// surfaces as sql.ErrNoRows here rather than an FK violation on the
	// insert below.
	var patient model.Patient
	if err := tx.GetContext(ctx, &patient, `SELECT * FROM patients WHERE id = $1 FOR UPDATE`, payment.PatientID); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	payment.ID = uuid.New()
	payment.CreatedAt = time.Now()

	insertPayment := `
		INSERT INTO payments (id, patient_id, amount, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, insertPayment,
		payment.ID,
		payment.PatientID,
		payment.Amount,
		payment.Notes,
		payment.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	patient.ApplyPayment(payment.Amount)

	updatePatient := `
		UPDATE patients
		SET paid_amount = $1, remaining_amount = $2, has_remaining_payment = $3
		WHERE id = $4
	`
	if _, err := tx.ExecContext(ctx, updatePatient,
		patient.PaidAmount,
		patient.RemainingAmount,
		patient.HasRemainingPayment,
		patient.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return &patient, nil
}
