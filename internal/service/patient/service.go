package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/dental-clinic-api/internal/model"
	"github.com/jwalitptl/dental-clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/dental-clinic-api/pkg/errors"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := model.NewPatient(req.Name, req.Phone, req.TotalAmount)
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create patient: %w", err))
	}
	return patient, nil
}

// ListPatients returns every patient newest-first, each shaped into the
// aggregate response with its full payment history attached.
func (s *Service) ListPatients(ctx context.Context) ([]*model.PatientSummary, error) {
	patients, paymentsByPatient, err := s.repo.ListWithPayments(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list patients: %w", err))
	}

	summaries := make([]*model.PatientSummary, 0, len(patients))
	for _, p := range patients {
		summaries = append(summaries, p.Summary(paymentsByPatient[p.ID]))
	}
	return summaries, nil
}

// RecordPayment appends a payment for the patient and returns the patient
// with its balance fields recomputed. The amount is not validated against
// the remaining balance; negative amounts grow the balance back.
func (s *Service) RecordPayment(ctx context.Context, patientID uuid.UUID, req *model.RecordPaymentRequest) (*model.Patient, error) {
	payment := &model.Payment{
		PatientID: patientID,
		Amount:    req.Amount,
		Notes:     req.Notes,
	}

	patient, err := s.repo.RecordPayment(ctx, payment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to record payment: %w", err))
	}
	return patient, nil
}
