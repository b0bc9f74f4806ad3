package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatusScheduled is the status every new appointment starts in.
// Later statuses are caller-supplied free text; there is no enforced
// enumeration.
const AppointmentStatusScheduled = "Scheduled"

type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientName     string    `db:"patient_name" json:"patient_name"`
	Phone           string    `db:"phone" json:"phone"`
	AppointmentDate Date      `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string    `db:"appointment_time" json:"appointment_time"`
	Procedure       string    `db:"procedure" json:"procedure"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateAppointmentRequest carries the writable appointment fields. The time
// is free text; the listing order is lexicographic on it, which is only
// chronological for zero-padded 24-hour "HH:MM" values.
type CreateAppointmentRequest struct {
	PatientName     string `json:"patient_name" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	AppointmentDate Date   `json:"appointment_date" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"`
	Procedure       string `json:"procedure" binding:"required"`
}
