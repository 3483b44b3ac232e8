package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID   uuid.UUID  `json:"patient_id" validate:"required"`
	DoctorID    uuid.UUID  `json:"doctor_id" validate:"required"`
	ScheduledAt *time.Time `json:"scheduled_at" validate:"required"` // RFC3339
	Note        string     `json:"note" validate:"omitempty,max=500"`
}

type UpdateAppointmentRequest struct {
	PatientID   uuid.UUID  `json:"patient_id" validate:"required"`
	DoctorID    uuid.UUID  `json:"doctor_id" validate:"required"`
	ScheduledAt *time.Time `json:"scheduled_at" validate:"required"`
	Note        *string    `json:"note" validate:"omitempty,max=500"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Response DTOs

// AppointmentResponse is the composed view of an appointment.
type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name"`
	SpecialtyName string    `json:"specialty_name"`
	PatientID     uuid.UUID `json:"patient_id"`
	PatientName   string    `json:"patient_name"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	EndsAt        time.Time `json:"ends_at"`
	Note          string    `json:"note,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
