package converter

import (
	"time"

	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
)

// AppointmentToResponse builds the composed view. Relations must be preloaded for the names to be set.
func AppointmentToResponse(appointment *entity.Appointment, duration time.Duration) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:            appointment.ID,
		DoctorID:      appointment.DoctorID,
		DoctorName:    appointment.Doctor.User.FullName,
		SpecialtyName: appointment.Doctor.Specialty.Name,
		PatientID:     appointment.PatientID,
		PatientName:   appointment.Patient.User.FullName,
		ScheduledAt:   appointment.ScheduledAt.UTC(),
		EndsAt:        appointment.ScheduledAt.UTC().Add(duration),
		Note:          appointment.Note,
		Status:        string(appointment.Status),
		CreatedAt:     appointment.CreatedAt,
		UpdatedAt:     appointment.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment, duration time.Duration) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], duration)
	}
	return responses
}
