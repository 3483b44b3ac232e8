package converter

import (
	"testing"
	"time"

	"sistema-hospitalar/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserToResponseWithoutProfiles(t *testing.T) {
	birth := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	user := &entity.User{
		ID:        uuid.New(),
		FullName:  "Maria Souza",
		BirthDate: &birth,
		Status:    entity.LifecycleActive,
	}

	resp := UserToResponse(user)
	require.NotNil(t, resp)
	assert.Nil(t, resp.DoctorProfile)
	assert.Nil(t, resp.PatientProfile)
	require.NotNil(t, resp.BirthDate)
	assert.Equal(t, "1990-05-17", *resp.BirthDate)
	assert.Equal(t, "active", resp.Status)
}

func TestUserToResponseWithProfiles(t *testing.T) {
	user := &entity.User{
		ID:       uuid.New(),
		IsDoctor: true,
		DoctorProfile: &entity.DoctorProfile{
			CRM:       "CRM-123",
			Status:    entity.LifecycleActive,
			Specialty: entity.Specialty{ID: 2, Name: "Cardiologia"},
		},
		PatientProfile: &entity.PatientProfile{CPF: "12345678901", Status: entity.LifecycleInactive},
	}

	resp := UserToResponse(user)
	require.NotNil(t, resp.DoctorProfile)
	assert.Equal(t, "CRM-123", resp.DoctorProfile.CRM)
	require.NotNil(t, resp.DoctorProfile.Specialty)
	assert.Equal(t, "Cardiologia", resp.DoctorProfile.Specialty.Name)
	require.NotNil(t, resp.PatientProfile)
	assert.Equal(t, "inactive", resp.PatientProfile.Status)
}

func TestAppointmentToResponse(t *testing.T) {
	at := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	a := &entity.Appointment{
		ID:          uuid.New(),
		ScheduledAt: at,
		Status:      entity.AppointmentStatusScheduled,
		Doctor: entity.DoctorProfile{
			User:      entity.User{FullName: "Dr. Carlos Lima"},
			Specialty: entity.Specialty{ID: 1, Name: "Neurologia"},
		},
		Patient: entity.PatientProfile{User: entity.User{FullName: "Joana Alves"}},
	}

	resp := AppointmentToResponse(a, 20*time.Minute)
	assert.Equal(t, "Dr. Carlos Lima", resp.DoctorName)
	assert.Equal(t, "Neurologia", resp.SpecialtyName)
	assert.Equal(t, "Joana Alves", resp.PatientName)
	assert.Equal(t, at.Add(20*time.Minute), resp.EndsAt)
	assert.Equal(t, "scheduled", resp.Status)

	assert.Nil(t, AppointmentToResponse(nil, time.Minute))
}
