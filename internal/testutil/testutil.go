// Package testutil builds a migrated in-memory store and fixtures for tests.
package testutil

import (
	"io"
	"testing"
	"time"

	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, entity.DefaultAppointmentDuration))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func CreateSpecialty(t *testing.T, db *gorm.DB, name string) *entity.Specialty {
	t.Helper()
	s := &entity.Specialty{Name: name}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateUser(t *testing.T, db *gorm.DB, fullName, email string, isDoctor, isPatient bool) *entity.User {
	t.Helper()
	role := entity.RoleReception
	switch {
	case isDoctor:
		role = entity.RoleDoctor
	case isPatient:
		role = entity.RolePatient
	}
	u := &entity.User{
		FullName:    fullName,
		DisplayName: fullName,
		Email:       email,
		Password:    "x",
		Role:        role,
		IsDoctor:    isDoctor,
		IsPatient:   isPatient,
		Status:      entity.LifecycleActive,
	}
	require.NoError(t, db.Omit("DoctorProfile", "PatientProfile").Create(u).Error)
	return u
}

func CreateDoctor(t *testing.T, db *gorm.DB, fullName, email, crm string, specialtyID int) *entity.User {
	t.Helper()
	u := CreateUser(t, db, fullName, email, true, false)
	require.NoError(t, db.Omit("User", "Specialty").Create(&entity.DoctorProfile{
		UserID:      u.ID,
		CRM:         crm,
		SpecialtyID: specialtyID,
		Status:      entity.LifecycleActive,
	}).Error)
	return u
}

func CreatePatient(t *testing.T, db *gorm.DB, fullName, email, cpf string) *entity.User {
	t.Helper()
	u := CreateUser(t, db, fullName, email, false, true)
	require.NoError(t, db.Omit("User").Create(&entity.PatientProfile{
		UserID: u.ID,
		CPF:    cpf,
		Status: entity.LifecycleActive,
	}).Error)
	return u
}

func CreateAppointment(t *testing.T, db *gorm.DB, doctorID, patientID uuid.UUID, at time.Time) *entity.Appointment {
	t.Helper()
	a := &entity.Appointment{
		DoctorID:    doctorID,
		PatientID:   patientID,
		ScheduledAt: at.UTC(),
		Status:      entity.AppointmentStatusScheduled,
	}
	require.NoError(t, db.Omit("Doctor", "Patient").Create(a).Error)
	return a
}
