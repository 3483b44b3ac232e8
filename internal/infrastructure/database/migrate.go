package database

import (
	"fmt"
	"time"

	"sistema-hospitalar/internal/domain/entity"

	"gorm.io/gorm"
)

// Exclusion constraint names, matched when translating 23P01 errors.
const (
	ConstraintDoctorNoOverlap  = "appointments_doctor_no_overlap"
	ConstraintPatientNoOverlap = "appointments_patient_no_overlap"
)

// Migrate creates the tables and, on Postgres, the overlap exclusion constraints.
func Migrate(db *gorm.DB, appointmentDuration time.Duration) error {
	if err := db.AutoMigrate(
		&entity.Specialty{},
		&entity.User{},
		&entity.DoctorProfile{},
		&entity.PatientProfile{},
		&entity.Appointment{},
		&entity.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	if db.Dialector.Name() != DriverPostgres {
		return nil
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return fmt.Errorf("failed to enable btree_gist: %w", err)
	}

	for name, column := range map[string]string{
		ConstraintDoctorNoOverlap:  "doctor_id",
		ConstraintPatientNoOverlap: "patient_id",
	} {
		if err := db.Exec(exclusionConstraintSQL(name, column, appointmentDuration)).Error; err != nil {
			return fmt.Errorf("failed to create constraint %s: %w", name, err)
		}
	}

	return nil
}

func exclusionConstraintSQL(name, column string, duration time.Duration) string {
	return fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
		ALTER TABLE appointments ADD CONSTRAINT %[1]s EXCLUDE USING gist (
			%[2]s WITH =,
			tsrange(scheduled_at AT TIME ZONE 'UTC', (scheduled_at AT TIME ZONE 'UTC') + interval '%[3]d seconds', '[)') WITH &&
		) WHERE (status = '%[4]s');
	END IF;
END $$`, name, column, int64(duration/time.Second), entity.AppointmentStatusScheduled)
}
