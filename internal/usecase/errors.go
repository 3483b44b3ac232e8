package usecase

import (
	"errors"
	"strings"

	"sistema-hospitalar/internal/infrastructure/database"
	"sistema-hospitalar/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// Scheduling
var (
	ErrPastScheduling        = apperror.Validation("past_scheduling", "appointment time is in the past")
	ErrDoctorBusy            = apperror.Conflict("doctor_busy", "doctor already has an appointment in this time window")
	ErrPatientBusy           = apperror.Conflict("patient_busy", "patient already has an appointment in this time window")
	ErrInvalidDoctor         = apperror.Validation("invalid_doctor", "doctor does not exist or is not available")
	ErrInvalidPatient        = apperror.Validation("invalid_patient", "patient does not exist or is not available")
	ErrAppointmentNotFound   = apperror.NotFound("appointment_not_found", "appointment not found")
	ErrAppointmentCancelled  = apperror.Conflict("appointment_cancelled", "cancelled appointments cannot be edited")
	ErrCancelReasonRequired  = apperror.Validation("cancel_reason_required", "a cancellation reason is required")
	ErrInvalidRange          = apperror.Range("invalid_range", "end date cannot be before start date")
	ErrSearchTermRequired    = apperror.Validation("search_term_required", "a search term is required")
	ErrScheduledAtRequired   = apperror.Validation("scheduled_at_required", "appointment time is required")
	ErrAppointmentIDRequired = apperror.Validation("appointment_id_required", "doctor and patient ids are required")
)

// Directory
var (
	ErrUserNotFound      = apperror.NotFound("user_not_found", "user not found")
	ErrDoctorNotFound    = apperror.NotFound("doctor_not_found", "doctor profile not found")
	ErrPatientNotFound   = apperror.NotFound("patient_not_found", "patient profile not found")
	ErrDuplicateEmail    = apperror.Conflict("duplicate_email", "email already exists")
	ErrDuplicateCRM      = apperror.Conflict("duplicate_crm", "CRM already exists")
	ErrDuplicateCPF      = apperror.Conflict("duplicate_cpf", "CPF already exists")
	ErrCRMRequired       = apperror.Validation("crm_required", "CRM is required for a doctor")
	ErrInvalidCPF        = apperror.Validation("invalid_cpf", "CPF must have 11 digits")
	ErrInvalidDateFormat = apperror.Validation("invalid_date_format", "invalid date format, use YYYY-MM-DD")
	ErrProfileExists     = apperror.Conflict("profile_exists", "user already has this profile")
	ErrUserInactive      = apperror.Conflict("user_inactive", "user is inactive")
	ErrInvalidRole       = apperror.Validation("invalid_role", "unknown role")
	ErrNameRequired      = apperror.Validation("name_required", "full name and display name are required")
)

// Specialties
var (
	ErrSpecialtyNotFound  = apperror.NotFound("specialty_not_found", "specialty not found")
	ErrDuplicateSpecialty = apperror.Conflict("duplicate_specialty", "specialty already exists")
	ErrSpecialtyInUse     = apperror.Conflict("specialty_in_use", "specialty is referenced by doctors")
	ErrSpecialtyName      = apperror.Validation("specialty_name_required", "specialty name is required")
)

// Auth
var (
	ErrInvalidCredentials = apperror.Unauthorized("invalid_credentials", "invalid email or password")
	ErrInvalidToken       = apperror.Unauthorized("invalid_token", "invalid or expired token")
	ErrAccountInactive    = apperror.Unauthorized("account_inactive", "account is inactive")
)

// Audit
var (
	ErrAuditLogNotFound = apperror.NotFound("audit_log_not_found", "audit log not found")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// on a constraint whose name contains constraintName
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// overlapViolation translates an exclusion constraint failure into the matching busy error.
func overlapViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23P01" {
		return nil
	}
	switch pgErr.ConstraintName {
	case database.ConstraintDoctorNoOverlap:
		return ErrDoctorBusy
	case database.ConstraintPatientNoOverlap:
		return ErrPatientBusy
	}
	return nil
}
