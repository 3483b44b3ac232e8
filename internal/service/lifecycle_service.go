package service

import (
	"context"
	"time"

	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LifecycleService owns the Active -> Inactive transition of accounts and profiles.
// All methods run inside the caller's transaction and return false when the target does not exist.
type LifecycleService interface {
	DeactivateAccount(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, userID uuid.UUID) (bool, error)
	DeactivateDoctor(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, userID uuid.UUID) (bool, error)
	DeactivatePatient(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, userID uuid.UUID) (bool, error)
}

type lifecycleService struct {
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       AuditService
	now                func() time.Time
}

func NewLifecycleService(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService AuditService,
) LifecycleService {
	return &lifecycleService{
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		now:                time.Now,
	}
}

// DeactivateAccount inactivates the user and cascades to the doctor and patient profiles
// the user's flags point at. Appointments are left untouched. Deactivating an inactive
// account succeeds without writing.
func (s *lifecycleService) DeactivateAccount(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, userID uuid.UUID) (bool, error) {
	user, err := s.userRepo.FindByIDForUpdate(tx, userID)
	if err != nil {
		s.log.Warnf("Failed to find user %s: %+v", userID, err)
		return false, err
	}
	if user == nil {
		return false, nil
	}
	if !user.Status.IsActive() {
		return true, nil
	}

	if _, err := s.userRepo.Deactivate(tx, userID, s.now().UTC()); err != nil {
		s.log.Warnf("Failed to deactivate user %s: %+v", userID, err)
		return false, err
	}

	cascaded := []string{}
	if user.IsDoctor {
		affected, err := s.doctorProfileRepo.Deactivate(tx, userID)
		if err != nil {
			s.log.Warnf("Failed to deactivate doctor profile %s: %+v", userID, err)
			return false, err
		}
		if affected > 0 {
			cascaded = append(cascaded, "doctor")
		}
	}
	if user.IsPatient {
		affected, err := s.patientProfileRepo.Deactivate(tx, userID)
		if err != nil {
			s.log.Warnf("Failed to deactivate patient profile %s: %+v", userID, err)
			return false, err
		}
		if affected > 0 {
			cascaded = append(cascaded, "patient")
		}
	}

	if err := s.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionUserDeactivate, "user", userID.String(),
		map[string]interface{}{"status": entity.LifecycleActive},
		map[string]interface{}{"status": entity.LifecycleInactive, "cascaded": cascaded},
	); err != nil {
		return false, err
	}

	return true, nil
}

// DeactivateDoctor inactivates only the doctor profile; the account stays active.
func (s *lifecycleService) DeactivateDoctor(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, userID uuid.UUID) (bool, error) {
	profile, err := s.doctorProfileRepo.FindByUserIDForUpdate(tx, userID)
	if err != nil {
		s.log.Warnf("Failed to find doctor profile %s: %+v", userID, err)
		return false, err
	}
	if profile == nil {
		return false, nil
	}
	if !profile.Status.IsActive() {
		return true, nil
	}

	if _, err := s.doctorProfileRepo.Deactivate(tx, userID); err != nil {
		s.log.Warnf("Failed to deactivate doctor profile %s: %+v", userID, err)
		return false, err
	}

	if err := s.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionDoctorDeactivate, "doctor_profile", userID.String(),
		map[string]interface{}{"crm": profile.CRM, "specialty_id": profile.SpecialtyID, "status": profile.Status},
	); err != nil {
		return false, err
	}

	return true, nil
}

// DeactivatePatient inactivates only the patient profile; the account stays active.
func (s *lifecycleService) DeactivatePatient(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, userID uuid.UUID) (bool, error) {
	profile, err := s.patientProfileRepo.FindByUserIDForUpdate(tx, userID)
	if err != nil {
		s.log.Warnf("Failed to find patient profile %s: %+v", userID, err)
		return false, err
	}
	if profile == nil {
		return false, nil
	}
	if !profile.Status.IsActive() {
		return true, nil
	}

	if _, err := s.patientProfileRepo.Deactivate(tx, userID); err != nil {
		s.log.Warnf("Failed to deactivate patient profile %s: %+v", userID, err)
		return false, err
	}

	if err := s.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionPatientDeactivate, "patient_profile", userID.String(),
		map[string]interface{}{"cpf": profile.CPF, "status": profile.Status},
	); err != nil {
		return false, err
	}

	return true, nil
}
