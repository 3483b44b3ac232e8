package repository

import (
	"errors"

	"sistema-hospitalar/internal/domain/entity"
	domainRepo "sistema-hospitalar/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientProfileRepository struct{}

func NewPatientProfileRepository() domainRepo.PatientProfileRepository {
	return &patientProfileRepository{}
}

func (r *patientProfileRepository) Create(db *gorm.DB, profile *entity.PatientProfile) error {
	return db.Omit(clause.Associations).Create(profile).Error
}

func (r *patientProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("User").
		Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) FindByCPF(db *gorm.DB, cpf string) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.Where("cpf = ?", cpf).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) Update(db *gorm.DB, profile *entity.PatientProfile) error {
	return db.Omit(clause.Associations).Save(profile).Error
}

func (r *patientProfileRepository) Deactivate(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.PatientProfile{}).
		Where("user_id = ? AND status = ?", userID, entity.LifecycleActive).
		Update("status", entity.LifecycleInactive)
	return result.RowsAffected, result.Error
}
