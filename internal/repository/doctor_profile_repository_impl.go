package repository

import (
	"errors"

	"sistema-hospitalar/internal/domain/entity"
	domainRepo "sistema-hospitalar/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit(clause.Associations).Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("User").Preload("Specialty").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindByUserIDForUpdate locks the profile row. Scheduling serialises per doctor on this lock.
func (r *doctorProfileRepository) FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("User").Preload("Specialty").
		Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) FindByCRM(db *gorm.DB, crm string) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Where("crm = ?", crm).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll returns bookable doctors, optionally restricted to one specialty.
func (r *doctorProfileRepository) FindAll(db *gorm.DB, specialtyID *int) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	query := db.
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("doctor_profiles.status = ? AND users.status = ? AND users.is_doctor = ?",
			entity.LifecycleActive, entity.LifecycleActive, true)
	if specialtyID != nil {
		query = query.Where("doctor_profiles.specialty_id = ?", *specialtyID)
	}
	err := query.Preload("User").Preload("Specialty").
		Order("users.full_name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *doctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit(clause.Associations).Save(profile).Error
}

func (r *doctorProfileRepository) Deactivate(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.DoctorProfile{}).
		Where("user_id = ? AND status = ?", userID, entity.LifecycleActive).
		Update("status", entity.LifecycleInactive)
	return result.RowsAffected, result.Error
}
