package repository

import (
	"sistema-hospitalar/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindByCRM(db *gorm.DB, crm string) (*entity.DoctorProfile, error)
	FindAll(db *gorm.DB, specialtyID *int) ([]entity.DoctorProfile, error)
	Update(db *gorm.DB, profile *entity.DoctorProfile) error
	Deactivate(db *gorm.DB, userID uuid.UUID) (int64, error)
}
