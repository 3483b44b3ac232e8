package repository

import (
	"sistema-hospitalar/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	FindByUserIDForUpdate(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	FindByCPF(db *gorm.DB, cpf string) (*entity.PatientProfile, error)
	Update(db *gorm.DB, profile *entity.PatientProfile) error
	Deactivate(db *gorm.DB, userID uuid.UUID) (int64, error)
}
