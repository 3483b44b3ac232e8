package repository

import (
	"time"

	"sistema-hospitalar/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByRefreshTokenHash(db *gorm.DB, hash string) (*entity.User, error)
	FindAll(db *gorm.DB, activeOnly bool) ([]entity.User, error)
	ExistsByEmail(db *gorm.DB, email string, excludeID *uuid.UUID) (bool, error)
	Update(db *gorm.DB, user *entity.User) error
	SetRefreshToken(db *gorm.DB, id uuid.UUID, hash *string, expiry *time.Time) error
	Deactivate(db *gorm.DB, id uuid.UUID, at time.Time) (int64, error)
}
