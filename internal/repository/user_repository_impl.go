package repository

import (
	"errors"
	"time"

	"sistema-hospitalar/internal/domain/entity"
	domainRepo "sistema-hospitalar/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Omit(clause.Associations).Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Preload("DoctorProfile.Specialty").Preload("PatientProfile").
		Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate locks the user row until the surrounding transaction ends.
func (r *userRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.Preload("DoctorProfile.Specialty").Preload("PatientProfile").
		Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByRefreshTokenHash(db *gorm.DB, hash string) (*entity.User, error) {
	var user entity.User
	err := db.Where("refresh_token_hash = ?", hash).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(db *gorm.DB, activeOnly bool) ([]entity.User, error) {
	var users []entity.User
	query := db.Preload("DoctorProfile.Specialty").Preload("PatientProfile")
	if activeOnly {
		query = query.Where("status = ?", entity.LifecycleActive)
	}
	err := query.Order("full_name ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ExistsByEmail(db *gorm.DB, email string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := db.Model(&entity.User{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) error {
	return db.Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) SetRefreshToken(db *gorm.DB, id uuid.UUID, hash *string, expiry *time.Time) error {
	return db.Model(&entity.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"refresh_token_hash":   hash,
			"refresh_token_expiry": expiry,
		}).Error
}

// Deactivate flips an active user to inactive. Returns 0 rows when the user is missing or already inactive.
func (r *userRepository) Deactivate(db *gorm.DB, id uuid.UUID, at time.Time) (int64, error) {
	result := db.Model(&entity.User{}).
		Where("id = ? AND status = ?", id, entity.LifecycleActive).
		Updates(map[string]interface{}{
			"status":               entity.LifecycleInactive,
			"deactivated_at":       at,
			"refresh_token_hash":   nil,
			"refresh_token_expiry": nil,
		})
	return result.RowsAffected, result.Error
}
