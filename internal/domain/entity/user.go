package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role constants
const (
	RoleAdmin     = "admin"
	RoleReception = "reception"
	RoleDoctor    = "doctor"
	RolePatient   = "patient"
)

// User is the account record. Doctor and patient profiles share its primary key.
type User struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName           string     `gorm:"type:varchar(255);not null;index" json:"full_name"`
	DisplayName        string     `gorm:"type:varchar(100);not null" json:"display_name"`
	BirthDate          *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password           string     `gorm:"type:text;not null" json:"-"`
	PhoneNumber        *string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	Role               string     `gorm:"type:varchar(20);not null;default:'patient'" json:"role"`
	IsDoctor           bool       `gorm:"not null;default:false" json:"is_doctor"`
	IsPatient          bool       `gorm:"not null;default:false" json:"is_patient"`
	Status             Lifecycle  `gorm:"type:varchar(10);not null;default:'active';index" json:"status"`
	RefreshTokenHash   *string    `gorm:"type:varchar(64);index" json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	DeactivatedAt      *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID" json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID" json:"patient_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Status == "" {
		u.Status = LifecycleActive
	}
	return nil
}

// CanBook reports whether the account may appear on an appointment.
func (u *User) CanBook() bool {
	return u != nil && u.Status.IsActive()
}
