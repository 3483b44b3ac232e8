package entity

import (
	"github.com/google/uuid"
)

// DoctorProfile is the doctor-specific profile of a user.
type DoctorProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CRM         string    `gorm:"column:crm;type:varchar(20);uniqueIndex;not null" json:"crm"`
	SpecialtyID int       `gorm:"not null;index" json:"specialty_id"`
	Status      Lifecycle `gorm:"type:varchar(10);not null;default:'active'" json:"status"`

	// Relationships
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Specialty Specialty `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// Bookable requires an active profile on an active account flagged as doctor.
func (p *DoctorProfile) Bookable() bool {
	return p != nil && p.Status.IsActive() && p.User.IsDoctor && p.User.CanBook()
}
