package entity

import (
	"github.com/google/uuid"
)

// CPFLength is the number of digits of a CPF.
const CPFLength = 11

// PatientProfile is the patient-specific profile of a user.
type PatientProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CPF    string    `gorm:"column:cpf;type:char(11);uniqueIndex;not null" json:"cpf"`
	Status Lifecycle `gorm:"type:varchar(10);not null;default:'active'" json:"status"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

func (p *PatientProfile) Bookable() bool {
	return p != nil && p.Status.IsActive() && p.User.IsPatient && p.User.CanBook()
}

// ValidCPF checks the digit count only; check digits are not verified.
func ValidCPF(cpf string) bool {
	if len(cpf) != CPFLength {
		return false
	}
	for _, r := range cpf {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
