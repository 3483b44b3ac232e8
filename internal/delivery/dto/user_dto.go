package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateUserRequest creates the account and, optionally, its doctor and patient profiles in one step.
type CreateUserRequest struct {
	FullName    string                       `json:"full_name" validate:"required,min=2,max=255"`
	DisplayName string                       `json:"display_name" validate:"required,min=1,max=100"`
	BirthDate   *string                      `json:"birth_date" validate:"omitempty,datetime=2006-01-02"` // Format: YYYY-MM-DD
	Email       string                       `json:"email" validate:"required,email"`
	Password    string                       `json:"password" validate:"required,min=6"`
	PhoneNumber *string                      `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Role        string                       `json:"role" validate:"omitempty,oneof=admin reception doctor patient"`
	Doctor      *CreateDoctorProfileRequest  `json:"doctor" validate:"omitempty"`
	Patient     *CreatePatientProfileRequest `json:"patient" validate:"omitempty"`
}

type CreateDoctorProfileRequest struct {
	CRM         string `json:"crm" validate:"required,max=20"`
	SpecialtyID int    `json:"specialty_id" validate:"required,min=1"`
}

type CreatePatientProfileRequest struct {
	CPF string `json:"cpf" validate:"required,cpf"`
}

type UpdateUserRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=100"`
	BirthDate   *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=8,max=20"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
}

type UpdateDoctorProfileRequest struct {
	CRM         *string `json:"crm" validate:"omitempty,min=1,max=20"`
	SpecialtyID *int    `json:"specialty_id" validate:"omitempty,min=1"`
}

type UpdatePatientProfileRequest struct {
	CPF string `json:"cpf" validate:"required,cpf"`
}

// Response DTOs

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	FullName       string                  `json:"full_name"`
	DisplayName    string                  `json:"display_name"`
	BirthDate      *string                 `json:"birth_date,omitempty"`
	Email          string                  `json:"email"`
	PhoneNumber    *string                 `json:"phone_number,omitempty"`
	Role           string                  `json:"role"`
	IsDoctor       bool                    `json:"is_doctor"`
	IsPatient      bool                    `json:"is_patient"`
	Status         string                  `json:"status"`
	DoctorProfile  *DoctorProfileResponse  `json:"doctor_profile"`
	PatientProfile *PatientProfileResponse `json:"patient_profile"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

type DoctorProfileResponse struct {
	CRM       string             `json:"crm"`
	Specialty *SpecialtyResponse `json:"specialty,omitempty"`
	Status    string             `json:"status"`
}

type PatientProfileResponse struct {
	CPF    string `json:"cpf"`
	Status string `json:"status"`
}

// DoctorResponse is one entry of the bookable doctor list.
type DoctorResponse struct {
	ID          uuid.UUID          `json:"id"`
	FullName    string             `json:"full_name"`
	DisplayName string             `json:"display_name"`
	CRM         string             `json:"crm"`
	Specialty   *SpecialtyResponse `json:"specialty,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
