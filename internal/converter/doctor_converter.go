package converter

import (
	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
)

// DoctorProfileToDoctorResponse converts a DoctorProfile entity to DoctorResponse DTO
func DoctorProfileToDoctorResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:          profile.UserID,
		FullName:    profile.User.FullName,
		DisplayName: profile.User.DisplayName,
		CRM:         profile.CRM,
		Specialty:   SpecialtyToResponse(&profile.Specialty),
	}
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities to slice of DoctorResponse DTOs
func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToDoctorResponse(&profiles[i])
	}
	return responses
}
