package converter

import (
	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
)

func SpecialtyToResponse(specialty *entity.Specialty) *dto.SpecialtyResponse {
	if specialty == nil || specialty.ID == 0 {
		return nil
	}

	return &dto.SpecialtyResponse{
		ID:   specialty.ID,
		Name: specialty.Name,
	}
}

func SpecialtiesToResponses(specialties []entity.Specialty) []dto.SpecialtyResponse {
	responses := make([]dto.SpecialtyResponse, len(specialties))
	for i := range specialties {
		responses[i] = dto.SpecialtyResponse{ID: specialties[i].ID, Name: specialties[i].Name}
	}
	return responses
}
