package handler

import (
	"net/http"

	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/delivery/http/middleware"
	"sistema-hospitalar/internal/usecase"
	"sistema-hospitalar/pkg/response"
	"sistema-hospitalar/pkg/validator"

	"github.com/sirupsen/logrus"
)

type SpecialtyHandler struct {
	specialtyUsecase usecase.SpecialtyUsecase
	validator        *validator.CustomValidator
	log              *logrus.Logger
}

func NewSpecialtyHandler(specialtyUsecase usecase.SpecialtyUsecase, validator *validator.CustomValidator, log *logrus.Logger) *SpecialtyHandler {
	return &SpecialtyHandler{
		specialtyUsecase: specialtyUsecase,
		validator:        validator,
		log:              log,
	}
}

func (h *SpecialtyHandler) GetAllSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.specialtyUsecase.GetAllSpecialties(r.Context())
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}

func (h *SpecialtyHandler) GetSpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := intVar(w, r, "id", "Invalid specialty ID")
	if !ok {
		return
	}

	specialty, err := h.specialtyUsecase.GetSpecialty(r.Context(), id)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Specialty retrieved successfully", specialty)
}

func (h *SpecialtyHandler) CreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var req dto.SpecialtyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	specialty, err := h.specialtyUsecase.CreateSpecialty(r.Context(), middleware.GetActorFromContext(r.Context()), &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Specialty created successfully", specialty)
}

func (h *SpecialtyHandler) UpdateSpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := intVar(w, r, "id", "Invalid specialty ID")
	if !ok {
		return
	}

	var req dto.SpecialtyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	specialty, err := h.specialtyUsecase.UpdateSpecialty(r.Context(), middleware.GetActorFromContext(r.Context()), id, &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Specialty updated successfully", specialty)
}

func (h *SpecialtyHandler) DeleteSpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := intVar(w, r, "id", "Invalid specialty ID")
	if !ok {
		return
	}

	deleted, err := h.specialtyUsecase.DeleteSpecialty(r.Context(), middleware.GetActorFromContext(r.Context()), id)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}
	if !deleted {
		response.NotFound(w, "Specialty not found")
		return
	}

	response.Success(w, http.StatusOK, "Specialty deleted successfully", nil)
}
