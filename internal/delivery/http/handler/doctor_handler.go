package handler

import (
	"net/http"
	"strconv"

	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/delivery/http/middleware"
	"sistema-hospitalar/internal/usecase"
	"sistema-hospitalar/pkg/response"
	"sistema-hospitalar/pkg/validator"

	"github.com/sirupsen/logrus"
)

// DoctorHandler serves the bookable doctor list and the doctor profile of an account.
type DoctorHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
	log         *logrus.Logger
}

func NewDoctorHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator, log *logrus.Logger) *DoctorHandler {
	return &DoctorHandler{
		userUsecase: userUsecase,
		validator:   validator,
		log:         log,
	}
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	var specialtyID *int
	if raw := r.URL.Query().Get("specialty_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid specialty ID", nil)
			return
		}
		specialtyID = &id
	}

	doctors, err := h.userUsecase.GetDoctors(r.Context(), specialtyID)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) CreateDoctorProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	var req dto.CreateDoctorProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.AddDoctorProfile(r.Context(), middleware.GetActorFromContext(r.Context()), userID, &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Doctor profile created successfully", user)
}

func (h *DoctorHandler) UpdateDoctorProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	var req dto.UpdateDoctorProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.UpdateDoctorProfile(r.Context(), middleware.GetActorFromContext(r.Context()), userID, &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Doctor profile updated successfully", user)
}

func (h *DoctorHandler) DeleteDoctorProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	deleted, err := h.userUsecase.DeactivateDoctorProfile(r.Context(), middleware.GetActorFromContext(r.Context()), userID)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}
	if !deleted {
		response.NotFound(w, "Doctor not found")
		return
	}

	response.Success(w, http.StatusOK, "Doctor profile deactivated successfully", nil)
}
