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

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
	log         *logrus.Logger
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator, log *logrus.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
		log:         log,
	}
}

// GetAllUsers lists accounts. ?active=true hides deactivated ones.
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.GetAllUsers(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	user, err := h.userUsecase.GetUser(r.Context(), userID)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		response.Error(w, http.StatusBadRequest, "email is required", nil)
		return
	}

	user, err := h.userUsecase.GetUserByEmail(r.Context(), email)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.CreateUser(r.Context(), middleware.GetActorFromContext(r.Context()), &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.UpdateUser(r.Context(), middleware.GetActorFromContext(r.Context()), userID, &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	deleted, err := h.userUsecase.DeactivateUser(r.Context(), middleware.GetActorFromContext(r.Context()), userID)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}
	if !deleted {
		response.NotFound(w, "User not found")
		return
	}

	response.Success(w, http.StatusOK, "User deactivated successfully", nil)
}

func (h *UserHandler) CreatePatientProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	var req dto.CreatePatientProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.AddPatientProfile(r.Context(), middleware.GetActorFromContext(r.Context()), userID, &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Patient profile created successfully", user)
}

func (h *UserHandler) UpdatePatientProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	var req dto.UpdatePatientProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.UpdatePatientProfile(r.Context(), middleware.GetActorFromContext(r.Context()), userID, &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Patient profile updated successfully", user)
}

func (h *UserHandler) DeletePatientProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidVar(w, r, "id", "Invalid user ID")
	if !ok {
		return
	}

	deleted, err := h.userUsecase.DeactivatePatientProfile(r.Context(), middleware.GetActorFromContext(r.Context()), userID)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}
	if !deleted {
		response.NotFound(w, "Patient not found")
		return
	}

	response.Success(w, http.StatusOK, "Patient profile deactivated successfully", nil)
}
