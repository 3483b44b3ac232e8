package handler

import (
	"net/http"
	"time"

	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/usecase"
	"sistema-hospitalar/pkg/response"
	"sistema-hospitalar/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	log                *logrus.Logger
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator, log *logrus.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		log:                log,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "id", "Invalid appointment ID")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointment(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "id", "Invalid appointment ID")
	if !ok {
		return
	}

	var req dto.CancelAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	cancelled, err := h.appointmentUsecase.CancelAppointment(r.Context(), id, req.Reason)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}
	if !cancelled {
		response.NotFound(w, "Appointment not found")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(w, r, "id", "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, func() (*dto.AppointmentListResponse, error) {
		return h.appointmentUsecase.GetAllAppointments(r.Context())
	})
}

func (h *AppointmentHandler) GetAppointmentsByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := uuidVar(w, r, "id", "Invalid doctor ID")
	if !ok {
		return
	}
	h.writeList(w, func() (*dto.AppointmentListResponse, error) {
		return h.appointmentUsecase.GetAppointmentsByDoctor(r.Context(), doctorID)
	})
}

func (h *AppointmentHandler) GetAppointmentsByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidVar(w, r, "id", "Invalid patient ID")
	if !ok {
		return
	}
	h.writeList(w, func() (*dto.AppointmentListResponse, error) {
		return h.appointmentUsecase.GetAppointmentsByPatient(r.Context(), patientID)
	})
}

func (h *AppointmentHandler) GetAppointmentsByDoctorName(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, func() (*dto.AppointmentListResponse, error) {
		return h.appointmentUsecase.GetAppointmentsByDoctorName(r.Context(), mux.Vars(r)["name"])
	})
}

func (h *AppointmentHandler) GetAppointmentsByPatientName(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, func() (*dto.AppointmentListResponse, error) {
		return h.appointmentUsecase.GetAppointmentsByPatientName(r.Context(), mux.Vars(r)["name"])
	})
}

// GetAppointmentsByPeriod reads RFC3339 start and end query parameters. Both are optional.
func (h *AppointmentHandler) GetAppointmentsByPeriod(w http.ResponseWriter, r *http.Request) {
	start, err := queryTime(r, "start")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid start, use RFC3339", nil)
		return
	}
	end, err := queryTime(r, "end")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid end, use RFC3339", nil)
		return
	}

	h.writeList(w, func() (*dto.AppointmentListResponse, error) {
		return h.appointmentUsecase.GetAppointmentsByPeriod(r.Context(), start, end)
	})
}

func (h *AppointmentHandler) writeList(w http.ResponseWriter, find func() (*dto.AppointmentListResponse, error)) {
	appointments, err := find()
	if err != nil {
		response.FromError(w, h.log, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
