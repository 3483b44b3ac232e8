package http

import (
	"net/http"

	"sistema-hospitalar/internal/delivery/http/handler"
	"sistema-hospitalar/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	doctorHandler       *handler.DoctorHandler
	specialtyHandler    *handler.SpecialtyHandler
	appointmentHandler  *handler.AppointmentHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	accessLogMiddleware *middleware.AccessLogMiddleware
	loginLimiter        *middleware.RateLimiter
	metricsHandler      http.Handler
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	doctorHandler *handler.DoctorHandler,
	specialtyHandler *handler.SpecialtyHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	accessLogMiddleware *middleware.AccessLogMiddleware,
	loginLimiter *middleware.RateLimiter,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		userHandler:         userHandler,
		doctorHandler:       doctorHandler,
		specialtyHandler:    specialtyHandler,
		appointmentHandler:  appointmentHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		accessLogMiddleware: accessLogMiddleware,
		loginLimiter:        loginLimiter,
		metricsHandler:      metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	// Preflight requests never reach a method-bound route
	r.router.Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	api.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/login", r.loginLimiter.Handle(http.HandlerFunc(r.authHandler.Login))).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	protected.HandleFunc("/specialties", r.specialtyHandler.GetAllSpecialties).Methods(http.MethodGet)
	protected.HandleFunc("/specialties/{id}", r.specialtyHandler.GetSpecialty).Methods(http.MethodGet)
	protected.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)

	// Appointment reads are open to every role
	protected.HandleFunc("/appointments", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/period", r.appointmentHandler.GetAppointmentsByPeriod).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/doctor/{id}", r.appointmentHandler.GetAppointmentsByDoctor).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/patient/{id}", r.appointmentHandler.GetAppointmentsByPatient).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/doctor-name/{name}", r.appointmentHandler.GetAppointmentsByDoctorName).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/patient-name/{name}", r.appointmentHandler.GetAppointmentsByPatientName).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)

	scheduling := protected.NewRoute().Subrouter()
	scheduling.Use(middleware.RequireScheduler)
	scheduling.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	scheduling.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	scheduling.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPost)

	// Directory management (admin and reception)
	staff := protected.PathPrefix("/users").Subrouter()
	staff.Use(middleware.RequireStaff)
	staff.HandleFunc("/by-email", r.userHandler.GetUserByEmail).Methods(http.MethodGet)
	staff.HandleFunc("/{id}", r.userHandler.GetUser).Methods(http.MethodGet)
	staff.HandleFunc("/{id}", r.userHandler.UpdateUser).Methods(http.MethodPut)
	staff.HandleFunc("/{id}", r.userHandler.DeleteUser).Methods(http.MethodDelete)
	staff.HandleFunc("/{id}/doctor", r.doctorHandler.CreateDoctorProfile).Methods(http.MethodPost)
	staff.HandleFunc("/{id}/doctor", r.doctorHandler.UpdateDoctorProfile).Methods(http.MethodPut)
	staff.HandleFunc("/{id}/doctor", r.doctorHandler.DeleteDoctorProfile).Methods(http.MethodDelete)
	staff.HandleFunc("/{id}/patient", r.userHandler.CreatePatientProfile).Methods(http.MethodPost)
	staff.HandleFunc("/{id}/patient", r.userHandler.UpdatePatientProfile).Methods(http.MethodPut)
	staff.HandleFunc("/{id}/patient", r.userHandler.DeletePatientProfile).Methods(http.MethodDelete)
	protected.Handle("/users", middleware.RequireStaff(http.HandlerFunc(r.userHandler.GetAllUsers))).Methods(http.MethodGet)
	protected.Handle("/users", middleware.RequireStaff(http.HandlerFunc(r.userHandler.CreateUser))).Methods(http.MethodPost)

	// Admin routes
	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/specialties", r.specialtyHandler.CreateSpecialty).Methods(http.MethodPost)
	admin.HandleFunc("/specialties/{id}", r.specialtyHandler.UpdateSpecialty).Methods(http.MethodPut)
	admin.HandleFunc("/specialties/{id}", r.specialtyHandler.DeleteSpecialty).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(middleware.RequestID)
	r.router.Use(r.accessLogMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
