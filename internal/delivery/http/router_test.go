package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sistema-hospitalar/config"
	"sistema-hospitalar/internal/delivery/http/handler"
	"sistema-hospitalar/internal/delivery/http/middleware"
	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/infrastructure/metrics"
	"sistema-hospitalar/internal/mocks"
	"sistema-hospitalar/internal/repository"
	"sistema-hospitalar/internal/service"
	"sistema-hospitalar/internal/testutil"
	"sistema-hospitalar/internal/usecase"
	"sistema-hospitalar/pkg/jwt"
	"sistema-hospitalar/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiFixture struct {
	router  *mux.Router
	db      *gorm.DB
	jwt     *jwt.JWTService
	doctor  *entity.User
	patient *entity.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	v := validator.NewValidator()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour, RefreshExpiry: time.Hour})

	tokens := new(mocks.MockTokenStore)
	tokens.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	cache := new(mocks.MockSpecialtyCache)
	cache.On("Get", mock.Anything).Return(nil, false, nil)
	cache.On("Set", mock.Anything, mock.Anything).Return(nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorProfileRepository()
	patientRepo := repository.NewPatientProfileRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	auditRepo := repository.NewAuditLogRepository()
	auditService := service.NewAuditService(log, auditRepo)
	lifecycle := service.NewLifecycleService(log, userRepo, doctorRepo, patientRepo, auditService)

	userUC := usecase.NewUserUsecase(db, log, userRepo, doctorRepo, patientRepo, specialtyRepo, auditService, lifecycle, tokens)
	r := NewRouter(
		handler.NewAuthHandler(usecase.NewAuthUsecase(db, log, userRepo, jwtService, tokens), v, log),
		handler.NewUserHandler(userUC, v, log),
		handler.NewDoctorHandler(userUC, v, log),
		handler.NewSpecialtyHandler(usecase.NewSpecialtyUsecase(db, log, specialtyRepo, auditService, cache), v, log),
		handler.NewAppointmentHandler(usecase.NewAppointmentUsecase(db, log, repository.NewAppointmentRepository(), doctorRepo, patientRepo, m, entity.DefaultAppointmentDuration), v, log),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(db, log, auditRepo), log),
		middleware.NewAuthMiddleware(jwtService, tokens, log),
		middleware.NewCORSMiddleware(""),
		middleware.NewAccessLogMiddleware(log, m),
		middleware.NewRateLimiter(100, 100),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	).Setup()

	cardio := testutil.CreateSpecialty(t, db, "Cardiologia")
	return &apiFixture{
		router:  r,
		db:      db,
		jwt:     jwtService,
		doctor:  testutil.CreateDoctor(t, db, "Ana Souza", "ana@hospital.com", "CRM-1", cardio.ID),
		patient: testutil.CreatePatient(t, db, "Pedro Alves", "pedro@hospital.com", "22222222222"),
	}
}

func (f *apiFixture) do(t *testing.T, method, path, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := f.jwt.GenerateAccessToken(uuid.New(), role+"@hospital.com", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestHealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = f.do(t, http.MethodGet, "/api/v1/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/appointments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGuards(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/appointments", entity.RolePatient, map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/users", entity.RoleDoctor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/users", entity.RoleReception, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/specialties", entity.RoleReception, map[string]string{"name": "Oncologia"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/specialties", entity.RoleAdmin, map[string]string{"name": "Oncologia"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAppointmentBookingFlow(t *testing.T) {
	f := newAPIFixture(t)
	at := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)

	book := func(scheduledAt time.Time) *httptest.ResponseRecorder {
		return f.do(t, http.MethodPost, "/api/v1/appointments", entity.RoleReception, map[string]interface{}{
			"doctor_id":    f.doctor.ID,
			"patient_id":   f.patient.ID,
			"scheduled_at": scheduledAt.Format(time.RFC3339),
		})
	}

	rec := book(at)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID         uuid.UUID `json:"id"`
			DoctorName string    `json:"doctor_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Ana Souza", created.Data.DoctorName)

	rec = book(at.Add(10 * time.Minute))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "doctor_busy", errorCode(t, rec))

	rec = book(time.Now().UTC().Add(-time.Hour))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "past_scheduling", errorCode(t, rec))

	rec = f.do(t, http.MethodGet, "/api/v1/appointments/"+created.Data.ID.String(), entity.RolePatient, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/appointments/"+created.Data.ID.String()+"/cancel", entity.RoleReception,
		map[string]string{"reason": "patient request"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/appointments/"+uuid.New().String()+"/cancel", entity.RoleReception,
		map[string]string{"reason": "patient request"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/appointments/"+uuid.New().String(), entity.RoleReception, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "appointment_not_found", errorCode(t, rec))
}

func TestAppointmentPeriodQuery(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/appointments/period?start=2025-01-10T12:00:00Z&end=2025-01-10T10:00:00Z", entity.RoleReception, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_range", errorCode(t, rec))

	rec = f.do(t, http.MethodGet, "/api/v1/appointments/period?start=yesterday", entity.RoleReception, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/appointments/period?start=2025-01-10T10:00:00Z", entity.RoleReception, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUserValidation(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/users", entity.RoleAdmin, map[string]interface{}{
		"full_name":    "Lia Nunes",
		"display_name": "Lia",
		"email":        "lia@hospital.com",
		"password":     "secret123",
		"patient":      map[string]string{"cpf": "123.456.789-01"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/users", entity.RoleAdmin, map[string]interface{}{
		"full_name":    "Lia Nunes",
		"display_name": "Lia",
		"email":        "lia@hospital.com",
		"password":     "secret123",
		"patient":      map[string]string{"cpf": "22222222222"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_cpf", errorCode(t, rec))
}
