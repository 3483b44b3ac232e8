package usecase

import (
	"context"
	"testing"
	"time"

	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/mocks"
	"sistema-hospitalar/internal/repository"
	"sistema-hospitalar/internal/service"
	"sistema-hospitalar/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserUsecase(t *testing.T) (UserUsecase, *gorm.DB, *mocks.MockTokenStore) {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorProfileRepository()
	patientRepo := repository.NewPatientProfileRepository()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	tokens := new(mocks.MockTokenStore)

	uc := NewUserUsecase(
		db,
		log,
		userRepo,
		doctorRepo,
		patientRepo,
		repository.NewSpecialtyRepository(),
		auditService,
		service.NewLifecycleService(log, userRepo, doctorRepo, patientRepo, auditService),
		tokens,
	)
	return uc, db, tokens
}

func ptr[T any](v T) *T {
	return &v
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateUser_WithBothProfiles(t *testing.T) {
	uc, db, _ := newUserUsecase(t)
	ctx := context.Background()
	cardio := testutil.CreateSpecialty(t, db, "Cardiologia")
	birth := "1980-05-17"

	created, err := uc.CreateUser(ctx, nil, &dto.CreateUserRequest{
		FullName:    "Ana Souza",
		DisplayName: "Dra. Ana",
		BirthDate:   &birth,
		Email:       "ana@hospital.com",
		Password:    "secret123",
		Doctor:      &dto.CreateDoctorProfileRequest{CRM: "CRM-1001", SpecialtyID: cardio.ID},
		Patient:     &dto.CreatePatientProfileRequest{CPF: "12345678901"},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleDoctor, created.Role)
	assert.True(t, created.IsDoctor)
	assert.True(t, created.IsPatient)
	assert.Equal(t, string(entity.LifecycleActive), created.Status)
	require.NotNil(t, created.BirthDate)
	assert.Equal(t, birth, *created.BirthDate)
	require.NotNil(t, created.DoctorProfile)
	assert.Equal(t, "CRM-1001", created.DoctorProfile.CRM)
	require.NotNil(t, created.DoctorProfile.Specialty)
	assert.Equal(t, "Cardiologia", created.DoctorProfile.Specialty.Name)
	require.NotNil(t, created.PatientProfile)
	assert.Equal(t, "12345678901", created.PatientProfile.CPF)

	var stored entity.User
	require.NoError(t, db.Where("id = ?", created.ID).First(&stored).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))

	var audits int64
	require.NoError(t, db.Model(&entity.AuditLog{}).Where("action = ?", entity.AuditActionUserCreate).Count(&audits).Error)
	assert.EqualValues(t, 1, audits)
}

func TestCreateUser_RejectsWithoutWriting(t *testing.T) {
	uc, db, _ := newUserUsecase(t)
	ctx := context.Background()
	cardio := testutil.CreateSpecialty(t, db, "Cardiologia")
	testutil.CreateDoctor(t, db, "Existing Doctor", "existing.doctor@hospital.com", "CRM-1", cardio.ID)
	testutil.CreatePatient(t, db, "Existing Patient", "existing.patient@hospital.com", "11111111111")

	usersBefore := countRows(t, db, &entity.User{})

	tests := []struct {
		name    string
		req     *dto.CreateUserRequest
		wantErr error
	}{
		{
			name: "duplicate email",
			req: &dto.CreateUserRequest{
				FullName: "Other", DisplayName: "Other", Email: "EXISTING.DOCTOR@hospital.com", Password: "secret123",
			},
			wantErr: ErrDuplicateEmail,
		},
		{
			name: "duplicate crm",
			req: &dto.CreateUserRequest{
				FullName: "New Doctor", DisplayName: "New", Email: "new.doctor@hospital.com", Password: "secret123",
				Doctor: &dto.CreateDoctorProfileRequest{CRM: "CRM-1", SpecialtyID: cardio.ID},
			},
			wantErr: ErrDuplicateCRM,
		},
		{
			name: "duplicate cpf after a valid doctor profile",
			req: &dto.CreateUserRequest{
				FullName: "New Both", DisplayName: "New", Email: "new.both@hospital.com", Password: "secret123",
				Doctor:  &dto.CreateDoctorProfileRequest{CRM: "CRM-2", SpecialtyID: cardio.ID},
				Patient: &dto.CreatePatientProfileRequest{CPF: "11111111111"},
			},
			wantErr: ErrDuplicateCPF,
		},
		{
			name: "blank crm",
			req: &dto.CreateUserRequest{
				FullName: "New Doctor", DisplayName: "New", Email: "blank.crm@hospital.com", Password: "secret123",
				Doctor: &dto.CreateDoctorProfileRequest{CRM: "  ", SpecialtyID: cardio.ID},
			},
			wantErr: ErrCRMRequired,
		},
		{
			name: "unknown specialty",
			req: &dto.CreateUserRequest{
				FullName: "New Doctor", DisplayName: "New", Email: "nospecialty@hospital.com", Password: "secret123",
				Doctor: &dto.CreateDoctorProfileRequest{CRM: "CRM-3", SpecialtyID: 999},
			},
			wantErr: ErrSpecialtyNotFound,
		},
		{
			name: "malformed cpf",
			req: &dto.CreateUserRequest{
				FullName: "New Patient", DisplayName: "New", Email: "badcpf@hospital.com", Password: "secret123",
				Patient: &dto.CreatePatientProfileRequest{CPF: "123.456.789-01"},
			},
			wantErr: ErrInvalidCPF,
		},
		{
			name: "bad birth date",
			req: &dto.CreateUserRequest{
				FullName: "New", DisplayName: "New", Email: "baddate@hospital.com", Password: "secret123",
				BirthDate: ptr("17/05/1980"),
			},
			wantErr: ErrInvalidDateFormat,
		},
		{
			name: "unknown role",
			req: &dto.CreateUserRequest{
				FullName: "New", DisplayName: "New", Email: "role@hospital.com", Password: "secret123", Role: "janitor",
			},
			wantErr: ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateUser(ctx, nil, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, usersBefore, countRows(t, db, &entity.User{}))
		})
	}

	assert.EqualValues(t, 1, countRows(t, db, &entity.DoctorProfile{}))
	assert.EqualValues(t, 1, countRows(t, db, &entity.PatientProfile{}))
}

func TestUpdateUser(t *testing.T) {
	uc, db, _ := newUserUsecase(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "Carla Dias", "carla@hospital.com", false, false)
	testutil.CreateUser(t, db, "Bruno Lima", "bruno@hospital.com", false, false)

	updated, err := uc.UpdateUser(ctx, nil, user.ID, &dto.UpdateUserRequest{
		DisplayName: ptr("Carla"),
		Password:    ptr("newsecret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Carla Dias", updated.FullName)
	assert.Equal(t, "Carla", updated.DisplayName)
	assert.Equal(t, "carla@hospital.com", updated.Email)

	var stored entity.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&stored).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newsecret")))

	// keeping its own email is not a conflict
	_, err = uc.UpdateUser(ctx, nil, user.ID, &dto.UpdateUserRequest{Email: ptr("carla@hospital.com")})
	assert.NoError(t, err)

	_, err = uc.UpdateUser(ctx, nil, user.ID, &dto.UpdateUserRequest{Email: ptr("bruno@hospital.com")})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = uc.UpdateUser(ctx, nil, uuid.New(), &dto.UpdateUserRequest{DisplayName: ptr("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeactivateUser_CascadesToProfiles(t *testing.T) {
	uc, db, tokens := newUserUsecase(t)
	ctx := context.Background()
	cardio := testutil.CreateSpecialty(t, db, "Cardiologia")
	doctor := testutil.CreateDoctor(t, db, "Ana Souza", "ana@hospital.com", "CRM-1", cardio.ID)
	patient := testutil.CreatePatient(t, db, "Pedro Alves", "pedro@hospital.com", "22222222222")
	appointment := testutil.CreateAppointment(t, db, doctor.ID, patient.ID, time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC))

	tokens.On("RevokeAll", mock.Anything, doctor.ID).Return(nil)

	ok, err := uc.DeactivateUser(ctx, nil, doctor.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	tokens.AssertExpectations(t)

	got, err := uc.GetUser(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.LifecycleInactive), got.Status)
	require.NotNil(t, got.DoctorProfile)
	assert.Equal(t, string(entity.LifecycleInactive), got.DoctorProfile.Status)

	var stored entity.Appointment
	require.NoError(t, db.Where("id = ?", appointment.ID).First(&stored).Error)
	assert.Equal(t, entity.AppointmentStatusScheduled, stored.Status)

	doctors, err := uc.GetDoctors(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, doctors.Total)

	// already inactive still succeeds and revokes again
	ok, err = uc.DeactivateUser(ctx, nil, doctor.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	tokens.AssertNumberOfCalls(t, "RevokeAll", 2)

	ok, err = uc.DeactivateUser(ctx, nil, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeactivateProfiles_KeepAccountActive(t *testing.T) {
	uc, db, _ := newUserUsecase(t)
	ctx := context.Background()
	cardio := testutil.CreateSpecialty(t, db, "Cardiologia")
	doctor := testutil.CreateDoctor(t, db, "Ana Souza", "ana@hospital.com", "CRM-1", cardio.ID)
	patient := testutil.CreatePatient(t, db, "Pedro Alves", "pedro@hospital.com", "22222222222")

	ok, err := uc.DeactivateDoctorProfile(ctx, nil, doctor.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.DeactivatePatientProfile(ctx, nil, patient.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	gotDoctor, err := uc.GetUser(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.LifecycleActive), gotDoctor.Status)
	assert.Equal(t, string(entity.LifecycleInactive), gotDoctor.DoctorProfile.Status)

	gotPatient, err := uc.GetUser(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.LifecycleActive), gotPatient.Status)
	assert.Equal(t, string(entity.LifecycleInactive), gotPatient.PatientProfile.Status)

	// the patient account has no doctor profile
	ok, err = uc.DeactivateDoctorProfile(ctx, nil, patient.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddProfiles(t *testing.T) {
	uc, db, tokens := newUserUsecase(t)
	ctx := context.Background()
	cardio := testutil.CreateSpecialty(t, db, "Cardiologia")
	user := testutil.CreateUser(t, db, "Rita Melo", "rita@hospital.com", false, false)

	got, err := uc.AddDoctorProfile(ctx, nil, user.ID, &dto.CreateDoctorProfileRequest{CRM: "CRM-9", SpecialtyID: cardio.ID})
	require.NoError(t, err)
	assert.True(t, got.IsDoctor)
	require.NotNil(t, got.DoctorProfile)

	_, err = uc.AddDoctorProfile(ctx, nil, user.ID, &dto.CreateDoctorProfileRequest{CRM: "CRM-10", SpecialtyID: cardio.ID})
	assert.ErrorIs(t, err, ErrProfileExists)

	got, err = uc.AddPatientProfile(ctx, nil, user.ID, &dto.CreatePatientProfileRequest{CPF: "33333333333"})
	require.NoError(t, err)
	assert.True(t, got.IsPatient)
	assert.True(t, got.IsDoctor)

	other := testutil.CreateUser(t, db, "Otto Reis", "otto@hospital.com", false, false)
	_, err = uc.AddPatientProfile(ctx, nil, other.ID, &dto.CreatePatientProfileRequest{CPF: "33333333333"})
	assert.ErrorIs(t, err, ErrDuplicateCPF)

	tokens.On("RevokeAll", mock.Anything, other.ID).Return(nil)
	_, err = uc.DeactivateUser(ctx, nil, other.ID)
	require.NoError(t, err)
	_, err = uc.AddDoctorProfile(ctx, nil, other.ID, &dto.CreateDoctorProfileRequest{CRM: "CRM-11", SpecialtyID: cardio.ID})
	assert.ErrorIs(t, err, ErrUserInactive)

	_, err = uc.AddDoctorProfile(ctx, nil, uuid.New(), &dto.CreateDoctorProfileRequest{CRM: "CRM-12", SpecialtyID: cardio.ID})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfiles(t *testing.T) {
	uc, db, _ := newUserUsecase(t)
	ctx := context.Background()
	cardio := testutil.CreateSpecialty(t, db, "Cardiologia")
	pedia := testutil.CreateSpecialty(t, db, "Pediatria")
	ana := testutil.CreateDoctor(t, db, "Ana Souza", "ana@hospital.com", "CRM-1", cardio.ID)
	testutil.CreateDoctor(t, db, "Bia Costa", "bia@hospital.com", "CRM-2", cardio.ID)
	pedro := testutil.CreatePatient(t, db, "Pedro Alves", "pedro@hospital.com", "22222222222")
	testutil.CreatePatient(t, db, "Lia Nunes", "lia@hospital.com", "44444444444")

	got, err := uc.UpdateDoctorProfile(ctx, nil, ana.ID, &dto.UpdateDoctorProfileRequest{SpecialtyID: &pedia.ID})
	require.NoError(t, err)
	assert.Equal(t, "Pediatria", got.DoctorProfile.Specialty.Name)
	assert.Equal(t, "CRM-1", got.DoctorProfile.CRM)

	_, err = uc.UpdateDoctorProfile(ctx, nil, ana.ID, &dto.UpdateDoctorProfileRequest{CRM: ptr("CRM-2")})
	assert.ErrorIs(t, err, ErrDuplicateCRM)

	missing := 999
	_, err = uc.UpdateDoctorProfile(ctx, nil, ana.ID, &dto.UpdateDoctorProfileRequest{SpecialtyID: &missing})
	assert.ErrorIs(t, err, ErrSpecialtyNotFound)

	_, err = uc.UpdateDoctorProfile(ctx, nil, pedro.ID, &dto.UpdateDoctorProfileRequest{CRM: ptr("CRM-3")})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	got, err = uc.UpdatePatientProfile(ctx, nil, pedro.ID, &dto.UpdatePatientProfileRequest{CPF: "55555555555"})
	require.NoError(t, err)
	assert.Equal(t, "55555555555", got.PatientProfile.CPF)

	_, err = uc.UpdatePatientProfile(ctx, nil, pedro.ID, &dto.UpdatePatientProfileRequest{CPF: "44444444444"})
	assert.ErrorIs(t, err, ErrDuplicateCPF)

	_, err = uc.UpdatePatientProfile(ctx, nil, ana.ID, &dto.UpdatePatientProfileRequest{CPF: "66666666666"})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestGetDoctors_FilterBySpecialty(t *testing.T) {
	uc, db, _ := newUserUsecase(t)
	ctx := context.Background()
	cardio := testutil.CreateSpecialty(t, db, "Cardiologia")
	pedia := testutil.CreateSpecialty(t, db, "Pediatria")
	testutil.CreateDoctor(t, db, "Bia Costa", "bia@hospital.com", "CRM-2", cardio.ID)
	testutil.CreateDoctor(t, db, "Ana Souza", "ana@hospital.com", "CRM-1", cardio.ID)
	testutil.CreateDoctor(t, db, "Caio Prado", "caio@hospital.com", "CRM-3", pedia.ID)

	all, err := uc.GetDoctors(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 3, all.Total)
	assert.Equal(t, "Ana Souza", all.Doctors[0].FullName)

	cardiologists, err := uc.GetDoctors(ctx, &cardio.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cardiologists.Total)
}
