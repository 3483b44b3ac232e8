package usecase

import (
	"context"
	"strings"
	"time"

	"sistema-hospitalar/internal/converter"
	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/domain/repository"
	"sistema-hospitalar/internal/service"
	"sistema-hospitalar/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserUsecase interface {
	GetAllUsers(ctx context.Context, activeOnly bool) (*dto.UserListResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, actorID *uuid.UUID, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (bool, error)

	AddDoctorProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.CreateDoctorProfileRequest) (*dto.UserResponse, error)
	UpdateDoctorProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.UserResponse, error)
	DeactivateDoctorProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (bool, error)
	AddPatientProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.CreatePatientProfileRequest) (*dto.UserResponse, error)
	UpdatePatientProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.UserResponse, error)
	DeactivatePatientProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (bool, error)

	GetDoctors(ctx context.Context, specialtyID *int) (*dto.DoctorListResponse, error)
}

type userUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	specialtyRepo      repository.SpecialtyRepository
	auditService       service.AuditService
	lifecycleService   service.LifecycleService
	tokenStore         service.TokenStore
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	specialtyRepo repository.SpecialtyRepository,
	auditService service.AuditService,
	lifecycleService service.LifecycleService,
	tokenStore service.TokenStore,
) UserUsecase {
	return &userUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		specialtyRepo:      specialtyRepo,
		auditService:       auditService,
		lifecycleService:   lifecycleService,
		tokenStore:         tokenStore,
	}
}

// GetAllUsers lists accounts, inactive ones included unless activeOnly is set.
func (u *userUsecase) GetAllUsers(ctx context.Context, activeOnly bool) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(u.db.WithContext(ctx), activeOnly)
	if err != nil {
		u.log.Warnf("Failed to find all users: %+v", err)
		return nil, apperror.Persistence(err)
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

// GetUser returns the account whatever its lifecycle state.
func (u *userUsecase) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), strings.TrimSpace(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

// CreateUser writes the account and its optional profiles in one transaction.
// Any failure leaves nothing behind.
func (u *userUsecase) CreateUser(ctx context.Context, actorID *uuid.UUID, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	displayName := strings.TrimSpace(req.DisplayName)
	if fullName == "" || displayName == "" {
		return nil, ErrNameRequired
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	role, err := resolveRole(req)
	if err != nil {
		return nil, err
	}

	if req.Doctor != nil {
		req.Doctor.CRM = strings.TrimSpace(req.Doctor.CRM)
		if req.Doctor.CRM == "" {
			return nil, ErrCRMRequired
		}
	}
	if req.Patient != nil && !entity.ValidCPF(req.Patient.CPF) {
		return nil, ErrInvalidCPF
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	email := strings.TrimSpace(req.Email)
	exists, err := u.userRepo.ExistsByEmail(tx, email, nil)
	if err != nil {
		u.log.Warnf("Failed to check email: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	user := &entity.User{
		FullName:    fullName,
		DisplayName: displayName,
		BirthDate:   birthDate,
		Email:       email,
		Password:    string(hashedPassword),
		PhoneNumber: req.PhoneNumber,
		Role:        role,
		IsDoctor:    req.Doctor != nil,
		IsPatient:   req.Patient != nil,
		Status:      entity.LifecycleActive,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDuplicateEmail
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, apperror.Persistence(err)
	}

	if req.Doctor != nil {
		if err := u.createDoctorProfile(tx, user.ID, req.Doctor); err != nil {
			return nil, err
		}
	}
	if req.Patient != nil {
		if err := u.createPatientProfile(tx, user.ID, req.Patient); err != nil {
			return nil, err
		}
	}

	if err := u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionUserCreate, "user", user.ID.String(), map[string]interface{}{
		"email":      user.Email,
		"role":       user.Role,
		"is_doctor":  user.IsDoctor,
		"is_patient": user.IsPatient,
	}); err != nil {
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	u.log.Infof("User %s created (doctor=%t, patient=%t)", user.ID, user.IsDoctor, user.IsPatient)

	return u.GetUser(ctx, user.ID)
}

// UpdateUser applies the non-nil fields of req. Inactive accounts can still be edited.
func (u *userUsecase) UpdateUser(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	old := map[string]interface{}{"full_name": user.FullName, "display_name": user.DisplayName, "email": user.Email}

	if req.FullName != nil {
		if name := strings.TrimSpace(*req.FullName); name != "" {
			user.FullName = name
		}
	}
	if req.DisplayName != nil {
		if name := strings.TrimSpace(*req.DisplayName); name != "" {
			user.DisplayName = name
		}
	}
	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(req.BirthDate)
		if err != nil {
			return nil, err
		}
		user.BirthDate = birthDate
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		exists, err := u.userRepo.ExistsByEmail(tx, email, &user.ID)
		if err != nil {
			u.log.Warnf("Failed to check email: %+v", err)
			return nil, apperror.Persistence(err)
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
		user.Email = email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
	}

	if err := u.userRepo.Update(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDuplicateEmail
		}
		u.log.Warnf("Failed to update user %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionUserUpdate, "user", id.String(), old,
		map[string]interface{}{"full_name": user.FullName, "display_name": user.DisplayName, "email": user.Email, "password_changed": req.Password != nil},
	); err != nil {
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	return u.GetUser(ctx, id)
}

// DeactivateUser soft deletes the account with its profiles and revokes its sessions.
// Returns false when the user does not exist.
func (u *userUsecase) DeactivateUser(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (bool, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	ok, err := u.lifecycleService.DeactivateAccount(ctx, tx, actorID, id)
	if err != nil {
		return false, apperror.Persistence(err)
	}
	if !ok {
		return false, nil
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return false, apperror.Persistence(err)
	}

	if err := u.tokenStore.RevokeAll(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke tokens of deactivated user %s: %+v", id, err)
	}

	u.log.Infof("User %s deactivated", id)
	return true, nil
}

// AddDoctorProfile attaches a doctor profile to an existing active account.
func (u *userUsecase) AddDoctorProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.CreateDoctorProfileRequest) (*dto.UserResponse, error) {
	req.CRM = strings.TrimSpace(req.CRM)
	if req.CRM == "" {
		return nil, ErrCRMRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.lockActiveUser(tx, id)
	if err != nil {
		return nil, err
	}

	existing, err := u.doctorProfileRepo.FindByUserID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}
	if existing != nil {
		return nil, ErrProfileExists
	}

	if err := u.createDoctorProfile(tx, id, req); err != nil {
		return nil, err
	}

	user.IsDoctor = true
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to flag user %s as doctor: %+v", id, err)
		return nil, apperror.Persistence(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionDoctorCreate, "doctor_profile", id.String(),
		map[string]interface{}{"crm": req.CRM, "specialty_id": req.SpecialtyID},
	); err != nil {
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	return u.GetUser(ctx, id)
}

// UpdateDoctorProfile changes the CRM and/or specialty of a doctor profile.
func (u *userUsecase) UpdateDoctorProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserIDForUpdate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	old := map[string]interface{}{"crm": profile.CRM, "specialty_id": profile.SpecialtyID}

	if req.CRM != nil {
		crm := strings.TrimSpace(*req.CRM)
		if crm == "" {
			return nil, ErrCRMRequired
		}
		other, err := u.doctorProfileRepo.FindByCRM(tx, crm)
		if err != nil {
			u.log.Warnf("Failed to find doctor by CRM: %+v", err)
			return nil, apperror.Persistence(err)
		}
		if other != nil && other.UserID != id {
			return nil, ErrDuplicateCRM
		}
		profile.CRM = crm
	}
	if req.SpecialtyID != nil {
		if err := u.requireSpecialty(tx, *req.SpecialtyID); err != nil {
			return nil, err
		}
		profile.SpecialtyID = *req.SpecialtyID
	}

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		if isDuplicateKeyError(err, "crm") {
			return nil, ErrDuplicateCRM
		}
		u.log.Warnf("Failed to update doctor profile %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionDoctorUpdate, "doctor_profile", id.String(), old,
		map[string]interface{}{"crm": profile.CRM, "specialty_id": profile.SpecialtyID},
	); err != nil {
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	return u.GetUser(ctx, id)
}

func (u *userUsecase) DeactivateDoctorProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (bool, error) {
	return u.deactivateProfile(ctx, id, func(tx *gorm.DB) (bool, error) {
		return u.lifecycleService.DeactivateDoctor(ctx, tx, actorID, id)
	})
}

// AddPatientProfile attaches a patient profile to an existing active account.
func (u *userUsecase) AddPatientProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.CreatePatientProfileRequest) (*dto.UserResponse, error) {
	if !entity.ValidCPF(req.CPF) {
		return nil, ErrInvalidCPF
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.lockActiveUser(tx, id)
	if err != nil {
		return nil, err
	}

	existing, err := u.patientProfileRepo.FindByUserID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient profile %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}
	if existing != nil {
		return nil, ErrProfileExists
	}

	if err := u.createPatientProfile(tx, id, req); err != nil {
		return nil, err
	}

	user.IsPatient = true
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to flag user %s as patient: %+v", id, err)
		return nil, apperror.Persistence(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionPatientCreate, "patient_profile", id.String(),
		map[string]interface{}{"cpf": req.CPF},
	); err != nil {
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	return u.GetUser(ctx, id)
}

func (u *userUsecase) UpdatePatientProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.UserResponse, error) {
	if !entity.ValidCPF(req.CPF) {
		return nil, ErrInvalidCPF
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.patientProfileRepo.FindByUserIDForUpdate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find patient profile %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	other, err := u.patientProfileRepo.FindByCPF(tx, req.CPF)
	if err != nil {
		u.log.Warnf("Failed to find patient by CPF: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if other != nil && other.UserID != id {
		return nil, ErrDuplicateCPF
	}

	oldCPF := profile.CPF
	profile.CPF = req.CPF
	if err := u.patientProfileRepo.Update(tx, profile); err != nil {
		if isDuplicateKeyError(err, "cpf") {
			return nil, ErrDuplicateCPF
		}
		u.log.Warnf("Failed to update patient profile %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionPatientUpdate, "patient_profile", id.String(),
		map[string]interface{}{"cpf": oldCPF}, map[string]interface{}{"cpf": profile.CPF},
	); err != nil {
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	return u.GetUser(ctx, id)
}

func (u *userUsecase) DeactivatePatientProfile(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) (bool, error) {
	return u.deactivateProfile(ctx, id, func(tx *gorm.DB) (bool, error) {
		return u.lifecycleService.DeactivatePatient(ctx, tx, actorID, id)
	})
}

// GetDoctors lists doctors that can currently be booked.
func (u *userUsecase) GetDoctors(ctx context.Context, specialtyID *int) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(u.db.WithContext(ctx), specialtyID)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, apperror.Persistence(err)
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(profiles),
		Total:   len(profiles),
	}, nil
}

func (u *userUsecase) deactivateProfile(ctx context.Context, id uuid.UUID, deactivate func(tx *gorm.DB) (bool, error)) (bool, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	ok, err := deactivate(tx)
	if err != nil {
		return false, apperror.Persistence(err)
	}
	if !ok {
		return false, nil
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return false, apperror.Persistence(err)
	}

	u.log.Infof("Profile of user %s deactivated", id)
	return true, nil
}

func (u *userUsecase) createDoctorProfile(tx *gorm.DB, userID uuid.UUID, req *dto.CreateDoctorProfileRequest) error {
	if err := u.requireSpecialty(tx, req.SpecialtyID); err != nil {
		return err
	}

	existing, err := u.doctorProfileRepo.FindByCRM(tx, req.CRM)
	if err != nil {
		u.log.Warnf("Failed to find doctor by CRM: %+v", err)
		return apperror.Persistence(err)
	}
	if existing != nil {
		return ErrDuplicateCRM
	}

	profile := &entity.DoctorProfile{
		UserID:      userID,
		CRM:         req.CRM,
		SpecialtyID: req.SpecialtyID,
		Status:      entity.LifecycleActive,
	}
	if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
		if isDuplicateKeyError(err, "crm") {
			return ErrDuplicateCRM
		}
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return apperror.Persistence(err)
	}
	return nil
}

func (u *userUsecase) createPatientProfile(tx *gorm.DB, userID uuid.UUID, req *dto.CreatePatientProfileRequest) error {
	existing, err := u.patientProfileRepo.FindByCPF(tx, req.CPF)
	if err != nil {
		u.log.Warnf("Failed to find patient by CPF: %+v", err)
		return apperror.Persistence(err)
	}
	if existing != nil {
		return ErrDuplicateCPF
	}

	profile := &entity.PatientProfile{
		UserID: userID,
		CPF:    req.CPF,
		Status: entity.LifecycleActive,
	}
	if err := u.patientProfileRepo.Create(tx, profile); err != nil {
		if isDuplicateKeyError(err, "cpf") {
			return ErrDuplicateCPF
		}
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return apperror.Persistence(err)
	}
	return nil
}

func (u *userUsecase) requireSpecialty(tx *gorm.DB, id int) error {
	specialty, err := u.specialtyRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find specialty %d: %+v", id, err)
		return apperror.Persistence(err)
	}
	if specialty == nil {
		return ErrSpecialtyNotFound
	}
	return nil
}

func (u *userUsecase) lockActiveUser(tx *gorm.DB, id uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Status.IsActive() {
		return nil, ErrUserInactive
	}
	return user, nil
}

func parseBirthDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	birthDate, err := time.Parse("2006-01-02", strings.TrimSpace(*value))
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	return &birthDate, nil
}

func resolveRole(req *dto.CreateUserRequest) (string, error) {
	switch req.Role {
	case entity.RoleAdmin, entity.RoleReception, entity.RoleDoctor, entity.RolePatient:
		return req.Role, nil
	case "":
		switch {
		case req.Doctor != nil:
			return entity.RoleDoctor, nil
		case req.Patient != nil:
			return entity.RolePatient, nil
		default:
			return entity.RoleReception, nil
		}
	default:
		return "", ErrInvalidRole
	}
}
