package usecase

import (
	"context"
	"strconv"
	"strings"

	"sistema-hospitalar/internal/converter"
	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/domain/repository"
	"sistema-hospitalar/internal/service"
	"sistema-hospitalar/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SpecialtyUsecase interface {
	GetAllSpecialties(ctx context.Context) (*dto.SpecialtyListResponse, error)
	GetSpecialty(ctx context.Context, id int) (*dto.SpecialtyResponse, error)
	CreateSpecialty(ctx context.Context, actorID *uuid.UUID, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error)
	UpdateSpecialty(ctx context.Context, actorID *uuid.UUID, id int, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error)
	DeleteSpecialty(ctx context.Context, actorID *uuid.UUID, id int) (bool, error)
}

type specialtyUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	specialtyRepo repository.SpecialtyRepository
	auditService  service.AuditService
	cache         service.SpecialtyCache
}

func NewSpecialtyUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	specialtyRepo repository.SpecialtyRepository,
	auditService service.AuditService,
	cache service.SpecialtyCache,
) SpecialtyUsecase {
	return &specialtyUsecase{
		db:            db,
		log:           log,
		specialtyRepo: specialtyRepo,
		auditService:  auditService,
		cache:         cache,
	}
}

// GetAllSpecialties serves the list from the cache when possible. Cache errors fall back to the store.
func (u *specialtyUsecase) GetAllSpecialties(ctx context.Context) (*dto.SpecialtyListResponse, error) {
	specialties, hit, err := u.cache.Get(ctx)
	if err != nil {
		u.log.Warnf("Failed to read specialties from cache: %+v", err)
	}

	if !hit {
		specialties, err = u.specialtyRepo.FindAll(u.db.WithContext(ctx))
		if err != nil {
			u.log.Warnf("Failed to find all specialties: %+v", err)
			return nil, apperror.Persistence(err)
		}
		if err := u.cache.Set(ctx, specialties); err != nil {
			u.log.Warnf("Failed to cache specialties: %+v", err)
		}
	}

	return &dto.SpecialtyListResponse{
		Specialties: converter.SpecialtiesToResponses(specialties),
		Total:       len(specialties),
	}, nil
}

func (u *specialtyUsecase) GetSpecialty(ctx context.Context, id int) (*dto.SpecialtyResponse, error) {
	specialty, err := u.specialtyRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find specialty %d: %+v", id, err)
		return nil, apperror.Persistence(err)
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
	}
	return converter.SpecialtyToResponse(specialty), nil
}

func (u *specialtyUsecase) CreateSpecialty(ctx context.Context, actorID *uuid.UUID, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrSpecialtyName
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.specialtyRepo.FindByName(tx, name)
	if err != nil {
		u.log.Warnf("Failed to find specialty by name: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if existing != nil {
		return nil, ErrDuplicateSpecialty
	}

	specialty := &entity.Specialty{Name: name}
	if err := u.specialtyRepo.Create(tx, specialty); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDuplicateSpecialty
		}
		u.log.Warnf("Failed to create specialty: %+v", err)
		return nil, apperror.Persistence(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionSpecialtyCreate, "specialty", strconv.Itoa(specialty.ID), specialty); err != nil {
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	u.invalidate(ctx)
	return converter.SpecialtyToResponse(specialty), nil
}

func (u *specialtyUsecase) UpdateSpecialty(ctx context.Context, actorID *uuid.UUID, id int, req *dto.SpecialtyRequest) (*dto.SpecialtyResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrSpecialtyName
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialty, err := u.specialtyRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find specialty %d: %+v", id, err)
		return nil, apperror.Persistence(err)
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
	}

	sameName, err := u.specialtyRepo.FindByName(tx, name)
	if err != nil {
		u.log.Warnf("Failed to find specialty by name: %+v", err)
		return nil, apperror.Persistence(err)
	}
	if sameName != nil && sameName.ID != id {
		return nil, ErrDuplicateSpecialty
	}

	oldName := specialty.Name
	specialty.Name = name
	if err := u.specialtyRepo.Update(tx, specialty); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDuplicateSpecialty
		}
		u.log.Warnf("Failed to update specialty %d: %+v", id, err)
		return nil, apperror.Persistence(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionSpecialtyUpdate, "specialty", strconv.Itoa(specialty.ID),
		map[string]interface{}{"name": oldName}, map[string]interface{}{"name": name},
	); err != nil {
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	u.invalidate(ctx)
	return converter.SpecialtyToResponse(specialty), nil
}

// DeleteSpecialty removes an unreferenced specialty. Returns false when it does not exist.
func (u *specialtyUsecase) DeleteSpecialty(ctx context.Context, actorID *uuid.UUID, id int) (bool, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	specialty, err := u.specialtyRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find specialty %d: %+v", id, err)
		return false, apperror.Persistence(err)
	}
	if specialty == nil {
		return false, nil
	}

	refs, err := u.specialtyRepo.CountDoctors(tx, id)
	if err != nil {
		u.log.Warnf("Failed to count doctors of specialty %d: %+v", id, err)
		return false, apperror.Persistence(err)
	}
	if refs > 0 {
		return false, ErrSpecialtyInUse
	}

	if _, err := u.specialtyRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete specialty %d: %+v", id, err)
		return false, apperror.Persistence(err)
	}

	if err := u.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionSpecialtyDelete, "specialty", strconv.Itoa(specialty.ID), specialty); err != nil {
		return false, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return false, apperror.Persistence(err)
	}

	u.invalidate(ctx)
	return true, nil
}

func (u *specialtyUsecase) invalidate(ctx context.Context) {
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warnf("Failed to invalidate specialty cache: %+v", err)
	}
}
