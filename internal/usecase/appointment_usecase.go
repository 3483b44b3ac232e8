package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"sistema-hospitalar/internal/converter"
	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/domain/repository"
	"sistema-hospitalar/internal/infrastructure/metrics"
	"sistema-hospitalar/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	operationCreate = "create"
	operationEdit   = "edit"
	operationCancel = "cancel"
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetAppointmentsByDoctorName(ctx context.Context, name string) (*dto.AppointmentListResponse, error)
	GetAppointmentsByPatientName(ctx context.Context, name string) (*dto.AppointmentListResponse, error)
	GetAppointmentsByPeriod(ctx context.Context, start, end *time.Time) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	appointmentRepo    repository.AppointmentRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	metrics            *metrics.Metrics
	duration           time.Duration
	now                func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	m *metrics.Metrics,
	duration time.Duration,
) AppointmentUsecase {
	if duration <= 0 {
		duration = entity.DefaultAppointmentDuration
	}
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		appointmentRepo:    appointmentRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		metrics:            m,
		duration:           duration,
		now:                time.Now,
	}
}

// slot is the candidate booking checked against existing appointments.
type slot struct {
	doctorID  uuid.UUID
	patientID uuid.UUID
	window    entity.Window
	excludeID *uuid.UUID
}

// CreateAppointment books a new appointment.
//
// Checks run in this order and the first failure wins:
// past time, doctor overlap, patient overlap, doctor availability, patient availability.
// The doctor and patient profile rows are locked before the overlap checks, so two
// bookings touching the same doctor or patient run one after the other.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	resp, err := u.createAppointment(ctx, req)
	u.observe(operationCreate, err)
	return resp, err
}

func (u *appointmentUsecase) createAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.ScheduledAt == nil {
		return nil, ErrScheduledAtRequired
	}
	if req.DoctorID == uuid.Nil || req.PatientID == uuid.Nil {
		return nil, ErrAppointmentIDRequired
	}

	at := normalizeTime(*req.ScheduledAt)
	if at.Before(u.now().UTC()) {
		return nil, ErrPastScheduling
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	s := slot{
		doctorID:  req.DoctorID,
		patientID: req.PatientID,
		window:    entity.NewWindow(at, u.duration),
	}
	if err := u.checkSlot(tx, s); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: at,
		Note:        strings.TrimSpace(req.Note),
		Status:      entity.AppointmentStatusScheduled,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if busy := overlapViolation(err); busy != nil {
			return nil, busy
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		if busy := overlapViolation(err); busy != nil {
			return nil, busy
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	u.log.Infof("Appointment %s booked for doctor %s and patient %s at %s",
		appointment.ID, appointment.DoctorID, appointment.PatientID, at.Format(time.RFC3339))

	return u.view(ctx, appointment.ID)
}

// UpdateAppointment moves an appointment to a new time or participants. The same checks as
// CreateAppointment apply, comparing against every other active appointment.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	resp, err := u.updateAppointment(ctx, id, req)
	u.observe(operationEdit, err)
	return resp, err
}

func (u *appointmentUsecase) updateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.ScheduledAt == nil {
		return nil, ErrScheduledAtRequired
	}
	if req.DoctorID == uuid.Nil || req.PatientID == uuid.Nil {
		return nil, ErrAppointmentIDRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	at := normalizeTime(*req.ScheduledAt)
	if at.Before(u.now().UTC()) {
		return nil, ErrPastScheduling
	}

	s := slot{
		doctorID:  req.DoctorID,
		patientID: req.PatientID,
		window:    entity.NewWindow(at, u.duration),
		excludeID: &appointment.ID,
	}
	if err := u.checkSlot(tx, s); err != nil {
		return nil, err
	}

	appointment.DoctorID = req.DoctorID
	appointment.PatientID = req.PatientID
	appointment.ScheduledAt = at
	if req.Note != nil {
		appointment.Note = strings.TrimSpace(*req.Note)
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if busy := overlapViolation(err); busy != nil {
			return nil, busy
		}
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}

	if err := tx.Commit().Error; err != nil {
		if busy := overlapViolation(err); busy != nil {
			return nil, busy
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Persistence(err)
	}

	u.log.Infof("Appointment %s moved to %s", id, at.Format(time.RFC3339))

	return u.view(ctx, id)
}

// checkSlot locks the doctor then the patient profile and validates the slot.
func (u *appointmentUsecase) checkSlot(tx *gorm.DB, s slot) error {
	doctor, err := u.doctorProfileRepo.FindByUserIDForUpdate(tx, s.doctorID)
	if err != nil {
		u.log.Warnf("Failed to lock doctor profile %s: %+v", s.doctorID, err)
		return apperror.Persistence(err)
	}
	patient, err := u.patientProfileRepo.FindByUserIDForUpdate(tx, s.patientID)
	if err != nil {
		u.log.Warnf("Failed to lock patient profile %s: %+v", s.patientID, err)
		return apperror.Persistence(err)
	}

	busy, err := u.overlaps(tx, &entity.AppointmentFilter{DoctorID: &s.doctorID}, s)
	if err != nil {
		return err
	}
	if busy {
		return ErrDoctorBusy
	}

	busy, err = u.overlaps(tx, &entity.AppointmentFilter{PatientID: &s.patientID}, s)
	if err != nil {
		return err
	}
	if busy {
		return ErrPatientBusy
	}

	if !doctor.Bookable() {
		return ErrInvalidDoctor
	}
	if !patient.Bookable() {
		return ErrInvalidPatient
	}
	return nil
}

// overlaps loads the active appointments that could intersect the slot window and
// tests each against it.
func (u *appointmentUsecase) overlaps(tx *gorm.DB, filter *entity.AppointmentFilter, s slot) (bool, error) {
	from := s.window.Start.Add(-u.duration)
	to := s.window.End
	filter.Start = &from
	filter.End = &to
	filter.ActiveOnly = true
	filter.ExcludeID = s.excludeID

	existing, err := u.appointmentRepo.Find(tx, filter)
	if err != nil {
		u.log.Warnf("Failed to load active appointments: %+v", err)
		return false, apperror.Persistence(err)
	}

	for i := range existing {
		if entity.NewWindow(existing[i].ScheduledAt.UTC(), u.duration).Overlaps(s.window) {
			return true, nil
		}
	}
	return false, nil
}

// CancelAppointment marks the appointment cancelled with the given reason. Returns false
// when no appointment has this id. Cancelling again succeeds and replaces the reason.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	ok, err := u.cancelAppointment(ctx, id, reason)
	u.observe(operationCancel, err)
	return ok, err
}

func (u *appointmentUsecase) cancelAppointment(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, ErrCancelReasonRequired
	}

	affected, err := u.appointmentRepo.Cancel(u.db.WithContext(ctx), id, reason)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return false, apperror.Persistence(err)
	}
	if affected == 0 {
		return false, nil
	}

	u.log.Infof("Appointment %s cancelled", id)
	return true, nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, nil)
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.view(ctx, id)
}

func (u *appointmentUsecase) GetAppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, &entity.AppointmentFilter{DoctorID: &doctorID})
}

func (u *appointmentUsecase) GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return u.list(ctx, &entity.AppointmentFilter{PatientID: &patientID})
}

func (u *appointmentUsecase) GetAppointmentsByDoctorName(ctx context.Context, name string) (*dto.AppointmentListResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSearchTermRequired
	}
	return u.list(ctx, &entity.AppointmentFilter{DoctorName: name})
}

func (u *appointmentUsecase) GetAppointmentsByPatientName(ctx context.Context, name string) (*dto.AppointmentListResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSearchTermRequired
	}
	return u.list(ctx, &entity.AppointmentFilter{PatientName: name})
}

// GetAppointmentsByPeriod returns appointments with start <= time <= end. Either bound may be nil.
func (u *appointmentUsecase) GetAppointmentsByPeriod(ctx context.Context, start, end *time.Time) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{}
	if start != nil {
		s := start.UTC()
		filter.Start = &s
	}
	if end != nil {
		e := end.UTC()
		filter.End = &e
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, ErrInvalidRange
	}
	return u.list(ctx, filter)
}

func (u *appointmentUsecase) list(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.Find(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, apperror.Persistence(err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, u.duration),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) view(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, apperror.Persistence(err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment, u.duration), nil
}

func (u *appointmentUsecase) observe(operation string, err error) {
	if err == nil {
		u.metrics.ObserveScheduling(operation, metrics.OutcomeSucceeded, "")
		return
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind != apperror.KindPersistence {
		u.metrics.ObserveScheduling(operation, metrics.OutcomeRejected, appErr.Code)
		return
	}
	u.metrics.ObserveScheduling(operation, metrics.OutcomeFailed, "")
}

// normalizeTime stores appointment times in UTC at second precision.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
