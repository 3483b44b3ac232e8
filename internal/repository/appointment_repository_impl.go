package repository

import (
	"errors"

	"sistema-hospitalar/internal/domain/entity"
	domainRepo "sistema-hospitalar/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := preloadView(db).Where("appointments.id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// Find returns appointments matching every non-zero field of the filter, ordered by time.
func (r *appointmentRepository) Find(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := preloadView(db)

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("appointments.doctor_id = ?", *filter.DoctorID)
		}
		if filter.PatientID != nil {
			query = query.Where("appointments.patient_id = ?", *filter.PatientID)
		}
		if filter.DoctorName != "" {
			query = query.Where("appointments.doctor_id IN (?)",
				db.Model(&entity.User{}).Select("id").Where("LOWER(full_name) LIKE LOWER(?)", "%"+filter.DoctorName+"%"))
		}
		if filter.PatientName != "" {
			query = query.Where("appointments.patient_id IN (?)",
				db.Model(&entity.User{}).Select("id").Where("LOWER(full_name) LIKE LOWER(?)", "%"+filter.PatientName+"%"))
		}
		if filter.Start != nil {
			query = query.Where("appointments.scheduled_at >= ?", *filter.Start)
		}
		if filter.End != nil {
			query = query.Where("appointments.scheduled_at <= ?", *filter.End)
		}
		if filter.ActiveOnly {
			query = query.Where("appointments.status = ?", entity.AppointmentStatusScheduled)
		}
		if filter.ExcludeID != nil {
			query = query.Where("appointments.id <> ?", *filter.ExcludeID)
		}
	}

	err := query.Order("appointments.scheduled_at ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Save(appointment).Error
}

// Cancel sets the cancelled status and stores the reason. Already cancelled rows are updated again
// so the latest reason wins. Returns 0 rows when the id does not exist.
func (r *appointmentRepository) Cancel(db *gorm.DB, id uuid.UUID, reason string) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": entity.AppointmentStatusCancelled,
			"note":   reason,
		})
	return result.RowsAffected, result.Error
}

func preloadView(db *gorm.DB) *gorm.DB {
	return db.Preload("Doctor.User").Preload("Doctor.Specialty").Preload("Patient.User")
}
