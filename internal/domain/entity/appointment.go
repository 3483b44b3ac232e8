package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultAppointmentDuration is the fixed length of an appointment.
const DefaultAppointmentDuration = 20 * time.Minute

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a scheduled doctor-patient encounter.
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	ScheduledAt time.Time         `gorm:"not null;index" json:"scheduled_at"`
	Note        string            `gorm:"type:text" json:"note,omitempty"`
	Status      AppointmentStatus `gorm:"type:varchar(10);not null;default:'scheduled';index" json:"status"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AppointmentStatusScheduled
	}
	return nil
}

func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusScheduled
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// Cancel marks the appointment cancelled and records the reason in Note.
func (a *Appointment) Cancel(reason string) {
	a.Status = AppointmentStatusCancelled
	a.Note = reason
}

// Window is the half-open interval [start, start+duration).
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start time.Time, duration time.Duration) Window {
	return Window{Start: start, End: start.Add(duration)}
}

// Overlaps reports whether two half-open windows intersect.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// AppointmentFilter narrows appointment queries. Zero values are ignored.
type AppointmentFilter struct {
	DoctorID    *uuid.UUID
	PatientID   *uuid.UUID
	DoctorName  string
	PatientName string
	Start       *time.Time
	End         *time.Time
	ActiveOnly  bool
	ExcludeID   *uuid.UUID
}
