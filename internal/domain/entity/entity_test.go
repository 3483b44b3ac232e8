package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowOverlaps(t *testing.T) {
	base := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	booked := NewWindow(base, DefaultAppointmentDuration)

	cases := []struct {
		name   string
		start  time.Time
		expect bool
	}{
		{"same start", base, true},
		{"inside window", base.Add(10 * time.Minute), true},
		{"ends at booked start", base.Add(-20 * time.Minute), false},
		{"starts before and runs into", base.Add(-19 * time.Minute), true},
		{"starts at booked end", base.Add(20 * time.Minute), false},
		{"one minute before end", base.Add(19 * time.Minute), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWindow(tc.start, DefaultAppointmentDuration)
			assert.Equal(t, tc.expect, booked.Overlaps(w))
			assert.Equal(t, tc.expect, w.Overlaps(booked))
		})
	}
}

func TestValidCPF(t *testing.T) {
	assert.True(t, ValidCPF("12345678901"))
	assert.False(t, ValidCPF("1234567890"))
	assert.False(t, ValidCPF("123456789012"))
	assert.False(t, ValidCPF("123.456.789"))
	assert.False(t, ValidCPF("1234567890a"))
}

func TestAppointmentCancel(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusScheduled, Note: "rotina"}
	a.Cancel("paciente desistiu")

	assert.True(t, a.IsCancelled())
	assert.False(t, a.IsActive())
	assert.Equal(t, "paciente desistiu", a.Note)
}

func TestBookable(t *testing.T) {
	doctor := &DoctorProfile{Status: LifecycleActive, User: User{IsDoctor: true, Status: LifecycleActive}}
	assert.True(t, doctor.Bookable())

	doctor.User.Status = LifecycleInactive
	assert.False(t, doctor.Bookable())

	patient := &PatientProfile{Status: LifecycleActive, User: User{IsPatient: false, Status: LifecycleActive}}
	assert.False(t, patient.Bookable())

	var missing *PatientProfile
	assert.False(t, missing.Bookable())
}
