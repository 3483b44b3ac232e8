package bootstrap

import (
	"context"
	"errors"
	"time"

	"sistema-hospitalar/internal/delivery/dto"
	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var seedSpecialties = []string{"Cardiologia", "Dermatologia", "Neurologia", "Ortopedia", "Pediatria"}

// Seed fills an empty store with demo data. Running it twice changes nothing.
func Seed(
	ctx context.Context,
	log *logrus.Logger,
	users usecase.UserUsecase,
	specialties usecase.SpecialtyUsecase,
	appointments usecase.AppointmentUsecase,
) error {
	specialtyIDs, err := seedSpecialtyIDs(ctx, specialties)
	if err != nil {
		return err
	}

	seeds := []*dto.CreateUserRequest{
		{FullName: "Administrador", DisplayName: "Admin", Email: "admin@hospital.com", Password: "admin123", Role: entity.RoleAdmin},
		{FullName: "Recepção Central", DisplayName: "Recepção", Email: "recepcao@hospital.com", Password: "recepcao123", Role: entity.RoleReception},
		{
			FullName: "Carlos Henrique Silva", DisplayName: "Dr. Carlos", Email: "carlos@hospital.com", Password: "medico123",
			Doctor: &dto.CreateDoctorProfileRequest{CRM: "CRM-SP-123456", SpecialtyID: specialtyIDs["Cardiologia"]},
		},
		{
			FullName: "Maria Oliveira", DisplayName: "Maria", Email: "maria@email.com", Password: "paciente123",
			Patient: &dto.CreatePatientProfileRequest{CPF: "12345678909"},
		},
	}

	ids := make(map[string]uuid.UUID, len(seeds))
	for _, req := range seeds {
		user, err := users.GetUserByEmail(ctx, req.Email)
		if errors.Is(err, usecase.ErrUserNotFound) {
			user, err = users.CreateUser(ctx, nil, req)
		}
		if err != nil {
			return err
		}
		ids[req.Email] = user.ID
	}

	existing, err := appointments.GetAllAppointments(ctx)
	if err != nil {
		return err
	}
	if existing.Total > 0 {
		log.Info("Seed data already present")
		return nil
	}

	tomorrow := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	for i, at := range []time.Time{tomorrow.Add(9 * time.Hour), tomorrow.AddDate(0, 0, 1).Add(14 * time.Hour)} {
		scheduledAt := at
		if _, err := appointments.CreateAppointment(ctx, &dto.CreateAppointmentRequest{
			DoctorID:    ids["carlos@hospital.com"],
			PatientID:   ids["maria@email.com"],
			ScheduledAt: &scheduledAt,
			Note:        []string{"Consulta de rotina", "Retorno"}[i],
		}); err != nil {
			return err
		}
	}

	log.Info("Seed data created")
	return nil
}

func seedSpecialtyIDs(ctx context.Context, specialties usecase.SpecialtyUsecase) (map[string]int, error) {
	list, err := specialties.GetAllSpecialties(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]int, len(seedSpecialties))
	for _, s := range list.Specialties {
		ids[s.Name] = s.ID
	}

	for _, name := range seedSpecialties {
		if _, ok := ids[name]; ok {
			continue
		}
		created, err := specialties.CreateSpecialty(ctx, nil, &dto.SpecialtyRequest{Name: name})
		if err != nil {
			return nil, err
		}
		ids[name] = created.ID
	}
	return ids, nil
}
