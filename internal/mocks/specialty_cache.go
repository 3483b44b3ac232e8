package mocks

import (
	"context"

	"sistema-hospitalar/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockSpecialtyCache is a mock of service.SpecialtyCache
type MockSpecialtyCache struct {
	mock.Mock
}

func (m *MockSpecialtyCache) Get(ctx context.Context) ([]entity.Specialty, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]entity.Specialty), args.Bool(1), args.Error(2)
}

func (m *MockSpecialtyCache) Set(ctx context.Context, specialties []entity.Specialty) error {
	args := m.Called(ctx, specialties)
	return args.Error(0)
}

func (m *MockSpecialtyCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
