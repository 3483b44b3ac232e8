package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence(cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindPersistence, KindOf(err))
	assert.Nil(t, Persistence(nil))
}

func TestPersistenceKeepsDomainErrors(t *testing.T) {
	busy := Conflict("doctor_busy", "doctor busy")
	err := Persistence(fmt.Errorf("commit: %w", busy))

	assert.ErrorIs(t, err, busy)
	assert.NotErrorIs(t, err, ErrPersistence)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestWrapMatchesSentinel(t *testing.T) {
	sentinel := Conflict("duplicate_crm", "CRM already registered")
	err := Wrap(sentinel, errors.New("23505"))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, Conflict("duplicate_cpf", "CPF already registered"))
	assert.Equal(t, "CRM already registered: 23505", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, "range", KindRange.String())
}
