package usecase

import (
	"context"
	"testing"

	"sistema-hospitalar/internal/domain/entity"
	"sistema-hospitalar/internal/repository"
	"sistema-hospitalar/internal/service"
	"sistema-hospitalar/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogs(t *testing.T) {
	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	repo := repository.NewAuditLogRepository()
	audit := service.NewAuditService(log, repo)
	uc := NewAuditLogUsecase(db, log, repo)
	ctx := context.Background()

	actor := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, audit.LogCreate(ctx, db, &actor, entity.AuditActionUserCreate, "user", uuid.NewString(),
			map[string]interface{}{"n": i}))
	}

	list, err := uc.GetAllAuditLogs(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)

	list, err = uc.GetAllAuditLogs(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	assert.Equal(t, entity.AuditActionUserCreate, list.Logs[0].Action)
	assert.Equal(t, &actor, list.Logs[0].ActorID)

	got, err := uc.GetAuditLog(ctx, list.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, list.Logs[0].ID, got.ID)

	_, err = uc.GetAuditLog(ctx, 9999)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
