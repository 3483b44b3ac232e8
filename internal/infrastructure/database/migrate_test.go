package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLite(t *testing.T) {
	db, err := NewSQLiteMemory()
	require.NoError(t, err)

	require.NoError(t, Migrate(db, 20*time.Minute))

	for _, table := range []string{"specialties", "users", "doctor_profiles", "patient_profiles", "appointments", "audit_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// running twice is a no-op
	require.NoError(t, Migrate(db, 20*time.Minute))
}

func TestExclusionConstraintSQL(t *testing.T) {
	sql := exclusionConstraintSQL(ConstraintDoctorNoOverlap, "doctor_id", 20*time.Minute)

	assert.Contains(t, sql, "ADD CONSTRAINT appointments_doctor_no_overlap EXCLUDE USING gist")
	assert.Contains(t, sql, "doctor_id WITH =")
	assert.Contains(t, sql, "interval '1200 seconds'")
	assert.Contains(t, sql, "WHERE (status = 'scheduled')")
}
