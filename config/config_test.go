package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, 20*time.Minute, cfg.Scheduling.AppointmentDuration)
	assert.Equal(t, 5, cfg.RateLimit.LoginBurst)
	assert.False(t, cfg.App.Seed)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "sqlite")
	v.Set("JWT_ACCESS_EXPIRY", "1h")
	v.Set("APPOINTMENT_DURATION", "30m")
	v.Set("APP_SEED", "true")

	cfg := fromViper(v)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 30*time.Minute, cfg.Scheduling.AppointmentDuration)
	assert.True(t, cfg.App.Seed)
}

func TestFromViperRejectsNonPositiveDuration(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("APPOINTMENT_DURATION", "-5m")

	assert.Equal(t, 20*time.Minute, fromViper(v).Scheduling.AppointmentDuration)
}
