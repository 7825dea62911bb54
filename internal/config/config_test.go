package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "./data/trails.db", cfg.DBPath)
	assert.Equal(t, "./storage/trail_files", cfg.TrailFilesDir)
	assert.Equal(t, 0.5, cfg.SegmentLengthKm)
	assert.Equal(t, 4, cfg.ImportWorkers)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("DB_PATH", "/tmp/t.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SEGMENT_LENGTH_KM", "1.25")
	t.Setenv("IMPORT_WORKERS", "8")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, "/tmp/t.db", cfg.DBPath)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, 1.25, cfg.SegmentLengthKm)
	assert.Equal(t, 8, cfg.ImportWorkers)
	assert.True(t, cfg.IsProduction())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SEGMENT_LENGTH_KM":     "0",
		"IMPORT_WORKERS":        "0",
		"RATE_LIMIT_PER_MINUTE": "-1",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestFromViperOverride(t *testing.T) {
	v := NewViper()
	v.Set("TRAIL_FILES_DIR", "/srv/trails")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/trails", cfg.TrailFilesDir)
}
