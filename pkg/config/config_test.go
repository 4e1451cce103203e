package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "EXTRACTOR_URL", "EXTRACT_TIMEOUT_SECONDS", "MAX_UPLOAD_BYTES", "MANUAL_SAVE_DELAY_MS",
		"SESSION_TTL_MINUTES", "SESSION_QUOTA_BYTES", "REDIS_URL", "DATABASE_URL",
		"JWT_SECRET", "JWT_ISSUER", "LOG_JSON", "LOG_DEBUG",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.ExtractorURL)
	assert.Zero(t, cfg.ExtractTimeout)
	assert.Equal(t, int64(15<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 500*time.Millisecond, cfg.ManualSaveDelay)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5<<20, cfg.SessionQuota)
	assert.Equal(t, "dev-secret-change", cfg.JWTSecret)
	assert.Equal(t, "careerdesk", cfg.JWTIssuer)
	assert.False(t, cfg.LogJSON)
	assert.False(t, cfg.LogDebug)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EXTRACTOR_URL", "http://extractor:8000")
	t.Setenv("EXTRACT_TIMEOUT_SECONDS", "30")
	t.Setenv("MANUAL_SAVE_DELAY_MS", "0")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("LOG_DEBUG", "1")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://extractor:8000", cfg.ExtractorURL)
	assert.Equal(t, 30*time.Second, cfg.ExtractTimeout)
	assert.Zero(t, cfg.ManualSaveDelay, "zero disables the delay")
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.LogJSON)
	assert.True(t, cfg.LogDebug)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MANUAL_SAVE_DELAY_MS", "-5")
	t.Setenv("SESSION_QUOTA_BYTES", "lots")
	t.Setenv("LOG_JSON", "maybe")

	cfg := Load()
	assert.Equal(t, 500*time.Millisecond, cfg.ManualSaveDelay)
	assert.Equal(t, 5<<20, cfg.SessionQuota)
	assert.False(t, cfg.LogJSON)
}
