package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
		{"90m", 90 * time.Minute},
		{" 12h ", 12 * time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDuration("sevend")
	assert.Error(t, err)
	_, err = ParseDuration("")
	assert.Error(t, err)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("REDIS_ENABLED", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")

	cfg := LoadConfig()

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Empty(t, cfg.AdminPassword)
	assert.True(t, cfg.InsecureJWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DefaultSecretRejectedInProduction(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	cfg := LoadConfig()
	assert.Equal(t, "production", cfg.Env)
	assert.ErrorIs(t, cfg.Validate(), ErrInsecureJWTSecret)

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg = LoadConfig()
	assert.False(t, cfg.InsecureJWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRES_IN", "2d")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("ADMIN_EMAIL", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "changeme")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 48*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.InsecureJWTSecret)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
	assert.Equal(t, "changeme", cfg.AdminPassword)
}
