package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()

		var cfg Config
		cfg.LoadEnv()

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
		assert.Equal(t, "Token", cfg.BackendAuthScheme)
		assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
		assert.Equal(t, "memory", cfg.SessionStore)
		assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
		assert.Equal(t, [2]float64{90.4125, 23.8103}, cfg.MapCenter)
		assert.True(t, cfg.IsDevelopment())
		assert.Equal(t, DevJWTSecret, cfg.JWTSecret)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("production needs a jwt secret", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("APP_ENV", "Production")

		var cfg Config
		cfg.LoadEnv()

		assert.Equal(t, "production", cfg.Env)
		assert.Empty(t, cfg.JWTSecret)
		assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)

		os.Setenv("JWT_SECRET", "s3cret")
		cfg.LoadEnv()
		assert.Equal(t, "s3cret", cfg.JWTSecret)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("PORT", "9090")
		os.Setenv("BACKEND_URL", "http://localhost:8000/")
		os.Setenv("BACKEND_TIMEOUT", "3s")
		os.Setenv("SESSION_STORE", "redis")
		os.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

		var cfg Config
		cfg.LoadEnv()

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
		assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
		assert.Equal(t, "redis", cfg.SessionStore)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	})

	t.Run("invalid duration falls back", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("SESSION_TTL", "soon")

		var cfg Config
		cfg.LoadEnv()

		assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	})
}

func TestGetOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		set          bool
		value        string
		defaultValue string
		expected     string
	}{
		{name: "set", set: true, value: "v", defaultValue: "d", expected: "v"},
		{name: "unset", set: false, defaultValue: "d", expected: "d"},
		{name: "empty but set", set: true, value: "", defaultValue: "d", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.set {
				os.Setenv("TEST_KEY", tt.value)
			}
			assert.Equal(t, tt.expected, GetOrDefault("TEST_KEY", tt.defaultValue))
		})
	}
}
