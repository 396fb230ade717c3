package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Env:             EnvLocal,
		Port:            "8080",
		DBPath:          "expenses.db",
		TemplateDir:     "web/templates",
		StaticDir:       "web/static",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid env", func(c *Config) { c.Env = "staging" }, "invalid environment 'staging'"},
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port 'abc': must be a number"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port 70000: must be between 1 and 65535"},
		{"empty db path", func(c *Config) { c.DBPath = "" }, "database path cannot be empty"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level 'loud'"},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, "invalid shutdown timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.DBPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "database path cannot be empty")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_PATH", "TEMPLATE_DIR", "STATIC_DIR", "SECURE_COOKIE", "LOG_LEVEL", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "expenses.db", cfg.DBPath)
	assert.Equal(t, "web/templates", cfg.TemplateDir)
	assert.False(t, cfg.SecureCookie)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/cars.db")
	t.Setenv("SECURE_COOKIE", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/cars.db", cfg.DBPath)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	t.Setenv("APP_ENV", "")
	os.Unsetenv("APP_ENV")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOG_LEVEL=debug\nAPP_ENV=prod\n"), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, EnvProd, cfg.Env)

	// godotenv sets real variables; clean them up for other tests.
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("APP_ENV")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}
