package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "DATABASE_DRIVER=sqlite\nDATABASE_URL=cats.db\nCAT_API_KEY=secret\nCAT_API_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, found, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "cats.db", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.CatAPIKey)
	assert.Equal(t, 5*time.Second, cfg.CatAPITimeout)
	assert.Equal(t, "https://api.thecatapi.com/v1", cfg.CatAPIBaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=from-file\n"), 0o600))
	t.Setenv("DATABASE_URL", "postgres://cats@localhost/cats")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, _, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "postgres://cats@localhost/cats", cfg.DatabaseURL)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "cats.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, found, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "cats.db", cfg.DatabaseURL)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}},
		{"unknown driver", map[string]string{"DATABASE_URL": "x", "DATABASE_DRIVER": "mysql"}},
		{"bad log level", map[string]string{"DATABASE_URL": "x", "LOG_LEVEL": "loud"}},
		{"timeout too small", map[string]string{"DATABASE_URL": "x", "CAT_API_TIMEOUT": "10ms"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, _, err := Load(t.TempDir())
			assert.Error(t, err)
		})
	}
}
