package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"LISTEN_PORT", "STORE_BACKEND", "DATA_FILE", "POSTGRES_URI", "LOG_LEVEL", "APP_ENV", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.ListenPort)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, "patients.json", cfg.DataFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsDev())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_PORT", "9090")
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("APP_ENV", "development")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ListenPort)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, `unknown STORE_BACKEND "redis"`)
}
