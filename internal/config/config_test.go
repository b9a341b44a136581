package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_APP_ID", "app-id")
	t.Setenv("API_APP_PASS", "app-pass")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	require.NoError(t, LoadConfig())
	require.NotNil(t, AppConfig)

	assert.Equal(t, 3000, AppConfig.Port)
	assert.Equal(t, "development", AppConfig.Environment)
	assert.Equal(t, "https://bpdigital-api.bellinatiperez.com.br", AppConfig.AuthBaseURL)
	assert.Equal(t, "https://api-negocie.bellinati.com.br", AppConfig.NegocieBaseURL)
	assert.Equal(t, 30*time.Second, AppConfig.GatewayTimeout)
	assert.Equal(t, "negocia", AppConfig.MongoDatabase)
	assert.Equal(t, "user_cache", AppConfig.UserCacheCollection)
	assert.Equal(t, "user_directory", AppConfig.UserDirectoryCollection)
	assert.Equal(t, 3*time.Hour, AppConfig.RedisTTL)
	assert.Equal(t, 2, AppConfig.SyncBatchSize)
	assert.Equal(t, 750*time.Millisecond, AppConfig.SyncBatchDelay)
	assert.Equal(t, 128, AppConfig.NotifyQueueSize)
	assert.False(t, AppConfig.TracingEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("SYNC_BATCH_SIZE", "5")
	t.Setenv("SYNC_BATCH_DELAY", "2s")
	t.Setenv("GATEWAY_TIMEOUT", "10s")
	t.Setenv("TRACING_ENABLED", "true")

	require.NoError(t, LoadConfig())
	assert.Equal(t, 8080, AppConfig.Port)
	assert.Equal(t, 5, AppConfig.SyncBatchSize)
	assert.Equal(t, 2*time.Second, AppConfig.SyncBatchDelay)
	assert.Equal(t, 10*time.Second, AppConfig.GatewayTimeout)
	assert.True(t, AppConfig.TracingEnabled)
}

func TestLoadConfigRequiresCredentials(t *testing.T) {
	t.Setenv("API_APP_ID", "")
	t.Setenv("API_APP_PASS", "secret")
	assert.Error(t, LoadConfig())

	t.Setenv("API_APP_ID", "app-id")
	t.Setenv("API_APP_PASS", "")
	assert.Error(t, LoadConfig())
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	setRequiredEnv(t)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "PORT", "not-a-number"},
		{"bad batch size", "SYNC_BATCH_SIZE", "zero"},
		{"batch size below one", "SYNC_BATCH_SIZE", "0"},
		{"bad batch delay", "SYNC_BATCH_DELAY", "soon"},
		{"bad redis ttl", "REDIS_TTL", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.Error(t, LoadConfig())
		})
	}
}
