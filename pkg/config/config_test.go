package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	for _, key := range []string{
		"COMPLETIONS_MODEL", "EMBEDDINGS_BATCH_SIZE", "PROFILE_ITEM_LIMIT",
		"PROVIDER_TIMEOUT", "PROVIDER_MAX_RETRIES", "WRITE_DEBUG_OUTPUTS", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	conf, err := LoadConfig(false)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1-mini", conf.CompletionsModel)
	assert.Equal(t, 256, conf.EmbeddingsBatchSize)
	assert.Equal(t, 250, conf.ProfileItemLimit)
	assert.Equal(t, 30*time.Second, conf.ProviderTimeout)
	assert.Equal(t, 2, conf.ProviderMaxRetries)
	assert.False(t, conf.WriteDebugOutputs)
	assert.Equal(t, "text", conf.LogFormat)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("EMBEDDINGS_BATCH_SIZE", "64")
	t.Setenv("PROFILE_ITEM_LIMIT", "not-a-number")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("PROVIDER_MAX_RETRIES", "0")
	t.Setenv("PROVIDER_RATE_LIMIT", "2.5")
	t.Setenv("WRITE_DEBUG_OUTPUTS", "true")
	t.Setenv("LOG_LEVEL_PROFILE_PIPELINE", "debug")

	conf, err := LoadConfig(false)
	require.NoError(t, err)

	assert.Equal(t, 64, conf.EmbeddingsBatchSize)
	assert.Equal(t, 250, conf.ProfileItemLimit)
	assert.Equal(t, 5*time.Second, conf.ProviderTimeout)
	assert.Equal(t, 0, conf.ProviderMaxRetries)
	assert.Equal(t, 2.5, conf.ProviderRateLimit)
	assert.True(t, conf.WriteDebugOutputs)
	assert.Equal(t, "debug", conf.ComponentLogLevels["profile_pipeline"])
}
