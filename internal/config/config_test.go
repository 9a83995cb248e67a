package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_LoadsFromYaml(t *testing.T) {
	os.Setenv("MODE", "test")
	defer os.Unsetenv("MODE")

	cfg := Get()

	assert.NotEmpty(t, cfg.Store.ConnectionString)
	assert.NotEmpty(t, cfg.Matcher.WebhookURL)
	assert.NotEmpty(t, cfg.Metrics.Address)
	assert.Equal(t, LevelInfo, cfg.Logger.LogLevel)
}

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {
	os.Setenv("MODE", "test")
	os.Setenv("STORE_CONNECTION_STRING", "override.db")
	os.Setenv("MATCHER_WEBHOOK_URL", "http://override:5678/webhook")
	os.Setenv("MATCHER_MAX_REQUESTS_PER_SECOND", "2.5")
	os.Setenv("LOG_LEVEL", "DEBUG")
	os.Setenv("METRICS_ADDRESS", ":9099")
	defer func() {
		for _, key := range []string{"MODE", "STORE_CONNECTION_STRING", "MATCHER_WEBHOOK_URL",
			"MATCHER_MAX_REQUESTS_PER_SECOND", "LOG_LEVEL", "METRICS_ADDRESS"} {
			os.Unsetenv(key)
		}
	}()

	cfg := Get()

	assert.Equal(t, "override.db", cfg.Store.ConnectionString)
	assert.Equal(t, "http://override:5678/webhook", cfg.Matcher.WebhookURL)
	assert.Equal(t, float32(2.5), cfg.Matcher.MaxRequestsPerSecond)
	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, ":9099", cfg.Metrics.Address)
}

func Test_MatcherConfig_RejectsInvalidURL(t *testing.T) {
	cfg := MatcherConfig{WebhookURL: "not a url"}
	require.Error(t, cfg.validate())
}
