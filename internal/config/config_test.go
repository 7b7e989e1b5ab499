package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

active_campaign:
  base_url: "https://account.api-us1.com"
  api_key: "test-api-key"
  timeout_seconds: 45

reports:
  provider: "active_campaign"
  interval_seconds: 3600
  lock_ttl_seconds: 120

tracking:
  enabled: true
  base_url: "https://news.example.com"
  allowed_params:
    - ref
    - partner
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "https://account.api-us1.com", cfg.ActiveCampaign.BaseURL)
	assert.Equal(t, "test-api-key", cfg.ActiveCampaign.APIKey)
	assert.Equal(t, 45, cfg.ActiveCampaign.TimeoutSeconds)

	assert.Equal(t, "active_campaign", cfg.Reports.Provider)
	assert.Equal(t, float64(3600), cfg.Reports.Interval().Seconds())
	assert.Equal(t, float64(120), cfg.Reports.LockTTL().Seconds())

	assert.True(t, cfg.Tracking.Enabled)
	assert.Equal(t, "https://news.example.com", cfg.Tracking.BaseURL)
	assert.Equal(t, []string{"ref", "partner"}, cfg.Tracking.AllowedParams)
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 60, cfg.ActiveCampaign.TimeoutSeconds)
	assert.Equal(t, "active_campaign", cfg.Reports.Provider)
	assert.Equal(t, float64(24*3600), cfg.Reports.Interval().Seconds())
	assert.Equal(t, 8081, cfg.Tracking.Port)
	assert.Equal(t, "usage-reports", cfg.Archive.S3Prefix)
	assert.False(t, cfg.Tracking.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("AC_BASE_URL", "https://env.api-us1.com")
	t.Setenv("AC_API_KEY", "env-key")
	t.Setenv("TRACKING_ENABLED", "true")
	t.Setenv("PORT", "7070")

	cfg, err := LoadFromEnv("/nonexistent/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "https://env.api-us1.com", cfg.ActiveCampaign.BaseURL)
	assert.Equal(t, "env-key", cfg.ActiveCampaign.APIKey)
	assert.True(t, cfg.Tracking.Enabled)
	assert.Equal(t, 7070, cfg.Server.Port)
}
