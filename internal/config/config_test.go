package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Load()
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.VisionModel)
	assert.Equal(t, 1920, cfg.ScreenshotWidth)
	assert.Equal(t, 3, cfg.AttemptBudget)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("ATTEMPT_BUDGET", "5")
	t.Setenv("RATE_LIMIT", "1.5")
	t.Setenv("DEBUG", "true")

	cfg := Load()
	assert.Equal(t, "gpt-4o-mini", cfg.VisionModel)
	assert.Equal(t, 5, cfg.AttemptBudget)
	assert.Equal(t, 1.5, cfg.RateLimit)
	assert.True(t, cfg.Debug)
}

func TestLoadFileWinsOverEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ATTEMPT_BUDGET", "5")

	path := filepath.Join(t.TempDir(), "designlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: sk-file\nattempt_budget: 2\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.APIKey)
	assert.Equal(t, 2, cfg.AttemptBudget)
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()
	cfg.APIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidateRejectsZeroBudget(t *testing.T) {
	cfg := &Config{APIKey: "sk", AttemptBudget: 0}
	assert.Error(t, cfg.Validate())
}
