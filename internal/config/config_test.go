package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"LESSONSYNTH_LLM_PROVIDER", "LESSONSYNTH_SERVER_ADDR", "LESSONSYNTH_LLM_TIMEOUT",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 100, cfg.Server.RateLimit)
	assert.Equal(t, time.Hour, cfg.Server.RateWindow)
	assert.Equal(t, 8*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5.0, cfg.LLM.DailyBudgetUSD)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestFileThenEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":9000"
rate_limit = 10
rate_window = "1m"

[llm]
enabled = true
provider = "mock"
timeout = "3s"
`), 0o644))

	t.Setenv("LESSONSYNTH_SERVER_ADDR", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr, "env overrides file")
	assert.Equal(t, 10, cfg.Server.RateLimit)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, 3*time.Second, cfg.LLM.Timeout)

	lc := cfg.LLMProviderConfig()
	assert.True(t, lc.Enabled)
	assert.Equal(t, "mock", lc.Provider)
	assert.Equal(t, 3*time.Second, lc.Timeout)
	assert.NoError(t, lc.Validate())
}

func TestExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestWriteFileRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	want := Default()
	want.Server.Addr = ":7000"
	want.Cache.TTL = 30 * time.Minute
	require.NoError(t, want.WriteFile(path, false))
	assert.Error(t, want.WriteFile(path, false), "refuses to overwrite")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.RateLimit = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.DailyBudgetUSD = -2
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Tracing.SampleRatio = 1.5
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}

func TestLLMProviderConfig_Discovery(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Default()
	cfg.LLM.Enabled = true
	cfg.LLM.Model = "gpt-4o"

	lc := cfg.LLMProviderConfig()
	assert.Equal(t, "openai", lc.Provider)
	assert.Equal(t, "sk-test", lc.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", lc.OpenAI.Model)
}
