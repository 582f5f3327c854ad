package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, 28, cfg.Reading.ChunkSize)
	require.Equal(t, 40*time.Millisecond, cfg.Reading.ChunkDelay)
	require.Equal(t, 180*time.Millisecond, cfg.Reading.ProgressTick)
	require.InDelta(t, 0.15, cfg.Reading.ProgressStep, 1e-9)
	require.True(t, cfg.Reading.FallbackToStub)
	require.Equal(t, "veil.gguf", cfg.Model.FileName)
	require.Equal(t, 4096, cfg.Model.ContextSize)
	require.InDelta(t, 0.45, cfg.Reading.Sampling.Temperature, 1e-9)
	require.Equal(t, 3600, cfg.Reading.Sampling.MaxTokens)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9999"
reading:
  chunkSize: 56
  fallbackToStub: false
model:
  fileName: other.gguf
`), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.HTTP.Address)
	require.Equal(t, 56, cfg.Reading.ChunkSize)
	require.False(t, cfg.Reading.FallbackToStub)
	require.Equal(t, "other.gguf", cfg.Model.FileName)
	// Untouched keys keep their defaults.
	require.Equal(t, 180*time.Millisecond, cfg.Reading.ProgressTick)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("THEVEIL_MODEL_PATH", "/models/custom.gguf")
	t.Setenv("THEVEIL_FORCE_CPU", "true")
	t.Setenv("THEVEIL_LLAMA_LOGGING", "1")
	t.Setenv("READING_FALLBACK_TO_STUB", "false")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/models/custom.gguf", cfg.Model.Path)
	require.True(t, cfg.Model.ForceCPU)
	require.True(t, cfg.Model.VerboseLogging)
	require.False(t, cfg.Reading.FallbackToStub)
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":       func(c *Config) { c.HTTP.Address = "" },
		"no model file":       func(c *Config) { c.Model.FileName = ""; c.Model.Path = "" },
		"zero context":        func(c *Config) { c.Model.ContextSize = 0 },
		"zero chunk size":     func(c *Config) { c.Reading.ChunkSize = 0 },
		"negative delay":      func(c *Config) { c.Reading.ChunkDelay = -time.Second },
		"progress step high":  func(c *Config) { c.Reading.ProgressStep = 0.95 },
		"topP out of range":   func(c *Config) { c.Reading.Sampling.TopP = 1.5 },
		"rate limit zero rpm": func(c *Config) { c.HTTP.RateLimit.RequestsPerMinute = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
