package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Model   ModelConfig   `yaml:"model"`
	Reading ReadingConfig `yaml:"reading"`
	History HistoryConfig `yaml:"history"`
	Cache   CacheConfig   `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// ModelConfig controls model file resolution and the inference backend.
type ModelConfig struct {
	Path           string `yaml:"path"`
	FileName       string `yaml:"fileName"`
	ResourceDir    string `yaml:"resourceDir"`
	AppDataDir     string `yaml:"appDataDir"`
	DevMode        bool   `yaml:"devMode"`
	ContextSize    int    `yaml:"contextSize"`
	GPULayers      int    `yaml:"gpuLayers"`
	ForceCPU       bool   `yaml:"forceCpu"`
	VerboseLogging bool   `yaml:"verboseLogging"`
	ChatTemplate   string `yaml:"chatTemplate"`
	SystemPrompt   string `yaml:"systemPrompt"`
	TokEncoding    string `yaml:"tokEncoding"`
}

// ReadingConfig tunes the generation layer.
type ReadingConfig struct {
	ChunkSize      int            `yaml:"chunkSize"`
	ChunkDelay     time.Duration  `yaml:"chunkDelay"`
	ProgressTick   time.Duration  `yaml:"progressTick"`
	ProgressStep   float64        `yaml:"progressStep"`
	FallbackToStub bool           `yaml:"fallbackToStub"`
	HistoryLimit   int            `yaml:"historyLimit"`
	Sampling       SamplingConfig `yaml:"sampling"`
}

// SamplingConfig supplies the default generation tuning.
type SamplingConfig struct {
	Temperature   float64 `yaml:"temperature"`
	TopP          float64 `yaml:"topP"`
	TopK          int     `yaml:"topK"`
	RepeatPenalty float64 `yaml:"repeatPenalty"`
	MaxTokens     int     `yaml:"maxTokens"`
}

// HistoryConfig selects the reading history backend.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	SQLitePath  string `yaml:"sqlitePath"`
	PostgresDSN string `yaml:"postgresDsn"`
	MaxConns    int32  `yaml:"maxConns"`
}

// CacheConfig selects the dashboard payload cache backend.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TTL        time.Duration `yaml:"ttl"`
	ValkeyAddr string        `yaml:"valkeyAddr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("THEVEIL_MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("THEVEIL_MODEL_FILE"); v != "" {
		cfg.Model.FileName = v
	}
	if v := os.Getenv("THEVEIL_RESOURCE_DIR"); v != "" {
		cfg.Model.ResourceDir = v
	}
	if v := os.Getenv("THEVEIL_FORCE_CPU"); v != "" {
		cfg.Model.ForceCPU = isTruthy(v)
	}
	if v := os.Getenv("THEVEIL_LLAMA_LOGGING"); v != "" {
		cfg.Model.VerboseLogging = isTruthy(v)
	}
	if v := os.Getenv("THEVEIL_CHAT_TEMPLATE"); strings.TrimSpace(v) != "" {
		cfg.Model.ChatTemplate = v
	}
	if v := os.Getenv("THEVEIL_TOK_ENCODING"); strings.TrimSpace(v) != "" {
		cfg.Model.TokEncoding = v
	}
	if v := os.Getenv("THEVEIL_DEV_MODE"); v != "" {
		cfg.Model.DevMode = isTruthy(v)
	}
	if v := os.Getenv("THEVEIL_CONTEXT_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Model.ContextSize = parsed
		}
	}
	if v := os.Getenv("THEVEIL_GPU_LAYERS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Model.GPULayers = parsed
		}
	}
	if v := os.Getenv("READING_FALLBACK_TO_STUB"); v != "" {
		cfg.Reading.FallbackToStub = isTruthy(v)
	}
	if v := os.Getenv("READING_CHUNK_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Reading.ChunkDelay = parsed
		}
	}
	if v := os.Getenv("HISTORY_ENABLED"); v != "" {
		cfg.History.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HISTORY_SQLITE_PATH"); v != "" {
		cfg.History.SQLitePath = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_DSN"); v != "" {
		cfg.History.PostgresDSN = v
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = isTruthy(v)
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.ValkeyAddr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Model: ModelConfig{
			FileName:    "veil.gguf",
			ContextSize: 4096,
			GPULayers:   35,
		},
		Reading: ReadingConfig{
			ChunkSize:      28,
			ChunkDelay:     40 * time.Millisecond,
			ProgressTick:   180 * time.Millisecond,
			ProgressStep:   0.15,
			FallbackToStub: true,
			HistoryLimit:   20,
			Sampling: SamplingConfig{
				Temperature:   0.45,
				TopP:          0.9,
				TopK:          50,
				RepeatPenalty: 1.1,
				MaxTokens:     3600,
			},
		},
		History: HistoryConfig{
			Enabled:    true,
			SQLitePath: "theveil-history.sqlite",
			MaxConns:   4,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Model.FileName == "" && c.Model.Path == "" {
		return errors.New("model.fileName cannot be empty without an explicit model.path")
	}
	if c.Model.ContextSize <= 0 {
		return errors.New("model.contextSize must be positive")
	}
	if c.Reading.ChunkSize <= 0 {
		return errors.New("reading.chunkSize must be positive")
	}
	if c.Reading.ChunkDelay < 0 {
		return errors.New("reading.chunkDelay cannot be negative")
	}
	if c.Reading.ProgressTick <= 0 {
		return errors.New("reading.progressTick must be positive")
	}
	if c.Reading.ProgressStep <= 0 || c.Reading.ProgressStep > 0.8 {
		return errors.New("reading.progressStep must be in (0, 0.8]")
	}
	if c.Reading.Sampling.MaxTokens <= 0 {
		return errors.New("reading.sampling.maxTokens must be positive")
	}
	if c.Reading.Sampling.Temperature < 0 {
		return errors.New("reading.sampling.temperature cannot be negative")
	}
	if c.Reading.Sampling.TopP <= 0 || c.Reading.Sampling.TopP > 1 {
		return errors.New("reading.sampling.topP must be in (0, 1]")
	}
	if c.Reading.Sampling.TopK <= 0 {
		return errors.New("reading.sampling.topK must be positive")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
