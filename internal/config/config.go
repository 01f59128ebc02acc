// Package config loads layered settings: built-in defaults, an optional
// TOML file, then LESSONSYNTH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/ilearnhow/lessonsynth/internal/llm"
	"github.com/ilearnhow/lessonsynth/internal/synthcache"
)

// EnvPrefix prefixes every environment override, e.g. LESSONSYNTH_SERVER_ADDR.
const EnvPrefix = "LESSONSYNTH"

// Config is the full application configuration.
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	DBPath  string        `mapstructure:"db_path"`
	Log     LogConfig     `mapstructure:"log"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// LogConfig selects the zap logger flavor.
type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// LLMConfig selects the generation provider. API keys come from the
// provider-specific environment variables read by llm.ConfigFromEnv.
type LLMConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Provider       string        `mapstructure:"provider"`
	Model          string        `mapstructure:"model"`
	Timeout        time.Duration `mapstructure:"timeout"`
	DailyBudgetUSD float64       `mapstructure:"daily_budget_usd"`
	Translate      bool          `mapstructure:"translate"`
}

// CacheConfig configures the second-level lesson cache.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	Persist  bool          `mapstructure:"persist"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string        `mapstructure:"addr"`
	Environment string        `mapstructure:"environment"`
	RateLimit   int           `mapstructure:"rate_limit"`
	RateWindow  time.Duration `mapstructure:"rate_window"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

// TracingConfig configures OpenTelemetry export. An empty endpoint prints
// spans to stdout.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("db_path", "")
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "")
	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", llm.DefaultTimeout)
	v.SetDefault("llm.daily_budget_usd", llm.DefaultDailyBudgetUSD)
	v.SetDefault("llm.translate", true)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", synthcache.DefaultRedisTTL)
	v.SetDefault("cache.persist", true)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_window", time.Hour)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Load reads configuration. An explicit path must exist; without one the
// default path is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Default returns the configuration with no file or environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateWindow <= 0 {
		return fmt.Errorf("server.rate_window must be positive")
	}
	if c.LLM.DailyBudgetUSD < 0 {
		return fmt.Errorf("llm.daily_budget_usd must not be negative")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be between 0 and 1")
	}
	return nil
}

// DefaultPath is $XDG_CONFIG_HOME/lessonsynth/config.toml, falling back to
// ~/.config. It returns "" when no home directory can be resolved.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "lessonsynth", "config.toml")
}

// LLMProviderConfig merges these settings over the provider environment.
// When generation is enabled without a configured provider, the standard
// vendor API key variables are checked.
func (c *Config) LLMProviderConfig() llm.Config {
	lc := llm.ConfigFromEnv()
	if !lc.Enabled && c.LLM.Enabled && c.LLM.Provider == "" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			lc = discovered
		}
	}
	if c.LLM.Provider != "" {
		lc.Provider = c.LLM.Provider
	}
	lc.Enabled = lc.Enabled || c.LLM.Enabled
	if c.LLM.Timeout > 0 {
		lc.Timeout = c.LLM.Timeout
	}
	lc.DailyBudgetUSD = c.LLM.DailyBudgetUSD

	if c.LLM.Model != "" {
		switch lc.Provider {
		case "anthropic":
			lc.Anthropic.Model = c.LLM.Model
		case "openai":
			lc.OpenAI.Model = c.LLM.Model
		case "gemini":
			lc.Gemini.Model = c.LLM.Model
		case "openrouter":
			lc.OpenRouter.Model = c.LLM.Model
		}
	}
	return lc
}

// TOML renders the configuration as a config file.
func (c *Config) TOML() ([]byte, error) {
	doc := map[string]any{
		"data_dir": c.DataDir,
		"db_path":  c.DBPath,
		"log": map[string]any{
			"mode":  c.Log.Mode,
			"level": c.Log.Level,
		},
		"llm": map[string]any{
			"enabled":          c.LLM.Enabled,
			"provider":         c.LLM.Provider,
			"model":            c.LLM.Model,
			"timeout":          c.LLM.Timeout.String(),
			"daily_budget_usd": c.LLM.DailyBudgetUSD,
			"translate":        c.LLM.Translate,
		},
		"cache": map[string]any{
			"redis_url": c.Cache.RedisURL,
			"ttl":       c.Cache.TTL.String(),
			"persist":   c.Cache.Persist,
		},
		"server": map[string]any{
			"addr":         c.Server.Addr,
			"environment":  c.Server.Environment,
			"rate_limit":   c.Server.RateLimit,
			"rate_window":  c.Server.RateWindow.String(),
			"cors_origins": c.Server.CORSOrigins,
		},
		"tracing": map[string]any{
			"enabled":      c.Tracing.Enabled,
			"endpoint":     c.Tracing.Endpoint,
			"insecure":     c.Tracing.Insecure,
			"sample_ratio": c.Tracing.SampleRatio,
		},
	}
	return toml.Marshal(doc)
}

// WriteFile writes c to path as TOML, creating parent directories. An
// existing file is only replaced when overwrite is set.
func (c *Config) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	data, err := c.TOML()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
