package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Scorer      ScorerConfig      `koanf:"scorer"`
	Auth        AuthConfig        `koanf:"auth"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	Live        LiveConfig        `koanf:"live"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig configures the API and metrics listeners.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	MetricsPort     int           `koanf:"metrics_port"`
	Timezone        string        `koanf:"timezone"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RateLimit is requests per second across the API; 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// DatabaseConfig selects the gorm dialect used for feedback storage.
type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

// PreferencesConfig locates the badger directory. An empty path keeps
// preferences in memory.
type PreferencesConfig struct {
	Path    string        `koanf:"path"`
	Timeout time.Duration `koanf:"timeout"`
}

// ScorerConfig configures the external ML scorer.
type ScorerConfig struct {
	// Type is none, http or llm.
	Type             string        `koanf:"type"`
	URL              string        `koanf:"url"`
	Timeout          time.Duration `koanf:"timeout"`
	Retries          int           `koanf:"retries"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
	LLM              LLMConfig     `koanf:"llm"`
}

// LLMConfig configures the OpenAI-compatible endpoint used by the llm scorer.
type LLMConfig struct {
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
	Token   string `koanf:"token"`
}

// AuthConfig enables bearer-token identity resolution.
type AuthConfig struct {
	Enabled   bool   `koanf:"enabled"`
	JWTSecret string `koanf:"jwt_secret"`
}

// CatalogConfig points at an external catalog file. Empty uses the embedded seed.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// LiveConfig configures the websocket suggestion feed.
type LiveConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"`
}

// LoggingConfig mirrors logging.Config without the writer.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RASAROOTS_"

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"configs/config.yaml",
	"/etc/rasaroots/config.yaml",
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			MetricsPort:     9090,
			Timezone:        "Local",
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       0,
			RateBurst:       20,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "rasaroots.db",
		},
		Preferences: PreferencesConfig{
			Path:    "",
			Timeout: time.Second,
		},
		Scorer: ScorerConfig{
			Type:             "none",
			Timeout:          2 * time.Second,
			Retries:          1,
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
			LLM: LLMConfig{
				Model: "gpt-4o-mini",
			},
		},
		Live: LiveConfig{
			PollInterval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads defaults, then the YAML file at path (or the first default path
// that exists), then RASAROOTS_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKeys maps RASAROOTS_<NAME> (lower-cased, prefix stripped) onto config paths.
var envKeys = map[string]string{
	"server_port":              "server.port",
	"server_metrics_port":      "server.metrics_port",
	"server_timezone":          "server.timezone",
	"server_shutdown_timeout":  "server.shutdown_timeout",
	"server_rate_limit":        "server.rate_limit",
	"server_rate_burst":        "server.rate_burst",
	"database_driver":          "database.driver",
	"database_dsn":             "database.dsn",
	"preferences_path":         "preferences.path",
	"preferences_timeout":      "preferences.timeout",
	"scorer_type":              "scorer.type",
	"scorer_url":               "scorer.url",
	"scorer_timeout":           "scorer.timeout",
	"scorer_retries":           "scorer.retries",
	"scorer_failure_threshold": "scorer.failure_threshold",
	"scorer_open_timeout":      "scorer.open_timeout",
	"scorer_llm_model":         "scorer.llm.model",
	"scorer_llm_base_url":      "scorer.llm.base_url",
	"scorer_llm_token":         "scorer.llm.token",
	"auth_enabled":             "auth.enabled",
	"auth_jwt_secret":          "auth.jwt_secret",
	"catalog_path":             "catalog.path",
	"live_poll_interval":       "live.poll_interval",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_caller":               "logging.caller",
}

// envTransform returns "" for unknown variables so koanf skips them.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envKeys[key]
}
