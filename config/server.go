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

// ServerConfig holds everything the catalog server needs at startup.
type ServerConfig struct {
	Port         string          `yaml:"port"`
	DataDir      string          `yaml:"data_dir"`
	FeedPath     string          `yaml:"feed_path"`
	LogLevel     string          `yaml:"log_level"`
	LogFormat    string          `yaml:"log_format"` // "text" or "json"
	MaxBodyBytes int64           `yaml:"max_body_bytes"`
	JobWorkers   int             `yaml:"job_workers"` // Concurrent background imports
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
	Catalog      CatalogSettings `yaml:"catalog"`
}

// RateLimitConfig configures the API request limiter. A zero RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	WaitTimeout       time.Duration `yaml:"wait_timeout"`
}

// DefaultServerConfig returns the built-in server defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		DataDir:      "./catalog_data",
		LogLevel:     "info",
		LogFormat:    "text",
		MaxBodyBytes: 1 << 20,
		JobWorkers:   2,
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
		Catalog: DefaultCatalogSettings(),
	}
}

// LoadServerConfig builds the configuration from defaults, then the optional
// YAML file at path, then CATALOG_* environment variables.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- config path comes from the command line
		if err != nil {
			return ServerConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ServerConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.Catalog.ApplyDefaults()

	if problems := cfg.Validate(); len(problems) > 0 {
		return ServerConfig{}, errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return cfg, nil
}

// Validate checks the server settings and the embedded catalog settings.
func (cfg *ServerConfig) Validate() []string {
	problems := cfg.Catalog.Validate()

	if cfg.Port == "" {
		problems = append(problems, "port is required")
	}
	if cfg.MaxBodyBytes <= 0 {
		problems = append(problems, "max_body_bytes must be positive")
	}
	if cfg.JobWorkers < 1 {
		problems = append(problems, "job_workers must be at least 1")
	}
	if cfg.RateLimit.RequestsPerSecond < 0 {
		problems = append(problems, "rate_limit.requests_per_second cannot be negative")
	}
	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst < 1 {
		problems = append(problems, "rate_limit.burst must be positive when rate limiting is enabled")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, "log_format must be 'text' or 'json'")
	}

	return problems
}

func (cfg *ServerConfig) applyEnv() {
	cfg.Port = GetStringEnv("CATALOG_PORT", cfg.Port)
	cfg.DataDir = GetStringEnv("CATALOG_DATA_DIR", cfg.DataDir)
	cfg.FeedPath = GetStringEnv("CATALOG_FEED_PATH", cfg.FeedPath)
	cfg.LogLevel = GetStringEnv("CATALOG_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = GetStringEnv("CATALOG_LOG_FORMAT", cfg.LogFormat)
	cfg.MaxBodyBytes = int64(GetIntEnv("CATALOG_MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.JobWorkers = GetIntEnv("CATALOG_JOB_WORKERS", cfg.JobWorkers)
	cfg.RateLimit.RequestsPerSecond = GetFloatEnv("CATALOG_RATE_LIMIT_RPS", cfg.RateLimit.RequestsPerSecond)
	cfg.RateLimit.Burst = GetIntEnv("CATALOG_RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.WaitTimeout = GetDurationEnv("CATALOG_RATE_LIMIT_WAIT", cfg.RateLimit.WaitTimeout)
	cfg.Catalog.FuzzyThreshold = GetFloatEnv("CATALOG_FUZZY_THRESHOLD", cfg.Catalog.FuzzyThreshold)
	if fields := GetStringEnv("CATALOG_SEARCHABLE_FIELDS", ""); fields != "" {
		cfg.Catalog.SearchableFields = splitList(fields)
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
