package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	AutoFinalize  AutoFinalizeConfig  `yaml:"auto_finalize"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL disables the NATS transport.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the HTTP listener configuration.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// FinalizeRate is the number of finalize requests per second allowed per client IP.
	FinalizeRate  float64 `yaml:"finalize_rate"`
	FinalizeBurst int     `yaml:"finalize_burst"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	Environment    string `yaml:"environment"`
	MetricsAddress string `yaml:"metrics_address"`
}

// AutoFinalizeConfig controls the river sweeper that finalizes events after
// their score edit deadline.
type AutoFinalizeConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	Grace    time.Duration `yaml:"grace"`
}

const (
	defaultHTTPAddr      = ":8080"
	defaultFinalizeRate  = 1.0
	defaultFinalizeBurst = 5
	defaultLogLevel      = "info"
	defaultSweepInterval = 5 * time.Minute
	defaultFinalizeGrace = 30 * time.Minute
)

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		cfg.HTTP.AllowedOrigins = origins
	}
	if v := os.Getenv("FINALIZE_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid FINALIZE_RATE value: %w", err)
		}
		cfg.HTTP.FinalizeRate = f
	}
	if v := os.Getenv("FINALIZE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FINALIZE_BURST value: %w", err)
		}
		cfg.HTTP.FinalizeBurst = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("AUTO_FINALIZE_ENABLED"); v != "" {
		cfg.AutoFinalize.Enabled = v == "true"
	}
	if v := os.Getenv("AUTO_FINALIZE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AUTO_FINALIZE_INTERVAL value: %w", err)
		}
		cfg.AutoFinalize.Interval = d
	}
	if v := os.Getenv("AUTO_FINALIZE_GRACE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AUTO_FINALIZE_GRACE value: %w", err)
		}
		cfg.AutoFinalize.Grace = d
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = defaultHTTPAddr
	}
	if cfg.HTTP.FinalizeRate <= 0 {
		cfg.HTTP.FinalizeRate = defaultFinalizeRate
	}
	if cfg.HTTP.FinalizeBurst <= 0 {
		cfg.HTTP.FinalizeBurst = defaultFinalizeBurst
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = defaultLogLevel
	}
	if cfg.AutoFinalize.Interval <= 0 {
		cfg.AutoFinalize.Interval = defaultSweepInterval
	}
	if cfg.AutoFinalize.Grace <= 0 {
		cfg.AutoFinalize.Grace = defaultFinalizeGrace
	}
}
