package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the newsletters service.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	ActiveCampaign ActiveCampaignConfig `yaml:"active_campaign"`
	Reports        ReportsConfig        `yaml:"reports"`
	Tracking       TrackingConfig       `yaml:"tracking"`
	Database       DatabaseConfig       `yaml:"database"`
	Redis          RedisConfig          `yaml:"redis"`
	Events         EventsConfig         `yaml:"events"`
	Archive        ArchiveConfig        `yaml:"archive"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// ActiveCampaignConfig holds ActiveCampaign API credentials.
type ActiveCampaignConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the ActiveCampaign HTTP client timeout.
func (c ActiveCampaignConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReportsConfig holds usage-report collection settings.
type ReportsConfig struct {
	Provider        string `yaml:"provider"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	LockTTLSeconds  int    `yaml:"lock_ttl_seconds"`
}

// Interval returns the collection interval. Usage reports cover the most
// recently completed day, so the default is one run per day.
func (c ReportsConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// LockTTL returns the distributed-lock TTL for a report run.
func (c ReportsConfig) LockTTL() time.Duration {
	if c.LockTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// TrackingConfig holds click-tracking settings.
type TrackingConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Port    int    `yaml:"port"`
	// AllowedParams are extra query parameter names forwarded to the
	// redirect destination (utm_* params are always forwarded).
	AllowedParams []string `yaml:"allowed_params"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds Redis settings for the key-value store and locks.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// EventsConfig holds SQS settings for click-event fan-out.
type EventsConfig struct {
	SQSQueueURL string `yaml:"sqs_queue_url"`
}

// ArchiveConfig holds S3 settings for usage-report archival.
type ArchiveConfig struct {
	S3Bucket string `yaml:"s3_bucket"`
	S3Prefix string `yaml:"s3_prefix"`
	Region   string `yaml:"region"`
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.ActiveCampaign.TimeoutSeconds == 0 {
		cfg.ActiveCampaign.TimeoutSeconds = 60
	}
	if cfg.Reports.Provider == "" {
		cfg.Reports.Provider = "active_campaign"
	}
	if cfg.Tracking.Port == 0 {
		cfg.Tracking.Port = 8081
	}
	if cfg.Archive.S3Prefix == "" {
		cfg.Archive.S3Prefix = "usage-reports"
	}
}

// LoadFromEnv loads the YAML config (if present) and applies environment
// variable overrides. A missing config file is not an error; env vars alone
// can fully configure the service.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if present (development convenience)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = &Config{}
		applyDefaults(cfg)
	}

	if v := os.Getenv("AC_BASE_URL"); v != "" {
		cfg.ActiveCampaign.BaseURL = v
	}
	if v := os.Getenv("AC_API_KEY"); v != "" {
		cfg.ActiveCampaign.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SQS_CLICK_QUEUE_URL"); v != "" {
		cfg.Events.SQSQueueURL = v
	}
	if v := os.Getenv("ARCHIVE_S3_BUCKET"); v != "" {
		cfg.Archive.S3Bucket = v
	}
	if v := os.Getenv("TRACKING_BASE_URL"); v != "" {
		cfg.Tracking.BaseURL = v
	}
	if v := os.Getenv("TRACKING_ENABLED"); v != "" {
		cfg.Tracking.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	return cfg, nil
}
