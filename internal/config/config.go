// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Snapshots     SnapshotsConfig     `yaml:"snapshots"`
	Detectors     DetectorsConfig     `yaml:"detectors"`
	Store         StoreConfig         `yaml:"store"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// SnapshotsConfig defines the file locations of the two snapshot generations
// per dataset. The scraper writes the current files; rotation copies each
// current file over its previous counterpart.
type SnapshotsConfig struct {
	ProductsCurrent  string `yaml:"products_current"`
	ProductsPrevious string `yaml:"products_previous"`
	ReviewsCurrent   string `yaml:"reviews_current"`
	ReviewsPrevious  string `yaml:"reviews_previous"`
}

// DetectorsConfig defines detection thresholds.
type DetectorsConfig struct {
	// PriceDropThresholdPct is the minimum percentage drop that qualifies.
	// A drop exactly at the threshold qualifies.
	PriceDropThresholdPct float64 `yaml:"price_drop_threshold_pct"`
	// NegativeReviewMinCount gates the review detector: fewer new negative
	// reviews than this in one run means no review alerts for that run.
	NegativeReviewMinCount int `yaml:"negative_review_min_count"`
	// NegativeRatingCeiling is the highest rating still considered negative.
	NegativeRatingCeiling int `yaml:"negative_rating_ceiling"`
}

// StoreConfig selects and configures the notification log backend.
type StoreConfig struct {
	Backend  string         `yaml:"backend"` // csv, postgres
	CSV      CSVStoreConfig `yaml:"csv"`
	Database DatabaseConfig `yaml:"database"`
}

// CSVStoreConfig defines the flat-file notification log settings.
type CSVStoreConfig struct {
	NotificationsFile string `yaml:"notifications_file"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// NotificationsConfig defines the outbound alert transports.
type NotificationsConfig struct {
	Email   EmailConfig   `yaml:"email"`
	Discord DiscordConfig `yaml:"discord"`
	Rate    RateConfig    `yaml:"rate"`
}

// EmailConfig defines SMTP settings. Password is normally supplied through
// environment substitution (password: ${SMTP_PASSWORD}).
type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// RateConfig defines the token bucket limiting outbound sends.
type RateConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// ScheduleConfig defines the cron interval for detection runs in serve mode.
type ScheduleConfig struct {
	DetectionInterval time.Duration `yaml:"detection_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applySnapshotsDefaults(&cfg.Snapshots)
	applyDetectorsDefaults(&cfg.Detectors)
	applyStoreDefaults(&cfg.Store)
	applyNotificationsDefaults(&cfg.Notifications)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applySnapshotsDefaults(s *SnapshotsConfig) {
	if s.ProductsCurrent == "" {
		s.ProductsCurrent = "data/products.csv"
	}
	if s.ProductsPrevious == "" {
		s.ProductsPrevious = "data/products_yesterday.csv"
	}
	if s.ReviewsCurrent == "" {
		s.ReviewsCurrent = "data/reviews.csv"
	}
	if s.ReviewsPrevious == "" {
		s.ReviewsPrevious = "data/reviews_yesterday.csv"
	}
}

func applyDetectorsDefaults(d *DetectorsConfig) {
	if d.PriceDropThresholdPct == 0 {
		d.PriceDropThresholdPct = 10
	}
	if d.NegativeReviewMinCount == 0 {
		d.NegativeReviewMinCount = 2
	}
	if d.NegativeRatingCeiling == 0 {
		d.NegativeRatingCeiling = 2
	}
}

func applyStoreDefaults(s *StoreConfig) {
	if s.Backend == "" {
		s.Backend = "csv"
	}
	if s.CSV.NotificationsFile == "" {
		s.CSV.NotificationsFile = "data/notifications.csv"
	}
	if s.Database.Port == 0 {
		s.Database.Port = 5432
	}
	if s.Database.SSLMode == "" {
		s.Database.SSLMode = "disable"
	}
	if s.Database.PoolSize == 0 {
		s.Database.PoolSize = 10
	}
}

func applyNotificationsDefaults(n *NotificationsConfig) {
	if n.Email.Port == 0 {
		n.Email.Port = 465
	}
	if n.Rate.PerSecond == 0 {
		n.Rate.PerSecond = 1.0
	}
	if n.Rate.Burst == 0 {
		n.Rate.Burst = 5
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.DetectionInterval == 0 {
		s.DetectionInterval = 24 * time.Hour
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Store.Backend {
	case "csv":
		// Defaults already guarantee a notifications file path.
	case "postgres":
		if cfg.Store.Database.Host == "" {
			errs = append(errs, fmt.Errorf("store.database.host is required when backend is postgres"))
		}
		if cfg.Store.Database.Name == "" {
			errs = append(errs, fmt.Errorf("store.database.name is required when backend is postgres"))
		}
		if cfg.Store.Database.User == "" {
			errs = append(errs, fmt.Errorf("store.database.user is required when backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"store.backend must be one of: csv, postgres (got %q)", cfg.Store.Backend,
		))
	}

	if cfg.Detectors.PriceDropThresholdPct < 0 {
		errs = append(errs, fmt.Errorf("detectors.price_drop_threshold_pct must not be negative"))
	}
	if cfg.Detectors.NegativeReviewMinCount < 1 {
		errs = append(errs, fmt.Errorf("detectors.negative_review_min_count must be at least 1"))
	}
	if cfg.Detectors.NegativeRatingCeiling < 1 || cfg.Detectors.NegativeRatingCeiling > 5 {
		errs = append(errs, fmt.Errorf("detectors.negative_rating_ceiling must be between 1 and 5"))
	}

	if cfg.Notifications.Email.Enabled {
		if cfg.Notifications.Email.Host == "" {
			errs = append(errs, fmt.Errorf("notifications.email.host is required when email is enabled"))
		}
		if cfg.Notifications.Email.From == "" {
			errs = append(errs, fmt.Errorf("notifications.email.from is required when email is enabled"))
		}
		if len(cfg.Notifications.Email.To) == 0 {
			errs = append(errs, fmt.Errorf("notifications.email.to must list at least one recipient"))
		}
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}

	return errors.Join(errs...)
}
