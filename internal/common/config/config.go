package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/afvalwijzer/internal/afvalwijzer/schedule"
)

const DefaultBaseURL = "https://gemeente.groningen.nl/afvalwijzer/groningen"

type Config struct {
	Afvalwijzer AfvalwijzerConfig
	Database    DatabaseConfig
	Logging     LoggingConfig
}

// AfvalwijzerConfig describes the address to track and how to present it.
type AfvalwijzerConfig struct {
	Postcode           string
	StreetNumber       string
	Resources          []string
	DateFormat         string
	DateOnly           bool
	Boundary           string
	MinRefreshInterval time.Duration
	BaseURL            string
	UpdateSchedule     string // cron spec, e.g. "@every 5m"
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	Retention       time.Duration
	CleanupInterval time.Duration
}

type LoggingConfig struct {
	Level      string
	FilePath   string
	DiscordURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Afvalwijzer: AfvalwijzerConfig{
			Postcode:           strings.ToUpper(strings.ReplaceAll(getEnv("AFVALWIJZER_POSTCODE", ""), " ", "")),
			StreetNumber:       strings.TrimSpace(getEnv("AFVALWIJZER_STREET_NUMBER", "")),
			Resources:          getListEnv("AFVALWIJZER_RESOURCES"),
			DateFormat:         getEnv("AFVALWIJZER_DATE_FORMAT", schedule.DefaultDateFormat),
			DateOnly:           getBoolEnv("AFVALWIJZER_DATE_ONLY", false),
			Boundary:           getEnv("AFVALWIJZER_BOUNDARY", schedule.BoundaryInclusive.String()),
			MinRefreshInterval: getDurationEnv("AFVALWIJZER_MIN_REFRESH_INTERVAL", time.Hour),
			BaseURL:            strings.TrimRight(getEnv("AFVALWIJZER_BASE_URL", DefaultBaseURL), "/"),
			UpdateSchedule:     getEnv("AFVALWIJZER_UPDATE_SCHEDULE", "@every 5m"),
		},
		Database: DatabaseConfig{
			Enabled:         getBoolEnv("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "afvalwijzer"),
			Retention:       getDurationEnv("DB_RETENTION", 30*24*time.Hour),
			CleanupInterval: getDurationEnv("DB_CLEANUP_INTERVAL", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			FilePath:   getEnv("LOG_FILE", "afvalwijzer.log"),
			DiscordURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Afvalwijzer.Validate(); err != nil {
		return fmt.Errorf("afvalwijzer: %w", err)
	}
	if c.Database.Enabled {
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}

func (c *AfvalwijzerConfig) Validate() error {
	var errs []error

	if c.Postcode == "" {
		errs = append(errs, errors.New("postcode is required"))
	}
	if c.StreetNumber == "" {
		errs = append(errs, errors.New("street number is required"))
	}
	if len(c.Resources) == 0 {
		errs = append(errs, errors.New("at least one resource must be configured"))
	}
	if c.DateFormat == "" {
		errs = append(errs, errors.New("date format cannot be empty"))
	}
	if _, err := schedule.ParseBoundaryRule(c.Boundary); err != nil {
		errs = append(errs, err)
	}
	if c.MinRefreshInterval <= 0 {
		errs = append(errs, errors.New("minimum refresh interval must be positive"))
	}
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base URL cannot be empty"))
	}
	if _, err := cron.ParseStandard(c.UpdateSchedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid update schedule %q: %w", c.UpdateSchedule, err))
	}

	return errors.Join(errs...)
}

// BoundaryRule returns the parsed boundary rule. Call Validate first.
func (c *AfvalwijzerConfig) BoundaryRule() schedule.BoundaryRule {
	rule, _ := schedule.ParseBoundaryRule(c.Boundary)
	return rule
}

func (c *AfvalwijzerConfig) Formatting() schedule.FormattingConfig {
	return schedule.FormattingConfig{
		DateFormat: c.DateFormat,
		DateOnly:   c.DateOnly,
	}
}

func (c *DatabaseConfig) Validate() error {
	if c.Host == "" || c.DBName == "" {
		return errors.New("host and database name are required")
	}
	if c.Retention <= 0 {
		return errors.New("retention must be positive")
	}
	if c.CleanupInterval <= 0 {
		return errors.New("cleanup interval must be positive")
	}
	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value, lowercasing and dropping blanks.
func getListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
