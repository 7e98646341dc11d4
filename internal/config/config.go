// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on minimal images

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/amaumene/dvmovies/internal/constants"
	"github.com/amaumene/dvmovies/pkg/logger"
)

const (
	// Default configuration file name, optional
	defaultConfigFile = "config.json"
	// Default dotenv file, optional; never overrides variables already set
	defaultEnvFile = ".env"
)

// Config holds the application configuration.
// Values come from defaults, then an optional config file, then environment
// variables. Environment variables take precedence over file values.
type Config struct {
	Port      string `mapstructure:"PORT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Remote catalog
	DataverseBaseURL string `mapstructure:"DATAVERSE_BASE_URL"`
	DataverseAPIKey  string `mapstructure:"DATAVERSE_API_KEY"`
	DataverseSubtree string `mapstructure:"DATAVERSE_SUBTREE"`
	SearchPageSize   int    `mapstructure:"SEARCH_PAGE_SIZE"`
	BulkPageSize     int    `mapstructure:"BULK_PAGE_SIZE"`

	// Movie registry
	KOBISBaseURL string `mapstructure:"KOBIS_BASE_URL"`
	KOBISAPIKey  string `mapstructure:"KOBIS_API_KEY"`

	// Outbound calls
	HTTPTimeout   time.Duration `mapstructure:"HTTP_TIMEOUT"`
	UpstreamRate  float64       `mapstructure:"UPSTREAM_RATE"`
	UpstreamBurst int           `mapstructure:"UPSTREAM_BURST"`

	// Storage settings
	DatabasePath string        `mapstructure:"DATABASE_PATH"`
	CachePath    string        `mapstructure:"CACHE_PATH"`
	CacheSize    int           `mapstructure:"CACHE_SIZE"`
	CacheTTL     time.Duration `mapstructure:"CACHE_TTL"`

	// Screening classification
	BoxOfficePath  string `mapstructure:"BOXOFFICE_PATH"`
	MembershipMode string `mapstructure:"MEMBERSHIP_MODE"`
	Timezone       string `mapstructure:"TIMEZONE"`

	location *time.Location
}

// Load reads configuration from defaults, an optional file and the environment.
// An empty path falls back to CONFIG_FILE, then config.json; a missing default
// file is not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(getEnvOrDefault("ENV_FILE", defaultEnvFile)); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", constants.DefaultPort)
	v.SetDefault("LOG_LEVEL", constants.DefaultLogLevel)
	v.SetDefault("LOG_FORMAT", constants.DefaultLogFormat)

	v.SetDefault("DATAVERSE_BASE_URL", constants.DefaultDataverseBaseURL)
	v.SetDefault("DATAVERSE_API_KEY", "")
	v.SetDefault("DATAVERSE_SUBTREE", constants.DefaultDataverseSubtree)
	v.SetDefault("SEARCH_PAGE_SIZE", constants.SearchPageSize)
	v.SetDefault("BULK_PAGE_SIZE", constants.BulkPageSize)

	v.SetDefault("KOBIS_BASE_URL", constants.DefaultKOBISBaseURL)
	v.SetDefault("KOBIS_API_KEY", "")

	v.SetDefault("HTTP_TIMEOUT", constants.UpstreamTimeout)
	v.SetDefault("UPSTREAM_RATE", constants.UpstreamRateLimit)
	v.SetDefault("UPSTREAM_BURST", constants.UpstreamRateBurst)

	v.SetDefault("DATABASE_PATH", constants.DefaultDatabasePath)
	v.SetDefault("CACHE_PATH", constants.DefaultCachePath)
	v.SetDefault("CACHE_SIZE", constants.DefaultCacheSize)
	v.SetDefault("CACHE_TTL", time.Duration(constants.DefaultCacheTTL)*time.Hour)

	v.SetDefault("BOXOFFICE_PATH", "")
	v.SetDefault("MEMBERSHIP_MODE", constants.MembershipTitle)
	v.SetDefault("TIMEZONE", constants.DefaultTimezone)
}

// Validate checks if the configuration is valid.
// API keys are optional here; the clients report a missing key when called.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL: %s", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %s", c.LogFormat)
	}

	if c.DataverseBaseURL == "" {
		return fmt.Errorf("DATAVERSE_BASE_URL is required")
	}
	c.DataverseBaseURL = strings.TrimRight(c.DataverseBaseURL, "/")
	c.KOBISBaseURL = strings.TrimRight(c.KOBISBaseURL, "/")

	if c.SearchPageSize <= 0 || c.BulkPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive (search=%d, bulk=%d)", c.SearchPageSize, c.BulkPageSize)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	if c.UpstreamRate <= 0 || c.UpstreamBurst <= 0 {
		return fmt.Errorf("UPSTREAM_RATE and UPSTREAM_BURST must be positive")
	}

	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultCacheSize
	}

	switch c.MembershipMode {
	case constants.MembershipTitle, constants.MembershipLegacy:
	default:
		return fmt.Errorf("invalid MEMBERSHIP_MODE: %s (must be '%s' or '%s')",
			c.MembershipMode, constants.MembershipTitle, constants.MembershipLegacy)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	return nil
}

// Location returns the time zone used to compute "today".
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// loadDotEnv exports the variables of a dotenv file that are not set yet.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
