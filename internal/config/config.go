// Package config provides configuration loading and validation for the
// portfolio server and uploader. It uses koanf to merge environment
// variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gustafedn/atelier/internal/color"
	"github.com/gustafedn/atelier/internal/validate"
)

// Config holds all configuration values for the portfolio server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Site identity, used to classify own-site referrers
	SiteHost string `koanf:"site_host"`

	// Content
	ContentDir   string `koanf:"content_dir"`
	WatchContent bool   `koanf:"watch_content"`

	// Database (optional; the site serves embedded fallback data without it)
	DatabaseURL string `koanf:"database_url"`

	// Redis (optional; session tracking falls back to in-process memory)
	RedisURL string `koanf:"redis_url"`

	// Analytics forwarding (optional pair)
	AnalyticsURL    string `koanf:"analytics_url"`
	AnalyticsAPIKey string `koanf:"analytics_api_key"`

	// Geo lookup endpoint
	GeoEndpoint string `koanf:"geo_endpoint"`

	// Slideshow
	SlideshowIntervalSeconds int `koanf:"slideshow_interval_seconds"`

	// Sparkline accent color on the stats page, #RRGGBB
	SparklineColor string `koanf:"sparkline_color"`

	// Track endpoint rate limit, requests per minute per IP
	TrackRateLimit int `koanf:"track_rate_limit"`

	// R2 (Cloudflare Object Storage), used by the uploader
	R2BucketName      string `koanf:"r2_bucket_name"`
	R2AccessKeyID     string `koanf:"r2_access_key_id"`
	R2SecretAccessKey string `koanf:"r2_secret_access_key"`
	R2Endpoint        string `koanf:"r2_endpoint"`
	R2PublicBaseURL   string `koanf:"r2_public_base_url"`
}

// Configuration validation errors.
var (
	ErrMissingAnalyticsAPIKey = errors.New("ANALYTICS_API_KEY is required when ANALYTICS_URL is set")
	ErrMissingR2BucketName    = errors.New("R2_BUCKET_NAME is required")
	ErrMissingR2AccessKeyID   = errors.New("R2_ACCESS_KEY_ID is required")
	ErrMissingR2SecretKey     = errors.New("R2_SECRET_ACCESS_KEY is required")
	ErrMissingR2Endpoint      = errors.New("R2_ENDPOINT is required")
	ErrInvalidPort            = errors.New("PORT must be a valid integer")
)

// Default values for non-secret configuration.
const (
	DefaultPort              = 8080
	DefaultEnv               = "development"
	DefaultSiteHost          = "gustafedn.com"
	DefaultContentDir        = "content/markdown"
	DefaultSlideshowInterval = 10
	DefaultTrackRateLimit    = 60
	DefaultSparklineColor    = "#d7c9aa"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// File values load first so env vars can override them
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefaultMulti([]string{"ATELIER_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	interval, intervalErr := getEnvIntOrDefault("SLIDESHOW_INTERVAL_SECONDS", k.Int("slideshow_interval_seconds"), DefaultSlideshowInterval)
	if intervalErr != nil {
		loadErrs = append(loadErrs, intervalErr)
	}

	rateLimit, rateErr := getEnvIntOrDefault("TRACK_RATE_LIMIT", k.Int("track_rate_limit"), DefaultTrackRateLimit)
	if rateErr != nil {
		loadErrs = append(loadErrs, rateErr)
	}

	watchContent := true
	if k.Exists("watch_content") {
		watchContent = k.Bool("watch_content")
	}
	if val := os.Getenv("WATCH_CONTENT"); val != "" {
		watchContent = val == "true" || val == "1" || val == "yes" || val == "on"
	}

	cfg := &Config{
		Port:                     port,
		Env:                      getEnvOrDefaultMulti([]string{"ATELIER_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		SiteHost:                 getEnvOrDefault("SITE_HOST", k.String("site_host"), DefaultSiteHost),
		ContentDir:               getEnvOrDefault("CONTENT_DIR", k.String("content_dir"), DefaultContentDir),
		WatchContent:             watchContent,
		DatabaseURL:              getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisURL:                 getEnvOrKoanf("REDIS_URL", k, "redis_url"),
		AnalyticsURL:             getEnvOrKoanf("ANALYTICS_URL", k, "analytics_url"),
		AnalyticsAPIKey:          getEnvOrKoanf("ANALYTICS_API_KEY", k, "analytics_api_key"),
		GeoEndpoint:              getEnvOrKoanf("GEO_ENDPOINT", k, "geo_endpoint"),
		SlideshowIntervalSeconds: interval,
		SparklineColor:           getEnvOrDefault("SPARKLINE_COLOR", k.String("sparkline_color"), DefaultSparklineColor),
		TrackRateLimit:           rateLimit,
		R2BucketName:             getEnvOrKoanf("R2_BUCKET_NAME", k, "r2_bucket_name"),
		R2AccessKeyID:            getEnvOrKoanf("R2_ACCESS_KEY_ID", k, "r2_access_key_id"),
		R2SecretAccessKey:        getEnvOrKoanf("R2_SECRET_ACCESS_KEY", k, "r2_secret_access_key"),
		R2Endpoint:               getEnvOrKoanf("R2_ENDPOINT", k, "r2_endpoint"),
		R2PublicBaseURL:          getEnvOrKoanf("R2_PUBLIC_BASE_URL", k, "r2_public_base_url"),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks cross-field constraints. The database and Redis are
// optional; the R2 group validates only when any of its values is set.
func (c *Config) Validate() []error {
	var errs []error

	if c.AnalyticsURL != "" {
		if c.AnalyticsAPIKey == "" {
			errs = append(errs, ErrMissingAnalyticsAPIKey)
		}
		if _, err := validate.PublicURL(c.AnalyticsURL); err != nil {
			errs = append(errs, fmt.Errorf("ANALYTICS_URL: %w", err))
		}
	}
	if c.GeoEndpoint != "" {
		if _, err := validate.PublicURL(c.GeoEndpoint); err != nil {
			errs = append(errs, fmt.Errorf("GEO_ENDPOINT: %w", err))
		}
	}
	if c.SparklineColor != "" {
		if err := color.ValidateHexColor(c.SparklineColor); err != nil {
			errs = append(errs, fmt.Errorf("SPARKLINE_COLOR: %w", err))
		}
	}

	if c.R2BucketName != "" || c.R2AccessKeyID != "" || c.R2SecretAccessKey != "" || c.R2Endpoint != "" {
		if c.R2BucketName == "" {
			errs = append(errs, ErrMissingR2BucketName)
		}
		if c.R2AccessKeyID == "" {
			errs = append(errs, ErrMissingR2AccessKeyID)
		}
		if c.R2SecretAccessKey == "" {
			errs = append(errs, ErrMissingR2SecretKey)
		}
		if c.R2Endpoint == "" {
			errs = append(errs, ErrMissingR2Endpoint)
		} else if _, err := validate.PublicURL(c.R2Endpoint); err != nil {
			errs = append(errs, fmt.Errorf("R2_ENDPOINT: %w", err))
		}
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                       fmt.Sprintf("%d", c.Port),
		"env":                        c.Env,
		"site_host":                  c.SiteHost,
		"content_dir":                c.ContentDir,
		"watch_content":              fmt.Sprintf("%t", c.WatchContent),
		"database_url":               maskDatabaseURL(c.DatabaseURL),
		"redis_url":                  maskDatabaseURL(c.RedisURL),
		"analytics_url":              c.AnalyticsURL,
		"analytics_api_key":          maskSecret(c.AnalyticsAPIKey),
		"geo_endpoint":               c.GeoEndpoint,
		"slideshow_interval_seconds": fmt.Sprintf("%d", c.SlideshowIntervalSeconds),
		"sparkline_color":            c.SparklineColor,
		"track_rate_limit":           fmt.Sprintf("%d", c.TrackRateLimit),
		"r2_bucket_name":             c.R2BucketName,
		"r2_access_key_id":           maskSecret(c.R2AccessKeyID),
		"r2_secret_access_key":       maskSecret(c.R2SecretAccessKey),
		"r2_endpoint":                c.R2Endpoint,
		"r2_public_base_url":         c.R2PublicBaseURL,
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a connection URL.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
