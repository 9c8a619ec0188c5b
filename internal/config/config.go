package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Grist document
	Grist GristConfig

	// Auth0 (optional, enables bearer auth on /api when Domain is set)
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Dashboard
	DashboardLocale   string
	DashboardMonths   int
	DashboardTimezone *time.Location

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// S3 Storage for chart snapshots
	S3 S3Config
}

// GristConfig holds the remote table store settings
type GristConfig struct {
	APIKey  string
	DocID   string
	BaseURL string
	Timeout time.Duration
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether snapshot storage is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// AuthEnabled reports whether bearer auth should guard the API
func (c *Config) AuthEnabled() bool {
	return c.Auth0Domain != ""
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	timeout, err := getEnvDuration("GRIST_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	months, err := getEnvInt("DASHBOARD_MONTHS", 6)
	if err != nil {
		return nil, err
	}
	perMinute, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}
	tz, err := time.LoadLocation(getEnv("DASHBOARD_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("DASHBOARD_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Grist: GristConfig{
			APIKey:  getEnv("GRIST_API_KEY", ""),
			DocID:   getEnv("GRIST_DOC_ID", ""),
			BaseURL: getEnv("GRIST_BASE_URL", "https://docs.getgrist.com"),
			Timeout: timeout,
		},
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		Port:               getEnv("PORT", "8080"),
		CORSOrigins:        strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:                getEnv("ENV", "development"),
		DashboardLocale:    getEnv("DASHBOARD_LOCALE", "th"),
		DashboardMonths:    months,
		DashboardTimezone:  tz,
		RateLimitPerMinute: perMinute,
		RateLimitBurst:     burst,
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Grist.DocID == "" {
		return fmt.Errorf("GRIST_DOC_ID is required")
	}
	if c.AuthEnabled() && c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required when AUTH0_DOMAIN is set")
	}
	if c.DashboardMonths < 1 || c.DashboardMonths > 24 {
		return fmt.Errorf("DASHBOARD_MONTHS must be between 1 and 24")
	}
	if c.DashboardLocale != "th" && c.DashboardLocale != "en" {
		return fmt.Errorf("DASHBOARD_LOCALE must be th or en")
	}
	if c.RateLimitPerMinute < 1 || c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
