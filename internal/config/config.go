// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/erazemk/servis/internal/cost"
)

// Image storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

type Config struct {
	DBPath     string
	Addr       string
	AdminEmail string
	LogPath    string

	Cost   CostConfig
	Images ImageConfig
	DVLA   DVLAConfig
}

type CostConfig struct {
	Policy  string
	VATRate string
}

// ImageConfig selects where uploaded images go. BaseURL is the public prefix
// of stored images; empty means "/images" for the local backend and the
// bucket's own URL for s3.
type ImageConfig struct {
	Backend   string
	Dir       string
	BaseURL   string
	S3Bucket  string
	S3Prefix  string
	MaxUpload int64
}

type DVLAConfig struct {
	APIKey string
	URL    string
}

// Load reads .env (when present) and then the environment. Variables already
// set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		DBPath:     getEnv("SERVIS_DB", "servis.db"),
		Addr:       getEnv("SERVIS_ADDR", ":8080"),
		AdminEmail: getEnv("SERVIS_ADMIN_EMAIL", "admin@servis.local"),
		LogPath:    getEnv("SERVIS_LOG", ""),
		Cost: CostConfig{
			Policy:  getEnv("SERVIS_COST_POLICY", string(cost.PolicyTrust)),
			VATRate: getEnv("SERVIS_VAT_RATE", ""),
		},
		Images: ImageConfig{
			Backend:   getEnv("SERVIS_IMAGE_BACKEND", BackendLocal),
			Dir:       getEnv("SERVIS_IMAGE_DIR", "images"),
			BaseURL:   getEnv("SERVIS_IMAGE_BASE_URL", ""),
			S3Bucket:  getEnv("SERVIS_S3_BUCKET", ""),
			S3Prefix:  getEnv("SERVIS_S3_PREFIX", "service-images"),
			MaxUpload: getEnvInt64("SERVIS_MAX_UPLOAD", 32<<20),
		},
		DVLA: DVLAConfig{
			APIKey: getEnv("DVLA_API_KEY", ""),
			URL:    getEnv("DVLA_URL", ""),
		},
	}

	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.AdminEmail == "" {
		return fmt.Errorf("admin email is required")
	}
	if _, err := cost.ParsePolicy(c.Cost.Policy); err != nil {
		return err
	}
	if _, err := c.VATRate(); err != nil {
		return err
	}
	switch c.Images.Backend {
	case BackendLocal:
		if c.Images.Dir == "" {
			return fmt.Errorf("image directory is required for the local backend")
		}
	case BackendS3:
		if c.Images.S3Bucket == "" {
			return fmt.Errorf("SERVIS_S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown image backend %q", c.Images.Backend)
	}
	if c.Images.MaxUpload <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	return nil
}

// Checker builds the cost checker described by the configuration.
func (c *Config) Checker() (cost.Checker, error) {
	policy, err := cost.ParsePolicy(c.Cost.Policy)
	if err != nil {
		return cost.Checker{}, err
	}
	rate, err := c.VATRate()
	if err != nil {
		return cost.Checker{}, err
	}
	return cost.Checker{Policy: policy, VATRate: rate}, nil
}

// VATRate parses the configured rate, e.g. "0.2". Empty means zero.
func (c *Config) VATRate() (decimal.Decimal, error) {
	if c.Cost.VATRate == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(c.Cost.VATRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid VAT rate %q: %w", c.Cost.VATRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("VAT rate %s out of range [0, 1]", rate)
	}
	return rate, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}
