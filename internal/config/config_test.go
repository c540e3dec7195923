package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/servis/internal/cost"
)

// chdir moves into a fresh directory so a stray .env is not picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	for _, k := range []string{"SERVIS_DB", "SERVIS_COST_POLICY", "SERVIS_IMAGE_BACKEND", "SERVIS_MAX_UPLOAD", "SERVIS_VAT_RATE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "servis.db", cfg.DBPath)
	assert.Equal(t, "trust", cfg.Cost.Policy)
	assert.Equal(t, BackendLocal, cfg.Images.Backend)
	assert.Equal(t, int64(32<<20), cfg.Images.MaxUpload)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdir(t)
	t.Setenv("SERVIS_COST_POLICY", "")
	t.Setenv("SERVIS_ADDR", ":9999")

	env := "SERVIS_COST_POLICY=recompute\nSERVIS_VAT_RATE=0.2\nSERVIS_ADDR=:7000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))
	// godotenv only fills unset variables, so clear the one .env should supply.
	os.Unsetenv("SERVIS_COST_POLICY")
	os.Unsetenv("SERVIS_VAT_RATE")
	t.Cleanup(func() {
		os.Unsetenv("SERVIS_COST_POLICY")
		os.Unsetenv("SERVIS_VAT_RATE")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr, "environment wins over .env")
	checker, err := cfg.Checker()
	require.NoError(t, err)
	assert.Equal(t, cost.PolicyRecompute, checker.Policy)
	assert.True(t, decimal.RequireFromString("0.2").Equal(checker.VATRate))
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DBPath:     "x.db",
			AdminEmail: "admin@example.com",
			Cost:       CostConfig{Policy: "trust"},
			Images:     ImageConfig{Backend: BackendLocal, Dir: "images", MaxUpload: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"unknown policy", func(c *Config) { c.Cost.Policy = "guess" }, false},
		{"bad vat", func(c *Config) { c.Cost.VATRate = "twenty" }, false},
		{"vat above one", func(c *Config) { c.Cost.VATRate = "20" }, false},
		{"unknown backend", func(c *Config) { c.Images.Backend = "ftp" }, false},
		{"s3 without bucket", func(c *Config) { c.Images.Backend = BackendS3 }, false},
		{"s3 with bucket", func(c *Config) { c.Images.Backend = BackendS3; c.Images.S3Bucket = "b" }, true},
		{"no admin email", func(c *Config) { c.AdminEmail = "" }, false},
		{"zero upload", func(c *Config) { c.Images.MaxUpload = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
