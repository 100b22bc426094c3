package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete admin tool configuration, loadable from
// environment variables (FARM_ prefix), flags, or YAML config files.
type Config struct {
	BaseURL  string        `usage:"Markets API base URL (FARM_BASE_URL or API_URL)" flag:"base-url"`
	Timeout  time.Duration `default:"15s" usage:"HTTP request timeout"`
	MarketID string        `usage:"Default market id for price commands" flag:"market"`
	Date     string        `usage:"Price date as YYYY-MM-DD (defaults to today)" flag:"date"`
	Yes      bool          `usage:"Skip interactive submit confirmation" flag:"yes"`
}

// PriceDate resolves the configured price date, defaulting to today.
func (c *Config) PriceDate() (time.Time, error) {
	if c.Date == "" {
		return time.Now(), nil
	}
	d, err := time.Parse("2006-01-02", c.Date)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parse date")
	}
	return d, nil
}

// LoadConfig loads configuration from flags, environment variables, and YAML
// config files, and returns it together with the remaining positional
// arguments (the command to run).
func LoadConfig() (*Config, []string, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "FARM",
		Files:     []string{"config.yaml", "/etc/farm-admin/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.BaseURL == "" {
		return nil, nil, errors.New("API base URL is required: set FARM_BASE_URL or API_URL")
	}

	return &cfg, loader.Flags().Args(), nil
}

// applyPlatformDefaults maps the bare API_URL environment variable, as used
// by the hosted deployments, onto the FARM_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.BaseURL == "" {
		if v := os.Getenv("API_URL"); v != "" {
			c.BaseURL = v
		}
	}
}
