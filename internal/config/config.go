// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// knownSources mirrors the marketplaces the scraper package registers.
var knownSources = map[string]bool{
	"Amazon":           true,
	"Flipkart":         true,
	"Meesho":           true,
	"Croma":            true,
	"Shopsy":           true,
	"Reliance Digital": true,
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes. ${VAR} references are
// expanded from the environment before parsing.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := expandEnvironmentVariables(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{(\w+)\}`)

func expandEnvironmentVariables(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Scraper.AdapterTimeout <= 0 {
		cfg.Scraper.AdapterTimeout = Duration(60 * time.Second)
	}
	if cfg.Scraper.MaxFragments <= 0 {
		cfg.Scraper.MaxFragments = 20
	}
	if cfg.Scraper.StaggerMin <= 0 {
		cfg.Scraper.StaggerMin = Duration(1 * time.Second)
	}
	if cfg.Scraper.StaggerMax <= 0 {
		cfg.Scraper.StaggerMax = Duration(3 * time.Second)
	}

	if cfg.Browser.Timeout <= 0 {
		cfg.Browser.Timeout = Duration(45 * time.Second)
	}
	if cfg.Browser.WaitDelay <= 0 {
		cfg.Browser.WaitDelay = Duration(3 * time.Second)
	}
	if cfg.Browser.RequestsPerSecond <= 0 {
		cfg.Browser.RequestsPerSecond = 1
	}

	if cfg.Dedup.TokenPrefix <= 0 {
		cfg.Dedup.TokenPrefix = 3
	}
	if cfg.Dedup.BucketWidth <= 0 {
		cfg.Dedup.BucketWidth = 100
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.RequestsPerSecond <= 0 {
		cfg.Server.RequestsPerSecond = 5
	}
	if cfg.Server.Burst <= 0 {
		cfg.Server.Burst = 10
	}

	if cfg.Output.HistoryCSV == "" {
		cfg.Output.HistoryCSV = "price_data.csv"
	}
	if cfg.Output.WishlistCSV == "" {
		cfg.Output.WishlistCSV = "wishlist.csv"
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	for _, name := range c.Sources {
		if !knownSources[name] {
			return fmt.Errorf("unknown source %q", name)
		}
	}

	if c.Scraper.StaggerMax < c.Scraper.StaggerMin {
		return fmt.Errorf("stagger_max (%s) must not be below stagger_min (%s)",
			c.Scraper.StaggerMax.Std(), c.Scraper.StaggerMin.Std())
	}

	if c.Scraper.MaxFragments > 200 {
		return fmt.Errorf("max_fragments exceeds reasonable limit of 200, got %d", c.Scraper.MaxFragments)
	}

	if c.Dedup.TokenPrefix > 10 {
		return fmt.Errorf("dedup token_prefix exceeds reasonable limit of 10, got %d", c.Dedup.TokenPrefix)
	}

	return nil
}
