// internal/config/types.go
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML values like "45s" or "2m" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the application configuration.
type Config struct {
	// Sources lists enabled marketplaces by name. Empty means all.
	Sources []string `yaml:"sources,omitempty"`

	Scraper ScraperConfig `yaml:"scraper"`
	Browser BrowserConfig `yaml:"browser"`
	Dedup   DedupConfig   `yaml:"dedup"`
	Server  ServerConfig  `yaml:"server"`
	Output  OutputConfig  `yaml:"output"`
}

// ScraperConfig tunes the aggregation fan-out.
type ScraperConfig struct {
	AdapterTimeout Duration `yaml:"adapter_timeout"`
	MaxFragments   int      `yaml:"max_fragments"`
	StaggerMin     Duration `yaml:"stagger_min"`
	StaggerMax     Duration `yaml:"stagger_max"`
}

// BrowserConfig tunes page rendering.
type BrowserConfig struct {
	Headless          *bool    `yaml:"headless,omitempty"`
	Timeout           Duration `yaml:"timeout"`
	WaitDelay         Duration `yaml:"wait_delay"`
	UserAgent         string   `yaml:"user_agent,omitempty"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

// DedupConfig carries the near-duplicate signature tuning constants. The
// defaults are inherited heuristics; see the scraper package.
type DedupConfig struct {
	TokenPrefix int     `yaml:"token_prefix"`
	BucketWidth float64 `yaml:"bucket_width"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address           string  `yaml:"address"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OutputConfig names the persistence targets for tracking and wishlists.
type OutputConfig struct {
	HistoryCSV  string `yaml:"history_csv"`
	WishlistCSV string `yaml:"wishlist_csv"`
	HistoryDB   string `yaml:"history_db,omitempty"`
}

// Headless reports the configured headless mode, defaulting to true.
func (b BrowserConfig) IsHeadless() bool {
	if b.Headless == nil {
		return true
	}
	return *b.Headless
}
