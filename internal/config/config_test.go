// internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Scraper.AdapterTimeout.Std() != 60*time.Second {
		t.Errorf("adapter timeout = %v", cfg.Scraper.AdapterTimeout.Std())
	}
	if cfg.Scraper.MaxFragments != 20 {
		t.Errorf("max fragments = %d", cfg.Scraper.MaxFragments)
	}
	if cfg.Dedup.TokenPrefix != 3 || cfg.Dedup.BucketWidth != 100 {
		t.Errorf("dedup defaults = %d/%v", cfg.Dedup.TokenPrefix, cfg.Dedup.BucketWidth)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("server address = %q", cfg.Server.Address)
	}
	if !cfg.Browser.IsHeadless() {
		t.Error("browser must default to headless")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFromBytes(t *testing.T) {
	yaml := `
sources:
  - Amazon
  - Flipkart
scraper:
  adapter_timeout: 90s
  max_fragments: 10
  stagger_min: 500ms
  stagger_max: 2s
browser:
  headless: false
  timeout: 30s
  wait_delay: 1s
  requests_per_second: 2
dedup:
  token_prefix: 4
  bucket_width: 50
server:
  address: ":9090"
output:
  history_csv: /tmp/history.csv
`

	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Sources) != 2 || cfg.Sources[0] != "Amazon" {
		t.Errorf("sources = %v", cfg.Sources)
	}
	if cfg.Scraper.AdapterTimeout.Std() != 90*time.Second {
		t.Errorf("adapter timeout = %v", cfg.Scraper.AdapterTimeout.Std())
	}
	if cfg.Scraper.StaggerMin.Std() != 500*time.Millisecond {
		t.Errorf("stagger min = %v", cfg.Scraper.StaggerMin.Std())
	}
	if cfg.Browser.IsHeadless() {
		t.Error("headless: false must be honored")
	}
	if cfg.Dedup.TokenPrefix != 4 || cfg.Dedup.BucketWidth != 50 {
		t.Errorf("dedup = %d/%v", cfg.Dedup.TokenPrefix, cfg.Dedup.BucketWidth)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("address = %q", cfg.Server.Address)
	}
	// Untouched fields still receive defaults.
	if cfg.Output.WishlistCSV != "wishlist.csv" {
		t.Errorf("wishlist default = %q", cfg.Output.WishlistCSV)
	}
}

func TestLoadFromBytesInvalidDuration(t *testing.T) {
	_, err := LoadFromBytes([]byte("scraper:\n  adapter_timeout: ninety\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("expected duration parse error, got %v", err)
	}
}

func TestLoadFromBytesEmpty(t *testing.T) {
	if _, err := LoadFromBytes(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestEnvironmentExpansion(t *testing.T) {
	t.Setenv("PRICESCOUT_ADDR", ":7070")

	cfg, err := LoadFromBytes([]byte("server:\n  address: \"${PRICESCOUT_ADDR}\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":7070" {
		t.Errorf("expected env expansion, got %q", cfg.Server.Address)
	}
}

func TestEnvironmentExpansionUnsetKeepsPlaceholder(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("output:\n  history_csv: \"${PRICESCOUT_DOES_NOT_EXIST}\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.HistoryCSV != "${PRICESCOUT_DOES_NOT_EXIST}" {
		t.Errorf("unset variables must stay literal, got %q", cfg.Output.HistoryCSV)
	}
}

func TestValidateUnknownSource(t *testing.T) {
	cfg := Default()
	cfg.Sources = []string{"Amazon", "AliExpress"}

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "AliExpress") {
		t.Errorf("expected unknown-source error, got %v", err)
	}
}

func TestValidateStaggerOrdering(t *testing.T) {
	cfg := Default()
	cfg.Scraper.StaggerMin = Duration(3 * time.Second)
	cfg.Scraper.StaggerMax = Duration(1 * time.Second)

	if err := cfg.Validate(); err == nil {
		t.Error("expected stagger ordering error")
	}
}

func TestValidateLimits(t *testing.T) {
	cfg := Default()
	cfg.Scraper.MaxFragments = 500
	if err := cfg.Validate(); err == nil {
		t.Error("expected max_fragments limit error")
	}

	cfg = Default()
	cfg.Dedup.TokenPrefix = 50
	if err := cfg.Validate(); err == nil {
		t.Error("expected token_prefix limit error")
	}
}

func TestDurationRoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)
	out, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if out != "1m30s" {
		t.Errorf("marshal = %v", out)
	}
}
