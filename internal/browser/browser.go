// internal/browser/browser.go
package browser

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Retriever fetches the fully rendered markup of a page. Implementations
// may be slow (tens of seconds) and may fail; callers treat a failure as
// "no data from this page" rather than a fatal condition.
type Retriever interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// Config defines how rendered pages are retrieved.
type Config struct {
	Headless  bool          `yaml:"headless" json:"headless"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	WaitDelay time.Duration `yaml:"wait_delay" json:"wait_delay"`
	UserAgent string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`

	// RequestsPerSecond throttles navigation across all sessions owned by
	// one retriever. Zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
}

// DefaultConfig returns retrieval defaults suitable for headless scraping.
func DefaultConfig() *Config {
	return &Config{
		Headless:          true,
		Timeout:           45 * time.Second,
		WaitDelay:         3 * time.Second,
		RequestsPerSecond: 1,
	}
}

func newLimiter(cfg *Config) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
}

// userAgents are real browser strings rotated per session so consecutive
// sessions do not present an identical fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}
