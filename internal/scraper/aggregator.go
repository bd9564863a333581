// internal/scraper/aggregator.go
package scraper

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/pricescout/pricescout/internal/monitoring"
)

// AggregatorConfig tunes the fan-out over source adapters.
type AggregatorConfig struct {
	// AdapterTimeout bounds one adapter's fetch, rendering included, so a
	// hung marketplace cannot stall the whole search.
	AdapterTimeout time.Duration

	// StaggerMin/StaggerMax bound the randomized delay between launching
	// successive adapters. Staggering spreads the rendering load and
	// lowers the chance of simultaneous rate-limiting; it is politeness,
	// not correctness, and zero values disable it.
	StaggerMin time.Duration
	StaggerMax time.Duration
}

// DefaultAggregatorConfig returns the fan-out defaults.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		AdapterTimeout: 60 * time.Second,
		StaggerMin:     1 * time.Second,
		StaggerMax:     3 * time.Second,
	}
}

// Aggregator fans a search out over every registered adapter and
// concatenates their listings in registration order.
//
// Adapters run concurrently and independently: one adapter's failure or
// slowness never blocks the others. Concatenation order always follows
// registration order regardless of completion order. Note that because
// deduplication downstream keeps the first occurrence, changing the
// registration order can change which of two near-duplicates survives.
type Aggregator struct {
	adapters []SourceAdapter
	cfg      AggregatorConfig
	logger   *slog.Logger
	metrics  *monitoring.Metrics
}

// NewAggregator builds an aggregator over adapters in registration order.
func NewAggregator(adapters []SourceAdapter, cfg AggregatorConfig, logger *slog.Logger, metrics *monitoring.Metrics) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = DefaultAggregatorConfig().AdapterTimeout
	}
	return &Aggregator{
		adapters: adapters,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// Aggregate runs every adapter for the request and returns the combined
// listings. A failed or timed-out adapter contributes the empty sequence;
// it is logged and counted, never surfaced. All adapters returning empty
// is a valid result, not an error.
func (ag *Aggregator) Aggregate(ctx context.Context, term string, minPrice, maxPrice *float64) []Listing {
	results := make([][]Listing, len(ag.adapters))
	var wg sync.WaitGroup

	for i, adapter := range ag.adapters {
		if i > 0 {
			ag.stagger()
		}

		wg.Add(1)
		go func(slot int, adapter SourceAdapter) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, ag.cfg.AdapterTimeout)
			defer cancel()

			listings, err := adapter.Fetch(fetchCtx, term, minPrice, maxPrice)
			if err != nil {
				ag.logger.Warn("source adapter failed",
					"source", adapter.Source(),
					"error", err,
				)
				ag.metrics.AdapterError(string(adapter.Source()))
				return
			}
			ag.metrics.AddListings(string(adapter.Source()), len(listings))
			results[slot] = listings
		}(i, adapter)
	}

	wg.Wait()

	var combined []Listing
	for _, listings := range results {
		combined = append(combined, listings...)
	}
	return combined
}

func (ag *Aggregator) stagger() {
	if ag.cfg.StaggerMax <= ag.cfg.StaggerMin {
		if ag.cfg.StaggerMin > 0 {
			time.Sleep(ag.cfg.StaggerMin)
		}
		return
	}
	window := ag.cfg.StaggerMax - ag.cfg.StaggerMin
	time.Sleep(ag.cfg.StaggerMin + time.Duration(rand.Int63n(int64(window))))
}
