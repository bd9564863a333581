// internal/scraper/search.go
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pricescout/pricescout/internal/monitoring"
)

// Service is the search pipeline exposed to callers: aggregate, dedupe,
// filter, rank. A Service produces a fresh result per request; nothing is
// cached or persisted between calls.
type Service struct {
	aggregator *Aggregator
	deduper    Deduper
	logger     *slog.Logger
	metrics    *monitoring.Metrics
}

// NewService wires the pipeline together.
func NewService(aggregator *Aggregator, deduper Deduper, logger *slog.Logger, metrics *monitoring.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		aggregator: aggregator,
		deduper:    deduper,
		logger:     logger,
		metrics:    metrics,
	}
}

// ParsePriceRange parses the external price-range shape: "all" (or empty)
// for unbounded, "lo-hi" for a closed range, "lo+" for no upper bound.
// Anything else is ErrBadPriceRange.
func ParsePriceRange(s string) (minPrice, maxPrice *float64, err error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return nil, nil, nil
	}

	if strings.HasSuffix(s, "+") {
		lo, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrBadPriceRange, s)
		}
		return &lo, nil, nil
	}

	lo64, hi64, found := strings.Cut(s, "-")
	if !found {
		return nil, nil, fmt.Errorf("%w: %q", ErrBadPriceRange, s)
	}
	lo, errLo := strconv.ParseFloat(lo64, 64)
	hi, errHi := strconv.ParseFloat(hi64, 64)
	if errLo != nil || errHi != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrBadPriceRange, s)
	}
	return &lo, &hi, nil
}

// SearchAllProducts runs the full pipeline for a search term. priceRange
// is "all", "lo-hi" or "lo+"; sortBy is "price", "price_desc" or "rating"
// (anything else leaves the deduplicated order).
//
// Validation failures are the only errors this returns, and they are
// raised before any adapter runs. Once the pipeline starts it always
// produces a (possibly empty) result: per-source failures degrade to that
// source contributing nothing.
func (s *Service) SearchAllProducts(ctx context.Context, term, priceRange, sortBy string) ([]Listing, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyQuery
	}

	minPrice, maxPrice, err := ParsePriceRange(priceRange)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	combined := s.aggregator.Aggregate(ctx, term, minPrice, maxPrice)

	unique := s.deduper.Dedupe(combined)
	s.metrics.AddDuplicatesDropped(len(combined) - len(unique))

	unique = FilterPriceRange(unique, minPrice, maxPrice)
	ranked := Rank(unique, SortKey(sortBy))

	s.metrics.ObserveSearch(time.Since(start))
	s.logger.Info("search complete",
		"term", term,
		"scraped", len(combined),
		"returned", len(ranked),
		"duration", time.Since(start),
	)
	return ranked, nil
}
