// internal/scraper/aggregator_test.go
package scraper

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// fakeAdapter returns canned listings or a canned error.
type fakeAdapter struct {
	source   Source
	listings []Listing
	err      error
	delay    time.Duration
}

func (f *fakeAdapter) Source() Source { return f.source }

func (f *fakeAdapter) Fetch(ctx context.Context, term string, minPrice, maxPrice *float64) ([]Listing, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

// noStagger keeps fan-out tests fast.
func noStagger() AggregatorConfig {
	return AggregatorConfig{AdapterTimeout: 5 * time.Second}
}

func TestAggregateConcatenatesInRegistrationOrder(t *testing.T) {
	adapters := []SourceAdapter{
		// The slowest adapter is registered first; its listings must still
		// come first in the combined result.
		&fakeAdapter{source: SourceAmazon, delay: 50 * time.Millisecond, listings: []Listing{
			{Name: "A1", Source: SourceAmazon},
			{Name: "A2", Source: SourceAmazon},
		}},
		&fakeAdapter{source: SourceFlipkart, listings: []Listing{
			{Name: "F1", Source: SourceFlipkart},
		}},
	}

	ag := NewAggregator(adapters, noStagger(), nil, nil)
	got := ag.Aggregate(context.Background(), "term", nil, nil)

	if len(got) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(got))
	}
	if got[0].Name != "A1" || got[1].Name != "A2" || got[2].Name != "F1" {
		t.Errorf("registration order must win over completion order: %v", got)
	}
}

func TestAggregateFailedAdapterContributesNothing(t *testing.T) {
	adapters := []SourceAdapter{
		&fakeAdapter{source: SourceAmazon, listings: []Listing{{Name: "A1", Source: SourceAmazon}}},
		&fakeAdapter{source: SourceFlipkart, err: fmt.Errorf("blocked")},
		&fakeAdapter{source: SourceMeesho, listings: []Listing{{Name: "M1", Source: SourceMeesho}}},
	}

	ag := NewAggregator(adapters, noStagger(), nil, nil)
	got := ag.Aggregate(context.Background(), "term", nil, nil)

	if len(got) != 2 {
		t.Fatalf("expected the failing source to be absent, got %d listings", len(got))
	}
	if got[0].Name != "A1" || got[1].Name != "M1" {
		t.Errorf("unexpected listings: %v", got)
	}
}

func TestAggregateAllEmptyIsValid(t *testing.T) {
	adapters := []SourceAdapter{
		&fakeAdapter{source: SourceAmazon},
		&fakeAdapter{source: SourceFlipkart, err: fmt.Errorf("blocked")},
	}

	ag := NewAggregator(adapters, noStagger(), nil, nil)
	got := ag.Aggregate(context.Background(), "term", nil, nil)
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestAggregateAdapterTimeout(t *testing.T) {
	cfg := AggregatorConfig{AdapterTimeout: 20 * time.Millisecond}
	adapters := []SourceAdapter{
		&fakeAdapter{source: SourceAmazon, delay: 500 * time.Millisecond, listings: []Listing{{Name: "late"}}},
		&fakeAdapter{source: SourceFlipkart, listings: []Listing{{Name: "F1"}}},
	}

	ag := NewAggregator(adapters, cfg, nil, nil)
	start := time.Now()
	got := ag.Aggregate(context.Background(), "term", nil, nil)

	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Errorf("a hung adapter must not stall the search, took %v", elapsed)
	}
	if len(got) != 1 || got[0].Name != "F1" {
		t.Errorf("expected only the fast source, got %v", got)
	}
}

func TestAggregateStaggerDelaysLaunches(t *testing.T) {
	cfg := AggregatorConfig{
		AdapterTimeout: 5 * time.Second,
		StaggerMin:     30 * time.Millisecond,
		StaggerMax:     40 * time.Millisecond,
	}
	adapters := []SourceAdapter{
		&fakeAdapter{source: SourceAmazon},
		&fakeAdapter{source: SourceFlipkart},
		&fakeAdapter{source: SourceMeesho},
	}

	ag := NewAggregator(adapters, cfg, nil, nil)
	start := time.Now()
	ag.Aggregate(context.Background(), "term", nil, nil)

	// Two inter-launch gaps of at least StaggerMin each.
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("expected staggered launches, finished in %v", elapsed)
	}
}
