// internal/tracker/tracker.go
//
// Single-product price tracking: resolve a product URL to its marketplace,
// scrape the product page, record the observation, and flag deal alerts
// when the price drops below the caller's threshold.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricescout/pricescout/internal/browser"
	"github.com/pricescout/pricescout/internal/output"
	"github.com/pricescout/pricescout/internal/scraper"
)

// ErrUnsupportedURL means no marketplace adapter recognizes the URL's host.
var ErrUnsupportedURL = fmt.Errorf("unsupported product URL")

// pageSpec holds the product-page selector chains for one marketplace.
// These differ from the search-result tables: product pages use their own
// markup.
type pageSpec struct {
	source scraper.Source
	hosts  []string
	name   scraper.FieldSpec
	price  scraper.FieldSpec
	rating scraper.FieldSpec
}

var pageSpecs = []pageSpec{
	{
		source: scraper.SourceAmazon,
		hosts:  []string{"amazon."},
		name:   scraper.Text("#productTitle"),
		price:  scraper.Text("span.a-price > span.a-offscreen", "span.a-offscreen"),
		rating: scraper.Text("span.a-icon-alt"),
	},
	{
		source: scraper.SourceFlipkart,
		hosts:  []string{"flipkart.com"},
		name:   scraper.Text("span.VU-ZEz", "span.B_NuCI"),
		price:  scraper.Text("div.Nx9bqj.CxhGGd", "div._30jeq3._16Jk6d"),
		rating: scraper.Text("div.XQDdHH", "div._3LWZlK"),
	},
	{
		source: scraper.SourceMeesho,
		hosts:  []string{"meesho.com"},
		name:   scraper.Text("h1.ProductDetails__title", "h1"),
		price:  scraper.Text("span.ProductDetails__price-value", "h4"),
		rating: scraper.Text("div.Ratings__rating"),
	},
	{
		source: scraper.SourceCroma,
		hosts:  []string{"croma.com"},
		name:   scraper.Text("h1.pdp-title", "h1"),
		price:  scraper.Text("span.amount", "span.new-price"),
		rating: scraper.Text("span.bv_avgRating_component_container"),
	},
	{
		source: scraper.SourceShopsy,
		hosts:  []string{"shopsy.in"},
		name:   scraper.Text("span._2BULo", "h1"),
		price:  scraper.Text("div._30jeq3"),
		rating: scraper.Text("div._3LWZlK"),
	},
	{
		source: scraper.SourceReliance,
		hosts:  []string{"reliancedigital.in"},
		name:   scraper.Text("h1.pdp__title", "h1"),
		price:  scraper.Text("span.pdp__offerPrice", "span.pdp__price"),
		rating: scraper.Text("div.ReviewModule__reviewScore"),
	},
}

// resolveSpec matches a product URL to its marketplace by host substring.
func resolveSpec(url string) (pageSpec, bool) {
	lowered := strings.ToLower(url)
	for _, spec := range pageSpecs {
		for _, host := range spec.hosts {
			if strings.Contains(lowered, host) {
				return spec, true
			}
		}
	}
	return pageSpec{}, false
}

// HistoryStore persists price observations. Both the CSV appender and the
// SQLite store satisfy it.
type HistoryStore interface {
	Append(output.HistoryRecord) error
}

// Tracker scrapes one product page per call and records the observation.
type Tracker struct {
	retriever browser.Retriever
	history   HistoryStore
	logger    *slog.Logger
}

// New builds a tracker. history may be nil to skip persistence.
func New(retriever browser.Retriever, history HistoryStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		retriever: retriever,
		history:   history,
		logger:    logger,
	}
}

// Track scrapes url, stores a history record against threshold, and
// returns the observation plus whether it triggers a deal alert.
func (t *Tracker) Track(ctx context.Context, url string, threshold float64) (output.HistoryRecord, bool, error) {
	spec, ok := resolveSpec(url)
	if !ok {
		return output.HistoryRecord{}, false, fmt.Errorf("%w: %s", ErrUnsupportedURL, url)
	}

	html, err := t.retriever.FetchHTML(ctx, url)
	if err != nil {
		return output.HistoryRecord{}, false, fmt.Errorf("%s: %w", spec.source, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return output.HistoryRecord{}, false, fmt.Errorf("%s: parse markup: %w", spec.source, err)
	}

	root := doc.Selection

	name, ok := spec.name.Extract(root)
	if !ok {
		name = "N/A"
	}

	var price float64
	if raw, ok := spec.price.Extract(root); ok {
		price = scraper.NormalizePrice(raw)
	}

	var rating *float64
	if raw, ok := spec.rating.Extract(root); ok {
		rating = scraper.ParseRating(raw)
	}

	rec := output.HistoryRecord{
		Timestamp: time.Now(),
		Site:      string(spec.source),
		Name:      name,
		Price:     price,
		Rating:    rating,
		URL:       url,
		Threshold: threshold,
	}

	if t.history != nil {
		if err := t.history.Append(rec); err != nil {
			return rec, false, fmt.Errorf("record observation: %w", err)
		}
	}

	alert := rec.BelowThreshold()
	t.logger.Info("product tracked",
		"source", spec.source,
		"name", name,
		"price", price,
		"alert", alert,
	)
	return rec, alert, nil
}
