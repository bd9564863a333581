// internal/scraper/adapter.go
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricescout/pricescout/internal/browser"
)

// SourceAdapter maps a search term to listings from one marketplace. Every
// implementation is independently fallible: an error means "this source
// contributed nothing", never that the overall search failed.
type SourceAdapter interface {
	Source() Source
	Fetch(ctx context.Context, term string, minPrice, maxPrice *float64) ([]Listing, error)
}

// SiteAdapter is the generic selector-table-driven adapter. All six
// marketplaces share this implementation; only the SourceSpec differs.
type SiteAdapter struct {
	spec      SourceSpec
	retriever browser.Retriever
	logger    *slog.Logger
}

// NewSiteAdapter builds an adapter for one marketplace spec.
func NewSiteAdapter(spec SourceSpec, retriever browser.Retriever, logger *slog.Logger) *SiteAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	if spec.MaxFragments <= 0 {
		spec.MaxFragments = DefaultMaxFragments
	}
	return &SiteAdapter{
		spec:      spec,
		retriever: retriever,
		logger:    logger,
	}
}

func (a *SiteAdapter) Source() Source {
	return a.spec.Source
}

// Fetch retrieves the marketplace's result page for term and maps its
// listing fragments to the common record shape. Fragment processing order
// is preserved. A fragment missing its name, or missing both a positive
// price and a link, is skipped; other missing fields degrade to defaults.
func (a *SiteAdapter) Fetch(ctx context.Context, term string, minPrice, maxPrice *float64) ([]Listing, error) {
	pageURL := a.spec.BuildURL(term, minPrice, maxPrice)

	html, err := a.retriever.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.spec.Source, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%s: parse markup: %w", a.spec.Source, err)
	}

	fragments := a.findFragments(doc)
	if fragments == nil {
		a.logger.Debug("no listing fragments found", "source", a.spec.Source, "url", pageURL)
		return nil, nil
	}

	var listings []Listing
	fragments.EachWithBreak(func(i int, fragment *goquery.Selection) bool {
		if i >= a.spec.MaxFragments {
			return false
		}
		if listing, ok := a.extractListing(fragment); ok {
			listings = append(listings, listing)
		}
		return true
	})

	a.logger.Info("adapter fetch complete",
		"source", a.spec.Source,
		"listings", len(listings),
	)
	return listings, nil
}

// findFragments tries each container selector in priority order and returns
// the first selection with at least one match.
func (a *SiteAdapter) findFragments(doc *goquery.Document) *goquery.Selection {
	for _, selector := range a.spec.Containers {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// extractListing maps one fragment to a Listing. The boolean reports
// whether the fragment survives the skip rules.
func (a *SiteAdapter) extractListing(fragment *goquery.Selection) (Listing, bool) {
	name, ok := a.spec.Name.Extract(fragment)
	if !ok {
		return Listing{}, false
	}

	var price float64
	if raw, ok := a.spec.Price.Extract(fragment); ok {
		price = NormalizePrice(raw)
	}

	var link string
	if raw, ok := a.spec.Link.Extract(fragment); ok {
		link = absolutize(a.spec.Origin, raw)
	}

	if price <= 0 && link == "" {
		return Listing{}, false
	}

	var image string
	if raw, ok := a.spec.Image.Extract(fragment); ok {
		image = absolutize(a.spec.Origin, raw)
	}

	var rating *float64
	if raw, ok := a.spec.Rating.Extract(fragment); ok {
		rating = ParseRating(raw)
	}

	return Listing{
		Name:       name,
		Price:      price,
		ProductURL: link,
		ImageURL:   image,
		Rating:     rating,
		Source:     a.spec.Source,
	}, true
}

// absolutize resolves a scraped link against the marketplace origin.
// Unresolvable values collapse to empty rather than leaking junk URLs.
func absolutize(origin, link string) string {
	link = strings.TrimSpace(link)
	switch {
	case link == "":
		return ""
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"):
		return link
	case strings.HasPrefix(link, "//"):
		return "https:" + link
	case strings.HasPrefix(link, "/"):
		return origin + link
	default:
		return ""
	}
}
