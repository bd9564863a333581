// internal/scraper/sources.go
//
// Per-marketplace scraping tables. Each SourceSpec is data, not code:
// adding a new page layout for a site means appending a selector to the
// relevant fallback chain, and adding a marketplace means adding a spec.
package scraper

import (
	"fmt"
	"net/url"
)

// SourceSpec describes how to search one marketplace and how to read its
// result page. Container selectors and field chains are ordered newest
// layout first; legacy selectors stay at the back to catch older variants.
type SourceSpec struct {
	Source Source
	Origin string

	// BuildURL produces the search URL for a term and optional price
	// bounds. Sources without native price parameters ignore the bounds;
	// central filtering corrects their output later.
	BuildURL func(term string, minPrice, maxPrice *float64) string

	// Containers locate the repeated per-listing fragment. The first
	// selector that yields at least one match wins.
	Containers []string

	Name   FieldSpec
	Price  FieldSpec
	Link   FieldSpec
	Image  FieldSpec
	Rating FieldSpec

	// MaxFragments caps how many fragments are processed per page.
	// Zero means DefaultMaxFragments.
	MaxFragments int
}

// DefaultMaxFragments bounds per-source latency and guards against
// pathological pages.
const DefaultMaxFragments = 20

// AmazonSpec scrapes amazon.in search results. Price bounds are encoded in
// paise inside a single combined range parameter (rh=p_36:lo-hi).
func AmazonSpec() SourceSpec {
	return SourceSpec{
		Source: SourceAmazon,
		Origin: "https://www.amazon.in",
		BuildURL: func(term string, minPrice, maxPrice *float64) string {
			u := "https://www.amazon.in/s?k=" + url.QueryEscape(term)
			if minPrice == nil && maxPrice == nil {
				return u
			}
			lo := 0
			if minPrice != nil {
				lo = int(*minPrice * 100)
			}
			hi := 999999900 // effectively unbounded above
			if maxPrice != nil {
				hi = int(*maxPrice * 100)
			}
			return fmt.Sprintf("%s&rh=p_36:%d-%d", u, lo, hi)
		},
		Containers: []string{
			"div[data-component-type='s-search-result']",
			"div.s-result-item[data-component-type='s-search-result']",
			"div.s-main-slot > div.s-result-item",
		},
		Name: Text(
			"h2 a span",
			"h2.a-size-mini span",
			".s-size-mini .s-link-style a span",
			"h2 span",
		),
		Price: Text(
			".a-price .a-offscreen",
			".a-offscreen",
			".a-price-whole",
			".a-price-range .a-offscreen",
		),
		Link:   Attr("href", "h2 a", "a.a-link-normal"),
		Image:  Attr("src", "img.s-image", ".s-product-image-container img"),
		Rating: Text(".a-icon-alt"),
	}
}

// FlipkartSpec scrapes flipkart.com search results. Price bounds are plain
// min/max query parameters in rupees.
func FlipkartSpec() SourceSpec {
	return SourceSpec{
		Source: SourceFlipkart,
		Origin: "https://www.flipkart.com",
		BuildURL: func(term string, minPrice, maxPrice *float64) string {
			u := "https://www.flipkart.com/search?q=" + url.QueryEscape(term)
			if minPrice != nil {
				u += fmt.Sprintf("&min=%d", int(*minPrice))
			}
			if maxPrice != nil {
				u += fmt.Sprintf("&max=%d", int(*maxPrice))
			}
			return u
		},
		Containers: []string{
			"div._75nlfW",
			"div._1AtVbE",
			"div._13oc-S",
		},
		Name: Text(
			"div.KzDlHZ",    // grid layout
			"a.wjcEIp",      // list layout
			"div._4rR01T",   // legacy grid
			"a.s1Q9rs",      // legacy list
		),
		Price: Text(
			"div.Nx9bqj",
			"div._30jeq3._1_WHN1",
			"div._30jeq3",
		),
		Link:   Attr("href", "a.CGtC98", "a._1fQZEK", "a[href]"),
		Image:  Attr("src", "img.DByuf4", "img._396cs4", "img._2r_T1I"),
		Rating: Text("div.XQDdHH", "div._3LWZlK"),
	}
}

// MeeshoSpec scrapes meesho.com search results. Meesho has no native price
// parameters, so bounds are enforced only by central filtering.
func MeeshoSpec() SourceSpec {
	return SourceSpec{
		Source: SourceMeesho,
		Origin: "https://www.meesho.com",
		BuildURL: func(term string, _, _ *float64) string {
			return "https://www.meesho.com/search?q=" + url.QueryEscape(term)
		},
		Containers: []string{
			"div[class*='ProductListItem__GridCol']",
			"div[class*='ProductList__GridCol']",
		},
		Name: Text(
			"p[class*='StyledDesktopProductTitle']",
			"p[class*='Text__StyledText']",
		),
		Price: Text(
			"h5[class*='ProductListItem']",
			"h5",
		),
		Link:   Attr("href", "a"),
		Image:  Attr("src", "img"),
		Rating: Text("span[class*='Rating__StyledPill']", "span[class*='Rating']"),
	}
}

// CromaSpec scrapes croma.com search results. No native price parameters.
func CromaSpec() SourceSpec {
	return SourceSpec{
		Source: SourceCroma,
		Origin: "https://www.croma.com",
		BuildURL: func(term string, _, _ *float64) string {
			q := url.QueryEscape(term)
			return "https://www.croma.com/searchB?q=" + q + "%3Arelevance&text=" + q
		},
		Containers: []string{
			"li.product-item",
			"div.cp-product",
		},
		Name: Text(
			"h3.product-title a",
			"h3.product-title",
		),
		Price: Text(
			"span.amount",
			"span.new-price",
		),
		Link:   Attr("href", "h3.product-title a", "a"),
		Image:  Attr("src", "img[data-src]", "img"),
		Rating: Text("span.rating-text"),
	}
}

// ShopsySpec scrapes shopsy.in search results. Shopsy runs on Flipkart
// infrastructure, so its markup tracks Flipkart's class scheme.
func ShopsySpec() SourceSpec {
	return SourceSpec{
		Source: SourceShopsy,
		Origin: "https://www.shopsy.in",
		BuildURL: func(term string, _, _ *float64) string {
			return "https://www.shopsy.in/search?q=" + url.QueryEscape(term)
		},
		Containers: []string{
			"div._1AtVbE",
			"div._13oc-S",
		},
		Name: Text(
			"span._2BULo",
			"a.s1Q9rs",
			"div._4rR01T",
		),
		Price: Text(
			"div._30jeq3",
			"div.Nx9bqj",
		),
		Link:   Attr("href", "a[href]"),
		Image:  Attr("src", "img._396cs4", "img"),
		Rating: Text("div._3LWZlK"),
	}
}

// RelianceSpec scrapes reliancedigital.in search results. No native price
// parameters.
func RelianceSpec() SourceSpec {
	return SourceSpec{
		Source: SourceReliance,
		Origin: "https://www.reliancedigital.in",
		BuildURL: func(term string, _, _ *float64) string {
			return "https://www.reliancedigital.in/search?q=" + url.QueryEscape(term) + ":relevance"
		},
		Containers: []string{
			"div.sp__product",
			"li.grid-item div.product-card",
		},
		Name: Text(
			"p.sp__name",
			"div.product-card-title",
		),
		Price: Text(
			"span.sp__price",
			"span.pdp__offerPrice",
		),
		Link:   Attr("href", "a[href]"),
		Image:  Attr("data-srcset", "img[data-srcset]").orElse(Attr("src", "img")),
		Rating: Text("div.ReviewModule__reviewScore"),
	}
}

// orElse appends another chain, preserving priority order.
func (fs FieldSpec) orElse(next FieldSpec) FieldSpec {
	return append(fs, next...)
}

// DefaultSpecs returns every supported marketplace in registration order.
// The order matters: concatenation and therefore duplicate survival follow
// it (see Aggregator).
func DefaultSpecs() []SourceSpec {
	return []SourceSpec{
		AmazonSpec(),
		FlipkartSpec(),
		MeeshoSpec(),
		CromaSpec(),
		ShopsySpec(),
		RelianceSpec(),
	}
}

// SpecsFor filters DefaultSpecs down to the named sources, keeping
// registration order. Unknown names are ignored.
func SpecsFor(names []string) []SourceSpec {
	if len(names) == 0 {
		return DefaultSpecs()
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var specs []SourceSpec
	for _, spec := range DefaultSpecs() {
		if want[string(spec.Source)] {
			specs = append(specs, spec)
		}
	}
	return specs
}
