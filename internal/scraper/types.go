// internal/scraper/types.go
package scraper

import "fmt"

// Common errors
var (
	ErrEmptyQuery    = fmt.Errorf("search term cannot be empty")
	ErrBadPriceRange = fmt.Errorf("invalid price range expression")
)

// Source identifies the marketplace a listing was scraped from.
type Source string

const (
	SourceAmazon   Source = "Amazon"
	SourceFlipkart Source = "Flipkart"
	SourceMeesho   Source = "Meesho"
	SourceCroma    Source = "Croma"
	SourceShopsy   Source = "Shopsy"
	SourceReliance Source = "Reliance Digital"
)

// Listing is one product offer found on one marketplace, normalized to the
// common record shape. Price 0 means the price could not be extracted; the
// sites scraped here never list genuinely free products, so callers treat
// zero as unknown.
type Listing struct {
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	ProductURL string   `json:"product_url"`
	ImageURL   string   `json:"image"`
	Rating     *float64 `json:"rating"`
	Source     Source   `json:"source"`
}

// SortKey selects the ordering applied to a deduplicated result set.
type SortKey string

const (
	SortPriceAsc   SortKey = "price"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingDesc SortKey = "rating"
)

// SearchRequest carries a validated search: a non-empty term plus optional
// price bounds. A nil bound means unbounded on that side.
type SearchRequest struct {
	Term     string
	MinPrice *float64
	MaxPrice *float64
	SortBy   SortKey
}
