// internal/scraper/rank.go
package scraper

import "sort"

// Rank orders listings by the requested sort key using a stable sort, so
// listings that compare equal keep their deduplicated order. An unknown
// key leaves the order unchanged; that is not an error. Rating sort only
// applies when at least one listing carries a rating, since sorting a
// fully-unrated set by rating would reorder it for no reason.
func Rank(listings []Listing, key SortKey) []Listing {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price < listings[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price > listings[j].Price
		})
	case SortRatingDesc:
		if anyRated(listings) {
			sort.SliceStable(listings, func(i, j int) bool {
				return ratingOf(listings[i]) > ratingOf(listings[j])
			})
		}
	}
	return listings
}

func anyRated(listings []Listing) bool {
	for _, l := range listings {
		if l.Rating != nil {
			return true
		}
	}
	return false
}

// ratingOf treats an absent rating as the lowest possible value.
func ratingOf(l Listing) float64 {
	if l.Rating == nil {
		return 0
	}
	return *l.Rating
}

// FilterPriceRange drops listings whose known price falls outside the
// bounds. Listings with the unknown-price sentinel (0) pass through: the
// bounds constrain prices, and an unextracted price is not a price.
// Adapters with native price parameters still go through this filter, so
// sources that ignore bounds are corrected before results reach callers.
func FilterPriceRange(listings []Listing, minPrice, maxPrice *float64) []Listing {
	if minPrice == nil && maxPrice == nil {
		return listings
	}

	filtered := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price > 0 {
			if minPrice != nil && l.Price < *minPrice {
				continue
			}
			if maxPrice != nil && l.Price > *maxPrice {
				continue
			}
		}
		filtered = append(filtered, l)
	}
	return filtered
}
