// internal/scraper/price.go
package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var numericRun = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// NormalizePrice converts a raw price string into a numeric value. Currency
// glyphs, thousands separators and whitespace are stripped before the first
// contiguous numeric run is parsed, so "₹12,499.00" becomes 12499.0.
// Malformed or empty input degrades to 0, the unknown-price sentinel; this
// function never fails.
func NormalizePrice(raw string) float64 {
	if raw == "" {
		return 0
	}

	// Dropping every non-numeric rune joins digit groups split by
	// separators ("1,234" -> "1234") before the run is located.
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)

	run := numericRun.FindString(cleaned)
	if run == "" {
		return 0
	}

	value, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0
	}
	return value
}

// ParseRating pulls the leading numeric value out of rating text such as
// "4.3 out of 5 stars". Unlike prices, the raw text is scanned directly:
// stripping separators first would fuse "4.3" and "5" into one number.
func ParseRating(raw string) *float64 {
	run := numericRun.FindString(raw)
	if run == "" {
		return nil
	}
	value, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return nil
	}
	return &value
}
