// internal/scraper/extractor.go
package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way of locating a field inside a listing fragment. An
// empty Attr extracts the element's text; otherwise the named attribute.
type Strategy struct {
	Selector string
	Attr     string
}

// FieldSpec is an ordered fallback chain of extraction strategies for a
// single field. The order is significant: newer page layouts come first,
// legacy layouts later, so a chain must be tried front to back.
type FieldSpec []Strategy

// Extract tries each strategy in order against the fragment and returns the
// first non-empty trimmed value. The second return reports whether any
// strategy matched; absence is a normal outcome, not an error.
func (fs FieldSpec) Extract(fragment *goquery.Selection) (string, bool) {
	for _, st := range fs {
		sel := fragment.Find(st.Selector)
		if sel.Length() == 0 {
			continue
		}

		var value string
		if st.Attr == "" {
			value = strings.TrimSpace(sel.First().Text())
		} else {
			attr, ok := sel.First().Attr(st.Attr)
			if !ok {
				continue
			}
			value = strings.TrimSpace(attr)
		}

		if value != "" {
			return value, true
		}
	}
	return "", false
}

// Text builds a FieldSpec from plain text selectors.
func Text(selectors ...string) FieldSpec {
	fs := make(FieldSpec, len(selectors))
	for i, s := range selectors {
		fs[i] = Strategy{Selector: s}
	}
	return fs
}

// Attr builds a FieldSpec extracting the same attribute from each selector.
func Attr(attribute string, selectors ...string) FieldSpec {
	fs := make(FieldSpec, len(selectors))
	for i, s := range selectors {
		fs[i] = Strategy{Selector: s, Attr: attribute}
	}
	return fs
}
