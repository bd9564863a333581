// internal/scraper/dedupe.go
package scraper

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Dedup tuning defaults. Both values are heuristics inherited without a
// documented rationale; they are configurable so they can be retuned
// against real cross-site data.
const (
	DefaultTokenPrefix = 3
	DefaultBucketWidth = 100
)

// Deduper collapses near-duplicate listings. The signature per listing is
// the set of the first TokenPrefix lower-cased name tokens paired with the
// price floored to a BucketWidth multiple. This is an approximation that
// trades recall for precision, not canonical product-identity resolution:
// cosmetically different titles or prices one bucket apart survive as
// separate listings.
type Deduper struct {
	TokenPrefix int
	BucketWidth float64
}

// NewDeduper returns a Deduper with the default tuning constants.
func NewDeduper() Deduper {
	return Deduper{TokenPrefix: DefaultTokenPrefix, BucketWidth: DefaultBucketWidth}
}

// Dedupe removes listings whose signature was already seen. Order among
// survivors is preserved and the first occurrence always wins, so the
// result is deterministic for a given input order.
func (d Deduper) Dedupe(listings []Listing) []Listing {
	seen := make(map[string]struct{}, len(listings))
	unique := make([]Listing, 0, len(listings))

	for _, l := range listings {
		sig := d.signature(l)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		unique = append(unique, l)
	}
	return unique
}

func (d Deduper) signature(l Listing) string {
	prefix := d.TokenPrefix
	if prefix <= 0 {
		prefix = DefaultTokenPrefix
	}
	width := d.BucketWidth
	if width <= 0 {
		width = DefaultBucketWidth
	}

	// NFKC folds full-width and compatibility variants so the same title
	// scraped from two sites tokenizes identically.
	name := norm.NFKC.String(strings.ToLower(l.Name))
	tokens := strings.Fields(name)
	if len(tokens) > prefix {
		tokens = tokens[:prefix]
	}

	// Set semantics: token order and repeats within the prefix are
	// irrelevant to identity.
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	distinct := make([]string, 0, len(set))
	for t := range set {
		distinct = append(distinct, t)
	}
	sort.Strings(distinct)

	bucket := math.Floor(l.Price/width) * width

	return strings.Join(distinct, "\x1f") + "|" + strconv.FormatFloat(bucket, 'f', -1, 64)
}
