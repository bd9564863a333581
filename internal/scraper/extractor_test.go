// internal/scraper/extractor_test.go
package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func fragment(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	return doc.Selection
}

func TestFieldSpecFallbackOrder(t *testing.T) {
	frag := fragment(t, `<div><span class="new">current</span><span class="old">legacy</span></div>`)

	fs := Text("span.new", "span.old")
	got, ok := fs.Extract(frag)
	if !ok || got != "current" {
		t.Errorf("expected first chain entry to win, got %q (ok=%v)", got, ok)
	}
}

func TestFieldSpecFallsThroughMissingSelectors(t *testing.T) {
	frag := fragment(t, `<div><span class="old">legacy</span></div>`)

	fs := Text("span.new", "span.old")
	got, ok := fs.Extract(frag)
	if !ok || got != "legacy" {
		t.Errorf("expected fallback to legacy selector, got %q (ok=%v)", got, ok)
	}
}

func TestFieldSpecSkipsEmptyMatches(t *testing.T) {
	// A matching element with only whitespace does not satisfy the chain.
	frag := fragment(t, `<div><span class="new">   </span><span class="old">legacy</span></div>`)

	fs := Text("span.new", "span.old")
	got, ok := fs.Extract(frag)
	if !ok || got != "legacy" {
		t.Errorf("expected whitespace match to be skipped, got %q (ok=%v)", got, ok)
	}
}

func TestFieldSpecAttrExtraction(t *testing.T) {
	frag := fragment(t, `<div><a href="/product/123">name</a></div>`)

	fs := Attr("href", "a")
	got, ok := fs.Extract(frag)
	if !ok || got != "/product/123" {
		t.Errorf("expected href value, got %q (ok=%v)", got, ok)
	}
}

func TestFieldSpecAttrMissingAttribute(t *testing.T) {
	// Element matches but lacks the attribute; the chain moves on.
	frag := fragment(t, `<div><img class="a"><img class="b" src="pic.jpg"></div>`)

	fs := Attr("src", "img.a", "img.b")
	got, ok := fs.Extract(frag)
	if !ok || got != "pic.jpg" {
		t.Errorf("expected fallback past attribute-less element, got %q (ok=%v)", got, ok)
	}
}

func TestFieldSpecAbsence(t *testing.T) {
	frag := fragment(t, `<div><p>unrelated</p></div>`)

	fs := Text("span.price")
	got, ok := fs.Extract(frag)
	if ok || got != "" {
		t.Errorf("expected no match, got %q (ok=%v)", got, ok)
	}
}

func TestFieldSpecFirstElementOnly(t *testing.T) {
	frag := fragment(t, `<div><span class="p">one</span><span class="p">two</span></div>`)

	fs := Text("span.p")
	got, ok := fs.Extract(frag)
	if !ok || got != "one" {
		t.Errorf("expected first matching element, got %q (ok=%v)", got, ok)
	}
}
