// internal/output/csv_test.go
package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestHistoryCSVAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	h := NewHistoryCSV(path)

	rating := 4.2
	rec := HistoryRecord{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Site:      "Amazon",
		Name:      "Gaming Mouse Pro",
		Price:     1499,
		Rating:    &rating,
		URL:       "https://example.com/p/1",
		Threshold: 1200,
	}

	if err := h.Append(rec); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := h.Append(rec); err != nil {
		t.Fatalf("second append: %v", err)
	}

	rows := readCSV(t, path)
	// Header written exactly once, then one row per append.
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][1] != "site" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "Amazon" || rows[1][2] != "Gaming Mouse Pro" || rows[1][3] != "1499" {
		t.Errorf("unexpected row: %v", rows[1])
	}
	if rows[1][4] != "4.2" {
		t.Errorf("rating = %q", rows[1][4])
	}
}

func TestHistoryCSVNilRating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	h := NewHistoryCSV(path)

	rec := HistoryRecord{
		Timestamp: time.Now(),
		Site:      "Meesho",
		Name:      "Mystery Mouse",
		URL:       "https://example.com/p/2",
	}
	if err := h.Append(rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows := readCSV(t, path)
	if rows[1][4] != "" {
		t.Errorf("absent rating must serialize empty, got %q", rows[1][4])
	}
}

func TestWishlistCSVAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wishlist.csv")
	wl := NewWishlistCSV(path)

	entry := WishlistEntry{
		UserID:       "alice",
		ItemName:     "mechanical keyboard",
		Category:     "peripherals",
		Threshold:    3500,
		SetDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		LastActivity: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		TimesVisited: 3,
	}
	if err := wl.Append(entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][0] != "alice" || rows[1][1] != "mechanical keyboard" || rows[1][6] != "3" {
		t.Errorf("unexpected row: %v", rows[1])
	}
}

func TestBelowThreshold(t *testing.T) {
	tests := []struct {
		name     string
		rec      HistoryRecord
		expected bool
	}{
		{"below", HistoryRecord{Price: 999, Threshold: 1200}, true},
		{"above", HistoryRecord{Price: 1500, Threshold: 1200}, false},
		{"equal", HistoryRecord{Price: 1200, Threshold: 1200}, false},
		{"unknown price", HistoryRecord{Price: 0, Threshold: 1200}, false},
		{"no threshold", HistoryRecord{Price: 999, Threshold: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.BelowThreshold(); got != tt.expected {
				t.Errorf("BelowThreshold() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
