// internal/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// HistoryRecord is one tracked price observation for a product URL.
type HistoryRecord struct {
	Timestamp time.Time
	Site      string
	Name      string
	Price     float64
	Rating    *float64
	URL       string
	Threshold float64
}

// BelowThreshold reports whether this observation should raise a deal
// alert.
func (r HistoryRecord) BelowThreshold() bool {
	return r.Price > 0 && r.Price < r.Threshold
}

// WishlistEntry is one saved wishlist row.
type WishlistEntry struct {
	UserID       string
	ItemName     string
	Category     string
	Threshold    float64
	SetDate      time.Time
	LastActivity time.Time
	TimesVisited int
}

var historyHeader = []string{"timestamp", "site", "name", "price", "rating", "url", "threshold"}

// HistoryCSV appends price observations to a CSV file, writing the header
// only when the file is new or empty.
type HistoryCSV struct {
	path string
}

func NewHistoryCSV(path string) *HistoryCSV {
	return &HistoryCSV{path: path}
}

// Append adds one observation to the history file.
func (h *HistoryCSV) Append(rec HistoryRecord) error {
	file, needHeader, err := openAppend(h.path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if needHeader {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("write history header: %w", err)
		}
	}

	rating := ""
	if rec.Rating != nil {
		rating = strconv.FormatFloat(*rec.Rating, 'f', -1, 64)
	}

	row := []string{
		rec.Timestamp.Format("2006-01-02 15:04:05"),
		rec.Site,
		rec.Name,
		strconv.FormatFloat(rec.Price, 'f', -1, 64),
		rating,
		rec.URL,
		strconv.FormatFloat(rec.Threshold, 'f', -1, 64),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write history row: %w", err)
	}

	w.Flush()
	return w.Error()
}

var wishlistHeader = []string{"user_id", "item_name", "category", "price_threshold", "set_date", "last_activity", "times_visited"}

// WishlistCSV appends wishlist entries to a CSV file.
type WishlistCSV struct {
	path string
}

func NewWishlistCSV(path string) *WishlistCSV {
	return &WishlistCSV{path: path}
}

// Append adds one wishlist entry.
func (wl *WishlistCSV) Append(entry WishlistEntry) error {
	file, needHeader, err := openAppend(wl.path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if needHeader {
		if err := w.Write(wishlistHeader); err != nil {
			return fmt.Errorf("write wishlist header: %w", err)
		}
	}

	row := []string{
		entry.UserID,
		entry.ItemName,
		entry.Category,
		strconv.FormatFloat(entry.Threshold, 'f', -1, 64),
		entry.SetDate.Format("2006-01-02"),
		entry.LastActivity.Format("2006-01-02"),
		strconv.Itoa(entry.TimesVisited),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write wishlist row: %w", err)
	}

	w.Flush()
	return w.Error()
}

// openAppend opens path for appending and reports whether the header still
// needs to be written.
func openAppend(path string) (*os.File, bool, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}

	return file, info.Size() == 0, nil
}
