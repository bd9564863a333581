// internal/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS price_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	observed_at TIMESTAMP NOT NULL,
	site       TEXT NOT NULL,
	name       TEXT NOT NULL,
	price      REAL NOT NULL,
	rating     REAL,
	url        TEXT NOT NULL,
	threshold  REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_history_url ON price_history(url);
`

// SQLiteHistory persists price observations in an embedded SQLite
// database, enabling alert queries across the full tracking history.
type SQLiteHistory struct {
	db *sql.DB
}

// OpenSQLiteHistory opens (creating if necessary) the history database.
func OpenSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &SQLiteHistory{db: db}, nil
}

// Append stores one observation.
func (s *SQLiteHistory) Append(rec HistoryRecord) error {
	var rating interface{}
	if rec.Rating != nil {
		rating = *rec.Rating
	}

	_, err := s.db.Exec(
		`INSERT INTO price_history (observed_at, site, name, price, rating, url, threshold)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.Site, rec.Name, rec.Price, rating, rec.URL, rec.Threshold,
	)
	if err != nil {
		return fmt.Errorf("insert history row: %w", err)
	}
	return nil
}

// Alerts returns observations whose price dropped below their threshold,
// newest first. Unknown prices (0) never alert.
func (s *SQLiteHistory) Alerts() ([]HistoryRecord, error) {
	rows, err := s.db.Query(
		`SELECT observed_at, site, name, price, rating, url, threshold
		 FROM price_history
		 WHERE price > 0 AND price < threshold
		 ORDER BY observed_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var observed time.Time
		var rating sql.NullFloat64
		if err := rows.Scan(&observed, &rec.Site, &rec.Name, &rec.Price, &rating, &rec.URL, &rec.Threshold); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		rec.Timestamp = observed
		if rating.Valid {
			rec.Rating = &rating.Float64
		}
		alerts = append(alerts, rec)
	}
	return alerts, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}
