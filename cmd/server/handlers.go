// cmd/server/handlers.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/pricescout/pricescout/internal/monitoring"
	"github.com/pricescout/pricescout/internal/output"
	"github.com/pricescout/pricescout/internal/scraper"
)

// Searcher runs an aggregated product search. *scraper.Service satisfies it;
// tests substitute a canned implementation.
type Searcher interface {
	SearchAllProducts(ctx context.Context, term, priceRange, sortBy string) ([]scraper.Listing, error)
}

// AlertStore lists recorded observations below their alert threshold.
type AlertStore interface {
	Alerts() ([]output.HistoryRecord, error)
}

// App holds the server's dependencies.
type App struct {
	Searcher Searcher
	Alerts   AlertStore
	Metrics  *monitoring.Metrics
	Logger   *slog.Logger
}

// Routes builds the API router.
func (a *App) Routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", a.healthHandler).Methods("GET")
	if a.Metrics != nil {
		r.Handle("/metrics", a.Metrics.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/search", a.searchHandler).Methods("POST")
	api.HandleFunc("/alerts", a.alertsHandler).Methods("GET")

	return r
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

type searchRequest struct {
	ProductName string `json:"product_name"`
	PriceRange  string `json:"price_range"`
	SortBy      string `json:"sort_by"`
}

type searchResponse struct {
	Products []scraper.Listing `json:"products"`
	Count    int               `json:"count"`
}

func (a *App) searchHandler(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	listings, err := a.Searcher.SearchAllProducts(r.Context(), req.ProductName, req.PriceRange, req.SortBy)
	if err != nil {
		switch {
		case errors.Is(err, scraper.ErrEmptyQuery), errors.Is(err, scraper.ErrBadPriceRange):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			a.Logger.Error("search failed", "error", err)
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	if listings == nil {
		listings = []scraper.Listing{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Products: listings,
		Count:    len(listings),
	})
}

func (a *App) alertsHandler(w http.ResponseWriter, r *http.Request) {
	if a.Alerts == nil {
		writeError(w, http.StatusNotFound, "price tracking is not enabled")
		return
	}

	alerts, err := a.Alerts.Alerts()
	if err != nil {
		a.Logger.Error("alerts query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "alerts query failed")
		return
	}
	if alerts == nil {
		alerts = []output.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// rateLimitMiddleware applies a global token-bucket limit to all requests.
func rateLimitMiddleware(rps float64, burst int, next http.Handler) http.Handler {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
