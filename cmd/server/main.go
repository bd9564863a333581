// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pricescout/pricescout/internal/browser"
	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/monitoring"
	"github.com/pricescout/pricescout/internal/output"
	"github.com/pricescout/pricescout/internal/scraper"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	configFile := flag.String("config", "", "YAML configuration file")
	address := flag.String("address", "", "listen address (overrides configuration)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pricescout-server %s (built %s, commit %s)\n", version, buildTime, gitCommit)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadFromFile(*configFile)
		if err != nil {
			logger.Error("configuration load failed", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *address != "" {
		cfg.Server.Address = *address
	}

	metrics := monitoring.New("pricescout")
	service := buildService(cfg, logger, metrics)

	var alerts AlertStore
	if cfg.Output.HistoryDB != "" {
		store, err := output.OpenSQLiteHistory(cfg.Output.HistoryDB)
		if err != nil {
			logger.Error("history database open failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		alerts = store
	}

	app := &App{
		Searcher: service,
		Alerts:   alerts,
		Metrics:  metrics,
		Logger:   logger,
	}

	handler := rateLimitMiddleware(cfg.Server.RequestsPerSecond, cfg.Server.Burst, app.Routes())

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

// buildService assembles the search pipeline the same way the CLI does.
func buildService(cfg *config.Config, logger *slog.Logger, metrics *monitoring.Metrics) *scraper.Service {
	retriever := browser.NewChromeRetriever(&browser.Config{
		Headless:          cfg.Browser.IsHeadless(),
		Timeout:           cfg.Browser.Timeout.Std(),
		WaitDelay:         cfg.Browser.WaitDelay.Std(),
		UserAgent:         cfg.Browser.UserAgent,
		RequestsPerSecond: cfg.Browser.RequestsPerSecond,
	})

	var adapters []scraper.SourceAdapter
	for _, spec := range scraper.SpecsFor(cfg.Sources) {
		spec.MaxFragments = cfg.Scraper.MaxFragments
		adapters = append(adapters, scraper.NewSiteAdapter(spec, retriever, logger))
	}

	aggregator := scraper.NewAggregator(adapters, scraper.AggregatorConfig{
		AdapterTimeout: cfg.Scraper.AdapterTimeout.Std(),
		StaggerMin:     cfg.Scraper.StaggerMin.Std(),
		StaggerMax:     cfg.Scraper.StaggerMax.Std(),
	}, logger, metrics)

	deduper := scraper.Deduper{
		TokenPrefix: cfg.Dedup.TokenPrefix,
		BucketWidth: cfg.Dedup.BucketWidth,
	}

	return scraper.NewService(aggregator, deduper, logger, metrics)
}
