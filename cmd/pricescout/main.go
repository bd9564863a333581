// cmd/pricescout/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pricescout/pricescout/internal/browser"
	"github.com/pricescout/pricescout/internal/config"
	"github.com/pricescout/pricescout/internal/output"
	"github.com/pricescout/pricescout/internal/scraper"
	"github.com/pricescout/pricescout/internal/tracker"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "search":
		runSearch(os.Args[2:])
	case "track":
		runTrack(os.Args[2:])
	case "alerts":
		runAlerts(os.Args[2:])
	case "wishlist":
		runWishlist(os.Args[2:])
	case "version":
		fmt.Printf("pricescout %s (built %s, commit %s)\n", version, buildTime, gitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`PriceScout - multi-marketplace product price search

Usage:
  pricescout search <term> [flags]    Search all marketplaces for a product
  pricescout track <url> [flags]      Track one product page and record its price
  pricescout alerts [flags]           List recorded prices that fell below threshold
  pricescout wishlist <item> [flags]  Save an item to the wishlist
  pricescout version                  Print version information
  pricescout help                     Show this help

Search flags:
  -range   price range: "all", "500-2000" or "500+" (default "all")
  -sort    sort key: "price", "price_desc" or "rating"
  -config  YAML configuration file
  -xlsx    export results to an Excel workbook at this path

Track flags:
  -threshold  alert when the price drops below this value (default 0, never)
  -config     YAML configuration file
  -db         record into this SQLite database instead of the history CSV
`)
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newService assembles the search pipeline from configuration.
func newService(cfg *config.Config, logger *slog.Logger) *scraper.Service {
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
	}, logger, nil)

	deduper := scraper.Deduper{
		TokenPrefix: cfg.Dedup.TokenPrefix,
		BucketWidth: cfg.Dedup.BucketWidth,
	}

	return scraper.NewService(aggregator, deduper, logger, nil)
}

func runSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	priceRange := fs.String("range", "all", "price range: all, lo-hi or lo+")
	sortBy := fs.String("sort", "", "sort key: price, price_desc or rating")
	configFile := fs.String("config", "", "YAML configuration file")
	xlsxPath := fs.String("xlsx", "", "export results to this Excel workbook")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "error: search requires a product term")
		os.Exit(1)
	}
	term := fs.Arg(0)

	cfg := loadConfig(*configFile)
	logger := newLogger(*verbose)
	service := newService(cfg, logger)

	fmt.Printf("Searching for %q across marketplaces...\n", term)
	listings, err := service.SearchAllProducts(context.Background(), term, *priceRange, *sortBy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(listings) == 0 {
		fmt.Println("No products found.")
		return
	}

	printListings(listings)

	if *xlsxPath != "" {
		if err := output.WriteListingsXLSX(*xlsxPath, listings); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nResults exported to %s\n", *xlsxPath)
	}
}

func printListings(listings []scraper.Listing) {
	fmt.Printf("\nFound %d products:\n\n", len(listings))
	for i, l := range listings {
		rating := ""
		if l.Rating != nil {
			rating = fmt.Sprintf("  %.1f★", *l.Rating)
		}
		fmt.Printf("%3d. [%s] %s%s\n", i+1, l.Source, l.Name, rating)
		if l.Price > 0 {
			fmt.Printf("     ₹%.2f\n", l.Price)
		} else {
			fmt.Printf("     price unavailable\n")
		}
		if l.ProductURL != "" {
			fmt.Printf("     %s\n", l.ProductURL)
		}
	}
}

func runTrack(args []string) {
	fs := flag.NewFlagSet("track", flag.ExitOnError)
	threshold := fs.Float64("threshold", 0, "alert when price drops below this value")
	configFile := fs.String("config", "", "YAML configuration file")
	dbPath := fs.String("db", "", "SQLite database path (overrides the history CSV)")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "error: track requires a product URL")
		os.Exit(1)
	}
	url := fs.Arg(0)

	cfg := loadConfig(*configFile)
	logger := newLogger(*verbose)

	retriever := browser.NewChromeRetriever(&browser.Config{
		Headless:          cfg.Browser.IsHeadless(),
		Timeout:           cfg.Browser.Timeout.Std(),
		WaitDelay:         cfg.Browser.WaitDelay.Std(),
		UserAgent:         cfg.Browser.UserAgent,
		RequestsPerSecond: cfg.Browser.RequestsPerSecond,
	})

	var history tracker.HistoryStore
	if *dbPath != "" || cfg.Output.HistoryDB != "" {
		path := *dbPath
		if path == "" {
			path = cfg.Output.HistoryDB
		}
		store, err := output.OpenSQLiteHistory(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		history = store
	} else {
		history = output.NewHistoryCSV(cfg.Output.HistoryCSV)
	}

	t := tracker.New(retriever, history, logger)
	rec, alert, err := t.Track(context.Background(), url, *threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("[%s] %s\n", rec.Site, rec.Name)
	if rec.Price > 0 {
		fmt.Printf("Current price: ₹%.2f\n", rec.Price)
	} else {
		fmt.Println("Current price: unavailable")
	}
	if alert {
		fmt.Printf("DEAL ALERT: price is below your threshold of ₹%.2f\n", rec.Threshold)
	}
}

func runAlerts(args []string) {
	fs := flag.NewFlagSet("alerts", flag.ExitOnError)
	configFile := fs.String("config", "", "YAML configuration file")
	dbPath := fs.String("db", "", "SQLite database path")
	fs.Parse(args)

	cfg := loadConfig(*configFile)
	path := *dbPath
	if path == "" {
		path = cfg.Output.HistoryDB
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "error: alerts requires a history database (-db or output.history_db)")
		os.Exit(1)
	}

	store, err := output.OpenSQLiteHistory(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	alerts, err := store.Alerts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(alerts) == 0 {
		fmt.Println("No deal alerts.")
		return
	}
	for _, a := range alerts {
		fmt.Printf("%s  [%s] %s: ₹%.2f (threshold ₹%.2f)\n",
			a.Timestamp.Format("2006-01-02 15:04"), a.Site, a.Name, a.Price, a.Threshold)
	}
}

func runWishlist(args []string) {
	fs := flag.NewFlagSet("wishlist", flag.ExitOnError)
	user := fs.String("user", "default", "wishlist owner")
	category := fs.String("category", "", "item category")
	threshold := fs.Float64("threshold", 0, "price threshold for the item")
	configFile := fs.String("config", "", "YAML configuration file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "error: wishlist requires an item name")
		os.Exit(1)
	}

	cfg := loadConfig(*configFile)
	now := time.Now()
	entry := output.WishlistEntry{
		UserID:       *user,
		ItemName:     fs.Arg(0),
		Category:     *category,
		Threshold:    *threshold,
		SetDate:      now,
		LastActivity: now,
		TimesVisited: 1,
	}

	wl := output.NewWishlistCSV(cfg.Output.WishlistCSV)
	if err := wl.Append(entry); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Added %q to wishlist (%s)\n", entry.ItemName, cfg.Output.WishlistCSV)
}
