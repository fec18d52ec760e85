package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/forum-insights/internal/crawl"
	"github.com/jonathan/forum-insights/internal/db"
	"github.com/jonathan/forum-insights/internal/fetch"
	"github.com/jonathan/forum-insights/internal/scrape"
	"github.com/jonathan/forum-insights/internal/types"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Crawl the configured forum categories",
	Long:  "Crawls every configured category (or a single one with --category), extracts post records, writes them as JSON, and optionally persists them to PostgreSQL.",
	RunE:  runScrape,
}

var (
	scrapeConfigPath    string
	scrapeCategory      string
	scrapeMaxPosts      int
	scrapeMaxPages      int
	scrapeDelaySeconds  float64
	scrapeOutputDir     string
	scrapeSelectorsPath string
	scrapeDatabaseURL   string
)

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeConfigPath, "config", "c", "", "Path to JSON crawl config (required)")
	scrapeCmd.Flags().StringVar(&scrapeCategory, "category", "", "Scrape a single category instead of all")
	scrapeCmd.Flags().IntVar(&scrapeMaxPosts, "max-posts", 0, "Override max posts per category")
	scrapeCmd.Flags().IntVar(&scrapeMaxPages, "max-pages", 0, "Override max listing pages per category")
	scrapeCmd.Flags().Float64Var(&scrapeDelaySeconds, "delay", 0, "Override base politeness delay in seconds")
	scrapeCmd.Flags().StringVarP(&scrapeOutputDir, "out", "o", "", "Output directory for JSON results (required)")
	scrapeCmd.Flags().StringVar(&scrapeSelectorsPath, "selectors", "", "Path to a JSON selector profile overriding the built-in chains")
	scrapeCmd.Flags().StringVar(&scrapeDatabaseURL, "database-url", "", "PostgreSQL URL (overrides DATABASE_URL env var); when set, results are persisted")

	if err := scrapeCmd.MarkFlagRequired("config"); err != nil {
		panic(fmt.Sprintf("failed to mark config flag as required: %v", err))
	}
	if err := scrapeCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(_ *cobra.Command, _ []string) error {
	cfg, err := crawl.LoadConfig(scrapeConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load crawl config: %w", err)
	}
	applyOverrides(cfg, scrapeMaxPosts, scrapeMaxPages, scrapeDelaySeconds)
	if err := cfg.Validate(); err != nil {
		return err
	}

	selectors, err := loadSelectors(scrapeSelectorsPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(scrapeOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", scrapeOutputDir, err)
	}

	fetcher := fetch.NewClient(&fetch.Options{BaseDelay: cfg.BaseDelay()})
	crawler := crawl.New(cfg, fetcher, selectors)
	ctx := context.Background()

	started := time.Now()
	var results map[string][]types.PostRecord
	if scrapeCategory != "" {
		records, err := crawler.ScrapeCategory(ctx, scrapeCategory)
		if err != nil {
			return fmt.Errorf("failed to scrape category %q: %w", scrapeCategory, err)
		}
		results = map[string][]types.PostRecord{scrapeCategory: records}
	} else {
		results = crawler.ScrapeAllCategories(ctx)
	}

	total := 0
	for _, records := range results {
		total += len(records)
	}

	if err := writeResults(scrapeOutputDir, results); err != nil {
		return err
	}

	databaseURL := scrapeDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL != "" {
		if err := persistResults(ctx, databaseURL, results); err != nil {
			return err
		}
	}

	state := crawler.State()
	_, _ = fmt.Fprintf(os.Stdout, "Scraped %d posts across %d categories in %s\n",
		total, len(results), time.Since(started).Round(time.Second))
	_, _ = fmt.Fprintf(os.Stdout, "Pages visited: %d, unique URLs seen: %d\n",
		state.PagesVisited, len(state.Seen))
	_, _ = fmt.Fprintf(os.Stdout, "Results: %s\n", scrapeOutputDir)

	return nil
}

// applyOverrides applies non-zero CLI flag values over the file config.
func applyOverrides(cfg *crawl.Config, maxPosts, maxPages int, delaySeconds float64) {
	if maxPosts > 0 {
		cfg.MaxPostsPerCategory = maxPosts
	}
	if maxPages > 0 {
		cfg.MaxPagesPerCategory = maxPages
	}
	if delaySeconds > 0 {
		cfg.BaseDelaySeconds = delaySeconds
	}
}

func loadSelectors(path string) (*scrape.Selectors, error) {
	if path == "" {
		return nil, nil
	}
	selectors, err := scrape.LoadSelectors(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load selector profile: %w", err)
	}
	return selectors, nil
}

// writeResults writes one JSON file per category.
func writeResults(outDir string, results map[string][]types.PostRecord) error {
	for category, records := range results {
		path := filepath.Join(outDir, categoryFileName(category))
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records for %q: %w", category, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// categoryFileName derives a safe output file name from a category name.
func categoryFileName(category string) string {
	name := strings.ToLower(category)
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, name)
	return name + ".posts.json"
}

func persistResults(ctx context.Context, databaseURL string, results map[string][]types.PostRecord) error {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	categories := make([]string, 0, len(results))
	var all []types.PostRecord
	for category, records := range results {
		categories = append(categories, category)
		all = append(all, records...)
	}
	sort.Strings(categories)

	runID, err := database.CreateRun(ctx, categories)
	if err != nil {
		return err
	}

	stored, saveErr := database.SavePosts(ctx, runID, all)

	status := db.RunStatusCompleted
	if saveErr != nil {
		status = db.RunStatusFailed
	}
	if err := database.CompleteRun(ctx, runID, status, stored); err != nil {
		return err
	}
	if saveErr != nil {
		return fmt.Errorf("stored %d of %d posts: %w", stored, len(all), saveErr)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Persisted %d posts (run %s)\n", stored, runID)
	return nil
}
