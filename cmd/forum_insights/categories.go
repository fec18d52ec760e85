package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jonathan/forum-insights/internal/crawl"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the configured forum categories",
	RunE:  runCategories,
}

var categoriesConfigPath string

func init() {
	categoriesCmd.Flags().StringVarP(&categoriesConfigPath, "config", "c", "", "Path to JSON crawl config (required)")

	if err := categoriesCmd.MarkFlagRequired("config"); err != nil {
		panic(fmt.Sprintf("failed to mark config flag as required: %v", err))
	}

	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	cfg, err := crawl.LoadConfig(categoriesConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load crawl config: %w", err)
	}

	names := make([]string, 0, len(cfg.Categories))
	for name := range cfg.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, _ = fmt.Fprintf(os.Stdout, "%-20s %s\n", name, cfg.Categories[name])
	}
	_, _ = fmt.Fprintf(os.Stdout, "\n%d categories, max %d posts / %d pages per category, base delay %.1fs\n",
		len(names), cfg.MaxPostsPerCategory, cfg.MaxPagesPerCategory, cfg.BaseDelaySeconds)

	return nil
}
