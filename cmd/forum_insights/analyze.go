package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/forum-insights/internal/analysis"
	"github.com/jonathan/forum-insights/internal/db"
	"github.com/jonathan/forum-insights/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run sentiment analysis over stored posts",
	Long:  "Analyzes stored posts that have no sentiment results yet and writes labels, scores, and keywords back to the database.",
	RunE:  runAnalyze,
}

var (
	analyzeDatabaseURL string
	analyzeAPIKey      string
	analyzeModel       string
	analyzeLimit       int
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "database-url", "", "PostgreSQL URL (overrides DATABASE_URL env var)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Gemini model name (default: "+analysis.DefaultModel+")")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 50, "Maximum number of posts to analyze")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	databaseURL := analyzeDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL required: set --database-url flag or DATABASE_URL environment variable")
	}

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key required: set --api-key flag or GEMINI_API_KEY environment variable")
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	posts, err := database.ListUnanalyzedPosts(ctx, analyzeLimit)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No posts pending analysis")
		return nil
	}

	analyzer, err := analysis.NewGeminiAnalyzer(ctx, apiKey, analyzeModel)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer func() { _ = analyzer.Close() }()

	analyzed := 0
	failed := 0
	for i := range posts {
		post := &posts[i]
		record := &types.PostRecord{
			Title:    post.Title,
			Content:  post.Content,
			URL:      post.URL,
			Category: post.Category,
		}

		result, err := analyzer.AnalyzePost(ctx, record)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "analysis failed for %s: %v\n", post.URL, err)
			failed++
			continue
		}

		if err := database.SaveAnalysis(ctx, post.ID, result.SentimentLabel, result.SentimentScore, result.Keywords); err != nil {
			return err
		}
		analyzed++
	}

	_, _ = fmt.Fprintf(os.Stdout, "Analyzed %d posts (%d failed)\n", analyzed, failed)
	return nil
}
