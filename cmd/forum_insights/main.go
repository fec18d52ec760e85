// Package main provides the forum_insights CLI: crawl configured forum
// categories, persist the extracted posts, and run sentiment analysis over
// stored posts.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forum_insights",
	Short: "Forum scraping and analysis CLI",
	Long:  "Forum Insights crawls discussion-forum categories, extracts post and thread content, and hands the records to storage and sentiment analysis.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
