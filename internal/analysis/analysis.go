// Package analysis provides the downstream analyzer contract for scraped
// forum posts and a Gemini-backed sentiment implementation. The crawl core
// only produces records; analyzers consume them after the fact.
package analysis

import (
	"context"
	"fmt"

	"github.com/jonathan/forum-insights/internal/types"
)

// Sentiment labels an analyzer may assign.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Result is the outcome of analyzing a single post.
type Result struct {
	SentimentLabel string   `json:"sentiment"`
	SentimentScore float64  `json:"score"` // 0.0 (most negative) to 1.0 (most positive)
	Keywords       []string `json:"keywords"`
}

// Analyzer analyzes scraped posts. Vision and business-intelligence
// analyzers plug in behind this same contract.
type Analyzer interface {
	// AnalyzePost analyzes a single post record.
	AnalyzePost(ctx context.Context, record *types.PostRecord) (*Result, error)
	// Close releases any resources held by the analyzer.
	Close() error
}

// Error represents an analysis failure.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
