package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/forum-insights/internal/types"
)

// StoredPost is a persisted forum post with analysis results, if any.
type StoredPost struct {
	ID             uuid.UUID
	RunID          uuid.UUID
	URL            string
	Title          string
	Content        string
	HTMLContent    string
	Author         string
	Excerpt        string
	Category       string
	PostedAt       string // timestamp string as scraped, not normalized
	Thread         types.ThreadData
	SentimentLabel *string
	SentimentScore *float64
	Keywords       []string
	AnalyzedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScrapeRun is one recorded invocation of the crawler.
type ScrapeRun struct {
	ID          uuid.UUID
	Status      string
	Categories  []string
	PostCount   int
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
