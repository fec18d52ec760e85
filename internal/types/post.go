// Package types provides type definitions for structured data shared across the forum-insights system.
package types

import "time"

// PostLink is a candidate post discovered on a forum listing page.
// Links are produced by the listing parser and consumed once by the
// detail parser; they are never persisted by the crawl core.
type PostLink struct {
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	DiscoveredAt time.Time `json:"discovered_at"` // UTC
}

// ThreadData holds thread-level metadata extracted from a detail page.
type ThreadData struct {
	TotalReplies        int      `json:"total_replies"`
	HasAcceptedSolution bool     `json:"has_accepted_solution"`
	SolutionPosition    int      `json:"solution_position"` // index into the message sequence, -1 when absent
	Participants        []string `json:"participants"`      // deduplicated author names, first-seen order
}

// PostRecord is the unit handed to downstream collaborators (storage,
// sentiment/vision analysis). HTMLContent preserves the raw HTML of the
// primary message, bounded in size, so image extraction can still find
// <img> tags after the plain text has been flattened.
type PostRecord struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	HTMLContent string     `json:"html_content"`
	Author      string     `json:"author"`
	URL         string     `json:"url"`
	Excerpt     string     `json:"excerpt"` // Content truncated to at most 500 chars
	Date        string     `json:"date"`    // timestamp string as shown on the page, may be empty
	Category    string     `json:"category"`
	Thread      ThreadData `json:"thread"`
}
