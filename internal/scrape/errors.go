// Package scrape extracts post links, thread content, and pagination targets
// from server-rendered forum HTML. Every extraction walks an ordered chain of
// CSS selectors and uses the first pattern that yields matches; the chains
// cover several forum template generations and are the resilience mechanism
// against template drift.
package scrape

import "fmt"

// ListingError represents a failure in parsing a forum listing page.
type ListingError struct {
	Message string
	Cause   error
}

func (e *ListingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("listing parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("listing parse error: %s", e.Message)
}

func (e *ListingError) Unwrap() error {
	return e.Cause
}

// DetailError represents a failure in parsing a post detail page. The caller
// drops the affected post and continues the batch.
type DetailError struct {
	URL     string
	Message string
	Cause   error
}

func (e *DetailError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("detail parse error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("detail parse error for %s: %s", e.URL, e.Message)
}

func (e *DetailError) Unwrap() error {
	return e.Cause
}

// ProfileError represents a failure loading an external selector profile.
type ProfileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ProfileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("selector profile error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("selector profile error (%s): %s", e.Path, e.Message)
}

func (e *ProfileError) Unwrap() error {
	return e.Cause
}
