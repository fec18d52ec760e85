// Package crawl drives the listing and detail parsers across paginated forum
// categories, bounded by page and post limits, with politeness delays between
// requests.
package crawl

import "fmt"

// Error represents a category-level crawl failure. ScrapeAllCategories
// recovers these at the category boundary; sibling categories are unaffected.
type Error struct {
	Category string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("crawl error for category %q: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("crawl error for category %q: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
