// Package fetch provides HTTP page retrieval with retry, progressive backoff,
// and soft-block (bot detection) handling for forum crawling.
package fetch

import (
	"errors"
	"fmt"
)

// ErrBlocked indicates the target responded with HTTP 403, interpreted as
// anti-bot defense rather than a permanent failure.
var ErrBlocked = errors.New("request blocked by target site")

// ErrUnavailable indicates the page could not be retrieved after all retries
// were exhausted (timeouts, connection errors, non-200 statuses).
var ErrUnavailable = errors.New("page unavailable")

// Error represents a failure to fetch a URL.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsBlocked reports whether err was ultimately caused by a soft block.
func IsBlocked(err error) bool {
	return errors.Is(err, ErrBlocked)
}
