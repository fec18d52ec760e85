package scrape

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/forum-insights/internal/types"
)

// MaxLinksPerPage caps the number of post links taken from a single listing page.
const MaxLinksPerPage = 20

// ParseListing extracts post links from a forum listing page. The selector
// chain is walked in order and the first pattern producing matches is used
// exclusively. Anchors with empty text are skipped. seen holds every URL
// already discovered in this run; matching URLs are skipped and newly
// discovered ones are added, so no URL is ever emitted twice per run.
func ParseListing(htmlContent, baseURL, category string, sel *Selectors, seen map[string]bool) ([]types.PostLink, error) {
	if sel == nil {
		sel = DefaultSelectors()
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &ListingError{Message: "invalid base URL: " + baseURL, Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &ListingError{Message: "failed to parse HTML", Cause: err}
	}

	var matches *goquery.Selection
	for _, pattern := range sel.Listing {
		if found := doc.Find(pattern); found.Length() > 0 {
			matches = found
			break
		}
	}
	if matches == nil {
		// Structural mismatch is a termination signal, not an error.
		return nil, nil
	}

	links := make([]types.PostLink, 0, MaxLinksPerPage)
	matches.EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		if len(links) >= MaxLinksPerPage {
			return false
		}

		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return true
		}

		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return true
		}
		linkURL, err := url.Parse(href)
		if err != nil {
			return true
		}
		absolute := base.ResolveReference(linkURL)
		absolute.Fragment = ""
		urlStr := absolute.String()

		if seen[urlStr] {
			return true
		}
		seen[urlStr] = true

		links = append(links, types.PostLink{
			URL:          urlStr,
			Title:        title,
			Category:     category,
			DiscoveredAt: time.Now().UTC(),
		})
		return true
	})

	return links, nil
}
