package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var pageSegmentRegex = regexp.MustCompile(`/page/(\d+)`)

// FindNextPage determines the URL of the next listing page, or "" when there
// is none. An empty result is the crawl-termination signal, not an error.
//
// Priority order, first match wins:
//  1. an anchor whose visible text, lower-cased, is exactly a known
//     next-page label;
//  2. a structural next-page anchor whose href contains /page/<n+1>, where n
//     is the page number parsed from currentURL (1 when absent), including an
//     anchor with aria-label "Page <n+1>";
//  3. any same-host anchor whose href contains /page/<n+1>.
func FindNextPage(htmlContent, currentURL string, sel *Selectors) (string, error) {
	if sel == nil {
		sel = DefaultSelectors()
	}

	current, err := url.Parse(currentURL)
	if err != nil || current.Scheme == "" || current.Host == "" {
		return "", &ListingError{Message: "invalid current URL: " + currentURL, Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", &ListingError{Message: "failed to parse HTML", Cause: err}
	}

	// 1. Exact next-link text.
	var next string
	doc.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(anchor.Text()))
		for _, label := range sel.NextPageText {
			if text == label {
				if href, ok := anchor.Attr("href"); ok && href != "" {
					next = resolveHref(current, href)
					return false
				}
			}
		}
		return true
	})
	if next != "" {
		return next, nil
	}

	nextPage := pageNumberFromURL(currentURL) + 1
	segment := fmt.Sprintf("/page/%d", nextPage)

	// 2. Structural selectors, href still has to carry the expected segment.
	structural := append([]string{}, sel.NextPage...)
	structural = append(structural, fmt.Sprintf("a[aria-label='Page %d']", nextPage))
	for _, pattern := range structural {
		found := ""
		doc.Find(pattern).EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
			if href, ok := anchor.Attr("href"); ok && strings.Contains(href, segment) {
				found = resolveHref(current, href)
				return false
			}
			return true
		})
		if found != "" {
			return found, nil
		}
	}

	// 3. Same-host anchor scan, guards against matching unrelated sites.
	doc.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, ok := anchor.Attr("href")
		if !ok || !strings.Contains(href, segment) {
			return true
		}
		linkURL, err := url.Parse(href)
		if err != nil {
			return true
		}
		resolved := current.ResolveReference(linkURL)
		if resolved.Host != current.Host {
			return true
		}
		next = resolved.String()
		return false
	})

	return next, nil
}

// pageNumberFromURL parses the current page number from a /page/<n>/ path
// segment, defaulting to 1 when absent.
func pageNumberFromURL(urlStr string) int {
	match := pageSegmentRegex.FindStringSubmatch(urlStr)
	if match == nil {
		return 1
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func resolveHref(base *url.URL, href string) string {
	linkURL, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(linkURL).String()
}
