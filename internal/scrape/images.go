package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractImageURLs returns the absolute URLs of inline images found in an
// HTML fragment, deduplicated in document order. Callers run it over a
// record's preserved HTMLContent. Data URIs and unresolvable sources are
// skipped.
func ExtractImageURLs(htmlContent, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var urls []string
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		srcURL, err := url.Parse(src)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(srcURL).String()
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		urls = append(urls, resolved)
	})
	return urls
}
