package crawl

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/jonathan/forum-insights/internal/fetch"
	"github.com/jonathan/forum-insights/internal/scrape"
	"github.com/jonathan/forum-insights/internal/types"
)

// Fetcher retrieves the HTML of a page. *fetch.Client satisfies this; tests
// substitute canned responses.
type Fetcher interface {
	Fetch(ctx context.Context, urlStr, referer string) (*fetch.Result, error)
}

// Crawler walks the configured categories sequentially: listing pages in
// ascending page order, then each discovered post's detail page, with
// politeness delays between requests. Categories share one fetch client and
// one State, so URL dedup spans the whole run.
type Crawler struct {
	cfg       *Config
	fetcher   Fetcher
	selectors *scrape.Selectors
	state     *State
}

// New creates a crawler. A nil selectors argument uses the built-in chains.
func New(cfg *Config, fetcher Fetcher, selectors *scrape.Selectors) *Crawler {
	if selectors == nil {
		selectors = scrape.DefaultSelectors()
	}
	return &Crawler{
		cfg:       cfg,
		fetcher:   fetcher,
		selectors: selectors,
		state:     NewState(),
	}
}

// State exposes the run state for summaries.
func (c *Crawler) State() *State {
	return c.state
}

// ScrapeCategory crawls one category's listing pages and detail pages,
// returning the extracted post records in discovery order. Fetch failures end
// pagination or skip single posts; they never surface as errors. An error is
// returned only for an unknown category or a cancelled context.
func (c *Crawler) ScrapeCategory(ctx context.Context, category string) ([]types.PostRecord, error) {
	baseURL, ok := c.cfg.Categories[category]
	if !ok {
		return nil, &Error{Category: category, Message: "unknown category"}
	}

	links := c.collectLinks(ctx, category, baseURL)
	if len(links) > c.cfg.MaxPostsPerCategory {
		links = links[:c.cfg.MaxPostsPerCategory]
	}
	log.Printf("[crawl] category %q: %d links discovered", category, len(links))

	records := make([]types.PostRecord, 0, len(links))
	for _, link := range links {
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		if record := c.fetchDetail(ctx, link, baseURL); record != nil {
			records = append(records, *record)
			c.state.PostsCollected++
		}

		// The delay applies to skipped posts too; a failed fetch still hit
		// the target site.
		if err := c.politenessDelay(ctx, c.cfg.BaseDelay()); err != nil {
			return records, err
		}
	}

	log.Printf("[crawl] category %q: %d posts extracted", category, len(records))
	return records, nil
}

// ScrapeAllCategories crawls every configured category sequentially with an
// inter-category delay, in deterministic name order. A failing category is
// logged and contributes an empty list; siblings are unaffected.
func (c *Crawler) ScrapeAllCategories(ctx context.Context) map[string][]types.PostRecord {
	names := make([]string, 0, len(c.cfg.Categories))
	for name := range c.cfg.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string][]types.PostRecord, len(names))
	for i, name := range names {
		records, err := c.ScrapeCategory(ctx, name)
		if err != nil {
			log.Printf("[crawl] category %q failed: %v", name, err)
			results[name] = []types.PostRecord{}
			if ctx.Err() != nil {
				return results
			}
			continue
		}
		results[name] = records

		if i < len(names)-1 {
			if err := c.politenessDelay(ctx, categoryDelayFactor*c.cfg.BaseDelay()); err != nil {
				return results
			}
		}
	}
	return results
}

// fetchDetail retrieves and parses one post's detail page, or nil when the
// post is skipped. Skips are logged, never propagated.
func (c *Crawler) fetchDetail(ctx context.Context, link types.PostLink, referer string) *types.PostRecord {
	result, err := c.fetcher.Fetch(ctx, link.URL, referer)
	if err != nil {
		log.Printf("[crawl] skipping post %s: %v", link.URL, err)
		return nil
	}

	record, err := scrape.ParseDetail(result.HTML, link.URL, c.selectors)
	if err != nil {
		log.Printf("[crawl] dropping post %s: %v", link.URL, err)
		return nil
	}

	record.Category = link.Category
	return record
}

// collectLinks drives the listing parser and the pagination discoverer in a
// loop bounded by the page and post limits. Pagination stops on fetch
// failure, an empty page, a missing next link, or a next link that points
// back at the current page.
func (c *Crawler) collectLinks(ctx context.Context, category, baseURL string) []types.PostLink {
	var links []types.PostLink
	currentURL := baseURL
	referer := ""

	for page := 1; page <= c.cfg.MaxPagesPerCategory && len(links) < c.cfg.MaxPostsPerCategory; page++ {
		result, err := c.fetcher.Fetch(ctx, currentURL, referer)
		if err != nil {
			log.Printf("[crawl] category %q: listing fetch failed on page %d: %v", category, page, err)
			break
		}
		c.state.PagesVisited++

		pageLinks, err := scrape.ParseListing(result.HTML, currentURL, category, c.selectors, c.state.Seen)
		if err != nil {
			log.Printf("[crawl] category %q: listing parse failed on page %d: %v", category, page, err)
			break
		}
		if len(pageLinks) == 0 {
			break
		}
		links = append(links, pageLinks...)

		next, err := scrape.FindNextPage(result.HTML, currentURL, c.selectors)
		if err != nil || next == "" || next == currentURL {
			break
		}

		if err := c.politenessDelay(ctx, pageDelayFactor*c.cfg.BaseDelay()+pageJitter()); err != nil {
			break
		}
		referer = currentURL
		currentURL = next
	}

	return links
}

// politenessDelay sleeps for d or until ctx is cancelled. A zero base delay
// disables politeness sleeps entirely.
func (c *Crawler) politenessDelay(ctx context.Context, d time.Duration) error {
	if c.cfg.BaseDelaySeconds <= 0 || d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func pageJitter() time.Duration {
	return time.Duration(rand.Int63n(int64(time.Second)))
}
