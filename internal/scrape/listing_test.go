package scrape

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListing_XenForoListing(t *testing.T) {
	html := `
	<html><body>
		<div class="structItem-title"><a href="/threads/payment-failed.101/">Payment failed after update</a></div>
		<div class="structItem-title"><a href="/threads/sync-issue.102/">Sync issue with mobile app</a></div>
		<div class="structItem-title"><a href="/threads/howto-export.103/">How to export reports?</a></div>
		<div class="structItem-title"><a href="/threads/login-loop.104/">Login loop on Safari</a></div>
		<div class="structItem-title"><a href="/threads/feature-request.105/">Feature request: dark mode</a></div>
	</body></html>`

	seen := make(map[string]bool)
	links, err := ParseListing(html, "https://forum.example.com/categories/support/", "support", nil, seen)
	require.NoError(t, err)
	require.Len(t, links, 5)

	assert.Equal(t, "https://forum.example.com/threads/payment-failed.101/", links[0].URL)
	assert.Equal(t, "Payment failed after update", links[0].Title)
	assert.Equal(t, "support", links[0].Category)
	assert.False(t, links[0].DiscoveredAt.IsZero())

	// Every discovered URL is recorded in the dedup set.
	assert.Len(t, seen, 5)
	for _, link := range links {
		assert.True(t, seen[link.URL])
	}
}

func TestParseListing_SkipsSeenURLs(t *testing.T) {
	html := `
	<html><body>
		<div class="structItem-title"><a href="/threads/a.1/">Thread A</a></div>
		<div class="structItem-title"><a href="/threads/b.2/">Thread B</a></div>
	</body></html>`

	seen := make(map[string]bool)
	first, err := ParseListing(html, "https://forum.example.com/", "support", nil, seen)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// A second pass over the same page yields nothing new.
	second, err := ParseListing(html, "https://forum.example.com/", "support", nil, seen)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, seen, 2)
}

func TestParseListing_SkipsEmptyTitles(t *testing.T) {
	html := `
	<html><body>
		<div class="structItem-title"><a href="/threads/untitled.1/">   </a></div>
		<div class="structItem-title"><a href="/threads/titled.2/">Real title</a></div>
	</body></html>`

	seen := make(map[string]bool)
	links, err := ParseListing(html, "https://forum.example.com/", "support", nil, seen)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Real title", links[0].Title)
}

func TestParseListing_CapsAtMaxLinksPerPage(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		sb.WriteString(fmt.Sprintf(`<div class="structItem-title"><a href="/threads/t.%d/">Thread %d</a></div>`, i, i))
	}
	sb.WriteString("</body></html>")

	seen := make(map[string]bool)
	links, err := ParseListing(sb.String(), "https://forum.example.com/", "support", nil, seen)
	require.NoError(t, err)
	assert.Len(t, links, MaxLinksPerPage)
}

// Legacy template generations are reached through later chain entries.
func TestParseListing_LegacyTemplateFallback(t *testing.T) {
	html := `
	<html><body>
		<table><tr class="inline_row"><td>
			<span class="subject_new"><a href="showthread.php?tid=42">Old board thread</a></span>
		</td></tr></table>
	</body></html>`

	seen := make(map[string]bool)
	links, err := ParseListing(html, "https://forum.example.com/forumdisplay.php?fid=3", "general", nil, seen)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Old board thread", links[0].Title)
	assert.Equal(t, "https://forum.example.com/showthread.php?tid=42", links[0].URL)
}

// The first matching pattern wins; matches are not merged across patterns.
func TestParseListing_FirstPatternWins(t *testing.T) {
	html := `
	<html><body>
		<div class="structItem-title"><a href="/threads/new.1/">New template thread</a></div>
		<h3 class="title"><a href="/threads/old.2/">Old template thread</a></h3>
	</body></html>`

	seen := make(map[string]bool)
	links, err := ParseListing(html, "https://forum.example.com/", "support", nil, seen)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "New template thread", links[0].Title)
}

func TestParseListing_NoMatchesIsNotAnError(t *testing.T) {
	html := `<html><body><p>Nothing that looks like a thread list.</p></body></html>`

	seen := make(map[string]bool)
	links, err := ParseListing(html, "https://forum.example.com/", "support", nil, seen)
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Empty(t, seen)
}

func TestParseListing_InvalidBaseURL(t *testing.T) {
	seen := make(map[string]bool)
	_, err := ParseListing("<html></html>", "://bad", "support", nil, seen)
	require.Error(t, err)

	var listingErr *ListingError
	assert.ErrorAs(t, err, &listingErr)
}
