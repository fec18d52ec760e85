package scrape

import (
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(`[ \t]+`)
var multiNewlineRegex = regexp.MustCompile(`\n{3,}`)

// cleanText normalizes whitespace in extracted text: line endings become LF,
// runs of spaces collapse, blank lines are capped at one, and empty lines at
// the edges are trimmed.
func cleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = multiSpaceRegex.ReplaceAllString(strings.TrimSpace(line), " ")
		cleaned = append(cleaned, line)
	}

	result := strings.Join(cleaned, "\n")
	result = multiNewlineRegex.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// truncate shortens s to at most max characters, appending "..." when content
// was cut. The ellipsis counts against the limit, so the returned string never
// exceeds max characters.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
