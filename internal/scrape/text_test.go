package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"collapses spaces", "too   many\tspaces", "too many spaces"},
		{"normalizes crlf", "line one\r\nline two\rline three", "line one\nline two\nline three"},
		{"caps blank lines", "para one\n\n\n\n\npara two", "para one\n\npara two"},
		{"trims edges", "  \n\n  padded  \n\n  ", "padded"},
		{"trims per line", "  a  \n  b  ", "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanText(tc.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))

	got := truncate(strings.Repeat("x", 100), 20)
	assert.Equal(t, strings.Repeat("x", 17)+"...", got)
	assert.Len(t, []rune(got), 20)
}

func TestTruncate_MultiByte(t *testing.T) {
	got := truncate(strings.Repeat("é", 50), 10)
	assert.Len(t, []rune(got), 10)
	assert.True(t, strings.HasSuffix(got, "..."))
}
