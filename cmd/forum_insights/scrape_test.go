package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/forum-insights/internal/crawl"
	"github.com/jonathan/forum-insights/internal/types"
)

func TestApplyOverrides(t *testing.T) {
	cfg := crawl.DefaultConfig()
	applyOverrides(cfg, 5, 2, 0.5)

	assert.Equal(t, 5, cfg.MaxPostsPerCategory)
	assert.Equal(t, 2, cfg.MaxPagesPerCategory)
	assert.Equal(t, 0.5, cfg.BaseDelaySeconds)
}

func TestApplyOverrides_ZeroKeepsConfig(t *testing.T) {
	cfg := crawl.DefaultConfig()
	applyOverrides(cfg, 0, 0, 0)

	assert.Equal(t, crawl.DefaultMaxPostsPerCategory, cfg.MaxPostsPerCategory)
	assert.Equal(t, crawl.DefaultMaxPagesPerCategory, cfg.MaxPagesPerCategory)
	assert.Equal(t, crawl.DefaultBaseDelaySeconds, cfg.BaseDelaySeconds)
}

func TestCategoryFileName(t *testing.T) {
	assert.Equal(t, "billing.posts.json", categoryFileName("billing"))
	assert.Equal(t, "mobile_app.posts.json", categoryFileName("Mobile App"))
	assert.Equal(t, "q_a_2.posts.json", categoryFileName("Q&A/2"))
}

func TestWriteResults(t *testing.T) {
	outDir := t.TempDir()
	results := map[string][]types.PostRecord{
		"billing": {
			{Title: "Refund request", URL: "https://forum.example.com/threads/refund.1/", Category: "billing"},
		},
		"general": {},
	}

	require.NoError(t, writeResults(outDir, results))

	data, err := os.ReadFile(filepath.Join(outDir, "billing.posts.json"))
	require.NoError(t, err)

	var records []types.PostRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Refund request", records[0].Title)

	assert.FileExists(t, filepath.Join(outDir, "general.posts.json"))
}

func TestLoadSelectors_NoPath(t *testing.T) {
	selectors, err := loadSelectors("")
	require.NoError(t, err)
	assert.Nil(t, selectors)
}
