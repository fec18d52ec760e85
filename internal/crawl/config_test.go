package crawl

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crawl.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"categories": {
			"billing": "https://forum.example.com/forums/billing/",
			"general": "https://forum.example.com/forums/general/"
		},
		"max_posts_per_category": 50,
		"base_delay_seconds": 1.5
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Categories, 2)
	assert.Equal(t, 50, cfg.MaxPostsPerCategory)
	assert.Equal(t, 1.5, cfg.BaseDelaySeconds)
	// Omitted limits fall back to defaults.
	assert.Equal(t, DefaultMaxPagesPerCategory, cfg.MaxPagesPerCategory)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"categories": `)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_RequiresCategories(t *testing.T) {
	path := writeConfig(t, `{"categories": {}}`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_RejectsBadCategoryURL(t *testing.T) {
	path := writeConfig(t, `{"categories": {"billing": "not a url"}}`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_RejectsOutOfRangeLimits(t *testing.T) {
	path := writeConfig(t, `{
		"categories": {"billing": "https://forum.example.com/forums/billing/"},
		"max_posts_per_category": 10000
	}`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultMaxPostsPerCategory, cfg.MaxPostsPerCategory)
	assert.Equal(t, DefaultMaxPagesPerCategory, cfg.MaxPagesPerCategory)
	assert.Equal(t, DefaultBaseDelaySeconds, cfg.BaseDelaySeconds)
	assert.NotNil(t, cfg.Categories)
}

func TestConfig_BaseDelay(t *testing.T) {
	cfg := &Config{BaseDelaySeconds: 2.5}
	assert.Equal(t, 2500*time.Millisecond, cfg.BaseDelay())
}
