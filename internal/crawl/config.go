package crawl

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults for the crawl limits.
const (
	DefaultMaxPostsPerCategory = 20
	DefaultMaxPagesPerCategory = 3
	DefaultBaseDelaySeconds    = 2.0
)

// Politeness multipliers over the base delay. The delay between listing pages
// is deliberately longer than between individual post fetches, and category
// switches get their own spacing, all from one shared client identity.
const (
	pageDelayFactor     = 3
	categoryDelayFactor = 2
)

// Config is the single explicit configuration for a crawler instance,
// constructed once by the caller and passed down. The crawl core never reads
// ambient environment or settings storage.
type Config struct {
	// Categories maps category name to the listing base URL.
	Categories map[string]string `json:"categories" validate:"required,min=1,dive,required,url"`

	// MaxPostsPerCategory bounds how many posts are collected per category.
	MaxPostsPerCategory int `json:"max_posts_per_category" validate:"min=1,max=500"`

	// MaxPagesPerCategory bounds how many listing pages are visited per category.
	MaxPagesPerCategory int `json:"max_pages_per_category" validate:"min=1,max=50"`

	// BaseDelaySeconds is the base unit for every politeness delay and for
	// the fetcher's backoff multipliers.
	BaseDelaySeconds float64 `json:"base_delay_seconds" validate:"min=0,max=60"`
}

// DefaultConfig returns a config with default limits and no categories.
func DefaultConfig() *Config {
	return &Config{
		Categories:          make(map[string]string),
		MaxPostsPerCategory: DefaultMaxPostsPerCategory,
		MaxPagesPerCategory: DefaultMaxPagesPerCategory,
		BaseDelaySeconds:    DefaultBaseDelaySeconds,
	}
}

// LoadConfig loads a crawl configuration from a JSON file, applies defaults
// for missing limits, and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero-valued limits with defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxPostsPerCategory == 0 {
		c.MaxPostsPerCategory = DefaultMaxPostsPerCategory
	}
	if c.MaxPagesPerCategory == 0 {
		c.MaxPagesPerCategory = DefaultMaxPagesPerCategory
	}
	if c.BaseDelaySeconds == 0 {
		c.BaseDelaySeconds = DefaultBaseDelaySeconds
	}
}

// Validate checks the configuration ranges and category URLs.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid crawl config: %w", err)
	}
	return nil
}

// BaseDelay returns the base delay as a duration.
func (c *Config) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySeconds * float64(time.Second))
}
