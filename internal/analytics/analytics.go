// Package analytics turns fetched products, variants, sales and referrals into the derived
// figures shown on the seller dashboard. Engines hold no state between calls.
package analytics

import (
	"github.com/jekabolt/privshop-seller/internal/dependency"
)

const (
	DefaultTopN         = 5
	DefaultSeriesWindow = 15
	DefaultLocale       = "en-US"
)

// Config holds configuration for the analytics engines.
type Config struct {
	TopN         int    `mapstructure:"top_n"`
	SeriesWindow int    `mapstructure:"series_window"`
	Locale       string `mapstructure:"locale"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		TopN:         DefaultTopN,
		SeriesWindow: DefaultSeriesWindow,
		Locale:       DefaultLocale,
	}
}

// Engine runs the rollup, ranking, time-series, summary and referral computations
// against a record store.
type Engine struct {
	store dependency.RecordStore
	c     *Config
	dates DateFormatter
}

// New creates a new analytics engine.
func New(store dependency.RecordStore, c *Config) *Engine {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.SeriesWindow <= 0 {
		c.SeriesWindow = DefaultSeriesWindow
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	return &Engine{
		store: store,
		c:     c,
		dates: NewDateFormatter(c.Locale),
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return *e.c
}
