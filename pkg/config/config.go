// Package config loads and validates process configuration from the
// environment. Every numeric setting has documented bounds; out-of-range
// values are clamped at startup with a warning rather than rejected.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// Bounds for the tunable settings. Values outside these ranges are clamped.
const (
	MinConcurrent = 1
	MaxConcurrent = 20

	MinRetries = 0
	MaxRetries = 5

	MinInitialBackoff = 100 * time.Millisecond
	MaxInitialBackoff = 5 * time.Second

	MinRequestTimeout = 1 * time.Second
	MaxRequestTimeout = 30 * time.Second

	MinCacheTTL = 60 * time.Second
	MaxCacheTTL = 24 * time.Hour

	MinCacheEntries = 10
	MaxCacheEntries = 1000

	MinFeedItems = 1
	MaxFeedItems = 50
)

// Config holds the full process configuration.
type Config struct {
	// MaxConcurrent bounds simultaneous in-flight fetches (1-20).
	MaxConcurrent int `env:"OHTUJUTT_MAX_CONCURRENT" envDefault:"5"`

	// MaxRetries is the retry budget per fetch after the initial attempt (0-5).
	MaxRetries int `env:"OHTUJUTT_MAX_RETRIES" envDefault:"2"`

	// InitialBackoff is the delay before the first retry, doubling per
	// attempt (100ms-5s).
	InitialBackoff time.Duration `env:"OHTUJUTT_INITIAL_BACKOFF" envDefault:"500ms"`

	// RequestTimeout bounds each fetch attempt (1s-30s).
	RequestTimeout time.Duration `env:"OHTUJUTT_REQUEST_TIMEOUT" envDefault:"10s"`

	// CacheTTL is the default cache entry lifetime (60s-24h).
	CacheTTL time.Duration `env:"OHTUJUTT_CACHE_TTL" envDefault:"1h"`

	// CacheMaxEntries bounds the cache size (10-1000).
	CacheMaxEntries int `env:"OHTUJUTT_CACHE_MAX_ENTRIES" envDefault:"200"`

	// FeedItems is the number of listing items rendered into the feed (1-50).
	FeedItems int `env:"OHTUJUTT_FEED_ITEMS" envDefault:"30"`

	// Port is the local HTTP server port.
	Port string `env:"OHTUJUTT_PORT" envDefault:"8080"`

	// HNBaseURL is the upstream Hacker News API base URL.
	HNBaseURL string `env:"OHTUJUTT_HN_BASE_URL" envDefault:"https://hacker-news.firebaseio.com"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `env:"OHTUJUTT_LOG_LEVEL" envDefault:"info"`

	// LogPretty enables human-readable console output instead of JSON.
	LogPretty bool `env:"OHTUJUTT_LOG_PRETTY" envDefault:"false"`
}

// Load parses configuration from the environment and clamps every numeric
// setting into its documented range.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Clamp()
	return cfg, nil
}

// Clamp forces every bounded setting into its documented range, logging a
// warning for each adjustment.
func (c *Config) Clamp() {
	c.MaxConcurrent = clampInt("max_concurrent", c.MaxConcurrent, MinConcurrent, MaxConcurrent)
	c.MaxRetries = clampInt("max_retries", c.MaxRetries, MinRetries, MaxRetries)
	c.InitialBackoff = clampDuration("initial_backoff", c.InitialBackoff, MinInitialBackoff, MaxInitialBackoff)
	c.RequestTimeout = clampDuration("request_timeout", c.RequestTimeout, MinRequestTimeout, MaxRequestTimeout)
	c.CacheTTL = clampDuration("cache_ttl", c.CacheTTL, MinCacheTTL, MaxCacheTTL)
	c.CacheMaxEntries = clampInt("cache_max_entries", c.CacheMaxEntries, MinCacheEntries, MaxCacheEntries)
	c.FeedItems = clampInt("feed_items", c.FeedItems, MinFeedItems, MaxFeedItems)
}

func clampInt(name string, v, lo, hi int) int {
	switch {
	case v < lo:
		log.Warn().Str("setting", name).Int("value", v).Int("min", lo).Msg("Config value below minimum, clamping")
		return lo
	case v > hi:
		log.Warn().Str("setting", name).Int("value", v).Int("max", hi).Msg("Config value above maximum, clamping")
		return hi
	default:
		return v
	}
}

func clampDuration(name string, v, lo, hi time.Duration) time.Duration {
	switch {
	case v < lo:
		log.Warn().Str("setting", name).Dur("value", v).Dur("min", lo).Msg("Config value below minimum, clamping")
		return lo
	case v > hi:
		log.Warn().Str("setting", name).Dur("value", v).Dur("max", hi).Msg("Config value above maximum, clamping")
		return hi
	default:
		return v
	}
}
