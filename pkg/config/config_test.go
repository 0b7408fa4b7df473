package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", cfg.MaxConcurrent)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
	if cfg.InitialBackoff != 500*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 500ms", cfg.InitialBackoff)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.CacheMaxEntries != 200 {
		t.Errorf("CacheMaxEntries = %d, want 200", cfg.CacheMaxEntries)
	}
	if cfg.FeedItems != 30 {
		t.Errorf("FeedItems = %d, want 30", cfg.FeedItems)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("OHTUJUTT_MAX_CONCURRENT", "10")
	t.Setenv("OHTUJUTT_MAX_RETRIES", "4")
	t.Setenv("OHTUJUTT_CACHE_TTL", "5m")
	t.Setenv("OHTUJUTT_HN_BASE_URL", "http://localhost:9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent = %d, want 10", cfg.MaxConcurrent)
	}
	if cfg.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4", cfg.MaxRetries)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.HNBaseURL != "http://localhost:9999" {
		t.Errorf("HNBaseURL = %q, want override", cfg.HNBaseURL)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		check  func(*testing.T, Config)
	}{
		{
			name:   "concurrency below minimum",
			mutate: func(c *Config) { c.MaxConcurrent = 0 },
			check: func(t *testing.T, c Config) {
				if c.MaxConcurrent != MinConcurrent {
					t.Errorf("MaxConcurrent = %d, want %d", c.MaxConcurrent, MinConcurrent)
				}
			},
		},
		{
			name:   "concurrency above maximum",
			mutate: func(c *Config) { c.MaxConcurrent = 100 },
			check: func(t *testing.T, c Config) {
				if c.MaxConcurrent != MaxConcurrent {
					t.Errorf("MaxConcurrent = %d, want %d", c.MaxConcurrent, MaxConcurrent)
				}
			},
		},
		{
			name:   "negative retries",
			mutate: func(c *Config) { c.MaxRetries = -1 },
			check: func(t *testing.T, c Config) {
				if c.MaxRetries != MinRetries {
					t.Errorf("MaxRetries = %d, want %d", c.MaxRetries, MinRetries)
				}
			},
		},
		{
			name:   "retries above maximum",
			mutate: func(c *Config) { c.MaxRetries = 50 },
			check: func(t *testing.T, c Config) {
				if c.MaxRetries != MaxRetries {
					t.Errorf("MaxRetries = %d, want %d", c.MaxRetries, MaxRetries)
				}
			},
		},
		{
			name:   "backoff too short",
			mutate: func(c *Config) { c.InitialBackoff = time.Millisecond },
			check: func(t *testing.T, c Config) {
				if c.InitialBackoff != MinInitialBackoff {
					t.Errorf("InitialBackoff = %v, want %v", c.InitialBackoff, MinInitialBackoff)
				}
			},
		},
		{
			name:   "timeout too long",
			mutate: func(c *Config) { c.RequestTimeout = 5 * time.Minute },
			check: func(t *testing.T, c Config) {
				if c.RequestTimeout != MaxRequestTimeout {
					t.Errorf("RequestTimeout = %v, want %v", c.RequestTimeout, MaxRequestTimeout)
				}
			},
		},
		{
			name:   "cache TTL too short",
			mutate: func(c *Config) { c.CacheTTL = time.Second },
			check: func(t *testing.T, c Config) {
				if c.CacheTTL != MinCacheTTL {
					t.Errorf("CacheTTL = %v, want %v", c.CacheTTL, MinCacheTTL)
				}
			},
		},
		{
			name:   "cache entries above maximum",
			mutate: func(c *Config) { c.CacheMaxEntries = 100000 },
			check: func(t *testing.T, c Config) {
				if c.CacheMaxEntries != MaxCacheEntries {
					t.Errorf("CacheMaxEntries = %d, want %d", c.CacheMaxEntries, MaxCacheEntries)
				}
			},
		},
		{
			name:   "feed items above ceiling",
			mutate: func(c *Config) { c.FeedItems = 500 },
			check: func(t *testing.T, c Config) {
				if c.FeedItems != MaxFeedItems {
					t.Errorf("FeedItems = %d, want %d", c.FeedItems, MaxFeedItems)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(&cfg)
			cfg.Clamp()
			tt.check(t, cfg)
		})
	}
}

func TestClamp_InRangeValuesUntouched(t *testing.T) {
	cfg := Config{
		MaxConcurrent:   7,
		MaxRetries:      3,
		InitialBackoff:  time.Second,
		RequestTimeout:  15 * time.Second,
		CacheTTL:        2 * time.Hour,
		CacheMaxEntries: 500,
		FeedItems:       25,
	}
	cfg.Clamp()

	if cfg.MaxConcurrent != 7 || cfg.MaxRetries != 3 || cfg.InitialBackoff != time.Second ||
		cfg.RequestTimeout != 15*time.Second || cfg.CacheTTL != 2*time.Hour ||
		cfg.CacheMaxEntries != 500 || cfg.FeedItems != 25 {
		t.Errorf("Clamp altered in-range values: %+v", cfg)
	}
}
