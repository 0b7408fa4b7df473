package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lnagel/ohtujutt-rss/internal/feed"
	"github.com/lnagel/ohtujutt-rss/internal/hn"
	"github.com/lnagel/ohtujutt-rss/pkg/cache"
	"github.com/lnagel/ohtujutt-rss/pkg/config"
	"github.com/lnagel/ohtujutt-rss/pkg/fetcher"
	"github.com/lnagel/ohtujutt-rss/pkg/limiter"
	"github.com/lnagel/ohtujutt-rss/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	svc, err := buildService(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build service")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rss", rssHandler(svc))
	mux.HandleFunc("/healthz", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Int("max_concurrent", cfg.MaxConcurrent).
			Dur("cache_ttl", cfg.CacheTTL).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

// buildService wires the shared limiter, fetcher and caches into the
// front-page service. All shared state is constructed here once and passed
// by handle; nothing is looked up globally.
func buildService(cfg config.Config) (*hn.Service, error) {
	lim, err := limiter.New(cfg.MaxConcurrent)
	if err != nil {
		return nil, fmt.Errorf("create limiter: %w", err)
	}

	f, err := fetcher.New(lim, fetcher.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		Timeout:        cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	itemCache, err := cache.New[hn.Item](cfg.CacheMaxEntries, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("create item cache: %w", err)
	}

	client, err := hn.NewClient(cfg.HNBaseURL, f)
	if err != nil {
		return nil, fmt.Errorf("create hn client: %w", err)
	}

	svc, err := hn.NewService(client, hn.ServiceConfig{
		FeedItems: cfg.FeedItems,
		ItemCache: itemCache,
	})
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

// rssHandler serves the front-page feed. A listing failure is logged and
// rendered as an empty feed; individual item failures have already been
// dropped by the assembler.
func rssHandler(svc *hn.Service) http.HandlerFunc {
	logger := logging.NewLogger("server")

	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.FrontPage(r.Context())
		if err != nil {
			logger.Error().Err(err).Msg("Serving empty feed, listing unavailable")
		}

		rss, err := feed.RSS(feed.DefaultConfig(), items, time.Now())
		if err != nil {
			logger.Error().Err(err).Msg("Feed rendering failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		if _, err := w.Write([]byte(rss)); err != nil {
			logger.Warn().Err(err).Msg("Failed to write response")
		}
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
