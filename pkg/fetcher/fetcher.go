// Package fetcher performs single logical HTTP fetches with per-attempt
// timeouts, classified failures, and exponential backoff between retries.
// Parallelism across fetches is bounded by a shared limiter; the slot is held
// only for the network I/O of one attempt, never across backoff waits.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lnagel/ohtujutt-rss/pkg/limiter"
)

// Prometheus metrics for fetch operations.
var (
	fetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ohtujutt_fetch_requests_total",
		Help: "Total fetch attempts by outcome",
	}, []string{"outcome"})

	fetchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ohtujutt_fetch_duration_seconds",
		Help:    "Duration of individual fetch attempts in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	fetchRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ohtujutt_fetch_retries_total",
		Help: "Total retry attempts by error class",
	}, []string{"error_class"})

	fetchBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ohtujutt_fetch_backoff_seconds",
		Help:    "Backoff duration before retries by error class",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"error_class"})

	fetchExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ohtujutt_fetch_retry_exhausted_total",
		Help: "Total fetches that exhausted their retry budget by error class",
	}, []string{"error_class"})
)

// diagnosticHeaders is the whitelist of response headers captured into fetch
// errors: server identity, cache/CDN status, rate limiting, correlation ids.
var diagnosticHeaders = []string{
	"Server",
	"Via",
	"Age",
	"X-Cache",
	"CF-Cache-Status",
	"CF-Ray",
	"Retry-After",
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"X-RateLimit-Reset",
	"X-Request-Id",
}

// bodySnippetLimit caps the diagnostic body excerpt attached to errors.
const bodySnippetLimit = 512

// Config holds fetcher configuration.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt, so a
	// fetch performs at most MaxRetries+1 attempts.
	MaxRetries int

	// InitialBackoff is the delay before the first retry; each further
	// retry doubles it. No jitter is applied.
	InitialBackoff time.Duration

	// Timeout bounds each individual attempt. Expiry aborts only the
	// in-flight request of that attempt and counts as a network failure.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		Timeout:        10 * time.Second,
	}
}

// Fetcher issues HTTP GET requests with retry and classification. Instances
// are safe for concurrent use and are meant to be created once at startup
// and shared.
type Fetcher struct {
	httpClient *http.Client
	limiter    *limiter.Limiter
	config     Config
	logger     zerolog.Logger
}

// New creates a Fetcher that bounds its attempts with lim.
func New(lim *limiter.Limiter, cfg Config) (*Fetcher, error) {
	if lim == nil {
		return nil, fmt.Errorf("limiter is required")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries must be >= 0 (got %d)", cfg.MaxRetries)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %v)", cfg.Timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{},
		limiter:    lim,
		config:     cfg,
		logger:     log.With().Str("component", "fetcher").Logger(),
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}

// Fetch performs one logical fetch of url, retrying retryable failures with
// exponential backoff until the retry budget is spent. It returns the
// response body on the first successful attempt.
//
// The decision per attempt is explicit: return on success, raise immediately
// on a non-retryable class, raise on the last allowed attempt, otherwise
// back off and retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	backoff := f.config.InitialBackoff

	var lastErr error
	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if attempt > 0 {
			fetchRetriesTotal.WithLabelValues(string(ClassOf(lastErr))).Inc()
			fetchBackoffSeconds.WithLabelValues(string(ClassOf(lastErr))).Observe(backoff.Seconds())

			f.logger.Debug().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying fetch after backoff")

			select {
			case <-ctx.Done():
				return nil, &Error{Class: ClassNetwork, URL: url, Err: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		body, err := f.attempt(ctx, url)
		if err == nil {
			if attempt > 0 {
				f.logger.Info().
					Str("url", url).
					Int("attempt", attempt).
					Msg("Fetch succeeded after retry")
			}
			return body, nil
		}
		lastErr = err

		retryable := ClassOf(err).Retryable()
		last := attempt == f.config.MaxRetries

		f.logger.Warn().
			Err(err).
			Str("url", url).
			Int("attempt", attempt).
			Str("error_class", string(ClassOf(err))).
			Bool("will_retry", retryable && !last).
			Msg("Fetch attempt failed")

		if !retryable {
			return nil, err
		}
	}

	fetchExhaustedTotal.WithLabelValues(string(ClassOf(lastErr))).Inc()
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, f.config.MaxRetries+1, lastErr)
}

// attempt performs a single HTTP attempt under a limiter slot. The slot is
// acquired before the request is issued and released when it settles,
// success or failure.
func (f *Fetcher) attempt(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := f.limiter.Do(ctx, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
		defer cancel()

		start := time.Now()
		defer func() {
			fetchDurationSeconds.Observe(time.Since(start).Seconds())
		}()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
		if err != nil {
			fetchRequestsTotal.WithLabelValues("invalid_request").Inc()
			return &Error{Class: ClassClient, URL: url, Err: err}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			// Timeouts and aborts land here and retry as network failures.
			fetchRequestsTotal.WithLabelValues("network_error").Inc()
			return &Error{
				Class:   ClassNetwork,
				URL:     url,
				Elapsed: time.Since(start),
				Err:     err,
			}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			fetchRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()
			return f.statusError(url, resp, time.Since(start))
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			fetchRequestsTotal.WithLabelValues("body_read_error").Inc()
			return &Error{
				Class:   ClassNetwork,
				URL:     url,
				Elapsed: time.Since(start),
				Err:     err,
			}
		}

		fetchRequestsTotal.WithLabelValues("success").Inc()
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// statusError builds a classified error for a non-success response, capturing
// the whitelisted diagnostic headers and a capped body snippet.
func (f *Fetcher) statusError(url string, resp *http.Response, elapsed time.Duration) *Error {
	headers := make(map[string]string)
	for _, name := range diagnosticHeaders {
		if v := resp.Header.Get(name); v != "" {
			headers[name] = v
		}
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))

	return &Error{
		Class:       classifyStatus(resp.StatusCode),
		URL:         url,
		StatusCode:  resp.StatusCode,
		Elapsed:     elapsed,
		Headers:     headers,
		BodySnippet: string(snippet),
	}
}
