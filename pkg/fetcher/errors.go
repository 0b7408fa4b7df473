package fetcher

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Common errors returned by the fetcher.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)

// Class is a closed classification of fetch failures. Retry decisions are a
// pure match over the tag, never inspection of error message text.
type Class string

const (
	// ClassNetwork represents transport-level failures: connection refused,
	// DNS, aborted or timed-out requests. Retryable.
	ClassNetwork Class = "network"

	// ClassServer represents 5xx responses. Retryable.
	ClassServer Class = "server"

	// ClassRateLimited represents 429 responses. Retryable.
	ClassRateLimited Class = "rate_limited"

	// ClassClient represents 4xx responses other than 429. Not retryable.
	ClassClient Class = "client"

	// ClassPayload represents a malformed body after a successful transport
	// response. Not retryable; constructed by callers after decode failure.
	ClassPayload Class = "payload"
)

// Retryable reports whether failures of this class may be retried.
func (c Class) Retryable() bool {
	switch c {
	case ClassNetwork, ClassServer, ClassRateLimited:
		return true
	default:
		return false
	}
}

// classifyStatus maps a non-success HTTP status code to its failure class.
func classifyStatus(status int) Class {
	switch {
	case status == http.StatusTooManyRequests:
		return ClassRateLimited
	case status >= 400 && status < 500:
		return ClassClient
	default:
		return ClassServer
	}
}

// Error is a classified fetch failure with diagnostic context for operator
// logs. The diagnostic fields (headers, body snippet) are never propagated
// into data returned to callers.
type Error struct {
	Class      Class
	URL        string
	StatusCode int

	// Elapsed is the wall time of the failing attempt.
	Elapsed time.Duration

	// Headers holds the whitelisted response headers captured on
	// HTTP-status failures (server identity, cache/CDN status, rate-limit
	// headers, correlation ids).
	Headers map[string]string

	// BodySnippet is a length-capped prefix of the response body.
	BodySnippet string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s error (status %d): %s", e.Class, e.StatusCode, e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s error: %s: %v", e.Class, e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s error: %s", e.Class, e.URL)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the error's class permits further attempts.
func (e *Error) Retryable() bool {
	return e.Class.Retryable()
}

// NewPayloadError builds the non-retryable error callers attach when a body
// obtained from a successful response turns out to be malformed.
func NewPayloadError(url string, err error) *Error {
	return &Error{
		Class: ClassPayload,
		URL:   url,
		Err:   err,
	}
}

// ClassOf returns the failure class of err, or the empty string when err is
// not a fetcher error.
func ClassOf(err error) Class {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Class
	}
	return ""
}
