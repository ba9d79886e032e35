package google

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is the proactive throttle rate.
	DefaultRequestsPerSecond = 5.0

	// DefaultBackoff is the pause after a quota error without Retry-After.
	DefaultBackoff = 2 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimitError is returned when the service reports the quota is exhausted.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("maps quota exceeded, retry after %s", e.RetryAt.Format(time.RFC3339))
}

// RateLimiter throttles requests proactively with a token bucket and pauses
// after the service reports a quota error.
type RateLimiter struct {
	mu          sync.Mutex
	bucket      *rate.Limiter
	pausedUntil time.Time
	now         func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(rps), 1),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	until := r.pausedUntil
	r.mu.Unlock()

	if wait := until.Sub(r.now()); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return r.bucket.Wait(ctx)
}

// Pause records a quota error and returns it. resp may be nil when the
// error came from the response body rather than the status code.
func (r *RateLimiter) Pause(resp *http.Response) *RateLimitError {
	backoff := DefaultBackoff
	if resp != nil {
		if seconds, err := strconv.Atoi(resp.Header.Get(HeaderRetryAfter)); err == nil && seconds >= 0 {
			backoff = time.Duration(seconds) * time.Second
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pausedUntil = r.now().Add(backoff)
	return &RateLimitError{RetryAt: r.pausedUntil}
}
