package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default retry configuration values. Retries are off unless MaxRetries > 0.
const (
	DefaultMaxRetries = 0
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultMaxDelay   = 10 * time.Second
)

// RetryConfig holds the bounded retry policy for idempotent GET calls.
type RetryConfig struct {
	MaxRetries int
	Delay      time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns a RetryConfig populated from environment variables
// with fallback to default values.
//
// Environment variables:
//   - COLOMBIA_MAX_RETRIES: max retries for GET calls (default: 0, disabled)
//   - COLOMBIA_RETRY_DELAY: base delay between retries (default: "500ms")
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: getEnvInt("COLOMBIA_MAX_RETRIES", DefaultMaxRetries),
		Delay:      getEnvDuration("COLOMBIA_RETRY_DELAY", DefaultRetryDelay),
		MaxDelay:   DefaultMaxDelay,
	}
}

// getEnvInt reads an integer from an environment variable with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration from an environment variable with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// backoff returns the delay before retry number n (0-based): Delay * 2^n, capped at MaxDelay.
func (r RetryConfig) backoff(n int) time.Duration {
	delay := r.Delay
	if delay <= 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		delay *= 2
		if r.MaxDelay > 0 && delay >= r.MaxDelay {
			return r.MaxDelay
		}
	}
	if r.MaxDelay > 0 && delay > r.MaxDelay {
		return r.MaxDelay
	}
	return delay
}

// retryable reports whether an envelope from a GET may succeed on another attempt.
func retryable(env Envelope) bool {
	if env.Err == nil {
		return false
	}
	if env.Err.Kind == KindTransportFault {
		return true
	}
	code := env.Err.StatusCode
	return code == http.StatusTooManyRequests || code >= 500
}

// sleepWithContext waits for the duration or returns early on context cancellation.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfterDuration parses Retry-After header values (seconds or HTTP date).
func retryAfterDuration(h http.Header) (time.Duration, bool) {
	value := strings.TrimSpace(h.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			secs = 0
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
