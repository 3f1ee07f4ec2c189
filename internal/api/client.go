package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/colombia-api/colombia-cli/internal/debug"
)

const (
	DefaultBaseURL   = "https://api-colombia.com/api/v1"
	DefaultHost      = "api-colombia.com"
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
	DefaultTimeout   = 30 * time.Second

	tracerName = "github.com/colombia-api/colombia-cli/internal/api"
)

// ResponseCache stores raw success bodies keyed by method and absolute URL.
// Implementations must be safe for concurrent use.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Observer is notified once per completed Call.
type Observer interface {
	ObserveCall(method, path string, env Envelope, elapsed time.Duration)
}

// Config is the immutable client configuration. Zero values fall back to defaults,
// except InsecureSkipVerify which is only ever enabled explicitly.
type Config struct {
	BaseURL            string
	Host               string // Host header; empty sends the BaseURL host
	UserAgent          string
	Timeout            time.Duration // deadline for a whole Call, retries and waits included
	InsecureSkipVerify bool
	Retry              RetryConfig
	RequestsPerSecond  float64 // 0 disables the client-side limiter
	Cache              ResponseCache
	Observer           Observer
	Transport          http.RoundTripper // replaces the pooled transport (tests, instrumentation)
}

// DefaultConfig returns the configuration for the public api-colombia.com service.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Host:      DefaultHost,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
		Retry:     DefaultRetryConfig(),
	}
}

// Client is the API Colombia client. It is safe for concurrent use: the
// configuration is read-only after New and every call builds its own request.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
}

// Compile-time interface implementation check
var _ Caller = (*Client)(nil)

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// New creates a client holding one pooled transport for its whole lifetime.
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport := cfg.Transport
	if transport == nil {
		transport = newTransport(cfg.InsecureSkipVerify)
	}

	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: transport,
			// Redirects are answers like any other non-200 status.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		tracer: otel.Tracer(tracerName),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

func newTransport(insecure bool) *http.Transport {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = insecure //nolint:gosec // opt-in via Config only
	transport.MaxIdleConnsPerHost = 16
	return transport
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// BaseURL returns the origin every path is appended to.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Close releases idle pooled connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Call sends one request for path and normalizes the outcome into an Envelope.
// It never returns a Go error: non-200 answers and faults are both envelopes.
// path must start with "/" and already carry percent-encoded segments.
func (c *Client) Call(ctx context.Context, method, path string) Envelope {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "colombia.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		))
	defer span.End()

	env := c.call(ctx, method, path)

	if env.Err != nil {
		span.SetStatus(codes.Error, env.Err.Message())
		span.SetAttributes(attribute.String("colombia.error.kind", env.Err.Kind.String()))
	}
	if status := env.StatusCode(); status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if c.cfg.Observer != nil {
		c.cfg.Observer.ObserveCall(method, path, env, time.Since(start))
	}
	return env
}

// CallAsync runs Call on its own goroutine and delivers exactly one envelope.
func (c *Client) CallAsync(ctx context.Context, method, path string) <-chan Envelope {
	return Go(func() Envelope { return c.Call(ctx, method, path) })
}

// Go runs fn on its own goroutine and delivers its envelope on a buffered channel,
// so the sender never blocks even if nobody receives.
func Go(fn func() Envelope) <-chan Envelope {
	ch := make(chan Envelope, 1)
	go func() {
		ch <- fn()
	}()
	return ch
}

func (c *Client) call(ctx context.Context, method, path string) Envelope {
	if !supportedMethods[method] {
		return faultEnvelope(fmt.Errorf("unsupported method %q", method))
	}
	if !strings.HasPrefix(path, "/") {
		return faultEnvelope(fmt.Errorf("path %q must start with /", path))
	}

	// one deadline covers the cache lookup, every attempt and the backoff sleeps
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := c.cfg.BaseURL + path
	cacheable := method == http.MethodGet && c.cfg.Cache != nil
	key := method + " " + url
	if cacheable {
		if raw, ok := c.cfg.Cache.Get(ctx, key); ok {
			if env, err := successEnvelope(raw); err == nil {
				if debug.IsEnabled(ctx) {
					slog.Debug("cache hit", "method", method, "url", url)
				}
				return env
			}
		}
	}

	env := c.executeWithRetry(ctx, method, url)

	if cacheable && env.OK() {
		c.cfg.Cache.Set(ctx, key, env.Raw)
	}
	return env
}

func (c *Client) executeWithRetry(ctx context.Context, method, url string) Envelope {
	retries := 0
	for {
		env, retryAfter := c.execute(ctx, method, url, retries+1)
		if method != http.MethodGet || retries >= c.cfg.Retry.MaxRetries || !retryable(env) || ctx.Err() != nil {
			return env
		}
		delay := c.cfg.Retry.backoff(retries)
		if retryAfter > delay {
			delay = retryAfter
		}
		if c.cfg.Retry.MaxDelay > 0 && delay > c.cfg.Retry.MaxDelay {
			delay = c.cfg.Retry.MaxDelay
		}
		slog.Info("retrying request", "method", method, "url", url, "error", env.Err.Message(), "delay", delay, "attempt", retries+1)
		if err := sleepWithContext(ctx, delay); err != nil {
			return faultEnvelope(err)
		}
		retries++
	}
}

// execute performs a single attempt. The second return value is the server's
// Retry-After hint, if any.
func (c *Client) execute(ctx context.Context, method, url string, attempt int) (Envelope, time.Duration) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return faultEnvelope(fmt.Errorf("rate limiter: %w", err)), 0
		}
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return faultEnvelope(fmt.Errorf("failed to create request: %w", err)), 0
	}
	if c.cfg.Host != "" {
		req.Host = c.cfg.Host
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", method, "url", url, "attempt", attempt, "error", err)
		}
		return faultEnvelope(err), 0
	}
	defer func() { _ = resp.Body.Close() }()

	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", method, "url", url, "status", resp.StatusCode, "attempt", attempt, "duration", time.Since(start))
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		retryAfter, _ := retryAfterDuration(resp.Header)
		return statusEnvelope(resp.StatusCode), retryAfter
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return faultEnvelope(fmt.Errorf("failed to read response: %w", err)), 0
	}
	env, err := successEnvelope(body)
	if err != nil {
		return faultEnvelope(fmt.Errorf("invalid JSON response: %w", err)), 0
	}
	return env, 0
}

// Ping checks whether the upstream answers GET /Country/Colombia with 200.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	env := c.Call(ctx, http.MethodGet, "/Country/Colombia")
	if env.OK() {
		return true, nil
	}
	err := env.Error()
	if IsRemoteStatus(err) {
		return false, nil
	}
	return false, errors.Join(errors.New("upstream unreachable"), err)
}
