package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/cache"
	"github.com/colombia-api/colombia-cli/internal/validation"
)

// DefaultServeAddr is where `colombia serve` listens unless configured.
const DefaultServeAddr = "127.0.0.1:8080"

// Overrides carries values set explicitly on the command line. Nil fields
// were not given and fall through to env, file and defaults.
type Overrides struct {
	BaseURL           *string
	Timeout           *time.Duration
	Insecure          *bool
	AllowPrivate      *bool
	MaxRetries        *int
	RetryDelay        *time.Duration
	RequestsPerSecond *float64
	Output            *string
	Cache             *bool
	CacheBackend      *string
	CacheTTL          *time.Duration
	RedisURL          *string
}

// Settings is the effective configuration after resolution.
type Settings struct {
	BaseURL           string
	Timeout           time.Duration
	Insecure          bool
	AllowPrivate      bool
	MaxRetries        int
	RetryDelay        time.Duration
	RequestsPerSecond float64
	Output            string
	Cache             CacheSettings
	Serve             ServeSettings
}

// CacheSettings is the resolved cache section.
type CacheSettings struct {
	Enabled  bool
	Backend  string
	TTL      time.Duration
	RedisURL string
}

// ServeSettings is the resolved gateway section.
type ServeSettings struct {
	Addr      string
	RateLimit float64
	Burst     int
	LogFormat string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		BaseURL:    api.DefaultBaseURL,
		Timeout:    api.DefaultTimeout,
		MaxRetries: api.DefaultMaxRetries,
		RetryDelay: api.DefaultRetryDelay,
		Output:     "text",
		Cache: CacheSettings{
			Backend: cache.BackendFile,
			TTL:     cache.DefaultTTL,
		},
		Serve: ServeSettings{
			Addr:      DefaultServeAddr,
			LogFormat: "json",
		},
	}
}

// Resolve merges defaults, file, environment and overrides, in increasing
// order of precedence. file may be nil.
func Resolve(file *Config, o Overrides) (Settings, error) {
	s := Defaults()
	if file != nil {
		if err := s.applyFile(file); err != nil {
			return Settings{}, err
		}
	}
	if err := s.applyEnv(); err != nil {
		return Settings{}, err
	}
	s.applyOverrides(o)
	s.BaseURL = strings.TrimSuffix(strings.TrimSpace(s.BaseURL), "/")
	if s.BaseURL == "" {
		s.BaseURL = api.DefaultBaseURL
	}
	return s, nil
}

func (s *Settings) applyFile(c *Config) error {
	if c.BaseURL != "" {
		s.BaseURL = c.BaseURL
	}
	if err := parseDurationInto(&s.Timeout, c.Timeout, "timeout"); err != nil {
		return err
	}
	if c.InsecureSkipVerify {
		s.Insecure = true
	}
	if c.AllowPrivate {
		s.AllowPrivate = true
	}
	if c.MaxRetries > 0 {
		s.MaxRetries = c.MaxRetries
	}
	if err := parseDurationInto(&s.RetryDelay, c.RetryDelay, "retry_delay"); err != nil {
		return err
	}
	if c.RequestsPerSecond > 0 {
		s.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.Output != "" {
		s.Output = c.Output
	}
	if c.Cache.Enabled {
		s.Cache.Enabled = true
	}
	if c.Cache.Backend != "" {
		s.Cache.Backend = c.Cache.Backend
	}
	if err := parseDurationInto(&s.Cache.TTL, c.Cache.TTL, "cache.ttl"); err != nil {
		return err
	}
	if c.Cache.RedisURL != "" {
		s.Cache.RedisURL = c.Cache.RedisURL
	}
	if c.Serve.Addr != "" {
		s.Serve.Addr = c.Serve.Addr
	}
	if c.Serve.RateLimit > 0 {
		s.Serve.RateLimit = c.Serve.RateLimit
	}
	if c.Serve.Burst > 0 {
		s.Serve.Burst = c.Serve.Burst
	}
	if c.Serve.LogFormat != "" {
		s.Serve.LogFormat = c.Serve.LogFormat
	}
	return nil
}

func (s *Settings) applyEnv() error {
	if v := env("COLOMBIA_BASE_URL"); v != "" {
		s.BaseURL = v
	}
	if err := parseDurationInto(&s.Timeout, env("COLOMBIA_TIMEOUT"), "COLOMBIA_TIMEOUT"); err != nil {
		return err
	}
	if err := parseBoolInto(&s.Insecure, env("COLOMBIA_INSECURE"), "COLOMBIA_INSECURE"); err != nil {
		return err
	}
	if err := parseBoolInto(&s.AllowPrivate, env("COLOMBIA_ALLOW_PRIVATE"), "COLOMBIA_ALLOW_PRIVATE"); err != nil {
		return err
	}
	if v := env("COLOMBIA_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid COLOMBIA_MAX_RETRIES %q: must be a non-negative integer", v)
		}
		s.MaxRetries = n
	}
	if err := parseDurationInto(&s.RetryDelay, env("COLOMBIA_RETRY_DELAY"), "COLOMBIA_RETRY_DELAY"); err != nil {
		return err
	}
	if v := env("COLOMBIA_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid COLOMBIA_RPS %q: must be a non-negative number", v)
		}
		s.RequestsPerSecond = f
	}
	if v := env("COLOMBIA_OUTPUT"); v != "" {
		s.Output = v
	}
	if err := parseBoolInto(&s.Cache.Enabled, env("COLOMBIA_CACHE"), "COLOMBIA_CACHE"); err != nil {
		return err
	}
	if v := env("COLOMBIA_CACHE_BACKEND"); v != "" {
		s.Cache.Backend = v
	}
	if err := parseDurationInto(&s.Cache.TTL, env("COLOMBIA_CACHE_TTL"), "COLOMBIA_CACHE_TTL"); err != nil {
		return err
	}
	if v := env("COLOMBIA_REDIS_URL"); v != "" {
		s.Cache.RedisURL = v
		if env("COLOMBIA_CACHE_BACKEND") == "" {
			s.Cache.Backend = cache.BackendRedis
		}
	}
	if v := env("COLOMBIA_SERVE_ADDR"); v != "" {
		s.Serve.Addr = v
	}
	return nil
}

func (s *Settings) applyOverrides(o Overrides) {
	if o.BaseURL != nil {
		s.BaseURL = *o.BaseURL
	}
	if o.Timeout != nil {
		s.Timeout = *o.Timeout
	}
	if o.Insecure != nil {
		s.Insecure = *o.Insecure
	}
	if o.AllowPrivate != nil {
		s.AllowPrivate = *o.AllowPrivate
	}
	if o.MaxRetries != nil {
		s.MaxRetries = *o.MaxRetries
	}
	if o.RetryDelay != nil {
		s.RetryDelay = *o.RetryDelay
	}
	if o.RequestsPerSecond != nil {
		s.RequestsPerSecond = *o.RequestsPerSecond
	}
	if o.Output != nil {
		s.Output = *o.Output
	}
	if o.Cache != nil {
		s.Cache.Enabled = *o.Cache
	}
	if o.CacheBackend != nil {
		s.Cache.Backend = *o.CacheBackend
	}
	if o.CacheTTL != nil {
		s.Cache.TTL = *o.CacheTTL
	}
	if o.RedisURL != nil {
		s.Cache.RedisURL = *o.RedisURL
	}
}

// Validate checks the resolved values. The public upstream is trusted as-is;
// any other base URL goes through validation.ValidateBaseURL, which honours
// the process-wide allow-private switch.
func (s Settings) Validate() error {
	if s.BaseURL != api.DefaultBaseURL {
		if err := validation.ValidateBaseURL(s.BaseURL); err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative, got %d", s.MaxRetries)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must be non-negative, got %g", s.RequestsPerSecond)
	}
	switch strings.ToLower(s.Cache.Backend) {
	case "", cache.BackendFile:
	case cache.BackendRedis:
		if s.Cache.Enabled && s.Cache.RedisURL == "" {
			return fmt.Errorf("cache backend redis requires a redis URL (set --redis-url or COLOMBIA_REDIS_URL)")
		}
	default:
		return fmt.Errorf("invalid cache backend %q: must be file or redis", s.Cache.Backend)
	}
	return nil
}

// APIConfig builds the client configuration. Cache and Observer are left for
// the caller to attach.
func (s Settings) APIConfig() api.Config {
	cfg := api.DefaultConfig()
	cfg.BaseURL = s.BaseURL
	// a mirror or gateway is addressed by its own host; the fixed
	// api-colombia.com Host header only goes to the public upstream
	if s.BaseURL != api.DefaultBaseURL {
		cfg.Host = ""
	}
	cfg.Timeout = s.Timeout
	cfg.InsecureSkipVerify = s.Insecure
	cfg.Retry = api.RetryConfig{
		MaxRetries: s.MaxRetries,
		Delay:      s.RetryDelay,
		MaxDelay:   api.DefaultMaxDelay,
	}
	cfg.RequestsPerSecond = s.RequestsPerSecond
	return cfg
}

// CacheOptions returns the options for cache.New.
func (s Settings) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  s.Cache.Backend,
		TTL:      s.Cache.TTL,
		RedisURL: s.Cache.RedisURL,
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseDurationInto(dst *time.Duration, raw, name string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fmt.Errorf("invalid %s %q (example: 30s, 2m)", name, raw)
	}
	*dst = d
	return nil
}

func parseBoolInto(dst *bool, raw, name string) error {
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be true or false", name, raw)
	}
	*dst = b
	return nil
}
