package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/cache"
	"github.com/colombia-api/colombia-cli/internal/config"
)

type clientFactory struct {
	settings  config.Settings
	observers []api.Observer
}

func newClientFactory(settings config.Settings) *clientFactory {
	return &clientFactory{settings: settings}
}

// withObserver adds an observer notified after every call.
func (f *clientFactory) withObserver(o api.Observer) *clientFactory {
	f.observers = append(f.observers, o)
	return f
}

// build validates the settings and creates the client, opening the response
// cache when enabled. The returned store is nil without a cache and must be
// closed by the caller otherwise.
func (f *clientFactory) build() (*api.Client, cache.Store, error) {
	if err := f.settings.Validate(); err != nil {
		return nil, nil, err
	}
	cfg := f.settings.APIConfig()

	var store cache.Store
	if f.settings.Cache.Enabled {
		opts := f.settings.CacheOptions()
		opts.Dir = cacheDirOverride()
		s, err := cache.New(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		store = s
		cfg.Cache = s
	}

	observers := append([]api.Observer{debugObserver{}}, f.observers...)
	cfg.Observer = multiObserver(observers)

	return api.New(cfg), store, nil
}

// getClient returns the client for the current run, building it on first use.
func getClient(cmd *cobra.Command) (*api.Client, error) {
	if state.client != nil {
		return state.client, nil
	}
	if state.settingsErr != nil {
		return nil, state.settingsErr
	}
	client, store, err := newClientFactory(state.settings).build()
	if err != nil {
		return nil, err
	}
	state.client = client
	state.store = store
	return client, nil
}

// cacheDirOverride returns COLOMBIA_CACHE_DIR, or "" for the default location.
func cacheDirOverride() string {
	return strings.TrimSpace(os.Getenv("COLOMBIA_CACHE_DIR"))
}

// debugObserver logs every call at debug level.
type debugObserver struct{}

func (debugObserver) ObserveCall(method, path string, env api.Envelope, elapsed time.Duration) {
	attrs := []any{
		"method", method,
		"path", path,
		"status", env.StatusCode(),
		"elapsed", elapsed,
	}
	if !env.OK() {
		attrs = append(attrs, "error", env.Err.Message())
	}
	slog.Debug("api call", attrs...)
}

type multiObserver []api.Observer

func (m multiObserver) ObserveCall(method, path string, env api.Envelope, elapsed time.Duration) {
	for _, o := range m {
		o.ObserveCall(method, path, env, elapsed)
	}
}
