package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/config"
	"github.com/colombia-api/colombia-cli/internal/debug"
	"github.com/colombia-api/colombia-cli/internal/gateway"
	"github.com/colombia-api/colombia-cli/internal/iocontext"
	"github.com/colombia-api/colombia-cli/internal/metrics"
	"github.com/colombia-api/colombia-cli/internal/validation"
)

type serveOptions struct {
	addr      string
	rateLimit float64
	burst     int
	noMetrics bool
}

// applyTo overlays explicitly set serve flags on the resolved settings.
func (o serveOptions) applyTo(cmd *cobra.Command, s *config.ServeSettings) {
	if cmd.Flags().Changed("addr") {
		s.Addr = o.addr
	}
	if cmd.Flags().Changed("rate-limit") {
		s.RateLimit = o.rateLimit
	}
	if cmd.Flags().Changed("burst") {
		s.Burst = o.burst
	}
	// the global --log-format also selects the request log format
	if flagOrAliasChanged(cmd, "log-format") {
		s.LogFormat = flags.LogFormat
	}
}

// buildGateway wires the client, metrics and logger into the gateway handler.
// The returned client and store are recorded on state for cleanup.
func buildGateway(settings config.Settings, logOut io.Writer, withMetrics bool) (http.Handler, *slog.Logger, error) {
	level := slog.LevelInfo
	if flags.Debug {
		level = slog.LevelDebug
	}
	handler, err := debug.NewLevelHandler(logOut, level, settings.Serve.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(handler)

	factory := newClientFactory(settings)
	var collector *metrics.Collector
	if withMetrics {
		collector = metrics.NewCollector()
		factory.withObserver(collector)
	}
	client, store, err := factory.build()
	if err != nil {
		return nil, nil, err
	}
	state.client = client
	state.store = store

	gw, err := gateway.New(gateway.Options{
		Client:    client,
		Logger:    logger,
		Metrics:   collector,
		RateLimit: settings.Serve.RateLimit,
		Burst:     settings.Serve.Burst,
	})
	if err != nil {
		return nil, nil, err
	}
	return gw, logger, nil
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API Colombia endpoints over a local HTTP gateway",
		Long: `Run a local HTTP server that mirrors the API Colombia paths under /api/v1.
Every request goes through the same client as the CLI, so caching, retries and
rate limits apply. Responses are the upstream payload on success and
{"error": ..., "success": false} otherwise.

Also serves /healthz and, unless --no-metrics, Prometheus metrics on /metrics.`,
		Example: `  colombia serve
  colombia serve --addr 0.0.0.0:9000 --rate-limit 20 --cache`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if state.settingsErr != nil {
				return state.settingsErr
			}
			settings := state.settings
			opts.applyTo(cmd, &settings.Serve)

			if err := validation.ValidateListenAddr(settings.Serve.Addr); err != nil {
				return err
			}
			if settings.Serve.RateLimit < 0 {
				return fmt.Errorf("--rate-limit must be >= 0")
			}
			if settings.Serve.Burst < 0 {
				return fmt.Errorf("--burst must be >= 0")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler, logger, err := buildGateway(settings, iocontext.GetIO(ctx).ErrOut, !opts.noMetrics)
			if err != nil {
				return err
			}
			return gateway.NewServer(settings.Serve.Addr, handler, logger).Run(ctx)
		}),
	}

	cmd.Flags().StringVar(&opts.addr, "addr", config.DefaultServeAddr, "Listen address (env COLOMBIA_SERVE_ADDR)")
	cmd.Flags().Float64Var(&opts.rateLimit, "rate-limit", 0, "Inbound requests per second, 0 for unlimited")
	cmd.Flags().IntVar(&opts.burst, "burst", 0, "Inbound burst size (default: the rate limit rounded up)")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "Do not serve /metrics")
	return cmd
}
