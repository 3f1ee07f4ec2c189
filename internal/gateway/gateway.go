// Package gateway exposes the API Colombia client as a local HTTP service.
//
// Every endpoint of the client is mounted under /api/v1 with the upstream path
// layout, so the gateway can stand in for the public API (with caching,
// retries and metrics applied by the client behind it).
package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/metrics"
)

// Prefix is where the endpoint table is mounted.
const Prefix = "/api/v1"

// Options configures the gateway handler.
type Options struct {
	Client  api.Caller
	Logger  *slog.Logger
	Metrics *metrics.Collector // nil disables /metrics and request counting

	// RateLimit is the inbound requests per second across all clients;
	// 0 disables limiting. Burst defaults to the rounded-up rate.
	RateLimit float64
	Burst     int
}

// New builds the gateway router.
func New(opts Options) (http.Handler, error) {
	if opts.Client == nil {
		return nil, errors.New("client is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(CorrelationID)
	r.Use(RequestLogger(opts.Logger))
	r.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		r.Use(Instrument(opts.Metrics))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route(Prefix, func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(RateLimit(opts.RateLimit, opts.Burst))
		}
		for _, e := range api.Endpoints() {
			r.Method(e.Method, e.Template, endpointHandler(opts.Client, e))
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "HTTP Error: 404")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "HTTP Error: 405")
	})

	return r, nil
}

func endpointHandler(client api.Caller, e api.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arg, err := segment(r, e.Param)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		path, err := e.Path(arg)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		env := client.Call(r.Context(), e.Method, path)
		writeEnvelope(w, env)
	}
}

// segment returns the decoded dynamic segment. chi matches on RawPath when the
// request carries escapes, so the captured value may still be encoded.
func segment(r *http.Request, kind api.ParamKind) (string, error) {
	var name string
	switch kind {
	case api.ParamID:
		name = "id"
	case api.ParamText:
		name = "text"
	default:
		return "", nil
	}
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", errors.New("invalid path segment encoding")
	}
	return decoded, nil
}

// StatusFor maps an envelope to the gateway response status: 200 on success,
// the upstream status for 4xx/5xx answers, 502 for everything else.
func StatusFor(env api.Envelope) int {
	if env.OK() {
		return http.StatusOK
	}
	if code := env.StatusCode(); code >= 400 && code <= 599 {
		return code
	}
	return http.StatusBadGateway
}

func writeEnvelope(w http.ResponseWriter, env api.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Exception: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(env))
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error":   strings.TrimSpace(message),
		"success": false,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
