package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colombia-api/colombia-cli/internal/api"
)

func TestObserveCall(t *testing.T) {
	c := NewCollector()

	c.ObserveCall(http.MethodGet, "/City/1", api.Envelope{}, 10*time.Millisecond)
	c.ObserveCall(http.MethodGet, "/City/1", api.Envelope{}, 20*time.Millisecond)
	c.ObserveCall(http.MethodGet, "/City/9", api.Envelope{Err: &api.CallError{Kind: api.KindRemoteStatus, StatusCode: 404}}, time.Millisecond)
	c.ObserveCall(http.MethodPost, "/City", api.Envelope{Err: &api.CallError{Kind: api.KindTransportFault, Description: "refused"}}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.calls.WithLabelValues("GET", KindOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("GET", KindRemoteStatus)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("POST", KindTransportFault)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.statuses.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.statuses.WithLabelValues("404")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.callDuration))
}

func TestCollectorAsClientObserver(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Radio/0" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	c := NewCollector()
	cfg := api.DefaultConfig()
	cfg.BaseURL = upstream.URL
	cfg.Retry = api.RetryConfig{}
	cfg.Observer = c
	client := api.New(cfg)

	_ = client.Radios().List(context.Background())
	_ = client.Radios().Get(context.Background(), 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("GET", KindOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("GET", KindRemoteStatus)))
}

func TestGatewayMetrics(t *testing.T) {
	c := NewCollector()
	done := c.TrackInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.inFlight))

	c.ObserveRequest("/api/v1/City/{id}", 200)
	c.ObserveRequest("/api/v1/City/{id}", 200)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("/api/v1/City/{id}", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.ObserveCall(http.MethodGet, "/Region", api.Envelope{}, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `colombia_api_calls_total{kind="ok",method="GET"} 1`), text)
	assert.Contains(t, text, "colombia_api_call_duration_seconds_bucket")
	assert.Contains(t, text, "go_goroutines")
}

func TestRegistryIsPrivate(t *testing.T) {
	a := NewCollector()
	b := NewCollector()
	a.ObserveCall(http.MethodGet, "/", api.Envelope{}, 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.calls.WithLabelValues("GET", KindOK)))
	assert.NotSame(t, a.Registry(), b.Registry())
}
