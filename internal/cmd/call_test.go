package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_RawPath(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/Department/5", jsonResponse(200, `{"id": 5, "name": "Bolívar"}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"call", "/Department/5", "-o", "json"}))
	})

	assert.JSONEq(t, `{"id": 5, "name": "Bolívar"}`, output)
}

func TestCall_EndpointName(t *testing.T) {
	tests := []struct {
		name string
		args []string
		path string
	}{
		{"no param", []string{"country.info"}, "/api/v1/Country/Colombia"},
		{"id param", []string{"departments.cities", "5"}, "/api/v1/Department/5/cities"},
		{"text param", []string{"search.all", "Caño", "Cristales"}, "/api/v1/Search/Caño Cristales"},
		{"map", []string{"maps.city", "3"}, "/api/v1/Map/City/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler().On("GET", tt.path, jsonResponse(200, `{"ok": true}`))
			setupTestEnvWithHandler(t, handler)

			output := captureStdout(t, func() {
				require.NoError(t, Execute(context.Background(), append([]string{"call"}, append(tt.args, "-o", "json")...)))
			})

			assert.JSONEq(t, `{"ok": true}`, output)
			assert.Equal(t, 1, handler.Hits("GET", tt.path))
		})
	}
}

func TestCall_EndpointArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown endpoint", []string{"call", "departments.citys", "5"}, `did you mean "departments.cities"`},
		{"extra argument", []string{"call", "country.info", "x"}, "accepts no arguments"},
		{"missing id", []string{"call", "cities.get"}, "requires exactly one id"},
		{"bad id", []string{"call", "cities.get", "abc"}, `invalid id "abc"`},
		{"missing text", []string{"call", "search.all"}, "requires a text argument"},
		{"method mismatch", []string{"call", "-X", "POST", "regions.list"}, "only supports GET"},
		{"mixed args", []string{"call", "/City/1", "City/2"}, "every path must start with /"},
		{"bad method", []string{"call", "-X", "PATCH", "/City/1"}, `invalid HTTP method "PATCH"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnvWithHandler(t, newRouteHandler())

			var err error
			_ = captureStderr(t, func() {
				err = Execute(context.Background(), tt.args)
			})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, exitUsage, ExitCode(err))
		})
	}
}

func TestCall_MethodOverride(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/Department", jsonResponse(200, `{"created": false}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"call", "--method", "post", "/Department", "-o", "json"}))
	})

	assert.JSONEq(t, `{"created": false}`, output)
	assert.Equal(t, 1, handler.Hits("POST", "/api/v1/Department"))
}

func TestCall_MultiplePathsJSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/City/1", jsonResponse(200, `{"id": 1, "name": "Leticia"}`)).
		On("GET", "/api/v1/City/3", jsonResponse(200, `{"id": 3, "name": "Medellín"}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	output := captureStdout(t, func() {
		err = Execute(context.Background(), []string{"call", "/City/1", "/City/2", "/City/3", "-o", "json"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 calls failed")
	assert.Contains(t, err.Error(), "GET /City/2 failed: HTTP Error: 404")
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.JSONEq(t, `[
		{"path": "/City/1", "status": 200, "response": {"id": 1, "name": "Leticia"}},
		{"path": "/City/2", "status": 404, "response": {"error": "HTTP Error: 404", "success": false}},
		{"path": "/City/3", "status": 200, "response": {"id": 3, "name": "Medellín"}}
	]`, output)
}

func TestCall_MultiplePathsText(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/Radio/1", jsonResponse(200, `{"id": 1, "name": "Radio Nacional"}`)).
		On("GET", "/api/v1/Radio/2", jsonResponse(200, `{"id": 2, "name": "La FM"}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"call", "/Radio/1", "/Radio/2"}))
	})

	assert.Contains(t, output, "==> GET /Radio/1 <==")
	assert.Contains(t, output, "==> GET /Radio/2 <==")
	assert.Less(t, strings.Index(output, "Radio Nacional"), strings.Index(output, "La FM"))
}

func TestCall_TransportFault(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/Country/Colombia", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name": `))
		})
	setupTestEnvWithHandler(t, handler)

	var err error
	output := captureStdout(t, func() {
		err = Execute(context.Background(), []string{"call", "/Country/Colombia", "-o", "json"})
	})

	require.Error(t, err)
	var body map[string]any
	decodeJSON(t, output, &body)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "Exception: ")
	assert.Equal(t, exitNetwork, ExitCode(err))
}

func TestCall_FullURL(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/Region/1/departments", jsonResponse(200, `[{"id": 2}]`))
	env := setupTestEnvWithHandler(t, handler)

	var output string
	stderr := captureStderr(t, func() {
		output = captureStdout(t, func() {
			require.NoError(t, Execute(context.Background(), []string{"call", env.server.URL + "/api/v1/Region/1/departments", "-o", "json"}))
		})
	})

	assert.JSONEq(t, `[{"id": 2}]`, output)
	assert.Empty(t, stderr)
	assert.Equal(t, 1, handler.Hits("GET", "/api/v1/Region/1/departments"))
}

func TestCall_FullURLOtherBaseWarns(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/Airport/3", jsonResponse(200, `{"id": 3}`))
	setupTestEnvWithHandler(t, handler)

	stderr := captureStderr(t, func() {
		_ = captureStdout(t, func() {
			require.NoError(t, Execute(context.Background(), []string{"call", "https://api-colombia.com/api/v1/Airport/3"}))
		})
	})

	assert.Contains(t, stderr, "Warning: https://api-colombia.com/api/v1/Airport/3 targets https://api-colombia.com/api/v1")
	assert.Equal(t, 1, handler.Hits("GET", "/api/v1/Airport/3"))
}

func TestCall_InvalidURLIsUsageError(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"call", "https://api-colombia.com/City/1"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected /api/v1")
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestCall_DryRun(t *testing.T) {
	handler := newRouteHandler()
	env := setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"call", "--dry-run", "-X", "DELETE", "/Department/5", "/Department/6"}))
	})

	assert.Contains(t, output, "[DRY-RUN] Would send 2 request(s)")
	assert.Contains(t, output, "DELETE "+env.server.URL+"/api/v1/Department/5")
	assert.Contains(t, output, "DELETE "+env.server.URL+"/api/v1/Department/6")
	assert.Equal(t, 0, handler.Hits("DELETE", "/api/v1/Department/5"))
}

func TestCall_DryRunJSON(t *testing.T) {
	handler := newRouteHandler()
	env := setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"call", "--dr", "--cache", "cities.get", "7", "-o", "json"}))
	})

	var got struct {
		DryRun   bool `json:"dry_run"`
		Requests []struct {
			Method    string `json:"method"`
			URL       string `json:"url"`
			Cacheable bool   `json:"cacheable"`
		} `json:"requests"`
	}
	decodeJSON(t, output, &got)
	assert.True(t, got.DryRun)
	require.Len(t, got.Requests, 1)
	assert.Equal(t, http.MethodGet, got.Requests[0].Method)
	assert.Equal(t, env.server.URL+"/api/v1/City/7", got.Requests[0].URL)
	assert.True(t, got.Requests[0].Cacheable)
	assert.Equal(t, 0, handler.Hits("GET", "/api/v1/City/7"))
}
