package cmd

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_DefaultsToAllScopes(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/Search/Santa Marta", jsonResponse(200, `[{"id": 1, "name": "Santa Marta"}]`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"search", "Santa", "Marta"}))
	})

	assert.Contains(t, output, "Santa Marta")
	assert.Equal(t, 1, handler.Hits("GET", "/api/v1/Search/Santa Marta"))
}

func TestSearch_Scopes(t *testing.T) {
	tests := []struct {
		scope string
		path  string
	}{
		{"all", "/api/v1/Search/cafe"},
		{"cities", "/api/v1/Search/City/cafe"},
		{"departments", "/api/v1/Search/Department/cafe"},
		{"regions", "/api/v1/Search/Region/cafe"},
		{"attractions", "/api/v1/Search/TouristicAttraction/cafe"},
		{"natural-areas", "/api/v1/Search/NaturalArea/cafe"},
		{"presidents", "/api/v1/Search/President/cafe"},
		{"airports", "/api/v1/Search/Airport/cafe"},
	}

	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			handler := newRouteHandler().
				On("GET", tt.path, jsonResponse(200, `[{"id": 4, "name": "Eje Cafetero"}]`))
			setupTestEnvWithHandler(t, handler)

			output := captureStdout(t, func() {
				require.NoError(t, Execute(context.Background(), []string{"search", tt.scope, "cafe", "-o", "json"}))
			})

			assert.JSONEq(t, `[{"id": 4, "name": "Eje Cafetero"}]`, output)
		})
	}
}

func TestSearch_EncodesReservedCharacters(t *testing.T) {
	var gotRaw string
	handler := newRouteHandler()
	handler.On("GET", "/api/v1/Search/a/b & c", func(w http.ResponseWriter, r *http.Request) {
		gotRaw = r.URL.EscapedPath()
		jsonResponse(200, `[]`)(w, r)
	})
	setupTestEnvWithHandler(t, handler)

	_ = captureStderr(t, func() {
		_ = captureStdout(t, func() {
			require.NoError(t, Execute(context.Background(), []string{"search", "a/b & c"}))
		})
	})

	assert.Equal(t, "/api/v1/Search/a%2Fb%20%26%20c", gotRaw)
}

func TestSearch_BlankTermIsUsageError(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"search", "   "})
	})

	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestSearch_QueryFiltersPayload(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/Search/City/Cali", jsonResponse(200, `[{"id": 9, "name": "Cali"}, {"id": 10, "name": "Calima"}]`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"search", "city", "Cali", "--jq", "[.[].name]"}))
	})

	assert.JSONEq(t, `["Cali", "Calima"]`, output)
}
