package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/colombia-api/colombia-cli/internal/api"
)

func TestEndpoints_Text(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"endpoints"}); err != nil {
			t.Fatalf("endpoints failed: %v", err)
		}
	})

	for _, want := range []string{"NAME", "departments.cities", "/Department/{id}/cities", "search.airports"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if got, want := len(lines)-1, len(api.Endpoints()); got != want {
		t.Errorf("rows = %d, want %d", got, want)
	}
}

func TestEndpoints_PrefixJSON(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"ep", "--prefix", "maps.", "-o", "json"}); err != nil {
			t.Fatalf("endpoints failed: %v", err)
		}
	})

	var rows []endpointInfo
	decodeJSON(t, output, &rows)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1].Name != "maps.department" || rows[1].Param != "id" || rows[1].Method != "GET" {
		t.Errorf("unexpected row: %+v", rows[1])
	}
	if rows[0].Param != "" {
		t.Errorf("maps.country should have no param, got %q", rows[0].Param)
	}
}
