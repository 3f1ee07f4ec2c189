package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/resolve"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
		{
			name: "not found with suggestions",
			err: &resolve.NotFoundError{
				Query:       "Bogta",
				Suggestions: []resolve.Match{{ID: 4, Name: "Bogotá"}, {ID: 30, Name: "Boyacá"}},
			},
			want: []string{`No match for "Bogta".`, "Did you mean:", "  - Bogotá (id 4)", "  - Boyacá (id 30)"},
		},
		{
			name: "ambiguous",
			err:  &resolve.AmbiguousError{Query: "san", Matches: []resolve.Match{{ID: 1, Name: "San Andrés"}, {ID: 2, Name: "Santander"}}},
			want: []string{`ambiguous match for "san"`, "1: San Andrés", "Pass the numeric ID"},
		},
		{
			name: "not found status",
			err:  fmt.Errorf("get city 9: %w", &api.RemoteStatusError{StatusCode: 404}),
			want: []string{"API error: get city 9: HTTP Error: 404", "The resource doesn't exist"},
		},
		{
			name: "rate limited",
			err:  &api.RemoteStatusError{StatusCode: 429},
			want: []string{"HTTP Error: 429", "Lower --rps"},
		},
		{
			name: "server error",
			err:  &api.RemoteStatusError{StatusCode: 502},
			want: []string{"HTTP Error: 502", "not your fault"},
		},
		{
			name: "redirect",
			err:  &api.RemoteStatusError{StatusCode: 302},
			want: []string{"HTTP Error: 302", "/api/v1 prefix"},
		},
		{
			name: "connection refused",
			err:  &api.TransportFault{Description: "dial tcp 127.0.0.1:1: connect: connection refused"},
			want: []string{"Request failed: Exception: dial tcp", "Check if the server is running"},
		},
		{
			name: "timeout",
			err:  &api.TransportFault{Description: "context deadline exceeded"},
			want: []string{"Raise --timeout"},
		},
		{
			name: "bad json",
			err:  &api.TransportFault{Description: "invalid JSON response: invalid character '<' looking for beginning of value"},
			want: []string{"something other than JSON"},
		},
		{
			name: "structured",
			err:  api.NewValidationError("method", "PATCH", []string{"GET", "POST"}),
			want: []string{`Error: invalid method "PATCH"`, "Suggestion: Use one of: GET, POST"},
		},
		{
			name: "generic",
			err:  errors.New("boom"),
			want: []string{"Error: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleError(tt.err)
			if tt.err == nil {
				if got != "" {
					t.Fatalf("HandleError(nil) = %q, want empty", got)
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("HandleError() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}
