// Package dryrun previews API requests without sending them.
package dryrun

import (
	"context"
	"fmt"
	"io"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Request is one request that would have been sent.
type Request struct {
	Method    string `json:"method"`
	URL       string `json:"url"`
	Cacheable bool   `json:"cacheable"`
}

// Preview lists the requests a command would send.
type Preview struct {
	Requests []Request `json:"requests"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Add appends a request to the preview.
func (p *Preview) Add(method, url string, cacheable bool) {
	p.Requests = append(p.Requests, Request{Method: method, URL: url, Cacheable: cacheable})
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would send %d request(s)\n", len(p.Requests))
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")

	for _, r := range p.Requests {
		_, _ = fmt.Fprintf(w, "  %s %s", r.Method, r.URL)
		if r.Cacheable {
			_, _ = fmt.Fprint(w, " (cacheable)")
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "Nothing sent (dry-run mode)")
}
