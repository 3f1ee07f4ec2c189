package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// ApplyQuery applies a jq query to v after a JSON round trip, so structs and
// envelopes are filtered by their JSON shape.
func ApplyQuery(v any, query string) (any, error) {
	if query == "" {
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return filter.ApplyFromJSON(data, query)
}

// WriteJSONFiltered writes v as JSON with optional jq filtering.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	out, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, out, compact)
}

// EnvelopeValue returns the JSON value an envelope renders as: the payload on
// success, the error body otherwise. A query applies to success payloads only.
func EnvelopeValue(env api.Envelope, query string) (any, error) {
	if !env.OK() {
		var body any
		data, err := json.Marshal(env)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, err
		}
		return body, nil
	}
	if query == "" {
		return env.Payload, nil
	}
	return filter.ApplyFromJSON(env.Raw, query)
}
