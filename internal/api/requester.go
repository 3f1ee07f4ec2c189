package api

import (
	"context"
	"fmt"
	"net/http"
)

// Caller is the call primitive every resource service funnels through.
// *Client implements it; tests and wrappers can substitute their own.
//
// Example usage in tests:
//
//	type recordingCaller struct{ paths []string }
//	func (r *recordingCaller) Call(_ context.Context, _, path string) Envelope {
//		r.paths = append(r.paths, path)
//		return Envelope{}
//	}
type Caller interface {
	Call(ctx context.Context, method, path string) Envelope
}

func get(ctx context.Context, c Caller, path string) Envelope {
	return c.Call(ctx, http.MethodGet, path)
}

// getByID requests prefix/<id>[/suffix]. A negative id never reaches the
// network and resolves to a fault envelope, matching Endpoint.Path.
func getByID(ctx context.Context, c Caller, prefix string, id int, suffix string) Envelope {
	if id < 0 {
		return faultEnvelope(fmt.Errorf("invalid id %d: must be a non-negative integer", id))
	}
	return get(ctx, c, idPath(prefix, id, suffix))
}
