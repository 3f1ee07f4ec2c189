// Package iocontext carries the command I/O streams through context so tests can capture them.
package iocontext

import (
	"context"
	"io"
	"os"
)

// IO holds the input/output streams for commands.
type IO struct {
	Out    io.Writer // stdout
	ErrOut io.Writer // stderr
	In     io.Reader // stdin
}

// DefaultIO returns the standard IO streams.
func DefaultIO() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

// Discard returns streams that drop all output and read nothing.
func Discard() *IO {
	return &IO{Out: io.Discard, ErrOut: io.Discard, In: eofReader{}}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

type ioKey struct{}

// WithIO adds IO streams to a context.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO retrieves IO streams from context, defaulting to standard streams.
// Missing fields of a stored IO fall back to the matching standard stream.
func GetIO(ctx context.Context) *IO {
	streams, ok := ctx.Value(ioKey{}).(*IO)
	if !ok || streams == nil {
		return DefaultIO()
	}
	out := *streams
	if out.Out == nil {
		out.Out = os.Stdout
	}
	if out.ErrOut == nil {
		out.ErrOut = os.Stderr
	}
	if out.In == nil {
		out.In = os.Stdin
	}
	return &out
}
