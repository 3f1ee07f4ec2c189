package iocontext

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
)

func TestDefaultIO(t *testing.T) {
	streams := DefaultIO()
	if streams.Out != os.Stdout || streams.ErrOut != os.Stderr || streams.In != os.Stdin {
		t.Error("DefaultIO should return the process streams")
	}
}

func TestWithIO(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	ctx := WithIO(context.Background(), &IO{Out: out, ErrOut: errOut})

	got := GetIO(ctx)
	if got.Out != out || got.ErrOut != errOut {
		t.Error("GetIO should return the streams set with WithIO")
	}
	if got.In != os.Stdin {
		t.Error("missing stdin should fall back to os.Stdin")
	}
}

func TestGetIO_DefaultsWhenNotSet(t *testing.T) {
	if GetIO(context.Background()).Out != os.Stdout {
		t.Error("GetIO should default to os.Stdout")
	}
	if GetIO(WithIO(context.Background(), nil)).Out != os.Stdout {
		t.Error("a nil IO should behave as unset")
	}
}

func TestDiscard(t *testing.T) {
	streams := Discard()
	if n, err := streams.Out.Write([]byte("x")); n != 1 || err != nil {
		t.Errorf("Write = %d, %v", n, err)
	}
	data, err := io.ReadAll(streams.In)
	if err != nil || len(data) != 0 {
		t.Errorf("ReadAll = %q, %v", data, err)
	}
}
