package outfmt

import (
	"bytes"
	"context"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"JSON", JSON, false},
		{"jsonl", JSONL, false},
		{"ndjson", JSONL, false},
		{"agent", Text, true},
		{"yaml", Text, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestModeContext(t *testing.T) {
	ctx := context.Background()
	if ModeFromContext(ctx) != Text || IsJSON(ctx) {
		t.Error("default mode should be text")
	}
	ctx = WithMode(ctx, JSONL)
	if !IsJSON(ctx) || !IsJSONL(ctx) {
		t.Error("jsonl counts as JSON output")
	}
	if IsCompact(ctx) {
		t.Error("compact should default to false")
	}
	if !IsCompact(WithCompact(ctx, true)) {
		t.Error("WithCompact(true) should be visible")
	}
}

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{Text: "text", JSON: "json", JSONL: "jsonl"} {
		if mode.String() != want {
			t.Errorf("%d.String() = %q, want %q", mode, mode.String(), want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]string{"name": "Café & Pan"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"name\": \"Café & Pan\"\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	_ = WriteJSONMaybeCompact(&buf, []int{1, 2}, true)
	if buf.String() != "[1,2]\n" {
		t.Errorf("compact output = %q", buf.String())
	}
}

func TestWriteJSONLines(t *testing.T) {
	var buf bytes.Buffer
	items := []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}}
	if err := WriteJSONLines(&buf, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "{\"id\":1}\n{\"id\":2}\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	_ = WriteJSONLines(&buf, map[string]any{"name": "Colombia"})
	if buf.String() != "{\"name\":\"Colombia\"}\n" {
		t.Errorf("single value got %q", buf.String())
	}
}
