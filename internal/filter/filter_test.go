package filter

import (
	"bytes"
	"reflect"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"name": "Colombia"}
	result, err := Apply(data, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["name"] != "Colombia" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	data := map[string]any{"name": "Colombia", "population": 50000000.0}
	result, err := Apply(data, ".name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Colombia" {
		t.Errorf("expected 'Colombia', got %v", result)
	}
}

func TestApply_MultipleResultsCollected(t *testing.T) {
	data := []any{
		map[string]any{"id": 1.0, "name": "Amazonas"},
		map[string]any{"id": 2.0, "name": "Antioquia"},
	}
	result, err := Apply(data, ".[].name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{"Amazonas", "Antioquia"}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("got %v, want %v", result, want)
	}
}

func TestApply_Select(t *testing.T) {
	data := []any{
		map[string]any{"id": 1.0, "regionId": 3.0},
		map[string]any{"id": 2.0, "regionId": 5.0},
	}
	result, err := Apply(data, `[.[] | select(.regionId \!= 3) | .id]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result, []any{2.0}) {
		t.Errorf("got %v", result)
	}
}

func TestApply_NoResults(t *testing.T) {
	result, err := Apply([]any{}, ".[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	if _, err := Apply(map[string]any{}, "invalid[[["); err == nil {
		t.Error("expected error for invalid expression")
	}
	if _, err := Compile("undefined_function(1)"); err == nil {
		t.Error("expected compile error for unknown function")
	}
}

func TestApply_RuntimeError(t *testing.T) {
	if _, err := Apply("text", ".name"); err == nil {
		t.Error("expected error indexing a string")
	}
}

func TestApplyToJSON(t *testing.T) {
	result, err := ApplyToJSON([]byte(`{"name":"Bogotá","id":4}`), ".name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(result, []byte(`"Bogotá"`)) {
		t.Errorf("got %s", result)
	}

	raw := []byte(`{"a":1}`)
	same, err := ApplyToJSON(raw, "")
	if err != nil || !bytes.Equal(same, raw) {
		t.Errorf("empty expression should pass through, got %s, %v", same, err)
	}

	if _, err := ApplyToJSON([]byte(`{`), ".a"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNormalizeExpression(t *testing.T) {
	if got := NormalizeExpression(`  .a \!= 1 `); got != ".a != 1" {
		t.Errorf("got %q", got)
	}
}
