package api

import (
	"net/url"
	"strings"
	"testing"
)

func TestEncodeSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bogota", "Bogota"},
		{"Bogotá", "Bogot%C3%A1"},
		{"San Andrés y Providencia", "San%20Andr%C3%A9s%20y%20Providencia"},
		{"Norte de Santander", "Norte%20de%20Santander"},
		{"a/b", "a%2Fb"},
		{"Café & Pan", "Caf%C3%A9%20%26%20Pan"},
		{"1+1", "1%2B1"},
		{"50%", "50%25"},
		{"¿Qué?", "%C2%BFQu%C3%A9%3F"},
		{"a-b_c.d~e", "a-b_c.d~e"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EncodeSegment(tt.in); got != tt.want {
			t.Errorf("EncodeSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeSegment_RoundTrips(t *testing.T) {
	inputs := []string{
		"Bogotá D.C.",
		"Nariño",
		"Parque Nacional Natural",
		"a/b/c",
		"x?y#z",
		"ñ&ü=1;2",
		"  spaced  ",
	}
	for _, in := range inputs {
		encoded := EncodeSegment(in)
		if strings.ContainsAny(encoded, "/?#&= +") {
			t.Errorf("EncodeSegment(%q) = %q leaves a reserved character", in, encoded)
		}
		decoded, err := url.PathUnescape(encoded)
		if err != nil {
			t.Fatalf("PathUnescape(%q): %v", encoded, err)
		}
		if decoded != in {
			t.Errorf("round trip of %q gave %q", in, decoded)
		}
	}
}

func TestIDPath(t *testing.T) {
	tests := []struct {
		prefix string
		id     int
		suffix string
		want   string
	}{
		{"/Department", 5, "", "/Department/5"},
		{"/Department", 5, "cities", "/Department/5/cities"},
		{"/TouristicAttraction/city", 0, "", "/TouristicAttraction/city/0"},
		{"/City", 1102, "president", "/City/1102/president"},
	}
	for _, tt := range tests {
		if got := idPath(tt.prefix, tt.id, tt.suffix); got != tt.want {
			t.Errorf("idPath(%q, %d, %q) = %q, want %q", tt.prefix, tt.id, tt.suffix, got, tt.want)
		}
	}
}

func TestTextPath(t *testing.T) {
	if got := textPath("/City/name", "Santa Marta"); got != "/City/name/Santa%20Marta" {
		t.Errorf("textPath = %q", got)
	}
	if got := textPath("/Search", "río/mar"); got != "/Search/r%C3%ADo%2Fmar" {
		t.Errorf("textPath = %q", got)
	}
}
