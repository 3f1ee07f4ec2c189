package dryrun

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWithDryRun(t *testing.T) {
	ctx := WithDryRun(context.Background(), true)
	if !IsEnabled(ctx) {
		t.Error("IsEnabled should return true when dry-run is enabled")
	}
}

func TestIsEnabled_DefaultFalse(t *testing.T) {
	if IsEnabled(context.Background()) {
		t.Error("IsEnabled should return false by default")
	}
}

func TestWithDryRun_Disabled(t *testing.T) {
	ctx := WithDryRun(context.Background(), false)
	if IsEnabled(ctx) {
		t.Error("IsEnabled should return false when dry-run is explicitly disabled")
	}
}

func TestPreview_Write(t *testing.T) {
	var p Preview
	p.Add("GET", "https://api-colombia.com/api/v1/Department/5", true)
	p.Add("DELETE", "https://api-colombia.com/api/v1/Department/5", false)

	var buf bytes.Buffer
	p.Write(&buf)
	output := buf.String()

	for _, want := range []string{
		"[DRY-RUN] Would send 2 request(s)",
		"  GET https://api-colombia.com/api/v1/Department/5 (cacheable)\n",
		"  DELETE https://api-colombia.com/api/v1/Department/5\n",
		"Nothing sent",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Warnings:") {
		t.Error("Warnings section should be omitted when empty")
	}
}

func TestPreview_WriteWithWarnings(t *testing.T) {
	p := Preview{Warnings: []string{"URL host differs from the configured base URL"}}
	p.Add("POST", "https://api-colombia.com/api/v1/Region", false)

	var buf bytes.Buffer
	p.Write(&buf)

	if !strings.Contains(buf.String(), "  ! URL host differs from the configured base URL") {
		t.Errorf("warning not rendered:\n%s", buf.String())
	}
}
