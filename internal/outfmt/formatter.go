package outfmt

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/colombia-api/colombia-cli/internal/api"
)

// maxCellWidth truncates long descriptions in text tables.
const maxCellWidth = 60

// Formatter handles output formatting for commands.
type Formatter struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	tabWriter *tabwriter.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:       ctx,
		out:       out,
		errOut:    errOut,
		tabWriter: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data in the context's JSON flavor. It is a no-op in text mode.
func (f *Formatter) Output(data any) error {
	if !IsJSON(f.ctx) {
		return nil
	}
	filtered, err := ApplyQuery(data, GetQuery(f.ctx))
	if err != nil {
		return err
	}
	return f.writeValue(filtered)
}

func (f *Formatter) writeValue(v any) error {
	if tmpl := GetTemplate(f.ctx); tmpl != "" {
		return WriteTemplate(f.out, v, tmpl)
	}
	if IsJSONL(f.ctx) {
		return WriteJSONLines(f.out, v)
	}
	return WriteJSONMaybeCompact(f.out, v, IsCompact(f.ctx))
}

// Envelope renders one call result. JSON modes print the payload (filtered by
// the context query) or the error body; text mode prints a table for lists and
// key/value pairs for objects. Error envelopes are not rendered in text mode;
// callers report them through the error path.
func (f *Formatter) Envelope(env api.Envelope) error {
	if IsJSON(f.ctx) {
		v, err := EnvelopeValue(env, GetQuery(f.ctx))
		if err != nil {
			return err
		}
		return f.writeValue(v)
	}
	if !env.OK() {
		return nil
	}
	if q := GetQuery(f.ctx); q != "" {
		v, err := EnvelopeValue(env, q)
		if err != nil {
			return err
		}
		return f.Text(v)
	}
	return f.Text(env.Payload)
}

// Text renders a decoded JSON value for humans.
func (f *Formatter) Text(v any) error {
	switch val := v.(type) {
	case []any:
		if len(val) == 0 {
			f.Empty("No results found")
			return nil
		}
		if _, ok := val[0].(map[string]any); !ok {
			for _, item := range val {
				_, _ = fmt.Fprintln(f.out, Cell(item))
			}
			return nil
		}
		f.StartTable([]string{"ID", "NAME", "DESCRIPTION"})
		for _, item := range val {
			obj, _ := item.(map[string]any)
			f.Row(Cell(obj["id"]), Cell(obj["name"]), Truncate(Cell(obj["description"]), maxCellWidth))
		}
		return f.EndTable()
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(f.tabWriter, "%s:\t%s\n", k, Truncate(Cell(val[k]), 4*maxCellWidth))
		}
		return f.EndTable()
	case nil:
		f.Empty("No content")
		return nil
	default:
		_, err := fmt.Fprintln(f.out, Cell(val))
		return err
	}
}

// StartTable writes table headers. Returns true if in text mode.
func (f *Formatter) StartTable(headers []string) bool {
	if IsJSON(f.ctx) {
		return false
	}
	f.Row(headers...)
	return true
}

// Row writes a single row to the table.
func (f *Formatter) Row(columns ...string) {
	_, _ = fmt.Fprintln(f.tabWriter, strings.Join(columns, "\t"))
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.tabWriter.Flush()
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}

// Cell renders a scalar for a table cell. Nested values collapse to a summary.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return strings.Join(strings.Fields(val), " ")
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case []any:
		return fmt.Sprintf("[%d items]", len(val))
	case map[string]any:
		if name, ok := val["name"]; ok {
			return Cell(name)
		}
		return fmt.Sprintf("{%d fields}", len(val))
	default:
		return fmt.Sprint(val)
	}
}

// Truncate shortens s to max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
