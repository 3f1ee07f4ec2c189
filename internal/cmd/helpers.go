package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/dryrun"
	"github.com/colombia-api/colombia-cli/internal/iocontext"
	"github.com/colombia-api/colombia-cli/internal/outfmt"
)

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query for consistency with gh CLI.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
}

// printJSON outputs data as JSON with optional query/template filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	query := outfmt.GetQuery(cmd.Context())
	if tmpl := outfmt.GetTemplate(cmd.Context()); tmpl != "" {
		filtered, err := outfmt.ApplyQuery(v, query)
		if err != nil {
			return err
		}
		return outfmt.WriteTemplate(ioStreams.Out, filtered, tmpl)
	}
	if outfmt.IsJSONL(cmd.Context()) {
		filtered, err := outfmt.ApplyQuery(v, query)
		if err != nil {
			return err
		}
		return outfmt.WriteJSONLines(ioStreams.Out, filtered)
	}
	return outfmt.WriteJSONFiltered(ioStreams.Out, v, query, outfmt.IsCompact(cmd.Context()))
}

// printJSONErr writes a structured error to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	return outfmt.WriteJSON(ioStreams.ErrOut, v)
}

// printEnvelope renders one call result. In JSON modes a failed envelope is
// printed as its error body and reported back as an already-handled error
// carrying the mapped exit code; in text mode the failure is returned for
// RunE to explain.
func printEnvelope(cmd *cobra.Command, label string, env api.Envelope) error {
	f := newFormatter(cmd)
	if isJSON(cmd) {
		if err := f.Envelope(env); err != nil {
			return err
		}
		if !env.OK() {
			err := fmt.Errorf("%s: %w", label, env.Error())
			return &handledError{err: err, exitCode: ExitCode(err)}
		}
		return nil
	}
	if !env.OK() {
		return fmt.Errorf("%s: %w", label, env.Error())
	}
	return f.Envelope(env)
}

// isJSON checks if the command context wants JSON output
func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// printIfNotQuiet prints to stdout only if not in quiet mode
func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if !flags.Quiet {
		ioStreams := iocontext.GetIO(cmd.Context())
		_, _ = fmt.Fprintf(ioStreams.Out, format, args...)
	}
}

// printWarning writes a warning to stderr unless quiet or silent.
func printWarning(cmd *cobra.Command, format string, args ...any) {
	if flags.Quiet || flags.Silent {
		return
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	_, _ = fmt.Fprintf(ioStreams.ErrOut, "Warning: "+format+"\n", args...)
}

// writePreview prints a dry-run preview in the active output mode.
func writePreview(cmd *cobra.Command, preview *dryrun.Preview) error {
	if isJSON(cmd) {
		return printJSON(cmd, map[string]any{
			"dry_run":  true,
			"requests": preview.Requests,
			"warnings": preview.Warnings,
		})
	}
	ioStreams := iocontext.GetIO(cmd.Context())
	preview.Write(ioStreams.Out)
	return nil
}

// cmdContext returns the command context
func cmdContext(cmd *cobra.Command) context.Context {
	return cmd.Context()
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagAlias registers a hidden alias for an existing flag. Both names share
// the same Value; the alias is annotated so flagOrAliasChanged can see it.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasBridgeValue{Value: f.Value, canonical: f}
	a.Annotations = map[string][]string{"alias-of": {name}}
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}

	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}
	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

func loadQueryFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("--query-file requires a file path")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read query from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read --query-file %q: %w", path, err)
		}
	}

	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", fmt.Errorf("--query-file %q is empty", path)
	}
	return query, nil
}

func loadTemplate(value string) (string, error) {
	if strings.HasPrefix(value, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}

// ParseStringListFlag parses a comma/whitespace separated value, or a JSON
// array of strings, into a list.
func ParseStringListFlag(value string) ([]string, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return nil, fmt.Errorf("no values provided")
	}

	if strings.HasPrefix(raw, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			out := make([]string, 0, len(arr))
			for _, v := range arr {
				if s := strings.TrimSpace(v); s != "" {
					out = append(out, s)
				}
			}
			if len(out) == 0 {
				return nil, fmt.Errorf("no valid values provided")
			}
			return out, nil
		}
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	if len(parts) == 0 {
		return nil, fmt.Errorf("no valid values provided")
	}
	return parts, nil
}

func parseFields(input string) ([]string, error) {
	fields, err := ParseStringListFlag(input)
	if err != nil {
		return nil, fmt.Errorf("--fields must include at least one field")
	}
	return fields, nil
}

// buildFieldsQuery turns "id,name,region.name" into a jq projection that
// works on both objects and arrays of objects.
func buildFieldsQuery(fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", jqKey(field), jqPath(field)))
	}
	expr := strings.Join(parts, ", ")
	return fmt.Sprintf("if type==\"array\" then map({%s}) else {%s} end", expr, expr)
}

func jqKey(key string) string {
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(key, "\"", "\\\""))
}

func jqPath(path string) string {
	var expr strings.Builder
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		fmt.Fprintf(&expr, "[\"%s\"]", strings.ReplaceAll(seg, "\"", "\\\""))
	}
	if expr.Len() == 0 {
		return "."
	}
	return "." + expr.String()
}

// errAlreadyHandled is a sentinel error indicating the error was already printed.
// Commands return it so Cobra reports failure (for the exit code) without
// printing the message a second time.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

// Unwrap exposes both the sentinel and the original error, so callers can
// still match typed API errors with errors.As.
func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if errors.Is(err, errAlreadyHandled) {
			return err
		}
		if isJSON(cmd) {
			if structured := api.StructuredErrorFromError(err); structured != nil {
				_ = printJSONErr(cmd, structured)
			}
		} else {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		}
		// Return a handled error so tests can still inspect the original message.
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}
