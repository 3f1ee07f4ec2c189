package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/dryrun"
	"github.com/colombia-api/colombia-cli/internal/iocontext"
	"github.com/colombia-api/colombia-cli/internal/urlparse"
)

// callResult is the JSON shape of one path when several are called at once.
type callResult struct {
	Path     string       `json:"path"`
	Status   int          `json:"status"`
	Response api.Envelope `json:"response"`
}

func newCallCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "call <path|url>... | call <endpoint> [arg]",
		Short: "Call the API directly and print the result envelope",
		Long: `Call API Colombia with a raw path (relative to the base URL) or an endpoint
name from "colombia endpoints". Full API Colombia URLs are accepted too; their
path after /api/v1 is requested against the configured base URL. Several raw
paths are requested concurrently and printed in argument order.

Success prints the response payload; failure prints {"error": ..., "success": false}
in JSON mode or an explanation in text mode.`,
		Example: `  colombia call /Department/5
  colombia call /City/1 /City/2 /City/3 -o json
  colombia call departments.cities 5
  colombia call search.all "Caño Cristales"
  colombia call https://api-colombia.com/api/v1/Region/1/departments
  colombia call --method DELETE /Department/5 --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			method = strings.ToUpper(strings.TrimSpace(method))
			switch method {
			case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
			default:
				return fmt.Errorf("invalid HTTP method %q: must be one of GET, POST, PUT, DELETE", method)
			}

			paths, warnings, err := callPaths(cmd, method, args)
			if err != nil {
				return err
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)

			if dryrun.IsEnabled(ctx) {
				preview := &dryrun.Preview{Warnings: warnings}
				cacheable := method == http.MethodGet && client.Config().Cache != nil
				for _, p := range paths {
					preview.Add(method, client.BaseURL()+p, cacheable)
				}
				return writePreview(cmd, preview)
			}
			for _, w := range warnings {
				printWarning(cmd, "%s", w)
			}

			if len(paths) == 1 {
				env := client.Call(ctx, method, paths[0])
				return printEnvelope(cmd, method+" "+paths[0], env)
			}

			pending := make([]<-chan api.Envelope, len(paths))
			for i, p := range paths {
				pending[i] = client.CallAsync(ctx, method, p)
			}
			results := make([]callResult, len(paths))
			for i, ch := range pending {
				env := <-ch
				results[i] = callResult{Path: paths[i], Status: env.StatusCode(), Response: env}
			}
			return printCallResults(cmd, method, results)
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method (GET, POST, PUT, DELETE)")
	return cmd
}

func isRawTarget(arg string) bool {
	return strings.HasPrefix(arg, "/") || urlparse.IsURL(arg)
}

// callPaths turns the arguments into request paths: raw paths are taken
// as-is, URLs are cut at /api/v1, and an endpoint name is filled with the
// remaining arguments. Warnings flag URLs aimed at another base URL.
func callPaths(cmd *cobra.Command, method string, args []string) ([]string, []string, error) {
	if isRawTarget(args[0]) {
		var warnings []string
		paths := make([]string, 0, len(args))
		for _, a := range args {
			if !isRawTarget(a) {
				return nil, nil, fmt.Errorf("invalid argument %q: every path must start with / or be a full URL", a)
			}
			if strings.HasPrefix(a, "/") {
				paths = append(paths, a)
				continue
			}
			parsed, err := urlparse.Parse(a)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid argument %q: %w", a, err)
			}
			if !parsed.SameBase(state.settings.BaseURL) {
				warnings = append(warnings, fmt.Sprintf("%s targets %s; requesting %s against %s", a, parsed.BaseURL, parsed.Path, state.settings.BaseURL))
			}
			paths = append(paths, parsed.Path)
		}
		return paths, warnings, nil
	}

	e, ok := api.LookupEndpoint(args[0])
	if !ok {
		names := make([]string, 0, len(api.Endpoints()))
		for _, e := range api.Endpoints() {
			names = append(names, e.Name)
		}
		if suggestion := suggestCommand(args[0], names); suggestion != "" {
			return nil, nil, fmt.Errorf("unknown endpoint %q, did you mean %q? (paths must start with /)", args[0], suggestion)
		}
		return nil, nil, fmt.Errorf("unknown endpoint %q: run 'colombia endpoints' to list them (paths must start with /)", args[0])
	}
	if flagOrAliasChanged(cmd, "method") && method != e.Method {
		return nil, nil, fmt.Errorf("endpoint %s only supports %s; use a raw path with --method", e.Name, e.Method)
	}

	rest := args[1:]
	switch e.Param {
	case api.ParamNone:
		if len(rest) > 0 {
			return nil, nil, fmt.Errorf("endpoint %s accepts no arguments, got %d", e.Name, len(rest))
		}
	case api.ParamID:
		if len(rest) != 1 {
			return nil, nil, fmt.Errorf("endpoint %s requires exactly one id argument", e.Name)
		}
	case api.ParamText:
		if len(rest) == 0 {
			return nil, nil, fmt.Errorf("endpoint %s requires a text argument", e.Name)
		}
	}
	path, err := e.Path(strings.Join(rest, " "))
	if err != nil {
		return nil, nil, err
	}
	return []string{path}, nil, nil
}

func printCallResults(cmd *cobra.Command, method string, results []callResult) error {
	var firstErr error
	failures := 0
	for _, r := range results {
		if !r.Response.OK() {
			failures++
			if firstErr == nil {
				firstErr = api.WrapError(method, r.Path, r.Response.Error())
			}
		}
	}

	if isJSON(cmd) {
		if err := printJSON(cmd, results); err != nil {
			return err
		}
	} else {
		ioStreams := iocontext.GetIO(cmd.Context())
		f := newFormatter(cmd)
		for i, r := range results {
			if i > 0 {
				_, _ = fmt.Fprintln(ioStreams.Out)
			}
			_, _ = fmt.Fprintf(ioStreams.Out, "==> %s %s <==\n", method, r.Path)
			if !r.Response.OK() {
				_, _ = fmt.Fprintf(ioStreams.Out, "%s\n", r.Response.Err.Message())
				continue
			}
			if err := f.Envelope(r.Response); err != nil {
				return err
			}
		}
	}

	if firstErr == nil {
		return nil
	}
	err := fmt.Errorf("%d of %d calls failed: %w", failures, len(results), firstErr)
	return &handledError{err: err, exitCode: ExitCode(firstErr)}
}
