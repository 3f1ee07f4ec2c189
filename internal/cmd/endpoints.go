package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/api"
)

// endpointInfo is the JSON shape of one endpoint table row.
type endpointInfo struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Param  string `json:"param,omitempty"`
}

func paramName(p api.ParamKind) string {
	switch p {
	case api.ParamID:
		return "id"
	case api.ParamText:
		return "text"
	default:
		return ""
	}
}

func newEndpointsCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:     "endpoints",
		Aliases: []string{"ep"},
		Short:   "List the API endpoints this CLI knows",
		Example: "  colombia endpoints\n  colombia endpoints --prefix search\n  colombia endpoints -o json",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var rows []endpointInfo
			for _, e := range api.Endpoints() {
				if prefix != "" && !strings.HasPrefix(e.Name, prefix) {
					continue
				}
				rows = append(rows, endpointInfo{
					Name:   e.Name,
					Method: e.Method,
					Path:   e.Template,
					Param:  paramName(e.Param),
				})
			}

			if isJSON(cmd) {
				return printJSON(cmd, rows)
			}

			f := newFormatter(cmd)
			if len(rows) == 0 {
				f.Empty("No endpoints found")
				return nil
			}
			f.StartTable([]string{"NAME", "METHOD", "PATH"})
			for _, r := range rows {
				f.Row(r.Name, r.Method, r.Path)
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only show endpoints whose name starts with prefix")
	return cmd
}
