package cmd

import (
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/api"
)

// StatusInfo holds configuration and connectivity information
type StatusInfo struct {
	BaseURL         string `json:"base_url"`
	ConfigPath      string `json:"config_path"`
	ConfigError     string `json:"config_error,omitempty"`
	Timeout         string `json:"timeout"`
	CacheEnabled    bool   `json:"cache_enabled"`
	CacheBackend    string `json:"cache_backend,omitempty"`
	CLIVersion      string `json:"cli_version"`
	GoVersion       string `json:"go_version"`
	Platform        string `json:"platform"`
	ServerReachable *bool  `json:"server_reachable,omitempty"`
	PingError       string `json:"ping_error,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var ping bool

	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "Show the effective configuration and optionally check the API",
		Example: `  colombia status
  colombia status --ping -o json`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s := state.settings
			info := StatusInfo{
				BaseURL:      s.BaseURL,
				ConfigPath:   state.configPath,
				Timeout:      s.Timeout.String(),
				CacheEnabled: s.Cache.Enabled,
				CLIVersion:   version,
				GoVersion:    runtime.Version(),
				Platform:     runtime.GOOS + "/" + runtime.GOARCH,
			}
			if s.Cache.Enabled {
				info.CacheBackend = s.Cache.Backend
			}
			if state.settingsErr != nil {
				info.ConfigError = state.settingsErr.Error()
			}

			var pingErr error
			if ping {
				client, err := getClient(cmd)
				if err != nil {
					return err
				}
				ok, err := client.Ping(cmdContext(cmd))
				info.ServerReachable = &ok
				if err != nil {
					pingErr = err
					info.PingError = err.Error()
				}
			}

			if isJSON(cmd) {
				if err := printJSON(cmd, info); err != nil {
					return err
				}
			} else {
				printStatusText(cmd, info)
			}

			if info.ServerReachable != nil && !*info.ServerReachable {
				err := fmt.Errorf("API Colombia is not reachable at %s", info.BaseURL)
				if pingErr != nil {
					err = fmt.Errorf("%w: %w", err, pingErr)
				}
				return &handledError{err: err, exitCode: exitNetwork}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&ping, "ping", false, "Check that the API answers GET /Country/Colombia")
	flagAlias(cmd.Flags(), "ping", "pg")
	return cmd
}

func printStatusText(cmd *cobra.Command, info StatusInfo) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, "CLI STATUS")
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 40))
	_, _ = fmt.Fprintf(w, "Base URL:\t%s\n", info.BaseURL)
	if info.BaseURL != api.DefaultBaseURL {
		_, _ = fmt.Fprintf(w, "\t(default is %s)\n", api.DefaultBaseURL)
	}
	_, _ = fmt.Fprintf(w, "Config File:\t%s\n", info.ConfigPath)
	if info.ConfigError != "" {
		_, _ = fmt.Fprintf(w, "Config Error:\t%s\n", info.ConfigError)
	}
	_, _ = fmt.Fprintf(w, "Timeout:\t%s\n", info.Timeout)
	if info.CacheEnabled {
		_, _ = fmt.Fprintf(w, "Cache:\t%s\n", info.CacheBackend)
	} else {
		_, _ = fmt.Fprintf(w, "Cache:\toff\n")
	}
	if info.ServerReachable != nil {
		if *info.ServerReachable {
			_, _ = fmt.Fprintf(w, "Server:\treachable\n")
		} else {
			_, _ = fmt.Fprintf(w, "Server:\tunreachable\n")
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "CLI Version:\t%s\n", info.CLIVersion)
	_, _ = fmt.Fprintf(w, "Go Version:\t%s\n", info.GoVersion)
	_, _ = fmt.Fprintf(w, "Platform:\t%s\n", info.Platform)
}
