package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

type versionInfo struct {
	Version string              `json:"version"`
	Update  *update.CheckResult `json:"update,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{Version: version}

			// Check for updates (non-blocking, fails silently)
			if check && !update.Disabled() {
				info.Update = update.CheckForUpdate(cmd.Context(), version)
			}

			if isJSON(cmd) {
				return printJSON(cmd, info)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "colombia-cli version %s\n", version)
			if info.Update != nil && info.Update.UpdateAvailable {
				errOut := cmd.ErrOrStderr()
				_, _ = fmt.Fprintf(errOut, "\nUpdate available: %s -> %s\n", info.Update.CurrentVersion, info.Update.LatestVersion)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", info.Update.UpdateURL)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&check, "check", true, "Check GitHub for a newer release (env COLOMBIA_NO_UPDATE_CHECK=1 disables)")
	return cmd
}
