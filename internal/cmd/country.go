package cmd

import (
	"github.com/spf13/cobra"
)

func newCountryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "country",
		Short: "Country-level information",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "info",
		Short:   "General information about Colombia",
		Example: "  colombia country info\n  colombia country info --jq .capital",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, "country info", client.Country().Info(cmdContext(cmd)))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "president",
		Short: "The current president",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, "country president", client.Country().President(cmdContext(cmd)))
		}),
	})

	return cmd
}
