package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/api"
)

func newMapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "maps",
		Aliases: []string{"map"},
		Short:   "Map records for the country, a department or a city",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "country",
		Short: "Maps of Colombia",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, "country maps", client.Maps().Country(cmdContext(cmd)))
		}),
	})
	cmd.AddCommand(newMapLookupCmd("department", "departments", func(c *api.Client, ctx context.Context, id int) api.Envelope {
		return c.Maps().Department(ctx, id)
	}))
	cmd.AddCommand(newMapLookupCmd("city", "cities", func(c *api.Client, ctx context.Context, id int) api.Envelope {
		return c.Maps().City(ctx, id)
	}))
	return cmd
}

func newMapLookupCmd(use, owner string, fetch idFunc) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <id|name>",
		Short:   "Maps of a " + use,
		Example: "  colombia maps " + use + " 5",
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref := strings.TrimSpace(strings.Join(args, " "))
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := newNameResolver(client, listerFor(owner)).resolve(ctx, ref)
			if err != nil {
				return err
			}
			return printEnvelope(cmd, use+" maps "+ref, fetch(client, ctx, id))
		}),
	}
}
