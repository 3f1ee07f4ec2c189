package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/api"
)

type searchScope struct {
	use     string
	aliases []string
	short   string
	search  textFunc
}

func searchScopes() []searchScope {
	return []searchScope{
		{use: "all", short: "Search every resource", search: func(c *api.Client, ctx context.Context, s string) api.Envelope {
			return c.Search().All(ctx, s)
		}},
		{use: "cities", aliases: []string{"city"}, short: "Search cities", search: func(c *api.Client, ctx context.Context, s string) api.Envelope {
			return c.Search().Cities(ctx, s)
		}},
		{use: "departments", aliases: []string{"department", "dept"}, short: "Search departments", search: func(c *api.Client, ctx context.Context, s string) api.Envelope {
			return c.Search().Departments(ctx, s)
		}},
		{use: "regions", aliases: []string{"region"}, short: "Search regions", search: func(c *api.Client, ctx context.Context, s string) api.Envelope {
			return c.Search().Regions(ctx, s)
		}},
		{use: "attractions", aliases: []string{"attraction"}, short: "Search touristic attractions", search: func(c *api.Client, ctx context.Context, s string) api.Envelope {
			return c.Search().TouristicAttractions(ctx, s)
		}},
		{use: "natural-areas", aliases: []string{"natural-area", "na"}, short: "Search natural areas", search: func(c *api.Client, ctx context.Context, s string) api.Envelope {
			return c.Search().NaturalAreas(ctx, s)
		}},
		{use: "presidents", aliases: []string{"president"}, short: "Search presidents", search: func(c *api.Client, ctx context.Context, s string) api.Envelope {
			return c.Search().Presidents(ctx, s)
		}},
		{use: "airports", aliases: []string{"airport"}, short: "Search airports", search: func(c *api.Client, ctx context.Context, s string) api.Envelope {
			return c.Search().Airports(ctx, s)
		}},
	}
}

func runSearch(cmd *cobra.Command, scope searchScope, args []string) error {
	term, err := joinArgs(args)
	if err != nil {
		return err
	}
	client, err := getClient(cmd)
	if err != nil {
		return err
	}
	env := scope.search(client, cmdContext(cmd), term)
	return printEnvelope(cmd, fmt.Sprintf("search %s %q", scope.use, term), env)
}

func newSearchCmd() *cobra.Command {
	scopes := searchScopes()

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search resources by keyword",
		Long: `Search API Colombia by keyword. Without a scope every resource type is
searched; use a scope subcommand to narrow it down.`,
		Example: `  colombia search Medellín
  colombia search cities "Santa Marta"
  colombia search natural-areas Tayrona -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, scopes[0], args)
		}),
	}

	for _, scope := range scopes {
		cmd.AddCommand(&cobra.Command{
			Use:     scope.use + " <term>",
			Aliases: scope.aliases,
			Short:   scope.short,
			Args:    cobra.MinimumNArgs(1),
			RunE: RunE(func(cmd *cobra.Command, args []string) error {
				return runSearch(cmd, scope, args)
			}),
		})
	}
	return cmd
}
