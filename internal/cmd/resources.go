package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/iocontext"
	"github.com/colombia-api/colombia-cli/internal/resolve"
	"github.com/colombia-api/colombia-cli/internal/validation"
)

type (
	listFunc func(c *api.Client, ctx context.Context) api.Envelope
	idFunc   func(c *api.Client, ctx context.Context, id int) api.Envelope
	textFunc func(c *api.Client, ctx context.Context, text string) api.Envelope
)

// relation is a nested lookup keyed by the ID of owner, e.g.
// `departments cities <department>` or `attractions city <city>`.
type relation struct {
	use   string
	short string
	owner string
	fetch idFunc
}

// textLookup is a nested lookup keyed by free text, e.g. `natural-areas type <text>`.
type textLookup struct {
	use   string
	short string
	fetch textFunc
}

type resourceSpec struct {
	name      string
	aliases   []string
	singular  string
	short     string
	list      listFunc
	get       idFunc
	byName    textFunc
	relations []relation
	lookups   []textLookup
}

func resourceSpecs() []resourceSpec {
	return []resourceSpec{
		{
			name:     "departments",
			aliases:  []string{"department", "dept"},
			singular: "department",
			short:    "Colombian departments",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.Departments().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.Departments().Get(ctx, id) },
			byName:   func(c *api.Client, ctx context.Context, s string) api.Envelope { return c.Departments().ByName(ctx, s) },
			relations: []relation{
				{use: "cities", short: "Cities of a department", owner: "departments", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Departments().Cities(ctx, id)
				}},
				{use: "natural-areas", short: "Natural areas of a department", owner: "departments", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Departments().NaturalAreas(ctx, id)
				}},
				{use: "attractions", short: "Touristic attractions of a department", owner: "departments", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Departments().TouristicAttractions(ctx, id)
				}},
				{use: "presidents", short: "Presidents born in a department", owner: "departments", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Departments().Presidents(ctx, id)
				}},
				{use: "region", short: "Region a department belongs to", owner: "departments", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Departments().Region(ctx, id)
				}},
			},
		},
		{
			name:     "cities",
			aliases:  []string{"city"},
			singular: "city",
			short:    "Colombian cities",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.Cities().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.Cities().Get(ctx, id) },
			byName:   func(c *api.Client, ctx context.Context, s string) api.Envelope { return c.Cities().ByName(ctx, s) },
			relations: []relation{
				{use: "department", short: "Department a city belongs to", owner: "cities", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Cities().Department(ctx, id)
				}},
				{use: "president", short: "Presidents born in a city", owner: "cities", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Cities().President(ctx, id)
				}},
				{use: "attractions", short: "Touristic attractions of a city", owner: "cities", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Cities().TouristicAttractions(ctx, id)
				}},
			},
		},
		{
			name:     "regions",
			aliases:  []string{"region"},
			singular: "region",
			short:    "Natural regions of Colombia",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.Regions().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.Regions().Get(ctx, id) },
			byName:   func(c *api.Client, ctx context.Context, s string) api.Envelope { return c.Regions().ByName(ctx, s) },
			relations: []relation{
				{use: "departments", short: "Departments of a region", owner: "regions", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Regions().Departments(ctx, id)
				}},
				{use: "natural-areas", short: "Natural areas of a region", owner: "regions", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Regions().NaturalAreas(ctx, id)
				}},
				{use: "attractions", short: "Touristic attractions of a region", owner: "regions", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.Regions().TouristicAttractions(ctx, id)
				}},
			},
		},
		{
			name:     "presidents",
			aliases:  []string{"president"},
			singular: "president",
			short:    "Presidents of Colombia",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.Presidents().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.Presidents().Get(ctx, id) },
			byName:   func(c *api.Client, ctx context.Context, s string) api.Envelope { return c.Presidents().ByName(ctx, s) },
		},
		{
			name:     "attractions",
			aliases:  []string{"attraction", "touristic-attractions"},
			singular: "attraction",
			short:    "Touristic attractions",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.TouristicAttractions().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.TouristicAttractions().Get(ctx, id) },
			byName: func(c *api.Client, ctx context.Context, s string) api.Envelope {
				return c.TouristicAttractions().ByName(ctx, s)
			},
			relations: []relation{
				{use: "city", short: "Attractions in a city", owner: "cities", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.TouristicAttractions().ByCity(ctx, id)
				}},
				{use: "department", short: "Attractions in a department", owner: "departments", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.TouristicAttractions().ByDepartment(ctx, id)
				}},
				{use: "region", short: "Attractions in a region", owner: "regions", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.TouristicAttractions().ByRegion(ctx, id)
				}},
			},
		},
		{
			name:     "natural-areas",
			aliases:  []string{"natural-area", "na"},
			singular: "natural area",
			short:    "Natural areas (parks, reserves, sanctuaries)",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.NaturalAreas().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.NaturalAreas().Get(ctx, id) },
			byName:   func(c *api.Client, ctx context.Context, s string) api.Envelope { return c.NaturalAreas().ByName(ctx, s) },
			relations: []relation{
				{use: "department", short: "Natural areas in a department", owner: "departments", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.NaturalAreas().ByDepartment(ctx, id)
				}},
				{use: "region", short: "Natural areas in a region", owner: "regions", fetch: func(c *api.Client, ctx context.Context, id int) api.Envelope {
					return c.NaturalAreas().ByRegion(ctx, id)
				}},
			},
			lookups: []textLookup{
				{use: "type", short: "Natural areas of a category, e.g. \"Parque Nacional Natural\"", fetch: func(c *api.Client, ctx context.Context, s string) api.Envelope {
					return c.NaturalAreas().ByType(ctx, s)
				}},
			},
		},
		{
			name:     "airports",
			aliases:  []string{"airport"},
			singular: "airport",
			short:    "Airports",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.Airports().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.Airports().Get(ctx, id) },
			byName:   func(c *api.Client, ctx context.Context, s string) api.Envelope { return c.Airports().ByName(ctx, s) },
		},
		{
			name:     "radios",
			aliases:  []string{"radio"},
			singular: "radio station",
			short:    "Radio stations",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.Radios().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.Radios().Get(ctx, id) },
			byName:   func(c *api.Client, ctx context.Context, s string) api.Envelope { return c.Radios().ByName(ctx, s) },
		},
		{
			name:     "tv-channels",
			aliases:  []string{"tv-channel", "tv"},
			singular: "TV channel",
			short:    "TV channels",
			list:     func(c *api.Client, ctx context.Context) api.Envelope { return c.TVChannels().List(ctx) },
			get:      func(c *api.Client, ctx context.Context, id int) api.Envelope { return c.TVChannels().Get(ctx, id) },
			byName:   func(c *api.Client, ctx context.Context, s string) api.Envelope { return c.TVChannels().ByName(ctx, s) },
		},
	}
}

// listerFor returns the list call of the named resource.
func listerFor(name string) listFunc {
	for _, spec := range resourceSpecs() {
		if spec.name == name {
			return spec.list
		}
	}
	panic(fmt.Sprintf("listerFor: unknown resource %q", name))
}

// nameResolver turns an <id|name> argument into an ID, fetching the
// candidate list at most once however many refs it resolves.
type nameResolver struct {
	client *api.Client
	list   listFunc
	once   sync.Once
	env    api.Envelope
}

func newNameResolver(client *api.Client, list listFunc) *nameResolver {
	return &nameResolver{client: client, list: list}
}

func (r *nameResolver) lister(ctx context.Context) api.Envelope {
	r.once.Do(func() { r.env = r.list(r.client, ctx) })
	return r.env
}

func (r *nameResolver) resolve(ctx context.Context, ref string) (int, error) {
	return resolve.ID(ctx, ref, r.lister)
}

// joinArgs rebuilds a free-text argument that the shell split on spaces.
func joinArgs(args []string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if err := validation.ValidateTerm(text); err != nil {
		return "", err
	}
	return text, nil
}

func newResourceCmd(spec resourceSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:     spec.name,
		Aliases: spec.aliases,
		Short:   spec.short,
	}

	cmd.AddCommand(newResourceListCmd(spec))
	cmd.AddCommand(newResourceGetCmd(spec))
	cmd.AddCommand(newResourceNameCmd(spec))
	for _, rel := range spec.relations {
		cmd.AddCommand(newRelationCmd(spec, rel))
	}
	for _, lookup := range spec.lookups {
		cmd.AddCommand(newTextLookupCmd(spec, lookup))
	}
	return cmd
}

func newResourceListCmd(spec resourceSpec) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all " + spec.name,
		Example: fmt.Sprintf("  colombia %s list\n  colombia %s list -o json --fields id,name", spec.name, spec.name),
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			env := spec.list(client, cmdContext(cmd))
			return printEnvelope(cmd, "list "+spec.name, env)
		}),
	}
}

func newResourceGetCmd(spec resourceSpec) *cobra.Command {
	var concurrency int
	var progress bool

	cmd := &cobra.Command{
		Use:   "get <id|name>...",
		Short: "Get one or more " + spec.name + " by ID or name",
		Long: fmt.Sprintf(`Get %s by ID. A non-numeric argument is matched against the names
returned by "colombia %s list". Several arguments are fetched concurrently.`, spec.name, spec.name),
		Example: fmt.Sprintf("  colombia %s get 5\n  colombia %s get 1 2 3 --concurrency 2", spec.name, spec.name),
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateConcurrency(concurrency); err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			names := newNameResolver(client, spec.list)
			ctx := cmdContext(cmd)

			if len(args) == 1 {
				id, err := names.resolve(ctx, args[0])
				if err != nil {
					return err
				}
				env := spec.get(client, ctx, id)
				return printEnvelope(cmd, fmt.Sprintf("get %s %s", spec.singular, args[0]), env)
			}

			results := runBulkOperation(ctx, args, int64(concurrency), progress, iocontext.GetIO(ctx).ErrOut,
				func(ctx context.Context, ref string) (fetched, error) {
					id, err := names.resolve(ctx, ref)
					if err != nil {
						return fetched{}, err
					}
					env := spec.get(client, ctx, id)
					if !env.OK() {
						return fetched{}, env.Error()
					}
					return fetched{ID: id, Env: env}, nil
				})
			return printBulkResults(cmd, spec.singular, results)
		}),
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", DefaultConcurrency, "Max concurrent requests when several IDs are given")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show progress on stderr")
	flagAlias(cmd.Flags(), "concurrency", "cc")
	return cmd
}

func newResourceNameCmd(spec resourceSpec) *cobra.Command {
	return &cobra.Command{
		Use:     "name <text>",
		Short:   "Find " + spec.name + " whose name matches text",
		Example: fmt.Sprintf("  colombia %s name \"San Andrés\"", spec.name),
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			text, err := joinArgs(args)
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			env := spec.byName(client, cmdContext(cmd), text)
			return printEnvelope(cmd, fmt.Sprintf("%s name %q", spec.singular, text), env)
		}),
	}
}

func newRelationCmd(spec resourceSpec, rel relation) *cobra.Command {
	return &cobra.Command{
		Use:     rel.use + " <id|name>",
		Short:   rel.short,
		Example: fmt.Sprintf("  colombia %s %s 5", spec.name, rel.use),
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref := strings.TrimSpace(strings.Join(args, " "))
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			id, err := newNameResolver(client, listerFor(rel.owner)).resolve(ctx, ref)
			if err != nil {
				return err
			}
			env := rel.fetch(client, ctx, id)
			return printEnvelope(cmd, fmt.Sprintf("%s %s %s", spec.singular, rel.use, ref), env)
		}),
	}
}

func newTextLookupCmd(spec resourceSpec, lookup textLookup) *cobra.Command {
	return &cobra.Command{
		Use:   lookup.use + " <text>",
		Short: lookup.short,
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			text, err := joinArgs(args)
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			env := lookup.fetch(client, cmdContext(cmd), text)
			return printEnvelope(cmd, fmt.Sprintf("%s %s %q", spec.name, lookup.use, text), env)
		}),
	}
}
