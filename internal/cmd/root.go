package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/cache"
	"github.com/colombia-api/colombia-cli/internal/config"
	"github.com/colombia-api/colombia-cli/internal/debug"
	"github.com/colombia-api/colombia-cli/internal/dryrun"
	"github.com/colombia-api/colombia-cli/internal/iocontext"
	"github.com/colombia-api/colombia-cli/internal/outfmt"
	"github.com/colombia-api/colombia-cli/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output    string
	JSON      bool
	Query     string
	QueryFile string
	JQ        string
	Fields    string
	Template  string
	Compact   bool
	Debug     bool
	LogFormat string
	Quiet     bool
	Silent    bool
	DryRun    bool

	ConfigPath   string
	BaseURL      string
	Timeout      time.Duration
	Insecure     bool
	AllowPrivate bool
	MaxRetries   int
	RetryDelay   time.Duration
	RPS          float64
	Cache        bool
	NoCache      bool
	CacheTTL     time.Duration
	CacheBackend string
	RedisURL     string
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state; any code that reads flags outside of a
// command's RunE is reading stale data from the previous Execute() call.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	return rootFlags{
		Output:    "text",
		LogFormat: debug.FormatText,
	}
}

// runState is what one Execute() resolves and opens: the effective settings
// and the lazily built client. It is reset with flags and closed on return.
type runState struct {
	settings    config.Settings
	settingsErr error
	configPath  string
	client      *api.Client
	store       cache.Store
}

var state = &runState{}

func (s *runState) close() {
	if s.client != nil {
		s.client.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
}

func normalizeOutputFormat(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// overrides turns explicitly set flags into config overrides.
func (f *rootFlags) overrides(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	changed := func(name string) bool { return flagOrAliasChanged(cmd, name) }

	if changed("base-url") {
		o.BaseURL = &f.BaseURL
	}
	if changed("timeout") {
		if f.Timeout <= 0 {
			return o, fmt.Errorf("--timeout must be > 0")
		}
		o.Timeout = &f.Timeout
	}
	if changed("insecure") {
		o.Insecure = &f.Insecure
	}
	if changed("allow-private") {
		o.AllowPrivate = &f.AllowPrivate
	}
	if changed("max-retries") {
		if f.MaxRetries < 0 {
			return o, fmt.Errorf("--max-retries must be >= 0")
		}
		o.MaxRetries = &f.MaxRetries
	}
	if changed("retry-delay") {
		if f.RetryDelay < 0 {
			return o, fmt.Errorf("--retry-delay must be >= 0")
		}
		o.RetryDelay = &f.RetryDelay
	}
	if changed("rps") {
		if f.RPS < 0 {
			return o, fmt.Errorf("--rps must be >= 0")
		}
		o.RequestsPerSecond = &f.RPS
	}
	if changed("output") {
		o.Output = &f.Output
	}
	if changed("cache") && changed("no-cache") {
		return o, fmt.Errorf("--cache and --no-cache cannot be used together")
	}
	if changed("cache") {
		o.Cache = &f.Cache
	}
	if changed("no-cache") {
		enabled := !f.NoCache
		o.Cache = &enabled
	}
	if changed("cache-ttl") {
		if f.CacheTTL <= 0 {
			return o, fmt.Errorf("--cache-ttl must be > 0")
		}
		o.CacheTTL = &f.CacheTTL
	}
	if changed("cache-backend") {
		o.CacheBackend = &f.CacheBackend
	}
	if changed("redis-url") {
		o.RedisURL = &f.RedisURL
	}
	return o, nil
}

// loadSettings reads .env, the config file and the environment, then applies
// flag overrides. Failures are kept on state so config commands still run.
func loadSettings(cmd *cobra.Command) error {
	config.LoadDotenv("")

	path := flags.ConfigPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	state.configPath = path

	o, err := flags.overrides(cmd)
	if err != nil {
		return err
	}

	file, err := config.Load(path)
	if err == nil {
		state.settings, err = config.Resolve(file, o)
	}
	if err != nil {
		state.settingsErr = err
		state.settings = config.Defaults()
		if o.Output != nil {
			state.settings.Output = *o.Output
		}
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "colombia",
		Short: "CLI for the API Colombia public data service",
		Long: `colombia queries https://api-colombia.com: departments, cities, regions,
presidents, touristic attractions, natural areas, airports, radios, TV channels,
maps and search. Names are accepted wherever an ID is and are resolved with a
fuzzy match.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // We provide our own did-you-mean via enhanceUnknownError
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := loadSettings(cmd); err != nil {
				return err
			}

			if !flagOrAliasChanged(cmd, "output") {
				flags.Output = state.settings.Output
			}
			flags.Output = normalizeOutputFormat(flags.Output)

			if flags.QueryFile != "" {
				if flags.Query != "" || flags.JQ != "" {
					return fmt.Errorf("--query-file cannot be used with --query or --jq")
				}
				queryFromFile, err := loadQueryFile(flags.QueryFile)
				if err != nil {
					return err
				}
				flags.Query = queryFromFile
			}

			if flags.JSON {
				if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			needsJSON := flags.Query != "" || flags.JQ != "" || flags.Fields != "" || flags.Template != ""
			if needsJSON && flags.Output != "json" && flags.Output != "jsonl" {
				if flagOrAliasChanged(cmd, "output") {
					return fmt.Errorf("--jq/--query/--query-file/--fields/--template require --output json or jsonl (or --json)")
				}
				flags.Output = "json"
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)

			// Set up IO streams (allow silent/quiet to suppress stderr)
			ioStreams := iocontext.DefaultIO()
			if flags.Silent || flags.Quiet {
				ioStreams.ErrOut = io.Discard
			}
			if flags.Quiet && mode == outfmt.Text {
				ioStreams.Out = io.Discard
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			validation.SetAllowPrivate(state.settings.AllowPrivate)
			if flags.AllowPrivate && !flags.Silent && !flags.Quiet {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: allowing private/localhost URLs (use only with trusted targets).")
			}

			if err := debug.SetupLogger(flags.Debug, flags.LogFormat); err != nil {
				return err
			}
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			// --jq takes precedence over --query, or fields shorthand
			jqQuery := getJQQuery()
			if flags.Fields != "" {
				if jqQuery != "" {
					return fmt.Errorf("--fields and --query/--jq cannot be used together")
				}
				fields, err := parseFields(flags.Fields)
				if err != nil {
					return err
				}
				jqQuery = buildFieldsQuery(fields)
			}
			if jqQuery != "" {
				ctx = outfmt.WithQuery(ctx, jqQuery)
			}

			if flags.Template != "" {
				tmpl, err := loadTemplate(flags.Template)
				if err != nil {
					return err
				}
				ctx = outfmt.WithTemplate(ctx, tmpl)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|ndjson (env COLOMBIA_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	pf.StringVar(&flags.QueryFile, "query-file", "", "Read JQ expression from file ('-' for stdin)")
	pf.StringVar(&flags.JQ, "jq", "", "Alias for --query")
	pf.StringVar(&flags.Fields, "fields", "", "Fields to select in JSON output (CSV/whitespace/JSON array; shorthand for --query)")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) to render JSON output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Debug log format: text|json")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	pf.BoolVar(&flags.Silent, "silent", false, "Suppress non-error output to stderr")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Preview call requests without sending them")

	pf.StringVar(&flags.ConfigPath, "config", "", "Config file path (env COLOMBIA_CONFIG)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "API base URL (env COLOMBIA_BASE_URL; default "+api.DefaultBaseURL+")")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "Per-request timeout, e.g. 30s (env COLOMBIA_TIMEOUT)")
	pf.BoolVar(&flags.Insecure, "insecure", false, "Skip TLS certificate verification (unsafe)")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", false, "Allow private/localhost base URLs (unsafe)")
	pf.IntVar(&flags.MaxRetries, "max-retries", 0, "Retries for 429/5xx/transport failures on GET (env COLOMBIA_MAX_RETRIES)")
	pf.DurationVar(&flags.RetryDelay, "retry-delay", 0, "Base delay between retries (env COLOMBIA_RETRY_DELAY)")
	pf.Float64Var(&flags.RPS, "rps", 0, "Client-side requests per second, 0 for unlimited (env COLOMBIA_RPS)")
	pf.BoolVar(&flags.Cache, "cache", false, "Cache successful GET responses (env COLOMBIA_CACHE)")
	pf.BoolVar(&flags.NoCache, "no-cache", false, "Bypass the response cache for this run")
	pf.DurationVar(&flags.CacheTTL, "cache-ttl", 0, "Cache entry lifetime (default 5m; env COLOMBIA_CACHE_TTL)")
	pf.StringVar(&flags.CacheBackend, "cache-backend", "", "Cache backend: file|redis (env COLOMBIA_CACHE_BACKEND)")
	pf.StringVar(&flags.RedisURL, "redis-url", "", "Redis URL for the redis cache backend (env COLOMBIA_REDIS_URL)")

	flagAlias(pf, "output", "out")
	flagAlias(pf, "query", "qr")
	flagAlias(pf, "query-file", "qf")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "debug", "dbg")
	flagAlias(pf, "fields", "fi")
	flagAlias(pf, "silent", "sil")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "template", "tpl")
	flagAlias(pf, "timeout", "to")
	flagAlias(pf, "allow-private", "ap")
	flagAlias(pf, "base-url", "url")

	root.AddCommand(newCountryCmd())
	for _, spec := range resourceSpecs() {
		root.AddCommand(newResourceCmd(spec))
	}
	root.AddCommand(newMapsCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newEndpointsCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// Reset flags and run state for each execution. This is critical for
	// test isolation; see the invariant comment on the flags declaration.
	flags = defaultFlags()
	state = &runState{}
	defer state.close()

	root := newRootCmd()
	root.SetContext(ctx)
	root.SetArgs(args)

	if len(args) > 0 {
		if _, _, findErr := root.Find(args); findErr != nil {
			if handled, execErr := tryExecExtension(args); handled {
				return execErr
			}
		}
	}

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			enhanced := enhanceUnknownError(err, root, targetCmd)
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanced)
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		unknown := extractQuoted(msg)
		parent := root
		if targetCmd != nil {
			parent = targetCmd
		}
		if unknown != "" {
			if suggestion := suggestCommand(unknown, commandNames(parent)); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "flag provided but not defined") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown != "" {
			target := root
			if targetCmd != nil {
				target = targetCmd
			}
			helpCmd := "colombia --help"
			if commandPath := strings.TrimSpace(target.CommandPath()); commandPath != "" {
				helpCmd = commandPath + " --help"
			}
			if suggestion := suggestFlag(unknown, flagNamesWithShorthand(target)); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

func flagNamesWithShorthand(cmd *cobra.Command) []string {
	names := flagNames(cmd)
	seen := map[string]bool{}
	add := func(f *pflag.Flag) {
		if f.Shorthand == "" || f.Hidden {
			return
		}
		short := "-" + f.Shorthand
		if !seen[short] {
			seen[short] = true
			names = append(names, short)
		}
	}
	cmd.Flags().VisitAll(add)
	cmd.InheritedFlags().VisitAll(add)
	return names
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// Shorthand errors look like: "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		rest := strings.TrimSpace(s[idx+1:])
		if end := strings.IndexByte(rest, ' '); end >= 0 {
			rest = rest[:end]
		}
		rest = strings.TrimRight(rest, ".,;:!?\"'")
		if strings.HasPrefix(rest, "-") && len(rest) > 1 {
			return rest
		}
		return ""
	}
	rest := s[idx:]
	end := strings.IndexByte(rest, ' ')
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimRight(rest[:end], ".,;:!?\"'")
}

// tryExecExtension runs `colombia-<name>` from PATH when <name> is not a
// built-in command.
func tryExecExtension(args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	name := strings.TrimSpace(args[0])
	if name == "" || strings.HasPrefix(name, "-") {
		return false, nil
	}
	path, err := exec.LookPath("colombia-" + name)
	if err != nil {
		return false, nil
	}
	cmd := exec.Command(path, args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return true, cmd.Run()
}
