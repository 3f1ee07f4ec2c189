package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/colombia-api/colombia-cli/internal/config"
)

// effectiveSettings is the printable form of config.Settings.
type effectiveSettings struct {
	ConfigPath        string  `yaml:"config_path" json:"config_path"`
	BaseURL           string  `yaml:"base_url" json:"base_url"`
	Timeout           string  `yaml:"timeout" json:"timeout"`
	Insecure          bool    `yaml:"insecure_skip_verify" json:"insecure_skip_verify"`
	AllowPrivate      bool    `yaml:"allow_private" json:"allow_private"`
	MaxRetries        int     `yaml:"max_retries" json:"max_retries"`
	RetryDelay        string  `yaml:"retry_delay" json:"retry_delay"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Output            string  `yaml:"output" json:"output"`
	Cache             struct {
		Enabled  bool   `yaml:"enabled" json:"enabled"`
		Backend  string `yaml:"backend" json:"backend"`
		TTL      string `yaml:"ttl" json:"ttl"`
		RedisURL string `yaml:"redis_url,omitempty" json:"redis_url,omitempty"`
	} `yaml:"cache" json:"cache"`
	Serve struct {
		Addr      string  `yaml:"addr" json:"addr"`
		RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
		Burst     int     `yaml:"burst" json:"burst"`
		LogFormat string  `yaml:"log_format" json:"log_format"`
	} `yaml:"serve" json:"serve"`
}

func newEffectiveSettings(path string, s config.Settings) effectiveSettings {
	e := effectiveSettings{
		ConfigPath:        path,
		BaseURL:           s.BaseURL,
		Timeout:           s.Timeout.String(),
		Insecure:          s.Insecure,
		AllowPrivate:      s.AllowPrivate,
		MaxRetries:        s.MaxRetries,
		RetryDelay:        s.RetryDelay.String(),
		RequestsPerSecond: s.RequestsPerSecond,
		Output:            s.Output,
	}
	e.Cache.Enabled = s.Cache.Enabled
	e.Cache.Backend = s.Cache.Backend
	e.Cache.TTL = s.Cache.TTL.String()
	e.Cache.RedisURL = s.Cache.RedisURL
	e.Serve.Addr = s.Serve.Addr
	e.Serve.RateLimit = s.Serve.RateLimit
	e.Serve.Burst = s.Serve.Burst
	e.Serve.LogFormat = s.Serve.LogFormat
	return e
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Manage CLI configuration",
		Long: `Settings resolve in this order, later wins: built-in defaults, the config
file, COLOMBIA_* environment variables (a .env file in the working directory is
loaded first), then command-line flags.`,
	}

	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUnsetCmd())
	cmd.AddCommand(newConfigKeysCmd())
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if isJSON(cmd) {
				return printJSON(cmd, map[string]string{"path": state.configPath})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), state.configPath)
			return nil
		}),
	}
}

func newConfigShowCmd() *cobra.Command {
	var effective bool

	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Show the config file, or the effective settings",
		Example: "  colombia config show\n  colombia config show --effective -o json",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var v any
			if effective {
				if state.settingsErr != nil {
					return state.settingsErr
				}
				v = newEffectiveSettings(state.configPath, state.settings)
			} else {
				cfg, err := config.Load(state.configPath)
				if err != nil {
					return err
				}
				v = cfg
			}

			if isJSON(cmd) {
				return printJSON(cmd, v)
			}
			data, err := yaml.Marshal(v)
			if err != nil {
				return err
			}
			out := strings.TrimSpace(string(data))
			if out == "{}" {
				printIfNotQuiet(cmd, "# %s is empty or missing; defaults apply\n", state.configPath)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&effective, "effective", false, "Show the resolved settings (defaults, file, env and flags)")
	flagAlias(cmd.Flags(), "effective", "eff")
	return cmd
}

func updateConfigFile(cmd *cobra.Command, key, value string) error {
	cfg, err := config.Load(state.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(state.configPath); err != nil {
		return err
	}
	if isJSON(cmd) {
		return printJSON(cmd, cfg)
	}
	return nil
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a config file value",
		Example: "  colombia config set timeout 10s\n  colombia config set cache.enabled true",
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := updateConfigFile(cmd, args[0], args[1]); err != nil {
				return err
			}
			if !isJSON(cmd) {
				printIfNotQuiet(cmd, "Set %s = %s in %s\n", args[0], args[1], state.configPath)
			}
			return nil
		}),
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "unset <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a config file value",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if err := updateConfigFile(cmd, args[0], ""); err != nil {
				return err
			}
			if !isJSON(cmd) {
				printIfNotQuiet(cmd, "Unset %s in %s\n", args[0], state.configPath)
			}
			return nil
		}),
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the settable config keys",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			keys := config.Keys()
			if isJSON(cmd) {
				return printJSON(cmd, keys)
			}
			for _, k := range keys {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		}),
	}
}
