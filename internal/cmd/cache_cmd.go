package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colombia-api/colombia-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Manage the response cache",
		Long: `Successful GET responses are cached when --cache (or COLOMBIA_CACHE=1) is
set. The file backend keeps one JSON file per request under the cache directory;
the redis backend stores entries under the "colombia-cli:" key prefix.`,
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

func resolveCacheDir() (string, error) {
	if dir := cacheDirOverride(); dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached responses",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if strings.EqualFold(state.settings.Cache.Backend, cache.BackendRedis) {
				store, err := cache.New(state.settings.CacheOptions())
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				if err := store.Clear(cmdContext(cmd)); err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				printIfNotQuiet(cmd, "Cache cleared: %s\n", state.settings.Cache.RedisURL)
				return nil
			}

			dir, err := resolveCacheDir()
			if err != nil {
				return fmt.Errorf("could not determine cache directory: %w", err)
			}
			if err := cache.ClearAll(dir); err != nil {
				return err
			}
			printIfNotQuiet(cmd, "Cache cleared: %s\n", dir)
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the cache directory path",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := resolveCacheDir()
			if err != nil {
				return fmt.Errorf("could not determine cache directory: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, dir)

			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil // directory might not exist yet
			}
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				_, _ = fmt.Fprintf(out, "  %s (%d bytes)\n", e.Name(), info.Size())
			}
			return nil
		}),
	}
}
