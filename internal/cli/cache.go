package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dshills/unprompted/internal/cache"
	"github.com/dshills/unprompted/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagCacheJSON bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or empty the critique cache",
	Long: "Critiques are cached on disk by provider, model and the exact request, so " +
		"re-running an unchanged cell does not call the model again.",
}

// openCache opens the configured cache directory even when caching is
// turned off for runs, so it can still be inspected and emptied.
func openCache() (*cache.Cache, config.Config, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, cfg, err
	}
	c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, cfg, fmt.Errorf("opening cache: %w", err)
	}
	return c, cfg, nil
}

func printCacheStats(w io.Writer, stats cache.Stats, enabled bool) {
	state := "enabled"
	if !enabled {
		state = "disabled"
	}
	fmt.Fprintf(w, "Directory: %s (%s)\n", stats.Dir, state)
	fmt.Fprintf(w, "Entries:   %d (%d expired)\n", stats.Entries, stats.Expired)
	fmt.Fprintf(w, "Size:      %.1f KB\n", float64(stats.TotalBytes)/1024)
	if len(stats.Models) == 0 {
		return
	}
	names := make([]string, 0, len(stats.Models))
	for name := range stats.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "Models:")
	for _, name := range names {
		fmt.Fprintf(w, "  - %s: %d\n", name, stats.Models[name])
	}
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := openCache()
		if err != nil {
			return err
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		if flagCacheJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}
		printCacheStats(os.Stdout, stats, cfg.Cache.Enabled)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired or unreadable critiques",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCache()
		if err != nil {
			return err
		}
		n, err := c.Prune()
		if err != nil {
			return fmt.Errorf("pruning cache: %w", err)
		}
		logger.Debug("cache pruned", zap.String("dir", c.Dir()), zap.Int("removed", n))
		fmt.Fprintf(os.Stdout, "Pruned %d cached critique(s).\n", n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached critique",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := openCache()
		if err != nil {
			return err
		}
		n, err := c.Clear()
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Cache cleared (%d entries removed).\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheShowCmd.Flags().BoolVar(&flagCacheJSON, "json", false, "Print statistics as JSON")
}
