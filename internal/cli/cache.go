package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gzhole/genguard/internal/cache"
	"github.com/gzhole/genguard/internal/config"
	"github.com/gzhole/genguard/internal/registry"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show response cache statistics",
	Long: `Reports how many responses are cached and how many are stale
relative to the current registry version. Stale entries are kept on
disk for audit and re-evaluated on their next request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rulesPath, logPath)
		if err != nil {
			return err
		}
		snap, err := registry.Load(cfg.RulesPath)
		if err != nil {
			return err
		}
		store, err := cache.Open(cfg.CacheDir)
		if err != nil {
			return err
		}

		stats, err := store.Scan(snap.Version())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache directory:  %s\n", cfg.CacheDir)
		fmt.Fprintf(out, "Registry version: %s\n", snap.Version())
		fmt.Fprintf(out, "Entries:          %d\n", stats.Total)
		fmt.Fprintf(out, "Stale:            %d\n", stats.Stale)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
