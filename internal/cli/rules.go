package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gzhole/genguard/internal/config"
	"github.com/gzhole/genguard/internal/registry"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the loaded pattern rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rulesPath, logPath)
		if err != nil {
			return err
		}
		snap, err := registry.Load(cfg.RulesPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Registry version: %s (%d rules)\n\n", snap.Version(), len(snap.Rules()))
		for _, r := range snap.Rules() {
			matcher := r.Match.Literal
			kind := "literal"
			if matcher == "" {
				matcher = r.Match.Regex
				kind = "regex"
			}
			fmt.Fprintf(out, "%-22s %-8s weight=%-3d %s: %s\n", r.ID, r.Tier, r.Weight, kind, matcher)
			if r.Description != "" {
				fmt.Fprintf(out, "%22s %s\n", "", r.Description)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
