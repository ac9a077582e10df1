package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gzhole/genguard/internal/agent"
)

var refactorFresh bool

var refactorCmd = &cobra.Command{
	Use:   "refactor [file]",
	Short: "Refactor existing code and screen the result",
	Long: `Reads code from the given file (or stdin) and asks the model to
refactor it. The refactored output goes through the same sanitization,
scoring, and caching as generated code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var code []byte
		var err error
		if len(args) == 1 {
			code, err = os.ReadFile(args[0])
		} else {
			code, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}
		if len(code) == 0 {
			return fmt.Errorf("no code to refactor")
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		resp, err := rt.agent.Process(cmd.Context(), agent.Request{
			Prompt:  string(code),
			Mode:    agent.ModeRefactor,
			Options: agent.Options{Fresh: refactorFresh},
		})
		if err != nil {
			return err
		}

		printResponse(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	refactorCmd.Flags().BoolVar(&refactorFresh, "fresh", false, "Skip the cache and force regeneration")
	rootCmd.AddCommand(refactorCmd)
}
