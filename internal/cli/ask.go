package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gzhole/genguard/internal/agent"
	"github.com/gzhole/genguard/internal/score"
)

var (
	askFresh bool
	askPin   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Generate code for a prompt and screen it",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := resolvePrompt(args)
		if err != nil {
			return err
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		resp, err := rt.agent.Process(cmd.Context(), agent.Request{
			Prompt:  prompt,
			Mode:    agent.ModeGenerate,
			Options: agent.Options{Fresh: askFresh, Pin: askPin},
		})
		if err != nil {
			return err
		}

		printResponse(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askFresh, "fresh", false, "Skip the cache and force regeneration")
	askCmd.Flags().BoolVar(&askPin, "pin", false, "Pin the cached result against later overwrites")
	rootCmd.AddCommand(askCmd)
}

// resolvePrompt takes the prompt from args, an interactive prompt, or
// piped stdin, in that order.
func resolvePrompt(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		p := promptui.Prompt{Label: "Prompt"}
		text, err := p.Run()
		if err != nil {
			return "", err
		}
		return text, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no prompt given")
	}
	return text, nil
}

func printResponse(w io.Writer, resp agent.Response) {
	fmt.Fprintf(w, "Verdict: %s (score %d, level %s)\n", resp.Result.Verdict, resp.Result.Score, resp.Result.Level)
	if resp.CacheHit {
		fmt.Fprintln(w, "Served from cache.")
	}

	if len(resp.Result.Violations) > 0 {
		fmt.Fprintln(w, "Violations:")
		for _, v := range resp.Result.Violations {
			fmt.Fprintf(w, "  - %s (weight %d, %s): %s\n", v.RuleID, v.Weight, v.Tier, v.Detail)
		}
	}

	if resp.Result.Verdict == score.VerdictReject {
		fmt.Fprintln(w, "Rejected: no code returned.")
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, resp.Code)
}
