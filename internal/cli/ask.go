package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/khanglvm/focus-ask/internal/engine"
	"github.com/khanglvm/focus-ask/internal/usagelog"
	"github.com/spf13/cobra"
)

// NewAskCmd creates the 'ask' command.
func NewAskCmd() *cobra.Command {
	var jsonOutput bool
	var now string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question about app usage",
		Long: `Answer a natural-language question about your application usage.

The first run builds the semantic index from the usage log; later runs reuse it.`,
		Example: `  focus-ask ask "what app did I use most today?"
  focus-ask ask how was my focus this week
  focus-ask ask --json "compare today with yesterday"
  focus-ask ask --now "2024-01-07 18:00" "what did I do today?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "), jsonOutput, now)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output the full response as JSON")
	cmd.Flags().StringVar(&now, "now", "", "Resolve 'today' against this local time (YYYY-MM-DD HH:MM)")

	return cmd
}

func runAsk(cmd *cobra.Command, question string, jsonOutput bool, now string) error {
	var opts []engine.Option
	if now != "" {
		t, ok := usagelog.ParseTimestamp(now)
		if !ok {
			return fmt.Errorf("invalid --now value %q: expected YYYY-MM-DD HH:MM", now)
		}
		opts = append(opts, engine.WithClock(func() time.Time { return t }))
	}

	e, _, err := openEngine(cmd.Context(), nil, opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	resp := e.Ask(cmd.Context(), question)
	out := cmd.OutOrStdout()

	if jsonOutput {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, resp.Answer)
	return nil
}
