package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/khanglvm/focus-ask/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the 'history' command.
//
// Only question hashes are stored, never the question text.
func NewHistoryCmd() *cobra.Command {
	var days int
	var clearAll bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recorded question history",
		Example: `  focus-ask history
  focus-ask history --days 30
  focus-ask history --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}

			e, _, err := openEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()

			if clearAll {
				if err := e.ClearHistory(); err != nil {
					return fmt.Errorf("failed to clear history: %w", err)
				}
				fmt.Fprintln(out, "Question history cleared")
				return nil
			}

			since := time.Now().AddDate(0, 0, -days)
			counts, err := e.History(since)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}

			if jsonOutput {
				data, err := json.MarshalIndent(counts, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode history: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if len(counts) == 0 {
				fmt.Fprintf(out, "No questions recorded in the last %d days\n", days)
				return nil
			}

			fmt.Fprintf(out, "Questions since %s:\n\n", humanize.Time(since))
			fmt.Fprintf(out, "  %-22s %-10s %8s %10s\n", "INTENT", "PATH", "COUNT", "AVG")
			for _, c := range counts {
				marker := ""
				if c.Path == history.PathError {
					marker = " ✗"
				}
				fmt.Fprintf(out, "  %-22s %-10s %8s %10s%s\n",
					c.Intent, c.Path, humanize.Comma(int64(c.Count)), c.AvgLatency.Round(time.Millisecond), marker)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "How many days of history to show")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all recorded questions")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}
