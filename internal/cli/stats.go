package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the 'stats' command.
func NewStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the usage log",
		Example: `  focus-ask stats
  focus-ask stats --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cfg, err := openEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.Close()

			st := e.Stats()
			out := cmd.OutOrStdout()

			if jsonOutput {
				data, err := json.MarshalIndent(st, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode stats: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if st.Records == 0 {
				fmt.Fprintf(out, "No usage data in %s\n", cfg.UsageLog.Path)
				return nil
			}

			fmt.Fprintf(out, "Usage log: %s\n\n", cfg.UsageLog.Path)
			fmt.Fprintf(out, "Records:   %s", humanize.Comma(int64(st.Records)))
			if st.Dropped > 0 {
				fmt.Fprintf(out, " (%s malformed rows skipped)", humanize.Comma(int64(st.Dropped)))
			}
			fmt.Fprintln(out)
			if st.FirstSeen != nil && st.LastSeen != nil {
				fmt.Fprintf(out, "Span:      %s to %s (last entry %s)\n",
					st.FirstSeen.Format("2006-01-02"), st.LastSeen.Format("2006-01-02"), humanize.Time(*st.LastSeen))
			}
			fmt.Fprintf(out, "Days:      %d\n", st.Days)
			fmt.Fprintf(out, "Apps:      %d\n", st.Apps)
			fmt.Fprintf(out, "Total:     %s\n", formatMinutes(st.TotalSeconds/60))
			fmt.Fprintf(out, "Indexed:   %s documents\n", humanize.Comma(int64(st.Documents)))

			fmt.Fprintln(out, "\nTop apps:")
			for i, a := range st.TopApps {
				fmt.Fprintf(out, "  %d. %-20s %10s  %5.1f%%  %s sessions\n",
					i+1, a.App, formatMinutes(a.Minutes), a.Percent, humanize.Comma(int64(a.Sessions)))
			}

			fmt.Fprintln(out, "\nBusiest hours:")
			for _, h := range st.BusiestHours {
				fmt.Fprintf(out, "  %02d:00  %s\n", h.Hour, formatMinutes(h.Minutes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

// formatMinutes renders whole minutes as "2h 15m" or "45m".
func formatMinutes(minutes int64) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
