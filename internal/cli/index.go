package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/khanglvm/focus-ask/internal/engine"
	"github.com/spf13/cobra"
)

// NewIndexCmd creates the 'index' command group.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect, build or rebuild the semantic index",
		Long: `The semantic index holds one embedding per daily, hourly and per-app
summary of the usage log. It is built once and reused; new log rows are only
picked up by 'index rebuild'.

Commands:
  status   Show document counts and the embedding model
  build    Build the index if it is empty
  rebuild  Reload the usage log and rebuild from scratch`,
	}

	cmd.AddCommand(newIndexStatusCmd())
	cmd.AddCommand(newIndexBuildCmd())
	cmd.AddCommand(newIndexRebuildCmd())

	return cmd
}

func newIndexStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cfg, err := openEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			printIndexStatus(out, e.IndexStatus())
			if info, err := os.Stat(cfg.Index.Path); err == nil {
				fmt.Fprintf(out, "Database:  %s (%s)\n", cfg.Index.Path, humanize.Bytes(uint64(info.Size())))
			} else {
				fmt.Fprintf(out, "Database:  %s (in memory only)\n", cfg.Index.Path)
			}
			return nil
		},
	}
}

func newIndexBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the index if it is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the engine builds an empty index.
			e, _, err := openEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.Close()

			printIndexStatus(cmd.OutOrStdout(), e.IndexStatus())
			return nil
		},
	}
}

func newIndexRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Reload the usage log and rebuild the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := openEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.Rebuild(cmd.Context())
			if err != nil {
				return fmt.Errorf("rebuild failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Indexed %s documents\n", humanize.Comma(int64(n)))
			return nil
		},
	}
}

func printIndexStatus(out io.Writer, st engine.IndexStatus) {
	fmt.Fprintln(out, "Semantic Index")
	fmt.Fprintln(out, "==============")
	fmt.Fprintf(out, "Documents: %s\n", humanize.Comma(int64(st.Documents)))
	fmt.Fprintf(out, "Model:     %s\n", st.Model)

	kinds := make([]string, 0, len(st.Granularities))
	for k := range st.Granularities {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(out, "  %-8s %s\n", k, humanize.Comma(int64(st.Granularities[k])))
	}
}
