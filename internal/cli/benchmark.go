package cli

import (
	"encoding/json"
	"fmt"

	"github.com/khanglvm/focus-ask/internal/benchmark"
	"github.com/spf13/cobra"
)

// NewBenchmarkCmd creates the 'benchmark' command for latency testing.
func NewBenchmarkCmd() *cobra.Command {
	var iterations int
	var questions []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Measure answer latency per question type",
		Long: `Ask a fixed set of questions against your own usage log and report how long
each takes. Quick answers are computed from the log; retrieval answers include
the embedding and generation backends.

Asked questions are recorded in history like any other.`,
		Example: `  # Run the default question set
  focus-ask benchmark

  # Run with more iterations
  focus-ask benchmark --iterations 10

  # Benchmark your own questions
  focus-ask benchmark -q "what did I do this morning?" -q "peak hours"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := openEngine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.Close()

			result := benchmark.Run(cmd.Context(), e, questions, iterations)
			out := cmd.OutOrStdout()

			if jsonOutput {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprint(out, benchmark.FormatResult(result))
			return nil
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 3, "Number of iterations per question")
	cmd.Flags().StringArrayVarP(&questions, "question", "q", nil, "Question to benchmark (repeatable)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
