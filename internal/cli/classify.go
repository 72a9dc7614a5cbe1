package cli

import (
	"fmt"
	"strings"

	"github.com/khanglvm/focus-ask/internal/classify"
	"github.com/spf13/cobra"
)

// NewClassifyCmd creates the 'classify' command. It reads no data.
func NewClassifyCmd() *cobra.Command {
	var listIntents bool

	cmd := &cobra.Command{
		Use:   "classify <question>",
		Short: "Show the intent a question resolves to",
		Example: `  focus-ask classify "what are my peak hours?"
  focus-ask classify --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listIntents {
				for _, intent := range classify.Intents() {
					fmt.Fprintln(out, intent)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("question required")
			}
			fmt.Fprintln(out, classify.Classify(strings.Join(args, " ")))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&listIntents, "list", "l", false, "List every intent")
	return cmd
}
