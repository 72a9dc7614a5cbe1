/*
Package cli implements the focus-ask command line.

Commands:

	ask         Answer a question about app usage
	classify    Show the intent a question resolves to
	index       Inspect, build or rebuild the semantic index
	stats       Summarize the usage log
	history     Show or clear recorded question history
	serve       Run the MCP server (stdio transport)
	serve-http  Run the HTTP API with Prometheus metrics
	benchmark   Measure answer latency per question type
	config      Create or show configuration
	version     Show version information
*/
package cli

import (
	"context"
	"fmt"

	"github.com/khanglvm/focus-ask/internal/config"
	"github.com/khanglvm/focus-ask/internal/engine"
	"github.com/khanglvm/focus-ask/internal/metrics"
	"github.com/khanglvm/focus-ask/internal/version"
	"github.com/spf13/cobra"
)

// configPath is set by the persistent --config flag. Empty means ~/.focus-ask.json.
var configPath string

// NewRootCmd creates the focus-ask root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "focus-ask",
		Short: "Ask natural-language questions about your app usage",
		Long: `focus-ask answers questions about how you spend time in applications,
using the usage log written by a focus tracker.

Known questions ("what app did I use most today?", "compare with yesterday",
"what are my peak hours?") are answered exactly from the log. Anything else is
answered from the most relevant daily, hourly and per-app summaries by a
local or hosted language model.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.focus-ask.json)")

	root.AddCommand(NewAskCmd())
	root.AddCommand(NewClassifyCmd())
	root.AddCommand(NewIndexCmd())
	root.AddCommand(NewStatsCmd())
	root.AddCommand(NewHistoryCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewServeHTTPCmd())
	root.AddCommand(NewBenchmarkCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewVersionCmd())

	return root
}

// loadConfig reads the --config file, or ~/.focus-ask.json with defaults when unset.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadFrom(config.ExpandPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openEngine loads configuration and opens a started engine.
func openEngine(ctx context.Context, m *metrics.Metrics, opts ...engine.Option) (*engine.Engine, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	e, err := engine.Open(ctx, cfg, m, opts...)
	if err != nil {
		return nil, nil, err
	}
	return e, cfg, nil
}
