/*
Package main is the entry point for the focus-ask CLI.

focus-ask answers natural-language questions about application usage recorded
by a focus tracker. Known questions are answered exactly from the usage log;
anything else is answered from a semantic index of daily, hourly and per-app
summaries by a language model.

Usage:
  focus-ask [command]

Available Commands:
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

Examples:
  # Ask a question
  focus-ask ask "what app did I use most today?"

  # Run as MCP server
  focus-ask serve
*/
package main

import (
	"fmt"
	"os"

	"github.com/khanglvm/focus-ask/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
