/*
Package benchmark measures end-to-end answer latency for focus-ask.

It asks a fixed set of questions, one per intent plus two that fall through to
retrieval, and reports per-question timings grouped by answer path. Quick
answers should stay in the microsecond range; retrieval answers are dominated
by the embedding and generation backends.
*/
package benchmark

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/khanglvm/focus-ask/internal/engine"
)

// Asker is the subset of *engine.Engine the benchmark drives.
type Asker interface {
	Ask(ctx context.Context, question string) engine.Response
}

// DefaultQuestions covers every quick intent and the retrieval fallback.
var DefaultQuestions = []string{
	"what app did I use most today?",
	"how much time did I spend today?",
	"compare today with yesterday",
	"show my weekly trend",
	"what are my peak hours?",
	"how productive was I this week?",
	"which was my most focused day?",
	"when did I use slack in the morning?",
	"what was I doing on monday afternoon?",
}

// QuestionTiming is the latency summary for one question.
type QuestionTiming struct {
	Question string        `json:"question"`
	Intent   string        `json:"intent"`
	Path     string        `json:"path"`
	Runs     int           `json:"runs"`
	Min      time.Duration `json:"min"`
	Max      time.Duration `json:"max"`
	Average  time.Duration `json:"average"`
}

// PathSummary aggregates timings for one answer path.
type PathSummary struct {
	Path    string        `json:"path"`
	Runs    int           `json:"runs"`
	Average time.Duration `json:"average"`
}

// Result contains a full benchmark run.
type Result struct {
	Iterations int              `json:"iterations"`
	Questions  []QuestionTiming `json:"questions"`
	Paths      []PathSummary    `json:"paths"`
	Total      time.Duration    `json:"total"`
}

// Run asks each question iterations times and summarizes the latencies.
// A cancelled ctx stops the run early with the timings gathered so far.
func Run(ctx context.Context, a Asker, questions []string, iterations int) *Result {
	if iterations < 1 {
		iterations = 1
	}
	if len(questions) == 0 {
		questions = DefaultQuestions
	}

	result := &Result{Iterations: iterations}
	byPath := make(map[string]*PathSummary)
	var pathTotals = make(map[string]time.Duration)

	for _, q := range questions {
		timing := QuestionTiming{Question: q}
		var total time.Duration

		for i := 0; i < iterations; i++ {
			if ctx.Err() != nil {
				break
			}

			start := time.Now()
			resp := a.Ask(ctx, q)
			elapsed := time.Since(start)

			timing.Intent = string(resp.Intent)
			timing.Path = resp.Path
			timing.Runs++
			total += elapsed
			if timing.Runs == 1 || elapsed < timing.Min {
				timing.Min = elapsed
			}
			if elapsed > timing.Max {
				timing.Max = elapsed
			}

			ps, ok := byPath[resp.Path]
			if !ok {
				ps = &PathSummary{Path: resp.Path}
				byPath[resp.Path] = ps
			}
			ps.Runs++
			pathTotals[resp.Path] += elapsed
		}

		if timing.Runs == 0 {
			break
		}
		timing.Average = total / time.Duration(timing.Runs)
		result.Total += total
		result.Questions = append(result.Questions, timing)
	}

	for path, ps := range byPath {
		ps.Average = pathTotals[path] / time.Duration(ps.Runs)
		result.Paths = append(result.Paths, *ps)
	}
	sort.Slice(result.Paths, func(i, j int) bool {
		return result.Paths[i].Path < result.Paths[j].Path
	})

	return result
}

// FormatResult formats the benchmark result for display.
func FormatResult(result *Result) string {
	var sb strings.Builder

	sb.WriteString("╔══════════════════════════════════════════════════════════════╗\n")
	sb.WriteString("║               ANSWER LATENCY BENCHMARK RESULTS               ║\n")
	sb.WriteString("╚══════════════════════════════════════════════════════════════╝\n")
	sb.WriteString(fmt.Sprintf("Iterations per question: %d\n\n", result.Iterations))

	for _, q := range result.Questions {
		sb.WriteString(fmt.Sprintf("  %s\n", q.Question))
		sb.WriteString(fmt.Sprintf("    %-20s %-10s avg %-10v min %-10v max %v\n",
			q.Intent, q.Path, round(q.Average), round(q.Min), round(q.Max)))
	}

	sb.WriteString("\n═══════════════════════════════════════════════════════════════\n")
	for _, p := range result.Paths {
		sb.WriteString(fmt.Sprintf("  %-10s %4d runs, average %v\n", p.Path, p.Runs, round(p.Average)))
	}
	sb.WriteString(fmt.Sprintf("  Total time: %v\n", round(result.Total)))
	sb.WriteString("═══════════════════════════════════════════════════════════════\n")

	return sb.String()
}

// round keeps sub-millisecond quick-path timings readable.
func round(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return d.Round(time.Microsecond)
	}
	return d.Round(time.Millisecond)
}
