/*
Package answer renders user-facing sentences.

Quick-analysis results are rendered with fixed templates. General questions are
answered by a language-generation backend over retrieved document texts; a
failing backend yields a fixed apology instead of an error.
*/
package answer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/khanglvm/focus-ask/internal/analysis"
	"github.com/khanglvm/focus-ask/internal/llm"
)

// Fixed user-facing strings.
const (
	NoRelevantData   = "No relevant data found."
	BackendApology   = "Sorry, I couldn't answer your question right now."
	UnexpectedResult = "Sorry, I couldn't interpret the analysis result."
)

// Explain renders a quick-analysis result as a sentence.
func Explain(r analysis.Result) string {
	if r.Err != nil {
		return apologize(r.Err.Reason)
	}

	switch p := r.Payload.(type) {
	case analysis.DailyTotal:
		s := fmt.Sprintf("Today you have used your computer for %d hours and %d minutes across %d different apps.",
			p.TotalHours, p.RemainingMinutes, p.AppCount)
		if p.MostUsedToday != nil {
			s += fmt.Sprintf(" Your most used app today is %s.", *p.MostUsedToday)
		}
		return s

	case analysis.AppRanking:
		return fmt.Sprintf("You used %s the most today, for about %d minutes, which is %.1f%% of your total usage.",
			p.TopApp, p.TopMinutes, p.Percentage)

	case analysis.YesterdayComparison:
		switch p.Trend {
		case analysis.TrendSame:
			return fmt.Sprintf("You used your computer for %d minutes today, the same as yesterday.", p.TodayMinutes)
		default:
			word := "more"
			if p.Trend == analysis.TrendDecrease {
				word = "less"
			}
			s := fmt.Sprintf("You used your computer for %d minutes today and %d minutes yesterday, %d minutes %s",
				p.TodayMinutes, p.YesterdayMinutes, abs(p.ChangeMinutes), word)
			if p.YesterdayMinutes > 0 {
				s += fmt.Sprintf(" (%.1f%%)", math.Abs(p.ChangePercent))
			}
			return s + " than yesterday."
		}

	case analysis.WeeklyTrend:
		return fmt.Sprintf("Over the last week you averaged %.1f minutes per active day. "+
			"Your busiest day was %s with %d minutes and your lightest day was %s with %d minutes.",
			p.AverageDaily, p.PeakDay, p.PeakMinutes, p.LowestDay, p.LowestMinutes)

	case analysis.HourlyPattern:
		active := make([]string, len(p.MostActiveHours))
		for i, h := range p.MostActiveHours {
			active[i] = fmt.Sprintf("%d:00 (%d minutes)", h.Hour, h.Minutes)
		}
		return fmt.Sprintf("Your most active hour was %d:00 with %d minutes of usage. Other active hours include: %s.",
			p.PeakHour, p.PeakMinutes, strings.Join(active, ", "))

	case analysis.WeeklyProductivity:
		return fmt.Sprintf("This week, you were productive for %d hours and %d minutes, using %d different apps.",
			p.TotalHours, p.RemainingMinutes, p.AppCount)

	case analysis.MostFocusedDay:
		return fmt.Sprintf("You were most focused on %s, spending %d hours and %d minutes working.",
			p.Day, p.TotalHours, p.RemainingMinutes)
	}

	return UnexpectedResult
}

func apologize(reason string) string {
	reason = strings.TrimRight(strings.TrimSpace(reason), ".")
	return "Sorry, " + reason + "."
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Synthesizer answers general questions through a Generator.
type Synthesizer struct {
	gen llm.Generator
}

// NewSynthesizer creates a synthesizer over gen.
func NewSynthesizer(gen llm.Generator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// General answers question from the retrieved texts. The returned string is
// always suitable for the user; err is non-nil when the backend failed and the
// string is BackendApology.
func (s *Synthesizer) General(ctx context.Context, question string, texts []string) (string, error) {
	prompt := BuildPrompt(JoinContext(texts), question)

	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return BackendApology, err
	}

	out = StripRoleLabels(out)
	if out == "" {
		return BackendApology, fmt.Errorf("backend returned an empty answer")
	}
	return out, nil
}
