/*
Package classify maps a free-text question to an intent.

Intents are tested in a fixed priority order and each owns an ordered list of
case-insensitive patterns. The first intent with any matching pattern wins; a
question that matches nothing is General and is answered by retrieval.
*/
package classify

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a question.
type Intent string

const (
	MostFocusedDay      Intent = "most_focused_day"
	DailyTotal          Intent = "daily_total"
	AppRanking          Intent = "app_ranking"
	YesterdayComparison Intent = "yesterday_comparison"
	WeeklyTrend         Intent = "weekly_trend"
	HourlyPattern       Intent = "hourly_pattern"
	WeeklyProductivity  Intent = "weekly_productivity"
	General             Intent = "general"
)

// Rule pairs an intent with its patterns.
type Rule struct {
	Intent   Intent
	Patterns []*regexp.Regexp
}

// DefaultRules is the priority-ordered rule table.
var DefaultRules = []Rule{
	rule(MostFocusedDay,
		`which day.*most focused`,
		`most focused day`,
		`focus.*day`,
		`most productive day`,
		`best focused day`,
	),
	rule(DailyTotal,
		`today.*total`,
		`daily.*total`,
		`today.*how many minutes`,
		`how much.*today`,
	),
	rule(AppRanking,
		`most.*used`,
		`which app.*most`,
		`top.*app`,
		`most.*frequent`,
		`most used app`,
		`which app did i use most`,
		`what app.*most`,
		`what.*top.*app`,
	),
	rule(YesterdayComparison,
		`yesterday.*today`,
		`compare.*yesterday`,
		`difference.*yesterday`,
		`change.*yesterday`,
	),
	rule(WeeklyTrend,
		`week.*trend`,
		`week(ly)?.*usage`,
		`last.*week`,
		`past.*week`,
		`weekly.*pattern`,
	),
	rule(HourlyPattern,
		`which hour.*most`,
		`peak.*hour`,
		`time.*active`,
		`hour.*usage`,
		`most active hour`,
		`active hours`,
	),
	rule(WeeklyProductivity,
		`productive.*week`,
		`how productive.*week`,
		`weekly.*productivity`,
		`week.*usage`,
	),
}

func rule(intent Intent, patterns ...string) Rule {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return Rule{Intent: intent, Patterns: compiled}
}

// Classifier evaluates an ordered rule table.
type Classifier struct {
	rules []Rule
}

// New creates a classifier over rules; nil means DefaultRules.
func New(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the first matching intent, or General.
func (c *Classifier) Classify(question string) Intent {
	intent, _ := c.Match(question)
	return intent
}

// Match returns the winning intent and the pattern that matched it.
// The pattern is empty for General.
func (c *Classifier) Match(question string) (Intent, string) {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return General, ""
	}
	for _, r := range c.rules {
		for _, p := range r.Patterns {
			if p.MatchString(q) {
				return r.Intent, p.String()
			}
		}
	}
	return General, ""
}

// Classify uses the default rule table.
func Classify(question string) Intent {
	return defaultClassifier.Classify(question)
}

var defaultClassifier = New(nil)

// Intents lists every intent in priority order, General last.
func Intents() []Intent {
	return []Intent{
		MostFocusedDay, DailyTotal, AppRanking, YesterdayComparison,
		WeeklyTrend, HourlyPattern, WeeklyProductivity, General,
	}
}
