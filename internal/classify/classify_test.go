package classify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     Intent
	}{
		{"What app did I use most today?", AppRanking},
		{"Which day was I most focused?", MostFocusedDay},
		{"How productive was I this week?", WeeklyProductivity},
		{"What are my most active hours?", HourlyPattern},
		{"How much did I use the computer today?", DailyTotal},
		{"Compare yesterday with today", YesterdayComparison},
		{"Show my weekly trend", WeeklyTrend},
		{"week usage", WeeklyTrend},
		{"How long did I spend in Figma last month?", General},
		{"", General},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := Classify(tt.question); got != tt.want {
				t.Errorf("Classify(%q): expected %s, got %s", tt.question, tt.want, got)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// "focus.*day" (most_focused_day) and "how much.*today" (daily_total) both match;
	// the earlier intent wins.
	q := "how much focus time did I log today"
	if got := Classify(q); got != MostFocusedDay {
		t.Errorf("Expected %s by priority, got %s", MostFocusedDay, got)
	}

	// weekly_trend precedes weekly_productivity.
	if got := Classify("my productive week usage"); got != WeeklyTrend {
		t.Errorf("Expected %s by priority, got %s", WeeklyTrend, got)
	}
}

func TestClassify_WeekUsageVariants(t *testing.T) {
	for _, q := range []string{"week usage", "Week usage?", "show my week usage", "weekly usage"} {
		if got := Classify(q); got != WeeklyTrend {
			t.Errorf("Classify(%q): expected %s, got %s", q, WeeklyTrend, got)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify("WHICH APP DID I USE MOST"); got != AppRanking {
		t.Errorf("Expected %s, got %s", AppRanking, got)
	}
}

func TestMatch_ReturnsPattern(t *testing.T) {
	c := New(nil)

	intent, pattern := c.Match("peak hour please")
	if intent != HourlyPattern {
		t.Fatalf("Expected %s, got %s", HourlyPattern, intent)
	}
	if pattern != `peak.*hour` {
		t.Errorf("Expected pattern 'peak.*hour', got %q", pattern)
	}

	intent, pattern = c.Match("tell me a joke")
	if intent != General || pattern != "" {
		t.Errorf("Expected general with empty pattern, got %s %q", intent, pattern)
	}
}

func TestNew_CustomRules(t *testing.T) {
	c := New([]Rule{rule(DailyTotal, `^total$`)})

	if got := c.Classify("total"); got != DailyTotal {
		t.Errorf("Expected %s, got %s", DailyTotal, got)
	}
	if got := c.Classify("which app did i use most"); got != General {
		t.Errorf("Expected general with custom table, got %s", got)
	}
}
