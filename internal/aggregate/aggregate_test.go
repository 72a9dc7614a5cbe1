package aggregate

import (
	"testing"
	"time"

	"github.com/khanglvm/focus-ask/internal/usagelog"
)

func rec(app string, secs int64, ts string) usagelog.UsageRecord {
	t, _ := time.ParseInLocation("2006-01-02 15:04:05", ts, time.Local)
	return usagelog.UsageRecord{AppName: app, Duration: secs, Timestamp: t}
}

func sample() []usagelog.UsageRecord {
	return []usagelog.UsageRecord{
		rec("chrome", 120, "2024-01-01 10:00:00"),
		rec("chrome", 300, "2024-01-01 10:05:00"),
		rec("slack", 200, "2024-01-01 11:00:00"),
		rec("slack", 220, "2024-01-02 09:00:00"),
		rec("code", 60, "2024-01-02 09:30:00"),
	}
}

func TestTotalAndDistinct(t *testing.T) {
	records := sample()

	if got := Total(records); got != 900 {
		t.Errorf("Expected total 900, got %d", got)
	}
	if got := DistinctApps(records); got != 3 {
		t.Errorf("Expected 3 distinct apps, got %d", got)
	}
	if got := Total(nil); got != 0 {
		t.Errorf("Expected total 0 for nil, got %d", got)
	}
}

func TestByDate(t *testing.T) {
	got := ByDate(sample())
	want := []DateTotal{{"2024-01-01", 620}, {"2024-01-02", 280}}

	if len(got) != len(want) {
		t.Fatalf("Expected %d dates, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestByApp_SessionsAndOrder(t *testing.T) {
	got := ByApp(sample())

	if len(got) != 3 {
		t.Fatalf("Expected 3 apps, got %d", len(got))
	}
	if got[0].App != "chrome" || got[1].App != "code" || got[2].App != "slack" {
		t.Errorf("Expected apps sorted by name, got %v", got)
	}
	if got[0].Sessions != 2 || got[0].Seconds != 420 {
		t.Errorf("Unexpected chrome totals: %+v", got[0])
	}
}

func TestTopApp_TieBreaksByName(t *testing.T) {
	records := []usagelog.UsageRecord{
		rec("zoom", 100, "2024-01-01 10:00:00"),
		rec("arc", 100, "2024-01-01 11:00:00"),
	}

	top, ok := TopApp(records)
	if !ok {
		t.Fatal("Expected a top app")
	}
	if top.App != "arc" {
		t.Errorf("Expected tie broken by name (arc), got %s", top.App)
	}

	if _, ok := TopApp(nil); ok {
		t.Error("Expected no top app for empty input")
	}
}

func TestByHourAndDateHour(t *testing.T) {
	hours := ByHour(sample())
	if len(hours) != 3 {
		t.Fatalf("Expected 3 hours, got %d", len(hours))
	}
	if hours[0].Hour != 9 || hours[0].Seconds != 280 {
		t.Errorf("Unexpected first hour: %+v", hours[0])
	}

	dh := ByDateHour(sample())
	if len(dh) != 3 {
		t.Fatalf("Expected 3 date-hour groups, got %d", len(dh))
	}
	if dh[0].Date != "2024-01-01" || dh[0].Hour != 10 || dh[0].Seconds != 420 {
		t.Errorf("Unexpected first date-hour group: %+v", dh[0])
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		part, whole int64
		want        float64
	}{
		{"full", 420, 420, 100.0},
		{"third", 1, 3, 33.3},
		{"zero denominator", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.part, tt.whole); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatMinSec(t *testing.T) {
	if got := FormatMinSec(425); got != "7 minutes 5 seconds" {
		t.Errorf("Expected '7 minutes 5 seconds', got %q", got)
	}
}
