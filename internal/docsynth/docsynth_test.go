package docsynth

import (
	"reflect"
	"testing"
	"time"

	"github.com/khanglvm/focus-ask/internal/usagelog"
)

func rec(app string, secs int64, ts string) usagelog.UsageRecord {
	t, _ := time.ParseInLocation("2006-01-02 15:04:05", ts, time.Local)
	return usagelog.UsageRecord{AppName: app, Duration: secs, Timestamp: t}
}

func TestSynthesize_Scenario(t *testing.T) {
	records := []usagelog.UsageRecord{
		rec("chrome", 120, "2024-01-01 10:00:00"),
		rec("chrome", 300, "2024-01-01 10:05:00"),
	}

	docs := Synthesize(records)
	if len(docs) != 3 {
		t.Fatalf("Expected 3 documents (daily, hourly, summary), got %d", len(docs))
	}

	want := []struct {
		granularity Granularity
		text        string
	}{
		{DailyUsage, "Date: 2024-01-01, App: chrome, Duration: 7 minutes 0 seconds"},
		{HourlyActivity, "Date: 2024-01-01, Hour: 10:00, Total Activity: 7 minutes"},
		{AppSummary, "App: chrome, Total Usage: 7 minutes, Average Session: 3 minutes, Used 2 times"},
	}
	for i, w := range want {
		if docs[i].Granularity != w.granularity {
			t.Errorf("Doc %d: expected granularity %s, got %s", i, w.granularity, docs[i].Granularity)
		}
		if docs[i].Text != w.text {
			t.Errorf("Doc %d: expected text %q, got %q", i, w.text, docs[i].Text)
		}
		if docs[i].Metadata["type"] != string(w.granularity) {
			t.Errorf("Doc %d: metadata type mismatch: %v", i, docs[i].Metadata["type"])
		}
	}
}

func TestSynthesize_HourlyNoiseFloor(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int64
		expected bool
	}{
		{"below floor", 299, false},
		{"exactly floor", 300, false},
		{"above floor", 301, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := Synthesize([]usagelog.UsageRecord{rec("term", tt.seconds, "2024-02-02 14:10:00")})

			found := false
			for _, d := range docs {
				if d.Granularity == HourlyActivity {
					found = true
				}
			}
			if found != tt.expected {
				t.Errorf("Expected hourly document emitted=%v for %d seconds", tt.expected, tt.seconds)
			}
		})
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	records := []usagelog.UsageRecord{
		rec("slack", 500, "2024-01-02 09:00:00"),
		rec("chrome", 120, "2024-01-01 10:00:00"),
		rec("code", 900, "2024-01-01 10:20:00"),
		rec("chrome", 330, "2024-01-02 16:00:00"),
	}

	first := Synthesize(records)
	second := Synthesize(records)

	if !reflect.DeepEqual(first, second) {
		t.Error("Synthesize produced different output for identical input")
	}
}

func TestSynthesize_AppSummaryTotalsMatchLog(t *testing.T) {
	records := []usagelog.UsageRecord{
		rec("slack", 500, "2024-01-02 09:00:00"),
		rec("chrome", 120, "2024-01-01 10:00:00"),
		rec("code", 900, "2024-01-01 10:20:00"),
		rec("chrome", 330, "2024-01-02 16:00:00"),
		rec("code", 0, "2024-01-03 08:00:00"),
	}

	var want int64
	for _, r := range records {
		want += r.Duration
	}

	var got int64
	for _, d := range Synthesize(records) {
		if d.Granularity == AppSummary {
			got += d.Metadata["total_duration"].(int64)
		}
	}

	if got != want {
		t.Errorf("Expected app_summary totals %d, got %d", want, got)
	}
}

func TestSynthesize_UniqueKeys(t *testing.T) {
	records := []usagelog.UsageRecord{
		rec("chrome", 400, "2024-01-01 10:00:00"),
		rec("chrome", 400, "2024-01-01 10:30:00"),
		rec("chrome", 400, "2024-01-01 11:00:00"),
	}

	seen := make(map[string]bool)
	for _, d := range Synthesize(records) {
		if seen[d.Key] {
			t.Errorf("Duplicate document key %s", d.Key)
		}
		seen[d.Key] = true
	}
}

func TestSynthesize_Empty(t *testing.T) {
	if docs := Synthesize(nil); len(docs) != 0 {
		t.Errorf("Expected no documents for empty input, got %d", len(docs))
	}
}
