/*
Package docsynth turns aggregated usage into short natural-language documents
for the semantic index.

Documents are produced at three granularities in a single batch pass:
  - daily_usage:     one per (date, app)
  - hourly_activity: one per (date, hour) whose total exceeds HourlyNoiseFloor
  - app_summary:     one per app over the whole log

Synthesis is a pure function of its input; the same records always yield the
same texts, metadata and order.
*/
package docsynth

import (
	"fmt"

	"github.com/khanglvm/focus-ask/internal/aggregate"
	"github.com/khanglvm/focus-ask/internal/usagelog"
)

// HourlyNoiseFloor is the total seconds an hour must exceed to be indexed.
const HourlyNoiseFloor = 300

// Granularity is the aggregation level a document summarizes.
type Granularity string

const (
	DailyUsage     Granularity = "daily_usage"
	HourlyActivity Granularity = "hourly_activity"
	AppSummary     Granularity = "app_summary"
)

// IndexDocument is the unit stored in the semantic index.
type IndexDocument struct {
	// Key identifies the grouping (granularity plus grouping values) and is
	// unique within one synthesis pass.
	Key string `json:"key"`

	// Text is the natural-language snippet that gets embedded.
	Text string `json:"text"`

	// Metadata holds scalar attributes of the grouping.
	Metadata map[string]any `json:"metadata"`

	// Granularity is the aggregation level.
	Granularity Granularity `json:"granularity"`
}

// Synthesize builds documents from records: daily, then hourly, then app summaries.
func Synthesize(records []usagelog.UsageRecord) []IndexDocument {
	docs := make([]IndexDocument, 0)
	docs = append(docs, dailyDocuments(records)...)
	docs = append(docs, hourlyDocuments(records)...)
	docs = append(docs, appDocuments(records)...)
	return docs
}

func dailyDocuments(records []usagelog.UsageRecord) []IndexDocument {
	groups := aggregate.ByDateApp(records)
	docs := make([]IndexDocument, 0, len(groups))
	for _, g := range groups {
		docs = append(docs, IndexDocument{
			Key: fmt.Sprintf("%s:%s|%s", DailyUsage, g.Date, g.App),
			Text: fmt.Sprintf("Date: %s, App: %s, Duration: %s",
				g.Date, g.App, aggregate.FormatMinSec(g.Seconds)),
			Metadata: map[string]any{
				"date":     g.Date,
				"app_name": g.App,
				"duration": g.Seconds,
				"type":     string(DailyUsage),
			},
			Granularity: DailyUsage,
		})
	}
	return docs
}

func hourlyDocuments(records []usagelog.UsageRecord) []IndexDocument {
	groups := aggregate.ByDateHour(records)
	docs := make([]IndexDocument, 0, len(groups))
	for _, g := range groups {
		if g.Seconds <= HourlyNoiseFloor {
			continue
		}
		docs = append(docs, IndexDocument{
			Key: fmt.Sprintf("%s:%s|%02d", HourlyActivity, g.Date, g.Hour),
			Text: fmt.Sprintf("Date: %s, Hour: %d:00, Total Activity: %d minutes",
				g.Date, g.Hour, g.Seconds/60),
			Metadata: map[string]any{
				"date":     g.Date,
				"hour":     g.Hour,
				"duration": g.Seconds,
				"type":     string(HourlyActivity),
			},
			Granularity: HourlyActivity,
		})
	}
	return docs
}

func appDocuments(records []usagelog.UsageRecord) []IndexDocument {
	groups := aggregate.ByApp(records)
	docs := make([]IndexDocument, 0, len(groups))
	for _, g := range groups {
		// Sessions >= 1 for every group ByApp emits.
		avgMinutes := g.Seconds / int64(g.Sessions) / 60
		docs = append(docs, IndexDocument{
			Key: fmt.Sprintf("%s:%s", AppSummary, g.App),
			Text: fmt.Sprintf("App: %s, Total Usage: %d minutes, Average Session: %d minutes, Used %d times",
				g.App, g.Seconds/60, avgMinutes, g.Sessions),
			Metadata: map[string]any{
				"app_name":       g.App,
				"total_duration": g.Seconds,
				"session_count":  g.Sessions,
				"type":           string(AppSummary),
			},
			Granularity: AppSummary,
		})
	}
	return docs
}
