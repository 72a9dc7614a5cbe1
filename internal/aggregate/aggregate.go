/*
Package aggregate computes grouped sums and counts over usage records.

Every function is pure: it never mutates its input and returns results in a
deterministic order (grouping keys ascending unless stated otherwise), so the
same records always produce the same output.
*/
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/khanglvm/focus-ask/internal/usagelog"
)

// DateTotal is the summed duration of one calendar date.
type DateTotal struct {
	Date    string
	Seconds int64
}

// AppTotal is the summed duration and session count of one app.
type AppTotal struct {
	App      string
	Seconds  int64
	Sessions int
}

// HourTotal is the summed duration of one hour of day (0-23).
type HourTotal struct {
	Hour    int
	Seconds int64
}

// DateAppTotal is the summed duration of one app on one date.
type DateAppTotal struct {
	Date    string
	App     string
	Seconds int64
}

// DateHourTotal is the summed duration of one hour on one date.
type DateHourTotal struct {
	Date    string
	Hour    int
	Seconds int64
}

// Total sums the duration of all records.
func Total(records []usagelog.UsageRecord) int64 {
	var sum int64
	for _, r := range records {
		sum += r.Duration
	}
	return sum
}

// DistinctApps counts unique app names.
func DistinctApps(records []usagelog.UsageRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.AppName] = struct{}{}
	}
	return len(seen)
}

// ByDate groups durations by calendar date, dates ascending.
func ByDate(records []usagelog.UsageRecord) []DateTotal {
	sums := make(map[string]int64)
	for _, r := range records {
		sums[r.Date()] += r.Duration
	}

	out := make([]DateTotal, 0, len(sums))
	for date, secs := range sums {
		out = append(out, DateTotal{Date: date, Seconds: secs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ByApp groups durations and session counts by app, names ascending.
func ByApp(records []usagelog.UsageRecord) []AppTotal {
	sums := make(map[string]*AppTotal)
	for _, r := range records {
		t, ok := sums[r.AppName]
		if !ok {
			t = &AppTotal{App: r.AppName}
			sums[r.AppName] = t
		}
		t.Seconds += r.Duration
		t.Sessions++
	}

	out := make([]AppTotal, 0, len(sums))
	for _, t := range sums {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].App < out[j].App })
	return out
}

// RankApps returns app totals ordered by duration descending, ties by name.
func RankApps(records []usagelog.UsageRecord) []AppTotal {
	out := ByApp(records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].App < out[j].App
	})
	return out
}

// TopApp returns the app with the largest total duration.
// ok is false when records is empty.
func TopApp(records []usagelog.UsageRecord) (AppTotal, bool) {
	ranked := RankApps(records)
	if len(ranked) == 0 {
		return AppTotal{}, false
	}
	return ranked[0], true
}

// ByHour groups durations by hour of day, hours ascending. Only hours with
// records are present.
func ByHour(records []usagelog.UsageRecord) []HourTotal {
	sums := make(map[int]int64)
	for _, r := range records {
		sums[r.Hour()] += r.Duration
	}

	out := make([]HourTotal, 0, len(sums))
	for hour, secs := range sums {
		out = append(out, HourTotal{Hour: hour, Seconds: secs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// ByDateApp groups durations by (date, app), ordered by date then app.
func ByDateApp(records []usagelog.UsageRecord) []DateAppTotal {
	type key struct{ date, app string }
	sums := make(map[key]int64)
	for _, r := range records {
		sums[key{r.Date(), r.AppName}] += r.Duration
	}

	out := make([]DateAppTotal, 0, len(sums))
	for k, secs := range sums {
		out = append(out, DateAppTotal{Date: k.date, App: k.app, Seconds: secs})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].App < out[j].App
	})
	return out
}

// ByDateHour groups durations by (date, hour), ordered by date then hour.
func ByDateHour(records []usagelog.UsageRecord) []DateHourTotal {
	type key struct {
		date string
		hour int
	}
	sums := make(map[key]int64)
	for _, r := range records {
		sums[key{r.Date(), r.Hour()}] += r.Duration
	}

	out := make([]DateHourTotal, 0, len(sums))
	for k, secs := range sums {
		out = append(out, DateHourTotal{Date: k.date, Hour: k.hour, Seconds: secs})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

// Percent returns part/whole*100 rounded to one decimal, or 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return Round1(float64(part) / float64(whole) * 100)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatMinSec renders seconds as "M minutes S seconds".
func FormatMinSec(seconds int64) string {
	return fmt.Sprintf("%d minutes %d seconds", seconds/60, seconds%60)
}
