package analysis

import (
	"encoding/json"

	"github.com/khanglvm/focus-ask/internal/classify"
)

// Payload is the success body of a quick analysis; one concrete type per intent.
type Payload interface {
	intent() classify.Intent
}

// GapError reports that the log has no rows in the window an intent needs.
type GapError struct {
	Reason string
}

func (e *GapError) Error() string {
	return e.Reason
}

// Result is either a Payload or a GapError for one intent.
type Result struct {
	Intent  classify.Intent
	Payload Payload
	Err     *GapError
}

// Failed reports whether the result carries an error instead of a payload.
func (r Result) Failed() bool {
	return r.Err != nil
}

// MarshalJSON renders the result as a flat object: the payload fields plus
// "type", or {"type", "error"} on failure.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil || r.Payload == nil {
		reason := "No data found"
		if r.Err != nil {
			reason = r.Err.Reason
		}
		return json.Marshal(map[string]any{"type": r.Intent, "error": reason})
	}

	raw, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["type"] = r.Intent
	return json.Marshal(fields)
}

// DailyTotal summarizes today's usage.
type DailyTotal struct {
	TotalSeconds     int64   `json:"total_seconds"`
	TotalMinutes     int64   `json:"total_minutes"`
	TotalHours       int64   `json:"total_hours"`
	RemainingMinutes int64   `json:"remaining_minutes"`
	AppCount         int     `json:"app_count"`
	MostUsedToday    *string `json:"most_used_today"`
}

// AppRanking names today's most used app.
type AppRanking struct {
	TopApp               string  `json:"top_app"`
	TopMinutes           int64   `json:"top_minutes"`
	TotalDurationMinutes int64   `json:"total_duration_minutes"`
	Percentage           float64 `json:"percentage"`
}

// Trend tags for YesterdayComparison.
const (
	TrendIncrease = "increase"
	TrendDecrease = "decrease"
	TrendSame     = "same"
)

// YesterdayComparison compares today's total against yesterday's.
type YesterdayComparison struct {
	TodayMinutes     int64   `json:"today_minutes"`
	YesterdayMinutes int64   `json:"yesterday_minutes"`
	ChangeMinutes    int64   `json:"change_minutes"`
	ChangePercent    float64 `json:"change_percent"`
	Trend            string  `json:"trend"`
}

// DayMinutes is one day's total in whole minutes.
type DayMinutes struct {
	Date    string `json:"date"`
	Minutes int64  `json:"minutes"`
}

// WeeklyTrend describes per-day totals across the last seven days.
type WeeklyTrend struct {
	DailyTotals   []DayMinutes `json:"daily_totals"`
	AverageDaily  float64      `json:"average_daily"`
	PeakDay       string       `json:"peak_day"`
	PeakMinutes   int64        `json:"peak_minutes"`
	LowestDay     string       `json:"lowest_day"`
	LowestMinutes int64        `json:"lowest_minutes"`
}

// HourMinutes is one hour-of-day total in whole minutes.
type HourMinutes struct {
	Hour    int   `json:"hour"`
	Minutes int64 `json:"minutes"`
}

// HourlyPattern describes activity by hour of day over the whole history.
type HourlyPattern struct {
	HourlyData      []HourMinutes `json:"hourly_data"`
	PeakHour        int           `json:"peak_hour"`
	PeakMinutes     int64         `json:"peak_minutes"`
	MostActiveHours []HourMinutes `json:"most_active_hours"`
}

// WeeklyProductivity totals the last seven days.
type WeeklyProductivity struct {
	TotalSeconds     int64 `json:"total_seconds"`
	TotalMinutes     int64 `json:"total_minutes"`
	TotalHours       int64 `json:"total_hours"`
	RemainingMinutes int64 `json:"remaining_minutes"`
	AppCount         int   `json:"app_count"`
}

// MostFocusedDay is the busiest day of the last seven days.
type MostFocusedDay struct {
	Day              string `json:"day"`
	TotalSeconds     int64  `json:"total_seconds"`
	TotalMinutes     int64  `json:"total_minutes"`
	TotalHours       int64  `json:"total_hours"`
	RemainingMinutes int64  `json:"remaining_minutes"`
}

func (DailyTotal) intent() classify.Intent          { return classify.DailyTotal }
func (AppRanking) intent() classify.Intent          { return classify.AppRanking }
func (YesterdayComparison) intent() classify.Intent { return classify.YesterdayComparison }
func (WeeklyTrend) intent() classify.Intent         { return classify.WeeklyTrend }
func (HourlyPattern) intent() classify.Intent       { return classify.HourlyPattern }
func (WeeklyProductivity) intent() classify.Intent  { return classify.WeeklyProductivity }
func (MostFocusedDay) intent() classify.Intent      { return classify.MostFocusedDay }
