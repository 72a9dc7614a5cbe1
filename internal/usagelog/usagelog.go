/*
Package usagelog reads the focus-session log written by the window tracker.

The log is a CSV file with the header `app_name,duration,timestamp`, one row per
focus session. The tracker owns the file; this package only reads it. Rows that
cannot be parsed are dropped, never repaired, and a missing file is treated as an
empty log so callers can always answer "no data".
*/
package usagelog

import (
	"sort"
	"time"
)

// DateLayout is the canonical calendar-date format used across the engine.
const DateLayout = "2006-01-02"

// UsageRecord is a single focus session.
type UsageRecord struct {
	// AppName is the foreground window/application title.
	AppName string `json:"app_name"`

	// Duration is the focus time in whole seconds (never negative).
	Duration int64 `json:"duration_seconds"`

	// Timestamp is when the session was logged (local time).
	Timestamp time.Time `json:"timestamp"`
}

// Date returns the calendar date of the record as YYYY-MM-DD.
func (r UsageRecord) Date() string {
	return r.Timestamp.Format(DateLayout)
}

// Hour returns the hour of day (0-23).
func (r UsageRecord) Hour() int {
	return r.Timestamp.Hour()
}

// Weekday returns the day of week.
func (r UsageRecord) Weekday() time.Weekday {
	return r.Timestamp.Weekday()
}

// Log is an immutable, validated set of usage records ordered by timestamp.
type Log struct {
	records []UsageRecord

	// Path is the file the log was read from (empty for in-memory logs).
	Path string

	// Dropped counts malformed rows excluded during load.
	Dropped int
}

// NewLog builds a Log from already validated records.
// Records with a negative duration or zero timestamp are excluded.
func NewLog(records []UsageRecord) *Log {
	valid := make([]UsageRecord, 0, len(records))
	dropped := 0
	for _, r := range records {
		if r.Duration < 0 || r.Timestamp.IsZero() {
			dropped++
			continue
		}
		valid = append(valid, r)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Timestamp.Before(valid[j].Timestamp)
	})

	return &Log{records: valid, Dropped: dropped}
}

// Records returns a copy of all records.
func (l *Log) Records() []UsageRecord {
	if l == nil {
		return nil
	}
	out := make([]UsageRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of valid records.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// Empty reports whether the log holds no valid records.
func (l *Log) Empty() bool {
	return l.Len() == 0
}

// OnDate returns records whose calendar date equals date (YYYY-MM-DD).
func (l *Log) OnDate(date string) []UsageRecord {
	return l.filter(func(r UsageRecord) bool { return r.Date() == date })
}

// BetweenDates returns records whose calendar date lies in [from, to] inclusive.
// Dates are compared as YYYY-MM-DD strings, which sort chronologically.
func (l *Log) BetweenDates(from, to string) []UsageRecord {
	return l.filter(func(r UsageRecord) bool {
		d := r.Date()
		return d >= from && d <= to
	})
}

// Span returns the first and last record timestamps.
func (l *Log) Span() (first, last time.Time, ok bool) {
	if l.Empty() {
		return time.Time{}, time.Time{}, false
	}
	return l.records[0].Timestamp, l.records[len(l.records)-1].Timestamp, true
}

func (l *Log) filter(keep func(UsageRecord) bool) []UsageRecord {
	if l == nil {
		return nil
	}
	var out []UsageRecord
	for _, r := range l.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
