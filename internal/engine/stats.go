package engine

import (
	"sort"
	"time"

	"github.com/khanglvm/focus-ask/internal/aggregate"
	"github.com/khanglvm/focus-ask/internal/storage"
)

const (
	statsTopApps  = 5
	statsTopHours = 3
)

// AppUsage is one app's share of the log.
type AppUsage struct {
	App      string  `json:"app"`
	Minutes  int64   `json:"minutes"`
	Sessions int     `json:"sessions"`
	Percent  float64 `json:"percent"`
}

// HourUsage is one hour of day's total.
type HourUsage struct {
	Hour    int   `json:"hour"`
	Minutes int64 `json:"minutes"`
}

// Stats summarizes the log and the index.
type Stats struct {
	Records      int         `json:"records"`
	Dropped      int         `json:"dropped"`
	FirstSeen    *time.Time  `json:"first_seen,omitempty"`
	LastSeen     *time.Time  `json:"last_seen,omitempty"`
	Days         int         `json:"days"`
	TotalSeconds int64       `json:"total_seconds"`
	Apps         int         `json:"apps"`
	TopApps      []AppUsage  `json:"top_apps"`
	BusiestHours []HourUsage `json:"busiest_hours"`
	Documents    int         `json:"documents"`
}

// Stats computes log totals, the top apps and the busiest hours.
func (e *Engine) Stats() Stats {
	usage := e.Log()
	records := usage.Records()
	total := aggregate.Total(records)

	s := Stats{
		Records:      usage.Len(),
		Dropped:      usage.Dropped,
		Days:         len(aggregate.ByDate(records)),
		TotalSeconds: total,
		Apps:         aggregate.DistinctApps(records),
		TopApps:      []AppUsage{},
		BusiestHours: []HourUsage{},
		Documents:    e.Count(),
	}
	if first, last, ok := usage.Span(); ok {
		s.FirstSeen, s.LastSeen = &first, &last
	}

	for i, a := range aggregate.RankApps(records) {
		if i == statsTopApps {
			break
		}
		s.TopApps = append(s.TopApps, AppUsage{
			App:      a.App,
			Minutes:  a.Seconds / 60,
			Sessions: a.Sessions,
			Percent:  aggregate.Percent(a.Seconds, total),
		})
	}

	hours := aggregate.ByHour(records)
	sort.SliceStable(hours, func(i, j int) bool {
		return hours[i].Seconds > hours[j].Seconds
	})
	for i, h := range hours {
		if i == statsTopHours {
			break
		}
		s.BusiestHours = append(s.BusiestHours, HourUsage{Hour: h.Hour, Minutes: h.Seconds / 60})
	}
	return s
}

// IndexStatus describes the semantic index.
type IndexStatus struct {
	Documents     int            `json:"documents"`
	Model         string         `json:"model"`
	Granularities map[string]int `json:"granularities"`
}

// IndexStatus reports the size and composition of the index.
func (e *Engine) IndexStatus() IndexStatus {
	return IndexStatus{
		Documents:     e.index.Count(),
		Model:         e.index.Model(),
		Granularities: e.index.Granularities(),
	}
}

// History aggregates recorded questions since the given time.
func (e *Engine) History(since time.Time) ([]storage.IntentCount, error) {
	if e.store == nil {
		return []storage.IntentCount{}, nil
	}
	return e.store.IntentCounts(since)
}

// ClearHistory removes every recorded question.
func (e *Engine) ClearHistory() error {
	if e.store == nil {
		return nil
	}
	return e.store.ClearHistory()
}
