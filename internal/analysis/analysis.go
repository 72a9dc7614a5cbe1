/*
Package analysis computes exact answers for the known intents directly from the
usage log, bypassing the semantic index.

Every computation is pure and reentrant: it reads the immutable log and a "now"
supplied by the caller, and shares no state across calls. Windows are calendar
days in local time; "the last seven days" ends today inclusive.
*/
package analysis

import (
	"sort"
	"time"

	"github.com/khanglvm/focus-ask/internal/aggregate"
	"github.com/khanglvm/focus-ask/internal/classify"
	"github.com/khanglvm/focus-ask/internal/usagelog"
)

const (
	// WeekDays is the length of the weekly window, today included.
	WeekDays = 7

	// topHours is how many busiest hours HourlyPattern reports.
	topHours = 3
)

// Gap reasons surfaced to the user as "Sorry, <reason>."
const (
	ReasonNoData        = "No data found"
	ReasonNoDataToday   = "No usage data found for today"
	ReasonNoDataWeek    = "No data for the last week"
	ReasonUnknownIntent = "Unknown question type"
)

// Engine runs quick analyses over one usage log.
type Engine struct {
	log *usagelog.Log
}

// NewEngine creates an analysis engine over l. A nil log behaves as empty.
func NewEngine(l *usagelog.Log) *Engine {
	if l == nil {
		l = usagelog.NewLog(nil)
	}
	return &Engine{log: l}
}

// Analyze computes the result for intent relative to now.
func (e *Engine) Analyze(intent classify.Intent, now time.Time) Result {
	if e.log.Empty() {
		return gap(intent, ReasonNoData)
	}

	now = now.In(time.Local)
	today := now.Format(usagelog.DateLayout)

	switch intent {
	case classify.DailyTotal:
		return e.dailyTotal(today)
	case classify.AppRanking:
		return e.appRanking(today)
	case classify.YesterdayComparison:
		yesterday := now.AddDate(0, 0, -1).Format(usagelog.DateLayout)
		return e.yesterdayComparison(today, yesterday)
	case classify.WeeklyTrend:
		return e.weeklyTrend(weekStart(now), today)
	case classify.HourlyPattern:
		return e.hourlyPattern()
	case classify.WeeklyProductivity:
		return e.weeklyProductivity(weekStart(now), today)
	case classify.MostFocusedDay:
		return e.mostFocusedDay(weekStart(now), today)
	default:
		return gap(intent, ReasonUnknownIntent)
	}
}

func weekStart(now time.Time) string {
	return now.AddDate(0, 0, -(WeekDays - 1)).Format(usagelog.DateLayout)
}

func gap(intent classify.Intent, reason string) Result {
	return Result{Intent: intent, Err: &GapError{Reason: reason}}
}

func ok(p Payload) Result {
	return Result{Intent: p.intent(), Payload: p}
}

func (e *Engine) dailyTotal(today string) Result {
	records := e.log.OnDate(today)
	total := aggregate.Total(records)
	minutes := total / 60

	p := DailyTotal{
		TotalSeconds:     total,
		TotalMinutes:     minutes,
		TotalHours:       minutes / 60,
		RemainingMinutes: minutes % 60,
		AppCount:         aggregate.DistinctApps(records),
	}
	if top, found := aggregate.TopApp(records); found {
		name := top.App
		p.MostUsedToday = &name
	}
	return ok(p)
}

func (e *Engine) appRanking(today string) Result {
	records := e.log.OnDate(today)
	if len(records) == 0 {
		return gap(classify.AppRanking, ReasonNoDataToday)
	}

	top, _ := aggregate.TopApp(records)
	total := aggregate.Total(records)

	return ok(AppRanking{
		TopApp:               top.App,
		TopMinutes:           top.Seconds / 60,
		TotalDurationMinutes: total / 60,
		Percentage:           aggregate.Percent(top.Seconds, total),
	})
}

func (e *Engine) yesterdayComparison(today, yesterday string) Result {
	todayMinutes := aggregate.Total(e.log.OnDate(today)) / 60
	yesterdayMinutes := aggregate.Total(e.log.OnDate(yesterday)) / 60
	change := todayMinutes - yesterdayMinutes

	trend := TrendSame
	switch {
	case change > 0:
		trend = TrendIncrease
	case change < 0:
		trend = TrendDecrease
	}

	return ok(YesterdayComparison{
		TodayMinutes:     todayMinutes,
		YesterdayMinutes: yesterdayMinutes,
		ChangeMinutes:    change,
		ChangePercent:    aggregate.Percent(change, yesterdayMinutes),
		Trend:            trend,
	})
}

func (e *Engine) weeklyTrend(from, to string) Result {
	days := aggregate.ByDate(e.log.BetweenDates(from, to))
	if len(days) == 0 {
		return gap(classify.WeeklyTrend, ReasonNoDataWeek)
	}

	p := WeeklyTrend{DailyTotals: make([]DayMinutes, 0, len(days))}
	var sum int64
	for i, d := range days {
		m := d.Seconds / 60
		p.DailyTotals = append(p.DailyTotals, DayMinutes{Date: d.Date, Minutes: m})
		sum += m
		if i == 0 || m > p.PeakMinutes {
			p.PeakDay, p.PeakMinutes = d.Date, m
		}
		if i == 0 || m < p.LowestMinutes {
			p.LowestDay, p.LowestMinutes = d.Date, m
		}
	}
	p.AverageDaily = aggregate.Round1(float64(sum) / float64(len(days)))
	return ok(p)
}

func (e *Engine) hourlyPattern() Result {
	hours := aggregate.ByHour(e.log.Records())

	p := HourlyPattern{HourlyData: make([]HourMinutes, 0, len(hours))}
	for i, h := range hours {
		m := h.Seconds / 60
		p.HourlyData = append(p.HourlyData, HourMinutes{Hour: h.Hour, Minutes: m})
		if i == 0 || m > p.PeakMinutes {
			p.PeakHour, p.PeakMinutes = h.Hour, m
		}
	}

	ranked := make([]HourMinutes, len(p.HourlyData))
	copy(ranked, p.HourlyData)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Minutes > ranked[j].Minutes
	})
	if len(ranked) > topHours {
		ranked = ranked[:topHours]
	}
	p.MostActiveHours = ranked
	return ok(p)
}

func (e *Engine) weeklyProductivity(from, to string) Result {
	records := e.log.BetweenDates(from, to)
	total := aggregate.Total(records)
	minutes := total / 60

	return ok(WeeklyProductivity{
		TotalSeconds:     total,
		TotalMinutes:     minutes,
		TotalHours:       minutes / 60,
		RemainingMinutes: minutes % 60,
		AppCount:         aggregate.DistinctApps(records),
	})
}

func (e *Engine) mostFocusedDay(from, to string) Result {
	days := aggregate.ByDate(e.log.BetweenDates(from, to))
	if len(days) == 0 {
		return gap(classify.MostFocusedDay, ReasonNoDataWeek)
	}

	best := days[0]
	for _, d := range days[1:] {
		if d.Seconds > best.Seconds {
			best = d
		}
	}
	minutes := best.Seconds / 60

	return ok(MostFocusedDay{
		Day:              best.Date,
		TotalSeconds:     best.Seconds,
		TotalMinutes:     minutes,
		TotalHours:       minutes / 60,
		RemainingMinutes: minutes % 60,
	})
}
