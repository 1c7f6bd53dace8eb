package analytics

import (
	"sort"
	"time"

	"ccboard/internal/sessionparse"
)

// DailyPoint is one day's aggregate, plus a trailing moving average of
// cost over the movingAverageWindow days ending with this one.
type DailyPoint struct {
	Date            string // YYYY-MM-DD, UTC
	SessionCount    int
	Tokens          int64
	CostUSD         float64
	CostMovingAvg   float64
}

// HourlyPoint is one hour-of-day's aggregate, summed across every day in
// the window.
type HourlyPoint struct {
	Hour         int
	SessionCount int
	Tokens       int64
	CostUSD      float64
}

// WeekdayPoint is one weekday's aggregate, summed across every week in
// the window.
type WeekdayPoint struct {
	Weekday      time.Weekday
	SessionCount int
	Tokens       int64
	CostUSD      float64
}

// Trends bundles the three aggregation views spec §4.10 names.
type Trends struct {
	Daily   []DailyPoint
	Hourly  []HourlyPoint
	Weekday []WeekdayPoint
}

// movingAverageWindow is the trailing window Trends uses for the daily
// cost moving average.
const movingAverageWindow = 7

// ComputeTrends aggregates sessions by day, hour-of-day, and weekday over
// the trailing windowDays (spec §4.10 Trends). now anchors the window;
// callers pass time.Now() in production and a fixed time in tests.
func ComputeTrends(sessions []*sessionparse.SessionMetadata, windowDays int, now time.Time) Trends {
	windowDays = windowOrDefault(windowDays)
	subset := windowed(sessions, now, windowDays)

	dayAgg := map[string]*DailyPoint{}
	hourAgg := make([]HourlyPoint, 24)
	for h := range hourAgg {
		hourAgg[h].Hour = h
	}
	weekdayAgg := make([]WeekdayPoint, 7)
	for w := range weekdayAgg {
		weekdayAgg[w].Weekday = time.Weekday(w)
	}

	for _, m := range subset {
		ts := m.LastTimestamp.UTC()
		day := ts.Format("2006-01-02")
		cost := sessionCost(m.ModelList(), m.Tokens.Input, m.Tokens.Output, m.Tokens.CacheRead, m.Tokens.CacheWrite)

		dp, ok := dayAgg[day]
		if !ok {
			dp = &DailyPoint{Date: day}
			dayAgg[day] = dp
		}
		dp.SessionCount++
		dp.Tokens += m.TotalTokens()
		dp.CostUSD += cost

		hourAgg[ts.Hour()].SessionCount++
		hourAgg[ts.Hour()].Tokens += m.TotalTokens()
		hourAgg[ts.Hour()].CostUSD += cost

		wd := int(ts.Weekday())
		weekdayAgg[wd].SessionCount++
		weekdayAgg[wd].Tokens += m.TotalTokens()
		weekdayAgg[wd].CostUSD += cost
	}

	dates := make([]string, 0, len(dayAgg))
	for d := range dayAgg {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	daily := make([]DailyPoint, 0, len(dates))
	for i, d := range dates {
		dp := *dayAgg[d]
		start := i - movingAverageWindow + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for j := start; j <= i; j++ {
			sum += dayAgg[dates[j]].CostUSD
		}
		dp.CostMovingAvg = sum / float64(i-start+1)
		daily = append(daily, dp)
	}

	return Trends{Daily: daily, Hourly: hourAgg, Weekday: weekdayAgg}
}
