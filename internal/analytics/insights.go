package analytics

import (
	"time"

	"ccboard/internal/sessionparse"
)

// Severity classifies how strongly an Insight should be surfaced.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Insight is one ruleset finding (spec §4.10 Insights).
type Insight struct {
	Kind     string
	Message  string
	Severity Severity
}

// costSpikeThreshold flags a day whose cost exceeds this multiple of the
// trailing moving average.
const costSpikeThreshold = 2.0

// modelShiftThreshold flags a model whose mix share moved by at least
// this many percentage points between the first and second half of the
// window.
const modelShiftThreshold = 0.25

// ComputeInsights runs a small fixed ruleset over a session snapshot: day
// outliers from its own trend series, and a model-mix comparison between
// the first and second half of the window (spec §4.10 Insights).
func ComputeInsights(sessions []*sessionparse.SessionMetadata, trends Trends, windowDays int, now time.Time) []Insight {
	var out []Insight

	for _, d := range trends.Daily {
		if d.CostMovingAvg > 0 && d.CostUSD > d.CostMovingAvg*costSpikeThreshold {
			out = append(out, Insight{
				Kind:     "cost_spike",
				Message:  "cost on " + d.Date + " exceeded its trailing average by more than 2x",
				Severity: SeverityWarning,
			})
		}
	}

	windowDays = windowOrDefault(windowDays)
	mid := now.AddDate(0, 0, -windowDays/2)
	start := now.AddDate(0, 0, -windowDays)

	earlyMix := modelMixForRange(sessions, start, mid)
	lateMix := modelMixForRange(sessions, mid, now)

	for _, model := range sortedModelKeys(mergeModelKeys(earlyMix, lateMix)) {
		delta := lateMix[model] - earlyMix[model]
		if delta >= modelShiftThreshold {
			out = append(out, Insight{
				Kind:     "model_shift",
				Message:  "usage of " + model + " increased by at least 25 percentage points in the second half of the window",
				Severity: SeverityInfo,
			})
		} else if delta <= -modelShiftThreshold {
			out = append(out, Insight{
				Kind:     "model_shift",
				Message:  "usage of " + model + " decreased by at least 25 percentage points in the second half of the window",
				Severity: SeverityInfo,
			})
		}
	}

	return out
}

func modelMixForRange(sessions []*sessionparse.SessionMetadata, start, end time.Time) map[string]float64 {
	counts := map[string]int{}
	total := 0
	for _, m := range sessions {
		if m.LastTimestamp == nil {
			continue
		}
		ts := *m.LastTimestamp
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		total++
		for model := range m.Models {
			counts[model]++
		}
	}
	mix := make(map[string]float64, len(counts))
	if total > 0 {
		for model, c := range counts {
			mix[model] = float64(c) / float64(total)
		}
	}
	return mix
}

func mergeModelKeys(a, b map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k := range b {
		if _, exists := out[k]; !exists {
			out[k] = 0
		}
	}
	return out
}
