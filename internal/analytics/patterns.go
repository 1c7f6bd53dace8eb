package analytics

import (
	"sort"
	"time"

	"ccboard/internal/sessionparse"
)

// DurationBucket is one histogram bucket's label and count.
type DurationBucket struct {
	Label string
	Count int
}

// Patterns bundles the peak-hour, model-mix, and duration-histogram
// derivations (spec §4.10 Patterns).
type Patterns struct {
	PeakHour          int
	ModelMix          map[string]float64 // model -> fraction of sessions observing it
	DurationHistogram []DurationBucket
}

// durationBucketLabels name the fixed histogram buckets spec §4.10 names,
// with edges in minutes; the last bucket is unbounded above.
var durationBucketLabels = []string{"0-5m", "5-15m", "15-30m", "30-60m", "60m+"}

// ComputePatterns derives peak usage hour, model-mix distribution, and a
// session-duration histogram over windowDays (spec §4.10 Patterns).
func ComputePatterns(sessions []*sessionparse.SessionMetadata, windowDays int, now time.Time) Patterns {
	windowDays = windowOrDefault(windowDays)
	subset := windowed(sessions, now, windowDays)

	hourCounts := make([]int, 24)
	modelCounts := map[string]int{}
	buckets := make([]int, len(durationBucketLabels))

	for _, m := range subset {
		hourCounts[m.LastTimestamp.UTC().Hour()]++

		for model := range m.Models {
			modelCounts[model]++
		}

		buckets[durationBucketIndex(m)]++
	}

	peakHour := 0
	for h, c := range hourCounts {
		if c > hourCounts[peakHour] {
			peakHour = h
		}
	}

	mix := make(map[string]float64, len(modelCounts))
	total := len(subset)
	if total > 0 {
		for model, count := range modelCounts {
			mix[model] = float64(count) / float64(total)
		}
	}

	histogram := make([]DurationBucket, len(durationBucketLabels))
	for i, label := range durationBucketLabels {
		histogram[i] = DurationBucket{Label: label, Count: buckets[i]}
	}

	return Patterns{PeakHour: peakHour, ModelMix: mix, DurationHistogram: histogram}
}

func durationBucketIndex(m *sessionparse.SessionMetadata) int {
	if m.FirstTimestamp == nil || m.LastTimestamp == nil {
		return 0
	}
	minutes := m.LastTimestamp.Sub(*m.FirstTimestamp).Minutes()
	switch {
	case minutes < 5:
		return 0
	case minutes < 15:
		return 1
	case minutes < 30:
		return 2
	case minutes < 60:
		return 3
	default:
		return 4
	}
}

// sortedModelKeys returns mix's keys sorted for deterministic output.
func sortedModelKeys(mix map[string]float64) []string {
	keys := make([]string, 0, len(mix))
	for k := range mix {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
