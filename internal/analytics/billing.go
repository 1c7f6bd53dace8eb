package analytics

import (
	"sort"
	"time"

	"ccboard/internal/sessionparse"
)

// billingWindowLength is spec §4.10's fixed billing window length.
const billingWindowLength = 5 * time.Hour

// BillingWindow is one fixed 5-hour UTC rolling window's contribution
// (spec §4.10 Billing windows).
type BillingWindow struct {
	Start        time.Time
	End          time.Time
	SessionCount int
	CostUSD      float64
}

// ComputeBillingWindows buckets every session into the fixed 5-hour UTC
// window containing its last timestamp (spec §4.10: "each session
// contributes to the window containing its last timestamp"). Windows are
// anchored at the Unix epoch so they are stable across calls.
func ComputeBillingWindows(sessions []*sessionparse.SessionMetadata) []BillingWindow {
	windows := map[int64]*BillingWindow{}

	for _, m := range sessions {
		if m.LastTimestamp == nil {
			continue
		}
		idx := windowIndex(m.LastTimestamp.UTC())
		w, ok := windows[idx]
		if !ok {
			start := time.Unix(idx*int64(billingWindowLength/time.Second), 0).UTC()
			w = &BillingWindow{Start: start, End: start.Add(billingWindowLength)}
			windows[idx] = w
		}
		w.SessionCount++
		w.CostUSD += sessionCost(m.ModelList(), m.Tokens.Input, m.Tokens.Output, m.Tokens.CacheRead, m.Tokens.CacheWrite)
	}

	out := make([]BillingWindow, 0, len(windows))
	for _, w := range windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// CurrentWindow returns the billing window containing now, computed over
// sessions, and the time remaining in it — the SPEC_FULL §4.10
// supplemental derivation recovering the "time remaining in this window"
// readout the original billing-window design was meant to support.
func CurrentWindow(sessions []*sessionparse.SessionMetadata, now time.Time) (BillingWindow, time.Duration) {
	idx := windowIndex(now.UTC())
	start := time.Unix(idx*int64(billingWindowLength/time.Second), 0).UTC()
	end := start.Add(billingWindowLength)

	w := BillingWindow{Start: start, End: end}
	for _, m := range sessions {
		if m.LastTimestamp == nil {
			continue
		}
		ts := m.LastTimestamp.UTC()
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		w.SessionCount++
		w.CostUSD += sessionCost(m.ModelList(), m.Tokens.Input, m.Tokens.Output, m.Tokens.CacheRead, m.Tokens.CacheWrite)
	}

	return w, end.Sub(now.UTC())
}

func windowIndex(t time.Time) int64 {
	return t.Unix() / int64(billingWindowLength/time.Second)
}
