// Package analytics implements the spec's pure Analytics Derivations
// (§4.10): trends, forecast, patterns, cost, billing windows, insights,
// and budget classification, every one a function of
// (sessions_snapshot, window_days) that never mutates store state.
// Grounded on mrf-agent-racer's session.Store aggregation helpers for
// the shape of deriving dashboard numbers from a session slice, adapted
// from that tool's live-process metrics to this spec's historical
// corpus-wide derivations.
package analytics

import (
	"time"

	"ccboard/internal/sessionparse"
)

// defaultWindowDays is spec §4.10's trend window default.
const defaultWindowDays = 30

func windowOrDefault(days int) int {
	if days <= 0 {
		return defaultWindowDays
	}
	return days
}

// inWindow reports whether meta's last timestamp falls within the most
// recent windowDays, relative to now.
func inWindow(meta *sessionparse.SessionMetadata, now time.Time, windowDays int) bool {
	if meta.LastTimestamp == nil {
		return false
	}
	cutoff := now.AddDate(0, 0, -windowDays)
	return meta.LastTimestamp.After(cutoff)
}

// windowed filters sessions to those within windowDays of now.
func windowed(sessions []*sessionparse.SessionMetadata, now time.Time, windowDays int) []*sessionparse.SessionMetadata {
	out := make([]*sessionparse.SessionMetadata, 0, len(sessions))
	for _, m := range sessions {
		if inWindow(m, now, windowDays) {
			out = append(out, m)
		}
	}
	return out
}
