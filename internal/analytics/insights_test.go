package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ccboard/internal/sessionparse"
)

func TestComputeInsights_FlagsCostSpikeOverTrailingAverage(t *testing.T) {
	trends := Trends{
		Daily: []DailyPoint{
			{Date: "2026-01-01", CostUSD: 10, CostMovingAvg: 10},
			{Date: "2026-01-02", CostUSD: 10, CostMovingAvg: 10},
			{Date: "2026-01-03", CostUSD: 30, CostMovingAvg: 10},
		},
	}
	insights := ComputeInsights(nil, trends, 30, time.Now())

	var found bool
	for _, i := range insights {
		if i.Kind == "cost_spike" {
			found = true
			assert.Equal(t, SeverityWarning, i.Severity)
		}
	}
	assert.True(t, found, "expected a cost_spike insight for the 3x day")
}

func TestComputeInsights_NoSpikeWhenWithinThreshold(t *testing.T) {
	trends := Trends{
		Daily: []DailyPoint{
			{Date: "2026-01-01", CostUSD: 10, CostMovingAvg: 10},
			{Date: "2026-01-02", CostUSD: 15, CostMovingAvg: 10},
		},
	}
	insights := ComputeInsights(nil, trends, 30, time.Now())
	for _, i := range insights {
		assert.NotEqual(t, "cost_spike", i.Kind)
	}
}

func TestComputeInsights_FlagsModelShiftAcrossWindowHalves(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	var sessions []*sessionparse.SessionMetadata
	// First half of a 10-day window: all opus.
	for i := 9; i >= 6; i-- {
		sessions = append(sessions, session("/p1", "claude-opus-4", now.AddDate(0, 0, -i), 0, 0, 0, 0))
	}
	// Second half: all sonnet.
	for i := 4; i >= 1; i-- {
		sessions = append(sessions, session("/p1", "claude-sonnet-4", now.AddDate(0, 0, -i), 0, 0, 0, 0))
	}

	insights := ComputeInsights(sessions, Trends{}, 10, now)

	var shifts int
	for _, i := range insights {
		if i.Kind == "model_shift" {
			shifts++
		}
	}
	assert.GreaterOrEqual(t, shifts, 2, "expected both opus decrease and sonnet increase to be flagged")
}

func TestComputeInsights_NoModelShiftWhenMixIsStable(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	var sessions []*sessionparse.SessionMetadata
	for i := 9; i >= 1; i-- {
		sessions = append(sessions, session("/p1", "claude-sonnet-4", now.AddDate(0, 0, -i), 0, 0, 0, 0))
	}

	insights := ComputeInsights(sessions, Trends{}, 10, now)
	for _, i := range insights {
		assert.NotEqual(t, "model_shift", i.Kind)
	}
}
