package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccboard/internal/sessionparse"
)

func TestComputeTrends_AggregatesByDayHourAndWeekday(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-sonnet", time.Date(2026, 1, 9, 14, 0, 0, 0, time.UTC), 100, 50, 0, 0),
		session("/p1", "claude-sonnet", time.Date(2026, 1, 9, 14, 30, 0, 0, time.UTC), 100, 50, 0, 0),
	}

	trends := ComputeTrends(sessions, 30, now)

	require.Len(t, trends.Daily, 1)
	assert.Equal(t, "2026-01-09", trends.Daily[0].Date)
	assert.Equal(t, 2, trends.Daily[0].SessionCount)
	assert.Equal(t, int64(300), trends.Daily[0].Tokens)

	require.Len(t, trends.Hourly, 24)
	assert.Equal(t, 2, trends.Hourly[14].SessionCount)

	require.Len(t, trends.Weekday, 7)
	fri := trends.Weekday[time.Friday]
	assert.Equal(t, 2, fri.SessionCount)
}

func TestComputeTrends_ExcludesSessionsOutsideWindow(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-sonnet", now.AddDate(0, 0, -40), 10, 10, 0, 0),
	}

	trends := ComputeTrends(sessions, 30, now)
	assert.Empty(t, trends.Daily)
}

func TestComputeTrends_MovingAverageOverSevenDayWindow(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	var sessions []*sessionparse.SessionMetadata
	for i := 0; i < 10; i++ {
		ts := now.AddDate(0, 0, -i)
		sessions = append(sessions, session("/p1", "claude-sonnet", ts, 1_000_000, 0, 0, 0))
	}

	trends := ComputeTrends(sessions, 30, now)
	require.Len(t, trends.Daily, 10)

	last := trends.Daily[len(trends.Daily)-1]
	// Every day costs the same (one sonnet-priced 1M-input session), so
	// the trailing 7-day average equals the per-day cost regardless of
	// window position.
	assert.InDelta(t, last.CostUSD, last.CostMovingAvg, 1e-9)
}

func TestComputeTrends_DefaultsWindowWhenNonPositive(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-sonnet", now.AddDate(0, 0, -10), 10, 10, 0, 0),
	}

	trends := ComputeTrends(sessions, 0, now)
	assert.Len(t, trends.Daily, 1)
}
