package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccboard/internal/sessionparse"
)

func TestComputeBillingWindows_GroupsSessionsIntoFixedFiveHourWindows(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-sonnet-4", epoch.Add(time.Hour), 1_000_000, 0, 0, 0),
		session("/p1", "claude-sonnet-4", epoch.Add(2*time.Hour), 1_000_000, 0, 0, 0),
		session("/p1", "claude-sonnet-4", epoch.Add(6*time.Hour), 1_000_000, 0, 0, 0),
	}

	windows := ComputeBillingWindows(sessions)
	require.Len(t, windows, 2)

	assert.Equal(t, epoch, windows[0].Start)
	assert.Equal(t, 2, windows[0].SessionCount)
	assert.InDelta(t, 6.0, windows[0].CostUSD, 1e-9)

	assert.Equal(t, epoch.Add(billingWindowLength), windows[1].Start)
	assert.Equal(t, 1, windows[1].SessionCount)
}

func TestComputeBillingWindows_SortedByStart(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-sonnet-4", epoch.Add(20*time.Hour), 1000, 0, 0, 0),
		session("/p1", "claude-sonnet-4", epoch.Add(time.Hour), 1000, 0, 0, 0),
	}

	windows := ComputeBillingWindows(sessions)
	require.Len(t, windows, 2)
	assert.True(t, windows[0].Start.Before(windows[1].Start))
}

func TestCurrentWindow_OnlyIncludesSessionsInsideWindow(t *testing.T) {
	now := time.Unix(0, 0).UTC().Add(2 * time.Hour)
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-sonnet-4", time.Unix(0, 0).UTC().Add(time.Hour), 1_000_000, 0, 0, 0),
		session("/p1", "claude-sonnet-4", time.Unix(0, 0).UTC().Add(10*time.Hour), 1_000_000, 0, 0, 0),
	}

	window, remaining := CurrentWindow(sessions, now)
	assert.Equal(t, 1, window.SessionCount)
	assert.InDelta(t, 3.0, window.CostUSD, 1e-9)
	assert.Equal(t, billingWindowLength-2*time.Hour, remaining)
}
