package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ccboard/internal/sessionparse"
)

func TestWindowOrDefault(t *testing.T) {
	assert.Equal(t, defaultWindowDays, windowOrDefault(0))
	assert.Equal(t, defaultWindowDays, windowOrDefault(-5))
	assert.Equal(t, 7, windowOrDefault(7))
}

func TestInWindow_NilTimestampIsExcluded(t *testing.T) {
	meta := &sessionparse.SessionMetadata{}
	assert.False(t, inWindow(meta, time.Now(), 30))
}

func TestInWindow_BoundaryIsExclusive(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -30)
	meta := &sessionparse.SessionMetadata{LastTimestamp: &cutoff}
	assert.False(t, inWindow(meta, now, 30), "a timestamp exactly at the cutoff should not be included")
}

func TestWindowed_FiltersToSubset(t *testing.T) {
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	in := session("/p1", "claude-sonnet-4", now.AddDate(0, 0, -1), 0, 0, 0, 0)
	out := session("/p1", "claude-sonnet-4", now.AddDate(0, 0, -60), 0, 0, 0, 0)

	subset := windowed([]*sessionparse.SessionMetadata{in, out}, now, 30)
	assert.Len(t, subset, 1)
	assert.Same(t, in, subset[0])
}
