package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ccboard/internal/sessionparse"
)

func TestComputeBudget_NoCeilingIsAlwaysSafe(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-opus-4", now, 100_000_000, 0, 0, 0),
	}

	status := ComputeBudget(sessions, 0, now)
	assert.False(t, status.HasCeiling)
	assert.Equal(t, BudgetSafe, status.Class)
}

func TestComputeBudget_ClassifiesAgainstCeiling(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-sonnet-4", monthStart.AddDate(0, 0, 1), 30_000_000, 0, 0, 0), // $90
	}

	status := ComputeBudget(sessions, 100, now)
	assert.True(t, status.HasCeiling)
	assert.InDelta(t, 90.0, status.CurrentCostUSD, 1e-9)
	assert.Equal(t, BudgetCritical, status.Class)
}

func TestComputeBudget_ExceededClassification(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-opus-4", monthStart.AddDate(0, 0, 1), 10_000_000, 0, 0, 0), // $150
	}

	status := ComputeBudget(sessions, 100, now)
	assert.Equal(t, BudgetExceeded, status.Class)
}

func TestComputeBudget_ExcludesSessionsOutsideCurrentMonth(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	sessions := []*sessionparse.SessionMetadata{
		session("/p1", "claude-opus-4", time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC), 10_000_000, 0, 0, 0),
	}

	status := ComputeBudget(sessions, 100, now)
	assert.Equal(t, 0.0, status.CurrentCostUSD)
}
