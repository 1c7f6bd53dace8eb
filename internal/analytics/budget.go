package analytics

import (
	"time"

	"ccboard/internal/sessionparse"
)

// BudgetClass is the spec §4.10 classification of spend against ceiling.
type BudgetClass string

const (
	BudgetSafe     BudgetClass = "safe"
	BudgetWarning  BudgetClass = "warning"
	BudgetCritical BudgetClass = "critical"
	BudgetExceeded BudgetClass = "exceeded"
)

// BudgetStatus is the current-month spend against an optional configured
// ceiling (spec §4.10 Budget).
type BudgetStatus struct {
	CeilingUSD      float64
	CurrentCostUSD  float64
	ProjectedCostUSD float64
	Class           BudgetClass
	HasCeiling      bool
}

// ComputeBudget totals the current calendar month's cost and projects
// the month-end total by linear extrapolation from days elapsed, then
// classifies against ceilingUSD (0 or negative means "no ceiling
// configured", per spec §6's optional monthlyBudgetUsd).
func ComputeBudget(sessions []*sessionparse.SessionMetadata, ceilingUSD float64, now time.Time) BudgetStatus {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	var current float64
	for _, m := range sessions {
		if m.LastTimestamp == nil {
			continue
		}
		ts := m.LastTimestamp.UTC()
		if ts.Before(monthStart) || !ts.Before(nextMonth) {
			continue
		}
		current += sessionCost(m.ModelList(), m.Tokens.Input, m.Tokens.Output, m.Tokens.CacheRead, m.Tokens.CacheWrite)
	}

	daysElapsed := now.Sub(monthStart).Hours()/24 + 1
	daysInMonth := nextMonth.Sub(monthStart).Hours() / 24
	projected := current
	if daysElapsed > 0 {
		projected = current / daysElapsed * daysInMonth
	}

	status := BudgetStatus{CeilingUSD: ceilingUSD, CurrentCostUSD: current, ProjectedCostUSD: projected, HasCeiling: ceilingUSD > 0}
	if !status.HasCeiling {
		status.Class = BudgetSafe
		return status
	}

	pct := current / ceilingUSD
	switch {
	case pct >= 1.0:
		status.Class = BudgetExceeded
	case pct >= 0.8:
		status.Class = BudgetCritical
	case pct >= 0.6:
		status.Class = BudgetWarning
	default:
		status.Class = BudgetSafe
	}
	return status
}
