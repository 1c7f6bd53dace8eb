package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeForecast_PerfectLinearSeriesHasRSquaredOne(t *testing.T) {
	daily := []DailyPoint{
		{Date: "2026-01-01", CostUSD: 1},
		{Date: "2026-01-02", CostUSD: 2},
		{Date: "2026-01-03", CostUSD: 3},
		{Date: "2026-01-04", CostUSD: 4},
	}

	forecast := ComputeForecast(daily, 2)
	require.Len(t, forecast.Points, 2)
	assert.InDelta(t, 1.0, forecast.RSquared, 1e-9)
	assert.False(t, forecast.LowConfidence)
	assert.InDelta(t, 5.0, forecast.Points[0].CostUSD, 1e-9)
	assert.InDelta(t, 6.0, forecast.Points[1].CostUSD, 1e-9)
	assert.Equal(t, "2026-01-05", forecast.Points[0].Date)
}

func TestComputeForecast_FlatSeriesIsPerfectFit(t *testing.T) {
	daily := []DailyPoint{
		{Date: "2026-01-01", CostUSD: 5},
		{Date: "2026-01-02", CostUSD: 5},
		{Date: "2026-01-03", CostUSD: 5},
	}
	forecast := ComputeForecast(daily, 1)
	// Zero variance in y around a flat line still yields a perfect fit
	// (ssTot == 0 is the degenerate "everything explained" case).
	assert.InDelta(t, 1.0, forecast.RSquared, 1e-9)
}

func TestComputeForecast_SingleDayDegeneratesToFlatProjection(t *testing.T) {
	daily := []DailyPoint{{Date: "2026-01-01", CostUSD: 10}}
	forecast := ComputeForecast(daily, 3)

	require.Len(t, forecast.Points, 3)
	assert.True(t, forecast.LowConfidence)
	assert.Equal(t, 0.0, forecast.RSquared)
	for _, p := range forecast.Points {
		assert.InDelta(t, 10.0, p.CostUSD, 1e-9)
	}
}

func TestComputeForecast_EmptySeries(t *testing.T) {
	forecast := ComputeForecast(nil, 3)
	assert.True(t, forecast.LowConfidence)
	assert.Empty(t, forecast.Points)
}

func TestComputeForecast_NoisySeriesIsLowConfidence(t *testing.T) {
	daily := []DailyPoint{
		{Date: "2026-01-01", CostUSD: 1},
		{Date: "2026-01-02", CostUSD: 50},
		{Date: "2026-01-03", CostUSD: 2},
		{Date: "2026-01-04", CostUSD: 48},
	}
	forecast := ComputeForecast(daily, 1)
	assert.True(t, forecast.LowConfidence)
	assert.Less(t, forecast.RSquared, lowConfidenceThreshold)
}

func TestComputeForecast_ProjectedCostNeverNegative(t *testing.T) {
	daily := []DailyPoint{
		{Date: "2026-01-01", CostUSD: 10},
		{Date: "2026-01-02", CostUSD: 5},
		{Date: "2026-01-03", CostUSD: 0},
	}
	forecast := ComputeForecast(daily, 5)
	for _, p := range forecast.Points {
		assert.GreaterOrEqual(t, p.CostUSD, 0.0)
	}
}
