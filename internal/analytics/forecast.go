package analytics

import (
	"time"
)

// ForecastPoint is one projected day's cost.
type ForecastPoint struct {
	Date    string
	CostUSD float64
}

// Forecast is a linear projection of the daily cost series (spec §4.10
// Forecast). RSquared is the regression's coefficient of determination;
// LowConfidence flags forecasts not worth trusting (R² < 0.3).
type Forecast struct {
	Points        []ForecastPoint
	RSquared      float64
	LowConfidence bool
}

// lowConfidenceThreshold is spec §4.10's R² cutoff.
const lowConfidenceThreshold = 0.3

// ComputeForecast fits an ordinary least-squares line to daily's cost
// series (x = day index, y = cost) and projects it forward n points. A
// series with fewer than two distinct days cannot be fit: the forecast
// degenerates to a flat line at the last known cost with RSquared 0,
// correctly flagged low-confidence.
func ComputeForecast(daily []DailyPoint, n int) Forecast {
	if len(daily) == 0 || n <= 0 {
		return Forecast{LowConfidence: true}
	}
	if len(daily) < 2 {
		last := daily[len(daily)-1]
		return Forecast{
			Points:        flatProjection(last, n),
			RSquared:      0,
			LowConfidence: true,
		}
	}

	xs := make([]float64, len(daily))
	ys := make([]float64, len(daily))
	for i, d := range daily {
		xs[i] = float64(i)
		ys[i] = d.CostUSD
	}

	slope, intercept, rSquared := linearRegression(xs, ys)

	lastDate, err := time.Parse("2006-01-02", daily[len(daily)-1].Date)
	if err != nil {
		lastDate = time.Now().UTC()
	}

	points := make([]ForecastPoint, 0, n)
	for i := 1; i <= n; i++ {
		x := float64(len(daily)-1+i)
		y := slope*x + intercept
		if y < 0 {
			y = 0
		}
		points = append(points, ForecastPoint{
			Date:    lastDate.AddDate(0, 0, i).Format("2006-01-02"),
			CostUSD: y,
		})
	}

	return Forecast{
		Points:        points,
		RSquared:      rSquared,
		LowConfidence: rSquared < lowConfidenceThreshold,
	}
}

func flatProjection(last DailyPoint, n int) []ForecastPoint {
	lastDate, err := time.Parse("2006-01-02", last.Date)
	if err != nil {
		lastDate = time.Now().UTC()
	}
	points := make([]ForecastPoint, 0, n)
	for i := 1; i <= n; i++ {
		points = append(points, ForecastPoint{
			Date:    lastDate.AddDate(0, 0, i).Format("2006-01-02"),
			CostUSD: last.CostUSD,
		})
	}
	return points
}

// linearRegression fits y = slope*x + intercept by ordinary least
// squares and returns the fit's R².
func linearRegression(xs, ys []float64) (slope, intercept, rSquared float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i := range xs {
		predicted := slope*xs[i] + intercept
		ssRes += (ys[i] - predicted) * (ys[i] - predicted)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}
