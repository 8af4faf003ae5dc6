package trend

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultTrendDays is the default window for CalculateTrends.
	DefaultTrendDays = 28

	movingAverageDays = 7
)

// Snapshot is a freshly computed view of recent trends. It is never cached.
type Snapshot struct {
	WeightTrend      float64 `json:"weight_trend"` // kg/week, regression slope × 7
	WeightMA7        float64 `json:"weight_ma7"`
	CaloriesMA7      float64 `json:"calories_ma7"`
	ProteinMA7       float64 `json:"protein_ma7"`
	WeightCV         float64 `json:"weight_cv"`         // population stddev / mean × 100
	CalorieAdherence float64 `json:"calorie_adherence"` // share of the last 7 logs with calories > 0
}

// CalculateTrends summarises the most recent days logs. ok is false when fewer
// than days logs exist or the weight regression is undefined.
func CalculateTrends(logs []DailyLog, days int) (Snapshot, bool) {
	if days <= 0 || len(logs) < days {
		return Snapshot{}, false
	}
	window := recent(logs, days)

	slope, ok := dailySlope(window)
	if !ok {
		return Snapshot{}, false
	}

	last := window[max(0, len(window)-movingAverageDays):]

	mean, std := stat.PopMeanStdDev(weights(window), nil)
	var cv float64
	if mean != 0 {
		cv = std / mean * 100
	}

	return Snapshot{
		WeightTrend:      slope * 7,
		WeightMA7:        stat.Mean(weights(last), nil),
		CaloriesMA7:      stat.Mean(calories(last), nil),
		ProteinMA7:       stat.Mean(protein(last), nil),
		WeightCV:         cv,
		CalorieAdherence: fractionWhere(last, hasCalories),
	}, true
}
