package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultTDEEDays is the regression window used when callers have no preference.
	DefaultTDEEDays = 14
	// MinTDEELogs is the smallest history that yields an estimate.
	MinTDEELogs = 7

	lbPerKg   = 2.20462
	kcalPerLb = 3500

	minPlausibleTDEE = 500
	maxPlausibleTDEE = 10000
)

// CalculateTDEE estimates maintenance calories from the most recent days logs:
// mean intake minus the energy equivalent of the fitted weight slope
// (3500 kcal per pound). ok is false with fewer than MinTDEELogs logs, when
// the regression is undefined, or when the result falls outside
// [500, 10000] kcal, which short noisy windows can otherwise produce.
func CalculateTDEE(logs []DailyLog, days int) (int, bool) {
	if len(logs) < MinTDEELogs || days <= 0 {
		return 0, false
	}
	window := recent(logs, days)

	slope, ok := dailySlope(window)
	if !ok {
		return 0, false
	}
	meanCalories := stat.Mean(calories(window), nil)
	dailyCalAdjustment := slope * lbPerKg * kcalPerLb

	tdee := math.Round(meanCalories - dailyCalAdjustment)
	if tdee < minPlausibleTDEE || tdee > maxPlausibleTDEE {
		return 0, false
	}
	return int(tdee), true
}
