package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

func weights(window []DailyLog) []float64 {
	out := make([]float64, len(window))
	for i, l := range window {
		out[i] = l.WeightKg
	}
	return out
}

func calories(window []DailyLog) []float64 {
	out := make([]float64, len(window))
	for i, l := range window {
		out[i] = float64(l.Calories)
	}
	return out
}

func protein(window []DailyLog) []float64 {
	out := make([]float64, len(window))
	for i, l := range window {
		out[i] = l.ProteinG
	}
	return out
}

// dayOffsets measures each log's distance from the first log in calendar days,
// so gaps in logging stretch the x axis instead of being ignored.
func dayOffsets(window []DailyLog) []float64 {
	out := make([]float64, len(window))
	for i, l := range window {
		out[i] = daysBetween(window[0].Date, l.Date)
	}
	return out
}

// dailySlope is the unweighted least-squares slope of weight against day
// offset, in kg/day. ok is false when the fit is undefined (fewer than two
// logs, or all logs on the same day).
func dailySlope(window []DailyLog) (float64, bool) {
	if len(window) < 2 {
		return 0, false
	}
	_, beta := stat.LinearRegression(dayOffsets(window), weights(window), nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, false
	}
	return beta, true
}

// fractionWhere returns the share of window entries for which keep is true.
func fractionWhere(window []DailyLog, keep func(DailyLog) bool) float64 {
	if len(window) == 0 {
		return 0
	}
	n := 0
	for _, l := range window {
		if keep(l) {
			n++
		}
	}
	return float64(n) / float64(len(window))
}

func hasCalories(l DailyLog) bool { return l.Calories > 0 }
func hasProtein(l DailyLog) bool  { return l.ProteinG > 0 }

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
