package trend

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Week aggregates the logs of one ISO week. Calorie and protein statistics
// only include days where that value was logged (> 0); standard deviations are
// sample deviations and are 0 for a single day. Values are rounded to 0.1.
type Week struct {
	Year  int       `json:"year"`
	Week  int       `json:"week"`
	Start time.Time `json:"start"` // Monday
	Days  int       `json:"days"`

	WeightMean float64 `json:"weight_mean"`
	WeightMin  float64 `json:"weight_min"`
	WeightMax  float64 `json:"weight_max"`
	WeightStd  float64 `json:"weight_std"`

	CaloriesMean  float64 `json:"calories_mean"`
	CaloriesStd   float64 `json:"calories_std"`
	CaloriesCount int     `json:"calories_count"`

	ProteinMean float64 `json:"protein_mean"`
	ProteinMin  float64 `json:"protein_min"`
	ProteinMax  float64 `json:"protein_max"`

	BodyFatMean  *float64 `json:"body_fat_mean,omitempty"`
	LeanMassMean *float64 `json:"lean_mass_mean,omitempty"`
	FatMassMean  *float64 `json:"fat_mass_mean,omitempty"`
}

// mondayOf returns the Monday at or before t, at midnight UTC.
func mondayOf(t time.Time) time.Time {
	d := civilDay(t)
	weekday := int(d.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDate(0, 0, -(weekday - 1))
}

// WeeklySummary groups logs by ISO week, oldest week first.
func WeeklySummary(logs []DailyLog) []Week {
	var weeks []Week
	var bucket []DailyLog
	flush := func() {
		if len(bucket) > 0 {
			weeks = append(weeks, summarizeWeek(bucket))
			bucket = nil
		}
	}
	for _, l := range sorted(logs) {
		if len(bucket) > 0 && !mondayOf(bucket[0].Date).Equal(mondayOf(l.Date)) {
			flush()
		}
		bucket = append(bucket, l)
	}
	flush()
	return weeks
}

func summarizeWeek(days []DailyLog) Week {
	year, isoWeek := days[0].Date.ISOWeek()
	w := Week{Year: year, Week: isoWeek, Start: mondayOf(days[0].Date), Days: len(days)}

	ws := weights(days)
	w.WeightMean, w.WeightStd = meanSampleStd(ws)
	w.WeightMin, w.WeightMax = slices.Min(ws), slices.Max(ws)

	var cals, prot, bf, lean, fat []float64
	for _, l := range days {
		if l.Calories > 0 {
			cals = append(cals, float64(l.Calories))
		}
		if l.ProteinG > 0 {
			prot = append(prot, l.ProteinG)
		}
		if l.BodyFatPct != nil {
			bf = append(bf, *l.BodyFatPct)
		}
		if l.HasComposition() {
			lean = append(lean, *l.LeanMassKg)
			fat = append(fat, *l.FatMassKg)
		}
	}
	if len(cals) > 0 {
		w.CaloriesMean, w.CaloriesStd = meanSampleStd(cals)
		w.CaloriesCount = len(cals)
	}
	if len(prot) > 0 {
		w.ProteinMean, _ = meanSampleStd(prot)
		w.ProteinMin, w.ProteinMax = round1(slices.Min(prot)), round1(slices.Max(prot))
	}
	w.BodyFatMean = roundedMean(bf)
	w.LeanMassMean = roundedMean(lean)
	w.FatMassMean = roundedMean(fat)

	w.WeightMin, w.WeightMax = round1(w.WeightMin), round1(w.WeightMax)
	return w
}

func meanSampleStd(xs []float64) (float64, float64) {
	mean, std := stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return round1(mean), round1(std)
}

func roundedMean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := round1(stat.Mean(xs, nil))
	return &m
}
