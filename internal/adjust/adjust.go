// Package adjust turns progress measurements into calorie and protein
// adjustments. Rules fire independently; Net resolves them into one
// recommendation by severity.
package adjust

import (
	"fmt"
	"math"

	"github.com/dcunning11235/macromanage/internal/dietmode"
	"github.com/dcunning11235/macromanage/internal/plateau"
	"github.com/dcunning11235/macromanage/internal/trend"
)

const (
	baseAdjustment = 200 // kcal

	leanLossCalories       = 200
	leanLossProteinHighBF  = 25
	leanLossProteinLowerBF = 35

	plateauCalories = 300

	// NeutralBodyFat is used when no body-fat measurement exists. It sits
	// between the scaling cut-offs so it never changes the adjustment size.
	NeutralBodyFat = 20.0
)

// Adjustment is one rule's proposed change to daily targets.
type Adjustment struct {
	Calories   int      `json:"calories"`
	Protein    int      `json:"protein"`
	Reason     string   `json:"reason"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion"`
}

// Stats is the user's current state. Weights are in kg, body fat in percent.
type Stats struct {
	WeightKg       float64  `json:"weight_kg"`
	BodyFat        float64  `json:"body_fat"`
	TargetWeightKg *float64 `json:"target_weight_kg,omitempty"`
	TargetBodyFat  *float64 `json:"target_body_fat,omitempty"`
}

// Progress is what the rules look at. WeeklyChange is in kg/week; LeanChange
// is the weekly lean-mass change and is nil without body-fat data.
type Progress struct {
	WeeklyChange float64
	LeanChange   *float64
	Plateau      plateau.Result
}

// AdjustmentSize scales the 200 kcal base step. Body fat is applied first
// (×0.7 below 12%, ×1.3 above 25%), then the distance from the mode's target
// rate (×1.5 beyond 0.5 kg/week, ×0.7 within 0.2 kg/week).
func AdjustmentSize(weeklyChange float64, mode dietmode.Mode, bodyFat float64) int {
	size := float64(baseAdjustment)

	switch {
	case bodyFat < 12:
		size *= 0.7
	case bodyFat > 25:
		size *= 1.3
	}

	deviation := math.Abs(weeklyChange - mode.TargetRate())
	switch {
	case deviation > 0.5:
		size *= 1.5
	case deviation < 0.2:
		size *= 0.7
	}

	return int(math.Round(size))
}

// Calculate evaluates the rate, body-composition and plateau rules in that
// order and returns every adjustment that fired.
func Calculate(stats Stats, mode dietmode.Mode, p Progress) []Adjustment {
	var adjs []Adjustment

	if a, ok := rateRule(stats, mode, p.WeeklyChange); ok {
		adjs = append(adjs, a)
	}

	if p.LeanChange != nil && *p.LeanChange < 0 && mode != dietmode.AggressiveCut {
		protein := leanLossProteinLowerBF
		if stats.BodyFat > 20 {
			protein = leanLossProteinHighBF
		}
		adjs = append(adjs, Adjustment{
			Calories:   leanLossCalories,
			Protein:    protein,
			Reason:     fmt.Sprintf("Losing lean mass (%.2f kg/week)", *p.LeanChange),
			Severity:   High,
			Suggestion: fmt.Sprintf("Increase calories by %d and protein by %dg per day", leanLossCalories, protein),
		})
	}

	switch p.Plateau.State {
	case plateau.True:
		switch {
		case mode.IsCut():
			adjs = append(adjs, Adjustment{
				Calories:   -plateauCalories,
				Reason:     p.Plateau.Reason,
				Severity:   Medium,
				Suggestion: fmt.Sprintf("Reduce calories by %d per day or take a diet break", plateauCalories),
			})
		case mode.IsBulk():
			adjs = append(adjs, Adjustment{
				Calories:   plateauCalories,
				Reason:     p.Plateau.Reason,
				Severity:   Medium,
				Suggestion: fmt.Sprintf("Increase calories by %d per day", plateauCalories),
			})
		}
	case plateau.LowAdherence:
		adjs = append(adjs, Adjustment{
			Reason:     p.Plateau.Reason,
			Severity:   Low,
			Suggestion: "Focus on logging consistently before changing targets",
		})
	}

	return adjs
}

// rateRule compares the weekly change against the mode's target rate. Losing
// (or gaining) at under half the target is too slow; at over 1.5× it is too fast.
func rateRule(stats Stats, mode dietmode.Mode, weekly float64) (Adjustment, bool) {
	target := mode.TargetRate()
	size := AdjustmentSize(weekly, mode, stats.BodyFat)

	switch {
	case mode.IsCut():
		if weekly > target*0.5 {
			return Adjustment{
				Calories:   -size,
				Reason:     fmt.Sprintf("Weight loss too slow (%.1f vs %.1f kg/week)", math.Abs(weekly), math.Abs(target)),
				Severity:   Medium,
				Suggestion: fmt.Sprintf("Reduce calories by %d per day", size),
			}, true
		} else if weekly < target*1.5 {
			protein := int(math.Round(float64(size) / 40))
			return Adjustment{
				Calories:   size,
				Protein:    protein,
				Reason:     fmt.Sprintf("Weight loss too fast (%.1f vs %.1f kg/week)", math.Abs(weekly), math.Abs(target)),
				Severity:   High,
				Suggestion: fmt.Sprintf("Increase calories by %d and protein by %dg per day", size, protein),
			}, true
		}
	case mode.IsBulk():
		if weekly < target*0.5 {
			return Adjustment{
				Calories:   size,
				Reason:     fmt.Sprintf("Weight gain too slow (%.1f vs %.1f kg/week)", weekly, target),
				Severity:   Medium,
				Suggestion: fmt.Sprintf("Increase calories by %d per day", size),
			}, true
		} else if weekly > target*1.5 {
			return Adjustment{
				Calories:   -size,
				Reason:     fmt.Sprintf("Weight gain too fast (%.1f vs %.1f kg/week)", weekly, target),
				Severity:   High,
				Suggestion: fmt.Sprintf("Reduce calories by %d per day", size),
			}, true
		}
	}
	return Adjustment{}, false
}

// FromLogs measures progress from the log history and runs Calculate. It
// returns nil until there are enough logs for a weekly rate.
func FromLogs(logs []trend.DailyLog, stats Stats, mode dietmode.Mode) []Adjustment {
	change, ok := trend.WeeklyChange(logs, trend.DefaultChangeDays)
	if !ok {
		return nil
	}
	return Calculate(stats, mode, Progress{
		WeeklyChange: change.Weight,
		LeanChange:   change.Lean,
		Plateau:      plateau.Detect(logs, plateau.DefaultThreshold, plateau.DefaultWeeks),
	})
}

// LatestStats takes weight from the most recent log and body fat from the most
// recent log that has it, falling back to NeutralBodyFat.
func LatestStats(logs []trend.DailyLog) (Stats, bool) {
	if len(logs) == 0 {
		return Stats{}, false
	}
	var latest, latestBF *trend.DailyLog
	for i := range logs {
		l := &logs[i]
		if latest == nil || l.Date.After(latest.Date) {
			latest = l
		}
		if l.BodyFatPct != nil && (latestBF == nil || l.Date.After(latestBF.Date)) {
			latestBF = l
		}
	}
	s := Stats{WeightKg: latest.WeightKg, BodyFat: NeutralBodyFat}
	if latestBF != nil {
		s.BodyFat = *latestBF.BodyFatPct
	}
	return s, true
}

/* ─── Net adjustment ─────────────────────────────────────────────────── */

// NetAdjustment is the single change recommended after resolving conflicts.
type NetAdjustment struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
}

// Net picks the highest severity tier present, High over Medium. Low
// adjustments are advisory and never contribute. Within the winning tier the
// largest calorie delta and the largest protein delta are chosen
// independently, so they may come from different adjustments.
func Net(adjs []Adjustment) NetAdjustment {
	tier := Low
	for _, a := range adjs {
		tier = max(tier, a.Severity)
	}
	if tier == Low {
		return NetAdjustment{}
	}

	var net NetAdjustment
	first := true
	for _, a := range adjs {
		if a.Severity != tier {
			continue
		}
		if first {
			net = NetAdjustment{Calories: a.Calories, Protein: a.Protein}
			first = false
			continue
		}
		net.Calories = max(net.Calories, a.Calories)
		net.Protein = max(net.Protein, a.Protein)
	}
	return net
}
