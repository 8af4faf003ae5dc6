// Package trend estimates energy expenditure and body-composition trends from
// a sequence of daily logs.
//
// Every function takes the log sequence explicitly and recomputes from it;
// nothing is cached between calls and the caller's slice is never reordered.
// Missing data is the normal case for new users, so functions report it with
// an ok=false result rather than an error.
package trend

import (
	"math"
	"slices"
	"time"
)

// DailyLog is one day's tracking record in metric units. Logs are values:
// derived masses are computed once by NewDailyLog and never updated.
type DailyLog struct {
	Date       time.Time `json:"date"`
	WeightKg   float64   `json:"weight_kg"`
	BodyFatPct *float64  `json:"body_fat_pct,omitempty"`
	Calories   int       `json:"calories"`
	ProteinG   float64   `json:"protein_g"`
	CarbsG     float64   `json:"carbs_g"`
	FatG       float64   `json:"fat_g"`

	// Derived from WeightKg and BodyFatPct; nil when body fat is absent.
	LeanMassKg *float64 `json:"lean_mass_kg,omitempty"`
	FatMassKg  *float64 `json:"fat_mass_kg,omitempty"`

	Steps  *int     `json:"steps,omitempty"`
	WaterL *float64 `json:"water_l,omitempty"`
	SleepH *float64 `json:"sleep_h,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

// NewDailyLog builds a log and derives fat and lean mass when body fat is known:
// fat = weight × bf/100, lean = weight − fat.
func NewDailyLog(date time.Time, weightKg float64, bodyFatPct *float64, calories int, proteinG, carbsG, fatG float64) DailyLog {
	l := DailyLog{
		Date:       date,
		WeightKg:   weightKg,
		BodyFatPct: bodyFatPct,
		Calories:   calories,
		ProteinG:   proteinG,
		CarbsG:     carbsG,
		FatG:       fatG,
	}
	if bodyFatPct != nil {
		fat := weightKg * *bodyFatPct / 100
		lean := weightKg - fat
		l.FatMassKg = &fat
		l.LeanMassKg = &lean
	}
	return l
}

// HasComposition reports whether both derived masses are present.
func (l DailyLog) HasComposition() bool {
	return l.LeanMassKg != nil && l.FatMassKg != nil
}

// MacroCalories is the energy implied by the logged macros (4/4/9 kcal per gram).
func (l DailyLog) MacroCalories() int {
	return int(math.Round(l.ProteinG*4 + l.CarbsG*4 + l.FatG*9))
}

// MacrosConsistent reports whether the logged calories are within 10 kcal of
// the macro-derived total.
func (l DailyLog) MacrosConsistent() bool {
	return math.Abs(float64(l.MacroCalories()-l.Calories)) < 10
}

// sorted returns a date-ascending copy of logs.
func sorted(logs []DailyLog) []DailyLog {
	out := slices.Clone(logs)
	slices.SortStableFunc(out, func(a, b DailyLog) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// recent returns the n most recent logs in ascending date order.
func recent(logs []DailyLog, n int) []DailyLog {
	s := sorted(logs)
	if n < len(s) {
		s = s[len(s)-n:]
	}
	return s
}

// civilDay strips the clock from t so day arithmetic ignores time of day and DST.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween is the number of calendar days from a to b.
func daysBetween(a, b time.Time) float64 {
	return math.Round(civilDay(b).Sub(civilDay(a)).Hours() / 24)
}
