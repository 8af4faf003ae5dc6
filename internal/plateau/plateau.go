// Package plateau decides whether weight progress has stalled and whether a
// stall reflects a true plateau or inconsistent tracking.
package plateau

import (
	"fmt"
	"math"

	"github.com/dcunning11235/macromanage/internal/trend"
)

const (
	// DefaultThreshold is the weekly weight-trend magnitude (kg/week) below
	// which progress counts as stalled.
	DefaultThreshold = 0.2
	// DefaultWeeks is the trend window used by Detect.
	DefaultWeeks = 3

	// goodAdherence is the calorie-logging ratio a plateau must exceed to be
	// trusted as real.
	goodAdherence = 0.9
)

// State is the outcome of plateau detection.
type State int

const (
	Insufficient State = iota // not enough logs to compute a trend
	None                      // weight is still moving
	True                      // stalled with good adherence
	LowAdherence              // stalled, but calorie logging is patchy
)

var stateNames = map[State]string{
	Insufficient: "insufficient_data",
	None:         "none",
	True:         "true_plateau",
	LowAdherence: "low_adherence",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result carries the state plus the numbers it was derived from.
type Result struct {
	State       State   `json:"state"`
	Reason      string  `json:"reason"`
	WeeklyTrend float64 `json:"weekly_trend"` // kg/week
	Adherence   float64 `json:"adherence"`    // calorie-logging ratio, last 7 logs
}

// Plateau reports whether progress has stalled, regardless of adherence.
func (r Result) Plateau() bool {
	return r.State == True || r.State == LowAdherence
}

// Detect computes trends over the last weeks×7 logs and classifies them.
func Detect(logs []trend.DailyLog, threshold float64, weeks int) Result {
	snap, ok := trend.CalculateTrends(logs, weeks*7)
	if !ok {
		return Result{
			State:  Insufficient,
			Reason: fmt.Sprintf("Need at least %d daily logs to detect a plateau", max(weeks*7, 0)),
		}
	}
	return Classify(snap.WeightTrend, snap.CalorieAdherence, threshold)
}

// Classify is the decision step of Detect. A plateau requires the trend
// magnitude to be strictly below threshold; it is only trusted when adherence
// is strictly above 0.9.
func Classify(weeklyTrend, adherence, threshold float64) Result {
	r := Result{WeeklyTrend: weeklyTrend, Adherence: adherence}
	switch {
	case math.Abs(weeklyTrend) >= threshold:
		r.State = None
		r.Reason = fmt.Sprintf("Weight is moving %.2f kg/week", weeklyTrend)
	case adherence > goodAdherence:
		r.State = True
		r.Reason = "Progress has plateaued with good adherence"
	default:
		r.State = LowAdherence
		r.Reason = fmt.Sprintf("Apparent plateau but adherence is low (%.0f%% of days logged)", adherence*100)
	}
	return r
}
