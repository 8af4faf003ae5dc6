package trend

// Direction is the sign of the weight change over a window.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
	Stable     Direction = "stable"
)

// BodyComposition describes how weight and its components moved over a window.
// The lean/fat fields are set only when both ends of the window carry
// body-fat measurements.
type BodyComposition struct {
	TotalChange   float64   `json:"total_change"`
	WeeklyRate    float64   `json:"weekly_rate"`
	Direction     Direction `json:"direction"`
	LeanChange    *float64  `json:"lean_change,omitempty"`
	FatChange     *float64  `json:"fat_change,omitempty"`
	LeanMassRatio *float64  `json:"lean_mass_ratio,omitempty"` // lean change / weight change
}

// AnalyzeBodyComposition compares the first and last of the most recent days
// logs. At least two logs are always required, so days below 2 behave as 2.
func AnalyzeBodyComposition(logs []DailyLog, days int) (BodyComposition, bool) {
	n := max(days, 2)
	if len(logs) < n {
		return BodyComposition{}, false
	}
	window := recent(logs, n)
	start, end := window[0], window[len(window)-1]

	bc := BodyComposition{TotalChange: end.WeightKg - start.WeightKg}
	if weeks := daysBetween(start.Date, end.Date) / 7; weeks > 0 {
		bc.WeeklyRate = bc.TotalChange / weeks
	}
	switch {
	case end.WeightKg > start.WeightKg:
		bc.Direction = Increasing
	case end.WeightKg < start.WeightKg:
		bc.Direction = Decreasing
	default:
		bc.Direction = Stable
	}

	if start.HasComposition() && end.HasComposition() {
		lean := *end.LeanMassKg - *start.LeanMassKg
		fat := *end.FatMassKg - *start.FatMassKg
		var ratio float64
		if bc.TotalChange != 0 {
			ratio = lean / bc.TotalChange
		}
		bc.LeanChange = &lean
		bc.FatChange = &fat
		bc.LeanMassRatio = &ratio
	}
	return bc, true
}

// DefaultChangeDays is the window the adjuster uses for its weekly rate.
const DefaultChangeDays = 7

// Change is a per-week rate of change between the ends of a window.
// Lean and Fat are nil when either end lacks body-fat data.
type Change struct {
	Weight float64  `json:"weight"`
	Lean   *float64 `json:"lean,omitempty"`
	Fat    *float64 `json:"fat,omitempty"`
}

// WeeklyChange converts the change across the most recent days logs into a
// weekly rate using the real elapsed time between them. ok is false when
// there are fewer than days logs or they all fall on one day.
func WeeklyChange(logs []DailyLog, days int) (Change, bool) {
	if days < 2 || len(logs) < days {
		return Change{}, false
	}
	window := recent(logs, days)
	start, end := window[0], window[len(window)-1]

	weeks := daysBetween(start.Date, end.Date) / 7
	if weeks <= 0 {
		return Change{}, false
	}

	c := Change{Weight: (end.WeightKg - start.WeightKg) / weeks}
	if start.HasComposition() && end.HasComposition() {
		lean := (*end.LeanMassKg - *start.LeanMassKg) / weeks
		fat := (*end.FatMassKg - *start.FatMassKg) / weeks
		c.Lean = &lean
		c.Fat = &fat
	}
	return c, true
}
