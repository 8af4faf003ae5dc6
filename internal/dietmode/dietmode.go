// Package dietmode holds the per-mode weekly rate targets consumed by the
// trend and adjustment packages.
package dietmode

import (
	"errors"
	"fmt"
	"sort"
)

// Mode is a diet phase. Its string value is what the API and the database store.
type Mode string

const (
	AggressiveCut   Mode = "aggressive_cut"
	StandardCut     Mode = "standard_cut"
	ConservativeCut Mode = "conservative_cut"
	Maintenance     Mode = "maintenance"
	LeanBulk        Mode = "lean_bulk"
	StandardBulk    Mode = "standard_bulk"
)

// ErrUnknownMode is returned by Parse for names outside the mode table.
var ErrUnknownMode = errors.New("unknown diet mode")

// Target describes the expected weekly rate of change for a mode, in kg/week.
// Rates are signed: negative values are losses. MinWeekly/MaxWeekly are the
// bounds of an acceptable rate with the same sign as TargetRate.
type Target struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	TargetRate  float64 `json:"target_rate"`
	MinWeekly   float64 `json:"min_weekly"`
	MaxWeekly   float64 `json:"max_weekly"`
}

// targets is the single source of truth for valid modes.
var targets = map[Mode]Target{
	AggressiveCut: {
		Name:        "Aggressive Cut",
		Description: "Rapid fat loss with higher risk of muscle loss",
		TargetRate:  -0.8,
		MinWeekly:   -0.7,
		MaxWeekly:   -1.2,
	},
	StandardCut: {
		Name:        "Standard Cut",
		Description: "Balanced approach to fat loss",
		TargetRate:  -0.5,
		MinWeekly:   -0.5,
		MaxWeekly:   -1.0,
	},
	ConservativeCut: {
		Name:        "Conservative Cut",
		Description: "Slower fat loss with better muscle preservation",
		TargetRate:  -0.3,
		MinWeekly:   -0.3,
		MaxWeekly:   -0.7,
	},
	Maintenance: {
		Name:        "Maintenance",
		Description: "Maintain current weight and body composition",
		TargetRate:  0,
		MinWeekly:   0,
		MaxWeekly:   0.2,
	},
	LeanBulk: {
		Name:        "Lean Bulk",
		Description: "Gradual muscle gain with minimal fat",
		TargetRate:  0.25,
		MinWeekly:   0.2,
		MaxWeekly:   0.4,
	},
	StandardBulk: {
		Name:        "Standard Bulk",
		Description: "Faster muscle gain accepting some fat gain",
		TargetRate:  0.5,
		MinWeekly:   0.3,
		MaxWeekly:   0.5,
	},
}

// Parse converts a stored or user-supplied name into a Mode.
func Parse(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := targets[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// All returns every known mode, sorted by name.
func All() []Mode {
	modes := make([]Mode, 0, len(targets))
	for m := range targets {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}

// Target returns the rate table entry for m. Unknown modes get the zero Target.
func (m Mode) Target() Target {
	return targets[m]
}

// TargetRate is shorthand for m.Target().TargetRate.
func (m Mode) TargetRate() float64 {
	return targets[m].TargetRate
}

// IsCut reports whether m aims for weight loss.
func (m Mode) IsCut() bool {
	return m == AggressiveCut || m == StandardCut || m == ConservativeCut
}

// IsBulk reports whether m aims for weight gain.
func (m Mode) IsBulk() bool {
	return m == LeanBulk || m == StandardBulk
}

func (m Mode) String() string { return string(m) }
