package main

import (
	"math"
	"time"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// Also the source of valid activity levels for patchUserSettings.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// ageOn returns the age in whole years on day now.
func ageOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// computeFormulaTDEE estimates BMR (Mifflin-St Jeor) and TDEE from the profile
// and a weight in kg. This is the fallback when the log history is too short
// for an observed estimate. ok is false when a profile field is missing, the
// activity level is unknown, or the age is implausible.
func computeFormulaTDEE(s *userSettings, weightKg float64, now time.Time) (bmr, tdee int, ok bool) {
	if s.Sex == nil || s.DateOfBirth == nil || s.HeightCM == nil || s.ActivityLevel == nil || weightKg <= 0 {
		return 0, 0, false
	}

	age := ageOn(s.DateOfBirth.Time, now)
	if age < 0 || age > 130 {
		return 0, 0, false
	}

	mult, found := activityMultipliers[*s.ActivityLevel]
	if !found {
		return 0, 0, false
	}

	bmrF := 10*weightKg + 6.25**s.HeightCM - 5*float64(age)
	if *s.Sex == "male" {
		bmrF += 5
	} else {
		bmrF -= 161
	}

	return int(math.Round(bmrF)), int(math.Round(bmrF * mult)), true
}

// populateComputedTDEE fills the computed-only fields on s. No-ops without a
// weight or when the profile is incomplete.
func populateComputedTDEE(s *userSettings, weightKg *float64) {
	if weightKg == nil {
		return
	}
	if bmr, tdee, ok := computeFormulaTDEE(s, *weightKg, time.Now()); ok {
		s.ComputedBMR = &bmr
		s.ComputedTDEE = &tdee
	}
}
