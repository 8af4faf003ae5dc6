package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dcunning11235/macromanage/internal/adjust"
	"github.com/dcunning11235/macromanage/internal/dietmode"
	"github.com/dcunning11235/macromanage/internal/plateau"
	"github.com/dcunning11235/macromanage/internal/trend"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(time.DateOnly) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate lets pgx scan date columns into DateOnly. NULL zeroes the time so
// *DateOnly fields end up nil.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// dailyLog maps to daily_logs, one row per user per date. All values are metric.
type dailyLog struct {
	ID         int        `json:"id"           db:"id"`
	UserID     int        `json:"user_id"      db:"user_id"`
	Date       DateOnly   `json:"date"         db:"date"`
	WeightKg   float64    `json:"weight_kg"    db:"weight_kg"`
	BodyFatPct *float64   `json:"body_fat_pct" db:"body_fat_pct"`
	Calories   int        `json:"calories"     db:"calories"`
	ProteinG   float64    `json:"protein_g"    db:"protein_g"`
	CarbsG     float64    `json:"carbs_g"      db:"carbs_g"`
	FatG       float64    `json:"fat_g"        db:"fat_g"`
	Steps      *int       `json:"steps"        db:"steps"`
	WaterL     *float64   `json:"water_l"      db:"water_l"`
	SleepH     *float64   `json:"sleep_h"      db:"sleep_h"`
	Notes      *string    `json:"notes"        db:"notes"`
	CreatedAt  *time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"   db:"updated_at"`

	// Computed fields, not stored.
	LeanMassKg       *float64 `json:"lean_mass_kg,omitempty" db:"-"`
	FatMassKg        *float64 `json:"fat_mass_kg,omitempty"  db:"-"`
	MacroCalories    *int     `json:"macro_calories"         db:"-"`
	MacrosConsistent *bool    `json:"macros_consistent"      db:"-"`
}

// toTrend converts the row into the trend engine's value type.
func (l dailyLog) toTrend() trend.DailyLog {
	t := trend.NewDailyLog(l.Date.Time, l.WeightKg, l.BodyFatPct, l.Calories, l.ProteinG, l.CarbsG, l.FatG)
	t.Steps, t.WaterL, t.SleepH = l.Steps, l.WaterL, l.SleepH
	if l.Notes != nil {
		t.Notes = *l.Notes
	}
	return t
}

// populateDerived fills the computed-only fields from the stored values.
func (l *dailyLog) populateDerived() {
	t := l.toTrend()
	l.LeanMassKg, l.FatMassKg = t.LeanMassKg, t.FatMassKg
	macro := t.MacroCalories()
	consistent := t.MacrosConsistent()
	l.MacroCalories = &macro
	l.MacrosConsistent = &consistent
}

// userSettings maps to user_settings. One row per user holding the diet mode,
// the current intake targets and the body profile used for the formula TDEE.
type userSettings struct {
	UserID         int    `json:"user_id"          db:"user_id"`
	DietMode       string `json:"diet_mode"        db:"diet_mode"`
	CalorieTarget  int    `json:"calorie_target"   db:"calorie_target"`
	ProteinTargetG int    `json:"protein_target_g" db:"protein_target_g"`

	// Profile fields, all nullable.
	Sex            *string   `json:"sex"              db:"sex"`
	DateOfBirth    *DateOnly `json:"date_of_birth"    db:"date_of_birth"`
	HeightCM       *float64  `json:"height_cm"        db:"height_cm"`
	ActivityLevel  *string   `json:"activity_level"   db:"activity_level"`
	TargetWeightKg *float64  `json:"target_weight_kg" db:"target_weight_kg"`
	TargetBodyFat  *float64  `json:"target_body_fat"  db:"target_body_fat"`

	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`

	// Computed from the profile and the latest logged weight; not stored.
	ComputedBMR  *int `json:"computed_bmr,omitempty"  db:"-"`
	ComputedTDEE *int `json:"computed_tdee,omitempty" db:"-"`
}

// createDailyLogRequest is the request body for POST /api/daily-logs.
type createDailyLogRequest struct {
	Date       string   `json:"date"`
	WeightKg   float64  `json:"weight_kg"`
	BodyFatPct *float64 `json:"body_fat_pct"`
	Calories   int      `json:"calories"`
	ProteinG   float64  `json:"protein_g"`
	CarbsG     float64  `json:"carbs_g"`
	FatG       float64  `json:"fat_g"`
	Steps      *int     `json:"steps"`
	WaterL     *float64 `json:"water_l"`
	SleepH     *float64 `json:"sleep_h"`
	Notes      *string  `json:"notes"`
}

// updateDailyLogRequest is the request body for PUT /api/daily-logs/:id.
// Omitted fields keep their stored value.
type updateDailyLogRequest struct {
	Date       *string  `json:"date"`
	WeightKg   *float64 `json:"weight_kg"`
	BodyFatPct *float64 `json:"body_fat_pct"`
	Calories   *int     `json:"calories"`
	ProteinG   *float64 `json:"protein_g"`
	CarbsG     *float64 `json:"carbs_g"`
	FatG       *float64 `json:"fat_g"`
	Steps      *int     `json:"steps"`
	WaterL     *float64 `json:"water_l"`
	SleepH     *float64 `json:"sleep_h"`
	Notes      *string  `json:"notes"`
}

// patchUserSettingsRequest is the request body for PATCH /api/user-settings.
// Only non-nil fields get written to the database.
type patchUserSettingsRequest struct {
	DietMode       *string  `json:"diet_mode"`
	CalorieTarget  *int     `json:"calorie_target"`
	ProteinTargetG *int     `json:"protein_target_g"`
	Sex            *string  `json:"sex"`
	DateOfBirth    *string  `json:"date_of_birth"` // YYYY-MM-DD
	HeightCM       *float64 `json:"height_cm"`
	ActivityLevel  *string  `json:"activity_level"`
	TargetWeightKg *float64 `json:"target_weight_kg"`
	TargetBodyFat  *float64 `json:"target_body_fat"`
}

/* ─── Analysis responses ─────────────────────────────────────────────── */

// tdeeResponse is GET /api/analysis/tdee. Source is "observed" when the log
// regression produced an estimate, "formula" when the profile fallback was
// used, and "unavailable" otherwise.
type tdeeResponse struct {
	Days     int    `json:"days"`
	LogCount int    `json:"log_count"`
	TDEE     *int   `json:"tdee"`
	Source   string `json:"source"`
}

type trendsResponse struct {
	Days   int             `json:"days"`
	Trends *trend.Snapshot `json:"trends"`
}

type bodyCompositionResponse struct {
	Days            int                    `json:"days"`
	BodyComposition *trend.BodyComposition `json:"body_composition"`
}

type adherenceResponse struct {
	Days      int              `json:"days"`
	Adherence *trend.Adherence `json:"adherence"`
}

type plateauResponse struct {
	plateau.Result
	IsPlateau bool    `json:"plateau"`
	Threshold float64 `json:"threshold"`
	Weeks     int     `json:"weeks"`
}

// targets are the user's daily intake targets before and after the net adjustment.
type targets struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
}

type adjustmentsResponse struct {
	Mode        dietmode.Mode        `json:"mode"`
	Target      dietmode.Target      `json:"target"`
	Stats       adjust.Stats         `json:"stats"`
	Adjustments []adjust.Adjustment  `json:"adjustments"`
	Net         adjust.NetAdjustment `json:"net"`
	Current     *targets             `json:"current_targets,omitempty"`
	Recommended *targets             `json:"recommended_targets,omitempty"`
}
