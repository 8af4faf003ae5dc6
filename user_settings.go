package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/dcunning11235/macromanage/internal/dietmode"
)

// fetchSettings loads the user_settings row for userID.
func (h *Handler) fetchSettings(c *gin.Context, userID int) (userSettings, error) {
	return queryOne[userSettings](h.db, c,
		"SELECT * FROM user_settings WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
}

// latestWeight returns the most recently logged weight, or nil if none.
func (h *Handler) latestWeight(c *gin.Context, userID int) *float64 {
	var w float64
	err := h.db.QueryRow(c,
		"SELECT weight_kg FROM daily_logs WHERE user_id = $1 ORDER BY date DESC LIMIT 1", userID).Scan(&w)
	if err != nil {
		return nil
	}
	return &w
}

// getUserSettings returns the settings for the authenticated user, with the
// formula BMR/TDEE filled in when the profile and a logged weight allow it.
// GET /api/user-settings.
func (h *Handler) getUserSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	s, err := h.fetchSettings(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "settings not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch settings")
		}
		return
	}

	populateComputedTDEE(&s, h.latestWeight(c, userID))

	c.JSON(http.StatusOK, s)
}

// validateSettingsPatch rejects values that would break later analysis.
// Returns "" when body is acceptable.
func validateSettingsPatch(body *patchUserSettingsRequest) string {
	if body.DietMode != nil {
		if _, err := dietmode.Parse(*body.DietMode); err != nil {
			names := make([]string, 0, 6)
			for _, m := range dietmode.All() {
				names = append(names, m.String())
			}
			return "diet_mode must be one of: " + strings.Join(names, ", ")
		}
	}
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			return "activity_level must be one of: sedentary, light, moderate, active, very_active"
		}
	}
	if body.Sex != nil && *body.Sex != "male" && *body.Sex != "female" {
		return "sex must be male or female"
	}
	if body.DateOfBirth != nil {
		if _, err := time.Parse(time.DateOnly, *body.DateOfBirth); err != nil {
			return "invalid date_of_birth, expected YYYY-MM-DD"
		}
	}
	if body.HeightCM != nil && (*body.HeightCM <= 0 || *body.HeightCM > 300) {
		return "height_cm must be between 0 and 300"
	}
	if body.TargetWeightKg != nil && (*body.TargetWeightKg <= 0 || *body.TargetWeightKg > 999.9) {
		return "target_weight_kg must be between 0 and 999.9"
	}
	if body.TargetBodyFat != nil && (*body.TargetBodyFat <= 0 || *body.TargetBodyFat >= 100) {
		return "target_body_fat must be between 0 and 100"
	}
	if body.CalorieTarget != nil && *body.CalorieTarget < 0 {
		return "calorie_target must not be negative"
	}
	if body.ProteinTargetG != nil && *body.ProteinTargetG < 0 {
		return "protein_target_g must not be negative"
	}
	return ""
}

// patchUserSettings updates only the provided settings fields.
// PATCH /api/user-settings. Pointer fields distinguish "not provided" from zero.
func (h *Handler) patchUserSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchUserSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateSettingsPatch(&body); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	// Build SET clause dynamically from the fields the client actually sent.
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}
	set := func(column, arg string, v any) {
		setClauses = append(setClauses, column+" = @"+arg)
		args[arg] = v
	}

	if body.DietMode != nil {
		set("diet_mode", "dietMode", *body.DietMode)
	}
	if body.CalorieTarget != nil {
		set("calorie_target", "calorieTarget", *body.CalorieTarget)
	}
	if body.ProteinTargetG != nil {
		set("protein_target_g", "proteinTargetG", *body.ProteinTargetG)
	}
	if body.Sex != nil {
		set("sex", "sex", *body.Sex)
	}
	if body.DateOfBirth != nil {
		set("date_of_birth", "dateOfBirth", *body.DateOfBirth)
	}
	if body.HeightCM != nil {
		set("height_cm", "heightCM", *body.HeightCM)
	}
	if body.ActivityLevel != nil {
		set("activity_level", "activityLevel", *body.ActivityLevel)
	}
	if body.TargetWeightKg != nil {
		set("target_weight_kg", "targetWeightKg", *body.TargetWeightKg)
	}
	if body.TargetBodyFat != nil {
		set("target_body_fat", "targetBodyFat", *body.TargetBodyFat)
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE user_settings SET " +
		strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING *"

	s, err := queryOne[userSettings](h.db, c, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "settings not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update settings")
		}
		return
	}

	populateComputedTDEE(&s, h.latestWeight(c, userID))

	c.JSON(http.StatusOK, s)
}
