package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/dcunning11235/macromanage/internal/logstore"
	"github.com/dcunning11235/macromanage/internal/trend"
)

// validateLogFields checks the fields present in a partial update against the
// same ranges as logstore.Validate. Returns "" when all are in range.
func validateLogFields(weightKg, bodyFatPct *float64, calories *int, macros ...*float64) string {
	if weightKg != nil && (*weightKg <= 0 || *weightKg > 999.9) {
		return "weight_kg must be between 0 and 999.9"
	}
	if bodyFatPct != nil && (*bodyFatPct <= 0 || *bodyFatPct >= 100) {
		return "body_fat_pct must be between 0 and 100"
	}
	if calories != nil && *calories < 0 {
		return "calories must not be negative"
	}
	for _, m := range macros {
		if m != nil && *m < 0 {
			return "protein_g, carbs_g and fat_g must not be negative"
		}
	}
	return ""
}

// getDailyLogs returns the user's daily logs, optionally limited to [start, end].
// GET /api/daily-logs?start=YYYY-MM-DD&end=YYYY-MM-DD. Either both or neither.
// Returns an empty array (not null) if no logs exist.
func (h *Handler) getDailyLogs(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if (start == "") != (end == "") {
		apiError(c, http.StatusBadRequest, "start and end must be given together")
		return
	}

	sql := `SELECT * FROM daily_logs WHERE user_id = @userID ORDER BY date ASC`
	args := pgx.NamedArgs{"userID": userID}
	if start != "" {
		if _, err := time.Parse(time.DateOnly, start); err != nil {
			apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
			return
		}
		if _, err := time.Parse(time.DateOnly, end); err != nil {
			apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
			return
		}
		if start > end {
			apiError(c, http.StatusBadRequest, "start must not be after end")
			return
		}
		sql = `SELECT * FROM daily_logs
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`
		args["start"], args["end"] = start, end
	}

	logs, err := queryMany[dailyLog](h.db, c, sql, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch daily logs")
		return
	}
	if logs == nil {
		logs = []dailyLog{}
	}
	for i := range logs {
		logs[i].populateDerived()
	}

	c.JSON(http.StatusOK, logs)
}

// upsertDailyLog creates or replaces the log for the given date.
// POST /api/daily-logs. Defaults date to today if omitted. The
// UNIQUE(user_id, date) constraint means posting the same date updates in place.
func (h *Handler) upsertDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createDailyLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format(time.DateOnly)
	}
	date, err := time.Parse(time.DateOnly, body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	candidate := trend.NewDailyLog(date, body.WeightKg, body.BodyFatPct, body.Calories, body.ProteinG, body.CarbsG, body.FatG)
	if err := logstore.Validate(candidate); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := queryOne[dailyLog](h.db, c,
		`INSERT INTO daily_logs (user_id, date, weight_kg, body_fat_pct, calories, protein_g, carbs_g, fat_g, steps, water_l, sleep_h, notes)
		 VALUES (@userID, @date, @weightKg, @bodyFatPct, @calories, @proteinG, @carbsG, @fatG, @steps, @waterL, @sleepH, @notes)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg, body_fat_pct = EXCLUDED.body_fat_pct,
			calories = EXCLUDED.calories, protein_g = EXCLUDED.protein_g,
			carbs_g = EXCLUDED.carbs_g, fat_g = EXCLUDED.fat_g,
			steps = EXCLUDED.steps, water_l = EXCLUDED.water_l,
			sleep_h = EXCLUDED.sleep_h, notes = EXCLUDED.notes,
			updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date,
			"weightKg": body.WeightKg, "bodyFatPct": body.BodyFatPct, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
			"steps": body.Steps, "waterL": body.WaterL, "sleepH": body.SleepH, "notes": body.Notes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save daily log")
		return
	}
	entry.populateDerived()
	if !*entry.MacrosConsistent {
		log.Printf("[upsertDailyLog] user %d %s: calories %d vs %d from macros",
			userID, body.Date, entry.Calories, *entry.MacroCalories)
	}

	c.JSON(http.StatusCreated, entry)
}

// updateDailyLog partially updates an existing log.
// PUT /api/daily-logs/:id. Uses COALESCE so omitted fields keep their current values.
func (h *Handler) updateDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body updateDailyLogRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date != nil {
		if _, err := time.Parse(time.DateOnly, *body.Date); err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	if msg := validateLogFields(body.WeightKg, body.BodyFatPct, body.Calories, body.ProteinG, body.CarbsG, body.FatG); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	entry, err := queryOne[dailyLog](h.db, c,
		`UPDATE daily_logs SET
			date         = COALESCE(@date, date),
			weight_kg    = COALESCE(@weightKg, weight_kg),
			body_fat_pct = COALESCE(@bodyFatPct, body_fat_pct),
			calories     = COALESCE(@calories, calories),
			protein_g    = COALESCE(@proteinG, protein_g),
			carbs_g      = COALESCE(@carbsG, carbs_g),
			fat_g        = COALESCE(@fatG, fat_g),
			steps        = COALESCE(@steps, steps),
			water_l      = COALESCE(@waterL, water_l),
			sleep_h      = COALESCE(@sleepH, sleep_h),
			notes        = COALESCE(@notes, notes),
			updated_at   = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID, "date": body.Date,
			"weightKg": body.WeightKg, "bodyFatPct": body.BodyFatPct, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
			"steps": body.Steps, "waterL": body.WaterL, "sleepH": body.SleepH, "notes": body.Notes,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "daily log not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update daily log")
		}
		return
	}
	entry.populateDerived()

	c.JSON(http.StatusOK, entry)
}

// deleteDailyLog removes a log by ID. Returns 204 on success, 404 if not found.
// DELETE /api/daily-logs/:id. Ownership is enforced by matching user_id too.
func (h *Handler) deleteDailyLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM daily_logs WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete daily log")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "daily log not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// getWeeklySummary returns per-ISO-week aggregates over the user's whole history.
// GET /api/daily-logs/weekly-summary. Returns [] when there are no logs.
func (h *Handler) getWeeklySummary(c *gin.Context) {
	logs, ok := h.userLogs(c)
	if !ok {
		return
	}
	weeks := trend.WeeklySummary(logs)
	if weeks == nil {
		weeks = []trend.Week{}
	}
	c.JSON(http.StatusOK, weeks)
}
