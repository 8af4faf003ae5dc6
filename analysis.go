package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/dcunning11235/macromanage/internal/adjust"
	"github.com/dcunning11235/macromanage/internal/dietmode"
	"github.com/dcunning11235/macromanage/internal/plateau"
	"github.com/dcunning11235/macromanage/internal/trend"
)

// maxWindowDays bounds the days query param on analysis endpoints.
const maxWindowDays = 365

// userLogs loads the authenticated user's full history. On failure it writes
// the error response and returns ok=false.
func (h *Handler) userLogs(c *gin.Context) ([]trend.DailyLog, bool) {
	userID := c.GetInt("user_id")
	logs, err := h.logs.Logs(c, userID)
	if err != nil {
		log.Printf("[userLogs] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch daily logs")
		return nil, false
	}
	return logs, true
}

// optionalSettings loads the user's settings. A missing row is not an error
// for analysis; other failures are logged and treated the same way.
func (h *Handler) optionalSettings(c *gin.Context) (userSettings, bool) {
	userID := c.GetInt("user_id")
	s, err := h.loadSettings(c, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("[optionalSettings] user %d: %v", userID, err)
		}
		return userSettings{}, false
	}
	return s, true
}

// getTDEE returns the observed TDEE, falling back to the profile formula.
// GET /api/analysis/tdee?days=14.
func (h *Handler) getTDEE(c *gin.Context) {
	days := intQuery(c, "days", trend.DefaultTDEEDays, maxWindowDays)
	logs, ok := h.userLogs(c)
	if !ok {
		return
	}

	resp := tdeeResponse{Days: days, LogCount: len(logs), Source: "unavailable"}
	if tdee, ok := trend.CalculateTDEE(logs, days); ok {
		resp.TDEE = &tdee
		resp.Source = "observed"
	} else if s, ok := h.optionalSettings(c); ok {
		if stats, ok := adjust.LatestStats(logs); ok {
			if _, formula, ok := computeFormulaTDEE(&s, stats.WeightKg, time.Now()); ok {
				resp.TDEE = &formula
				resp.Source = "formula"
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// getTrends returns the trend snapshot, or trends: null with too few logs.
// GET /api/analysis/trends?days=28.
func (h *Handler) getTrends(c *gin.Context) {
	days := intQuery(c, "days", trend.DefaultTrendDays, maxWindowDays)
	logs, ok := h.userLogs(c)
	if !ok {
		return
	}

	resp := trendsResponse{Days: days}
	if snap, ok := trend.CalculateTrends(logs, days); ok {
		resp.Trends = &snap
	}
	c.JSON(http.StatusOK, resp)
}

// getBodyComposition compares the ends of the most recent window.
// GET /api/analysis/body-composition?days=28.
func (h *Handler) getBodyComposition(c *gin.Context) {
	days := intQuery(c, "days", trend.DefaultTrendDays, maxWindowDays)
	logs, ok := h.userLogs(c)
	if !ok {
		return
	}

	resp := bodyCompositionResponse{Days: days}
	if bc, ok := trend.AnalyzeBodyComposition(logs, days); ok {
		resp.BodyComposition = &bc
	}
	c.JSON(http.StatusOK, resp)
}

// getAdherence returns logging/calorie/protein adherence ratios.
// GET /api/analysis/adherence?days=28.
func (h *Handler) getAdherence(c *gin.Context) {
	days := intQuery(c, "days", trend.DefaultAdherenceDays, maxWindowDays)
	logs, ok := h.userLogs(c)
	if !ok {
		return
	}

	resp := adherenceResponse{Days: days}
	if a, ok := trend.AdherenceStats(logs, days); ok {
		resp.Adherence = &a
	}
	c.JSON(http.StatusOK, resp)
}

// getPlateau classifies recent progress.
// GET /api/analysis/plateau?threshold=0.2&weeks=3.
func (h *Handler) getPlateau(c *gin.Context) {
	threshold := floatQuery(c, "threshold", plateau.DefaultThreshold)
	weeks := intQuery(c, "weeks", plateau.DefaultWeeks, maxWindowDays/7)
	logs, ok := h.userLogs(c)
	if !ok {
		return
	}

	r := plateau.Detect(logs, threshold, weeks)
	c.JSON(http.StatusOK, plateauResponse{Result: r, IsPlateau: r.Plateau(), Threshold: threshold, Weeks: weeks})
}

// getAdjustments runs the adjustment rules for the user's diet mode (or the
// mode query param) and resolves them into a net change.
// GET /api/analysis/adjustments?mode=standard_cut.
func (h *Handler) getAdjustments(c *gin.Context) {
	logs, ok := h.userLogs(c)
	if !ok {
		return
	}
	settings, hasSettings := h.optionalSettings(c)

	modeName := c.Query("mode")
	if modeName == "" && hasSettings {
		modeName = settings.DietMode
	}
	if modeName == "" {
		apiError(c, http.StatusBadRequest, "mode is required when no diet_mode is set")
		return
	}
	mode, err := dietmode.Parse(modeName)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp := adjustmentsResponse{Mode: mode, Target: mode.Target(), Adjustments: []adjust.Adjustment{}}
	if stats, ok := adjust.LatestStats(logs); ok {
		if hasSettings {
			stats.TargetWeightKg = settings.TargetWeightKg
			stats.TargetBodyFat = settings.TargetBodyFat
		}
		resp.Stats = stats
		if adjs := adjust.FromLogs(logs, stats, mode); adjs != nil {
			resp.Adjustments = adjs
		}
	}
	resp.Net = adjust.Net(resp.Adjustments)

	if hasSettings && settings.CalorieTarget > 0 {
		resp.Current = &targets{Calories: settings.CalorieTarget, ProteinG: settings.ProteinTargetG}
		resp.Recommended = &targets{
			Calories: settings.CalorieTarget + resp.Net.Calories,
			ProteinG: settings.ProteinTargetG + resp.Net.Protein,
		}
	}

	c.JSON(http.StatusOK, resp)
}
