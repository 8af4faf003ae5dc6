package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcunning11235/macromanage/internal/logstore"
)

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	db   *pgxpool.Pool
	logs logstore.Source

	// loadSettings is swapped out in tests that have no database.
	loadSettings func(c *gin.Context, userID int) (userSettings, error)
}

func newHandler(pool *pgxpool.Pool) *Handler {
	h := &Handler{db: pool, logs: logstore.NewPostgres(pool)}
	h.loadSettings = h.fetchSettings
	return h
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// intQuery reads a positive integer query param, falling back on absent or
// invalid values. Values above limit are clamped.
func intQuery(c *gin.Context, key string, fallback, limit int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return min(n, limit)
}

// floatQuery reads a positive float query param, falling back on absent or
// invalid values.
func floatQuery(c *gin.Context, key string, fallback float64) float64 {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Simple protocol avoids "cached plan must not change result type" after
	// schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/daily-logs", h.getDailyLogs)
	api.POST("/daily-logs", h.upsertDailyLog)
	api.PUT("/daily-logs/:id", h.updateDailyLog)
	api.DELETE("/daily-logs/:id", h.deleteDailyLog)
	api.GET("/daily-logs/weekly-summary", h.getWeeklySummary)
	api.GET("/user-settings", h.getUserSettings)
	api.PATCH("/user-settings", h.patchUserSettings)
	h.registerAnalysisRoutes(api)
}

// registerAnalysisRoutes mounts the read-only analysis endpoints. Split out so
// tests can mount them without the auth middleware.
func (h *Handler) registerAnalysisRoutes(g *gin.RouterGroup) {
	g.GET("/analysis/tdee", h.getTDEE)
	g.GET("/analysis/trends", h.getTrends)
	g.GET("/analysis/body-composition", h.getBodyComposition)
	g.GET("/analysis/adherence", h.getAdherence)
	g.GET("/analysis/plateau", h.getPlateau)
	g.GET("/analysis/adjustments", h.getAdjustments)
}
