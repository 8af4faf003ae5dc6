// Command macromanage logs days and prints progress reports without the API
// server. Logs live in a local SQLite file or in the server's Postgres database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dcunning11235/macromanage/internal/adjust"
	"github.com/dcunning11235/macromanage/internal/dietmode"
	"github.com/dcunning11235/macromanage/internal/logstore"
	"github.com/dcunning11235/macromanage/internal/plateau"
	"github.com/dcunning11235/macromanage/internal/trend"
)

// store is what both subcommands need from a backend.
type store interface {
	logstore.Source
	logstore.Sink
}

// storeOptions picks the backend. SQLite wins when both are set.
type storeOptions struct {
	sqlitePath string
	dbURL      string
	userID     int
}

func (o *storeOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.sqlitePath, "sqlite", "", "path to a local SQLite log file")
	cmd.Flags().StringVar(&o.dbURL, "db-url", "", "Postgres connection string (defaults to DB_URL)")
	cmd.Flags().IntVar(&o.userID, "user-id", 1, "user whose logs to read or write")
}

func (o *storeOptions) open(ctx context.Context) (store, func(), error) {
	if o.sqlitePath != "" {
		s, err := logstore.OpenSQLite(o.sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}

	url := o.dbURL
	if url == "" {
		url = os.Getenv("DB_URL")
	}
	if url == "" {
		return nil, nil, errors.New("no store configured: pass --sqlite or --db-url, or set DB_URL")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return logstore.NewPostgres(pool), pool.Close, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "macromanage",
		Short:         "macromanage - diet tracking and adaptive targets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLogCmd(), newReportCmd(), newModesCmd())
	return root
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

/* ─── log ────────────────────────────────────────────────────────────── */

type logOptions struct {
	storeOptions
	date     string
	weightKg float64
	bodyFat  float64
	calories int
	proteinG float64
	carbsG   float64
	fatG     float64
	notes    string
}

func newLogCmd() *cobra.Command {
	o := &logOptions{}
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record (or replace) one day's weight and intake",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, o)
		},
	}
	o.register(cmd)
	f := cmd.Flags()
	f.StringVar(&o.date, "date", "", "day to record as YYYY-MM-DD (defaults to today)")
	f.Float64Var(&o.weightKg, "weight", 0, "body weight in kg")
	f.Float64Var(&o.bodyFat, "body-fat", 0, "body fat percentage")
	f.IntVar(&o.calories, "calories", 0, "calories eaten")
	f.Float64Var(&o.proteinG, "protein", 0, "protein in grams")
	f.Float64Var(&o.carbsG, "carbs", 0, "carbohydrate in grams")
	f.Float64Var(&o.fatG, "fat", 0, "fat in grams")
	f.StringVar(&o.notes, "notes", "", "free-form notes")
	cmd.MarkFlagRequired("weight")
	return cmd
}

func runLog(cmd *cobra.Command, o *logOptions) error {
	day := time.Now().UTC()
	if o.date != "" {
		d, err := time.Parse(time.DateOnly, o.date)
		if err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
		day = d
	}
	var bf *float64
	if cmd.Flags().Changed("body-fat") {
		bf = &o.bodyFat
	}

	l := trend.NewDailyLog(day, o.weightKg, bf, o.calories, o.proteinG, o.carbsG, o.fatG)
	l.Notes = o.notes

	ctx := cmd.Context()
	s, closeStore, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := s.Put(ctx, o.userID, l); err != nil {
		return fmt.Errorf("save log: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Logged %s: %.1f kg", l.Date.Format(time.DateOnly), l.WeightKg)
	if l.LeanMassKg != nil {
		fmt.Fprintf(out, " (lean %.1f kg, fat %.1f kg)", *l.LeanMassKg, *l.FatMassKg)
	}
	fmt.Fprintf(out, ", %d kcal\n", l.Calories)
	if !l.MacrosConsistent() {
		fmt.Fprintf(out, "Warning: macros add up to %d kcal, logged %d kcal\n", l.MacroCalories(), l.Calories)
	}
	return nil
}

/* ─── report ─────────────────────────────────────────────────────────── */

type reportOptions struct {
	storeOptions
	mode string
	days int
}

func newReportCmd() *cobra.Command {
	o := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print TDEE, trends, plateau status and recommended adjustments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, o)
		},
	}
	o.register(cmd)
	cmd.Flags().StringVar(&o.mode, "mode", string(dietmode.Maintenance), "diet mode ("+modeNames()+")")
	cmd.Flags().IntVar(&o.days, "days", trend.DefaultTDEEDays, "TDEE regression window in days")
	return cmd
}

func runReport(cmd *cobra.Command, o *reportOptions) error {
	mode, err := dietmode.Parse(o.mode)
	if err != nil {
		return err
	}
	if o.days < 1 {
		return errors.New("days must be at least 1")
	}

	ctx := cmd.Context()
	s, closeStore, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	logs, err := s.Logs(ctx, o.userID)
	if err != nil {
		return fmt.Errorf("load logs: %w", err)
	}
	writeReport(cmd.OutOrStdout(), logs, mode, o.days)
	return nil
}

// writeReport renders everything derivable from logs. Sections without
// enough history say so instead of failing.
func writeReport(w io.Writer, logs []trend.DailyLog, mode dietmode.Mode, days int) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No logs yet.")
		return
	}
	fmt.Fprintf(w, "Logs:        %d (%s to %s)\n", len(logs),
		logs[0].Date.Format(time.DateOnly), logs[len(logs)-1].Date.Format(time.DateOnly))
	fmt.Fprintf(w, "Mode:        %s (target %+.1f kg/week)\n", mode, mode.TargetRate())

	if tdee, ok := trend.CalculateTDEE(logs, days); ok {
		fmt.Fprintf(w, "TDEE:        %d kcal (last %d days)\n", tdee, days)
	} else {
		fmt.Fprintf(w, "TDEE:        unavailable (need %d logs)\n", trend.MinTDEELogs)
	}

	if snap, ok := trend.CalculateTrends(logs, trend.DefaultTrendDays); ok {
		fmt.Fprintf(w, "Trend:       %+.2f kg/week, 7-day avg %.1f kg, %.0f kcal, %.0f g protein\n",
			snap.WeightTrend, snap.WeightMA7, snap.CaloriesMA7, snap.ProteinMA7)
	}
	if bc, ok := trend.AnalyzeBodyComposition(logs, trend.DefaultTrendDays); ok && bc.LeanChange != nil {
		fmt.Fprintf(w, "Composition: lean %+.2f kg, fat %+.2f kg\n", *bc.LeanChange, *bc.FatChange)
	}

	p := plateau.Detect(logs, plateau.DefaultThreshold, plateau.DefaultWeeks)
	fmt.Fprintf(w, "Plateau:     %s", p.State)
	if p.Reason != "" {
		fmt.Fprintf(w, " (%s)", p.Reason)
	}
	fmt.Fprintln(w)

	stats, _ := adjust.LatestStats(logs)
	adjs := adjust.FromLogs(logs, stats, mode)
	if len(adjs) == 0 {
		fmt.Fprintln(w, "Adjustments: none")
		return
	}
	fmt.Fprintln(w, "Adjustments:")
	for _, a := range adjs {
		fmt.Fprintf(w, "  [%s] %+d kcal, %+d g protein: %s\n", a.Severity, a.Calories, a.Protein, a.Reason)
		if a.Suggestion != "" {
			fmt.Fprintf(w, "         %s\n", a.Suggestion)
		}
	}
	net := adjust.Net(adjs)
	fmt.Fprintf(w, "Net:         %+d kcal, %+d g protein\n", net.Calories, net.Protein)
}

/* ─── modes ──────────────────────────────────────────────────────────── */

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List diet modes and their weekly rate targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, m := range dietmode.All() {
				t := m.Target()
				fmt.Fprintf(out, "%-17s %+.1f kg/week  %s\n", m, t.TargetRate, t.Description)
			}
			return nil
		},
	}
}

func modeNames() string {
	names := make([]string, 0, len(dietmode.All()))
	for _, m := range dietmode.All() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
