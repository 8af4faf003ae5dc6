package logstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcunning11235/macromanage/internal/trend"
)

// Postgres reads and writes the daily_logs table.
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ Source = (*Postgres)(nil)
	_ Sink   = (*Postgres)(nil)
)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// logRow is the scan shape for daily_logs; derived masses are not stored.
type logRow struct {
	Date       time.Time `db:"date"`
	WeightKg   float64   `db:"weight_kg"`
	BodyFatPct *float64  `db:"body_fat_pct"`
	Calories   int       `db:"calories"`
	ProteinG   float64   `db:"protein_g"`
	CarbsG     float64   `db:"carbs_g"`
	FatG       float64   `db:"fat_g"`
	Steps      *int      `db:"steps"`
	WaterL     *float64  `db:"water_l"`
	SleepH     *float64  `db:"sleep_h"`
	Notes      *string   `db:"notes"`
}

func (r logRow) toLog() trend.DailyLog {
	l := trend.NewDailyLog(r.Date, r.WeightKg, r.BodyFatPct, r.Calories, r.ProteinG, r.CarbsG, r.FatG)
	l.Steps, l.WaterL, l.SleepH = r.Steps, r.WaterL, r.SleepH
	if r.Notes != nil {
		l.Notes = *r.Notes
	}
	return l
}

func (p *Postgres) Logs(ctx context.Context, userID int) ([]trend.DailyLog, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT date, weight_kg, body_fat_pct, calories, protein_g, carbs_g, fat_g,
		        steps, water_l, sleep_h, notes
		 FROM daily_logs
		 WHERE user_id = @userID
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("query daily logs: %w", err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[logRow])
	if err != nil {
		return nil, fmt.Errorf("scan daily logs: %w", err)
	}
	logs := make([]trend.DailyLog, len(recs))
	for i, r := range recs {
		logs[i] = r.toLog()
	}
	return logs, nil
}

func (p *Postgres) Put(ctx context.Context, userID int, l trend.DailyLog) error {
	if err := Validate(l); err != nil {
		return err
	}
	var notes *string
	if l.Notes != "" {
		notes = &l.Notes
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO daily_logs (user_id, date, weight_kg, body_fat_pct, calories, protein_g, carbs_g, fat_g, steps, water_l, sleep_h, notes)
		 VALUES (@userID, @date, @weightKg, @bodyFatPct, @calories, @proteinG, @carbsG, @fatG, @steps, @waterL, @sleepH, @notes)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg, body_fat_pct = EXCLUDED.body_fat_pct,
			calories = EXCLUDED.calories, protein_g = EXCLUDED.protein_g,
			carbs_g = EXCLUDED.carbs_g, fat_g = EXCLUDED.fat_g,
			steps = EXCLUDED.steps, water_l = EXCLUDED.water_l,
			sleep_h = EXCLUDED.sleep_h, notes = EXCLUDED.notes,
			updated_at = now()`,
		pgx.NamedArgs{
			"userID": userID, "date": dayKey(l.Date).Format(time.DateOnly),
			"weightKg": l.WeightKg, "bodyFatPct": l.BodyFatPct, "calories": l.Calories,
			"proteinG": l.ProteinG, "carbsG": l.CarbsG, "fatG": l.FatG,
			"steps": l.Steps, "waterL": l.WaterL, "sleepH": l.SleepH, "notes": notes,
		})
	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}
	return nil
}
