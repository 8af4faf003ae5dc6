package logstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dcunning11235/macromanage/internal/trend"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS daily_logs (
	user_id      INTEGER NOT NULL,
	date         TEXT    NOT NULL,
	weight_kg    REAL    NOT NULL,
	body_fat_pct REAL,
	calories     INTEGER NOT NULL DEFAULT 0,
	protein_g    REAL    NOT NULL DEFAULT 0,
	carbs_g      REAL    NOT NULL DEFAULT 0,
	fat_g        REAL    NOT NULL DEFAULT 0,
	steps        INTEGER,
	water_l      REAL,
	sleep_h      REAL,
	notes        TEXT,
	PRIMARY KEY (user_id, date)
);
`

// SQLite is a single-file store for offline use from the CLI.
type SQLite struct {
	db *sql.DB
}

var (
	_ Source = (*SQLite)(nil)
	_ Sink   = (*SQLite)(nil)
)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Put(ctx context.Context, userID int, l trend.DailyLog) error {
	if err := Validate(l); err != nil {
		return err
	}
	var notes any
	if l.Notes != "" {
		notes = l.Notes
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_logs (user_id, date, weight_kg, body_fat_pct, calories, protein_g, carbs_g, fat_g, steps, water_l, sleep_h, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			weight_kg = excluded.weight_kg, body_fat_pct = excluded.body_fat_pct,
			calories = excluded.calories, protein_g = excluded.protein_g,
			carbs_g = excluded.carbs_g, fat_g = excluded.fat_g,
			steps = excluded.steps, water_l = excluded.water_l,
			sleep_h = excluded.sleep_h, notes = excluded.notes`,
		userID, dayKey(l.Date).Format(time.DateOnly), l.WeightKg, l.BodyFatPct, l.Calories,
		l.ProteinG, l.CarbsG, l.FatG, l.Steps, l.WaterL, l.SleepH, notes,
	)
	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}
	return nil
}

func (s *SQLite) Logs(ctx context.Context, userID int) ([]trend.DailyLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, weight_kg, body_fat_pct, calories, protein_g, carbs_g, fat_g,
		        steps, water_l, sleep_h, notes
		 FROM daily_logs WHERE user_id = ? ORDER BY date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query daily logs: %w", err)
	}
	defer rows.Close()

	var logs []trend.DailyLog
	for rows.Next() {
		var (
			date                string
			r                   logRow
			bodyFat, water, slp sql.NullFloat64
			steps               sql.NullInt64
			notes               sql.NullString
		)
		if err := rows.Scan(&date, &r.WeightKg, &bodyFat, &r.Calories, &r.ProteinG, &r.CarbsG, &r.FatG,
			&steps, &water, &slp, &notes); err != nil {
			return nil, fmt.Errorf("scan daily log: %w", err)
		}
		if r.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		if bodyFat.Valid {
			r.BodyFatPct = &bodyFat.Float64
		}
		if steps.Valid {
			n := int(steps.Int64)
			r.Steps = &n
		}
		if water.Valid {
			r.WaterL = &water.Float64
		}
		if slp.Valid {
			r.SleepH = &slp.Float64
		}
		if notes.Valid {
			r.Notes = &notes.String
		}
		logs = append(logs, r.toLog())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily logs: %w", err)
	}
	return logs, nil
}
