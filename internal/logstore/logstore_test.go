package logstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dcunning11235/macromanage/internal/trend"
)

func ptr[T any](v T) *T { return &v }

func day(d int) time.Time {
	return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
}

func tempSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "logs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestValidate(t *testing.T) {
	valid := trend.NewDailyLog(day(1), 80, ptr(18.0), 2000, 150, 200, 70)
	if err := Validate(valid); err != nil {
		t.Fatalf("expected valid log, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(l *trend.DailyLog)
	}{
		{"zero date", func(l *trend.DailyLog) { l.Date = time.Time{} }},
		{"zero weight", func(l *trend.DailyLog) { l.WeightKg = 0 }},
		{"huge weight", func(l *trend.DailyLog) { l.WeightKg = 1000 }},
		{"body fat 100", func(l *trend.DailyLog) { l.BodyFatPct = ptr(100.0) }},
		{"negative calories", func(l *trend.DailyLog) { l.Calories = -1 }},
		{"negative protein", func(l *trend.DailyLog) { l.ProteinG = -5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := valid
			tc.mut(&l)
			if err := Validate(l); !errors.Is(err, ErrInvalidLog) {
				t.Errorf("expected ErrInvalidLog, got %v", err)
			}
		})
	}
}

/* ─── Memory ─────────────────────────────────────────────────────────── */

func TestMemory_PutKeepsDateOrderAndReplaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, d := range []int{5, 1, 3} {
		if err := m.Put(ctx, 1, trend.NewDailyLog(day(d), 80+float64(d), nil, 2000, 150, 200, 70)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	// Same date, later time of day: replaces day 3.
	if err := m.Put(ctx, 1, trend.NewDailyLog(day(3).Add(9*time.Hour), 79, nil, 1800, 150, 200, 70)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	logs, err := m.Logs(ctx, 1)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	for i, want := range []int{1, 3, 5} {
		if !logs[i].Date.Equal(day(want)) {
			t.Errorf("logs[%d].Date = %v, want day %d", i, logs[i].Date, want)
		}
	}
	if logs[1].WeightKg != 79 || logs[1].Calories != 1800 {
		t.Errorf("day 3 not replaced: %+v", logs[1])
	}

	if other, _ := m.Logs(ctx, 2); len(other) != 0 {
		t.Errorf("expected no logs for another user, got %d", len(other))
	}
}

func TestMemory_RejectsInvalid(t *testing.T) {
	err := NewMemory().Put(context.Background(), 1, trend.NewDailyLog(day(1), -3, nil, 0, 0, 0, 0))
	if !errors.Is(err, ErrInvalidLog) {
		t.Errorf("expected ErrInvalidLog, got %v", err)
	}
}

/* ─── SQLite ─────────────────────────────────────────────────────────── */

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := tempSQLite(t)

	full := trend.NewDailyLog(day(2), 82.5, ptr(20.0), 2100, 160, 210, 65)
	full.Steps = ptr(9000)
	full.WaterL = ptr(2.5)
	full.SleepH = ptr(7.5)
	full.Notes = "leg day"
	bare := trend.NewDailyLog(day(1), 83, nil, 0, 0, 0, 0)

	for _, l := range []trend.DailyLog{full, bare} {
		if err := s.Put(ctx, 7, l); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	logs, err := s.Logs(ctx, 7)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if !logs[0].Date.Equal(day(1)) || logs[0].HasComposition() || logs[0].Steps != nil || logs[0].Notes != "" {
		t.Errorf("unexpected first log: %+v", logs[0])
	}

	got := logs[1]
	if got.WeightKg != 82.5 || got.Calories != 2100 || got.ProteinG != 160 {
		t.Errorf("unexpected values: %+v", got)
	}
	if !got.HasComposition() || *got.FatMassKg != 16.5 {
		t.Errorf("expected derived fat mass 16.5, got %v", got.FatMassKg)
	}
	if got.Steps == nil || *got.Steps != 9000 || got.SleepH == nil || *got.SleepH != 7.5 || got.Notes != "leg day" {
		t.Errorf("optional fields lost: %+v", got)
	}
}

func TestSQLite_UpsertByDate(t *testing.T) {
	ctx := context.Background()
	s := tempSQLite(t)

	if err := s.Put(ctx, 1, trend.NewDailyLog(day(4), 80, nil, 2000, 150, 200, 70)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, 1, trend.NewDailyLog(day(4), 79.4, nil, 1900, 150, 200, 70)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, 2, trend.NewDailyLog(day(4), 60, nil, 1600, 100, 150, 50)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	logs, err := s.Logs(ctx, 1)
	if err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if len(logs) != 1 || logs[0].WeightKg != 79.4 || logs[0].Calories != 1900 {
		t.Errorf("expected single replaced log, got %+v", logs)
	}
}

func TestSQLite_RejectsInvalid(t *testing.T) {
	s := tempSQLite(t)
	err := s.Put(context.Background(), 1, trend.NewDailyLog(day(1), 80, ptr(0.0), 2000, 150, 200, 70))
	if !errors.Is(err, ErrInvalidLog) {
		t.Errorf("expected ErrInvalidLog, got %v", err)
	}
}
