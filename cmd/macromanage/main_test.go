package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dcunning11235/macromanage/internal/dietmode"
	"github.com/dcunning11235/macromanage/internal/logstore"
	"github.com/dcunning11235/macromanage/internal/trend"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func flatLogs(n int) []trend.DailyLog {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	bf := 15.0
	logs := make([]trend.DailyLog, n)
	for i := range logs {
		logs[i] = trend.NewDailyLog(start.AddDate(0, 0, i), 80, &bf, 2200, 160, 220, 70)
	}
	return logs
}

func TestLogThenReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")

	out, err := execute(t, "log", "--sqlite", path, "--date", "2026-03-02",
		"--weight", "80", "--body-fat", "20", "--calories", "2030",
		"--protein", "150", "--carbs", "200", "--fat", "70")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(out, "Logged 2026-03-02: 80.0 kg (lean 64.0 kg, fat 16.0 kg), 2030 kcal") {
		t.Errorf("unexpected log output: %q", out)
	}
	if strings.Contains(out, "Warning") {
		t.Errorf("consistent macros should not warn: %q", out)
	}

	s, err := logstore.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	logs, err := s.Logs(context.Background(), 1)
	s.Close()
	if err != nil || len(logs) != 1 || logs[0].Calories != 2030 {
		t.Fatalf("stored logs = %+v, %v", logs, err)
	}

	out, err = execute(t, "report", "--sqlite", path, "--mode", "standard_cut")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"Logs:        1", "TDEE:        unavailable", "insufficient_data", "Adjustments: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestLogMacroMismatchWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	out, err := execute(t, "log", "--sqlite", path, "--date", "2026-03-02",
		"--weight", "80", "--calories", "3000", "--protein", "150", "--carbs", "200", "--fat", "70")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(out, "Warning: macros add up to 2030 kcal, logged 3000 kcal") {
		t.Errorf("expected mismatch warning, got %q", out)
	}
}

func TestCommandErrors(t *testing.T) {
	t.Setenv("DB_URL", "")
	path := filepath.Join(t.TempDir(), "logs.db")
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown mode", []string{"report", "--sqlite", path, "--mode", "keto"}, "unknown diet mode"},
		{"bad days", []string{"report", "--sqlite", path, "--days", "0"}, "days must be at least 1"},
		{"no store", []string{"report"}, "no store configured"},
		{"bad date", []string{"log", "--sqlite", path, "--weight", "80", "--date", "03/02/2026"}, "YYYY-MM-DD"},
		{"invalid weight", []string{"log", "--sqlite", path, "--weight=-1"}, "invalid daily log"},
		{"missing weight", []string{"log", "--sqlite", path}, "weight"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	writeReport(&buf, flatLogs(21), dietmode.StandardCut, trend.DefaultTDEEDays)
	out := buf.String()
	for _, want := range []string{
		"Logs:        21 (2026-06-01 to 2026-06-21)",
		"TDEE:        2200 kcal (last 14 days)",
		"Plateau:     true_plateau",
		"-200 kcal",
		"-300 kcal",
		"Net:         -200 kcal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	writeReport(&buf, nil, dietmode.Maintenance, trend.DefaultTDEEDays)
	if buf.String() != "No logs yet.\n" {
		t.Errorf("empty report = %q", buf.String())
	}
}

func TestModesCommand(t *testing.T) {
	out, err := execute(t, "modes")
	if err != nil {
		t.Fatalf("modes: %v", err)
	}
	for _, m := range dietmode.All() {
		if !strings.Contains(out, string(m)) {
			t.Errorf("modes output missing %s", m)
		}
	}
}
