// Package logstore loads and saves daily log sequences for the trend engine.
package logstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dcunning11235/macromanage/internal/trend"
)

// ErrInvalidLog is returned when a log fails the range checks in Validate.
var ErrInvalidLog = errors.New("invalid daily log")

// Source supplies a user's full log history in ascending date order.
type Source interface {
	Logs(ctx context.Context, userID int) ([]trend.DailyLog, error)
}

// Sink stores one day's log, replacing any log already stored for that date.
type Sink interface {
	Put(ctx context.Context, userID int, l trend.DailyLog) error
}

// Validate enforces the metric ranges the trend engine assumes.
func Validate(l trend.DailyLog) error {
	switch {
	case l.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidLog)
	case l.WeightKg <= 0 || l.WeightKg > 999.9:
		return fmt.Errorf("%w: weight_kg must be between 0 and 999.9", ErrInvalidLog)
	case l.BodyFatPct != nil && (*l.BodyFatPct <= 0 || *l.BodyFatPct >= 100):
		return fmt.Errorf("%w: body_fat_pct must be between 0 and 100", ErrInvalidLog)
	case l.Calories < 0 || l.ProteinG < 0 || l.CarbsG < 0 || l.FatG < 0:
		return fmt.Errorf("%w: calories and macros must not be negative", ErrInvalidLog)
	}
	return nil
}

// dayKey normalises a date to the civil day it names.
func dayKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

/* ─── Memory ─────────────────────────────────────────────────────────── */

// Memory is an in-process store for tests and one-shot CLI runs. Put and Logs
// are serialised by a mutex, so a Put that returns happens-before any later Logs.
type Memory struct {
	mu   sync.RWMutex
	logs map[int][]trend.DailyLog
}

var (
	_ Source = (*Memory)(nil)
	_ Sink   = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{logs: make(map[int][]trend.DailyLog)}
}

func (m *Memory) Put(_ context.Context, userID int, l trend.DailyLog) error {
	if err := Validate(l); err != nil {
		return err
	}
	l.Date = dayKey(l.Date)

	m.mu.Lock()
	defer m.mu.Unlock()

	logs := m.logs[userID]
	i, found := slices.BinarySearchFunc(logs, l.Date, func(e trend.DailyLog, d time.Time) int {
		return e.Date.Compare(d)
	})
	if found {
		logs[i] = l
	} else {
		logs = slices.Insert(logs, i, l)
	}
	m.logs[userID] = logs
	return nil
}

// Logs returns a copy; callers may reorder it freely.
func (m *Memory) Logs(_ context.Context, userID int) ([]trend.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.logs[userID]), nil
}
