// Package store provides RecordStore implementations.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/warp/revenue-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[string]engine.DailyRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]engine.DailyRecord)}
}

// GetRecord returns the record for a date. Reads hand out copies so report
// requests never share mutable period payloads.
func (m *Memory) GetRecord(_ context.Context, dateID string) (*engine.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[dateID]
	if !ok {
		return nil, engine.ErrRecordNotFound
	}
	out := copyRecord(rec)
	return &out, nil
}

// GetRecords returns the records whose date sorts inside the inclusive
// range, ascending. ISO dates sort lexicographically, so no parsing is
// needed here; records with garbage dates are passed through for the
// engine to diagnose.
func (m *Memory) GetRecords(_ context.Context, rng engine.DateRange) ([]engine.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.DailyRecord
	for date, rec := range m.records {
		if date >= rng.Start && date <= rng.End {
			out = append(out, copyRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// SaveRecord creates or fully replaces a day's record.
func (m *Memory) SaveRecord(_ context.Context, rec *engine.DailyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.Date] = copyRecord(*rec)
	return nil
}

func copyRecord(rec engine.DailyRecord) engine.DailyRecord {
	out := rec
	out.Periods = make(map[engine.PeriodID]json.RawMessage, len(rec.Periods))
	for id, raw := range rec.Periods {
		out.Periods[id] = append(json.RawMessage(nil), raw...)
	}
	return out
}
