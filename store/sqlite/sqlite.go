/*
Package sqlite provides a SQLite-backed implementation of engine.RecordStore.

PURPOSE:
  Persists one row per calendar day. The ISO date string is the primary key;
  period payloads are stored as a single JSON document. In production the
  same pattern applies to PostgreSQL - only minor SQL dialect differences.

SCHEMA:
  daily_records:
    date        TEXT PRIMARY KEY   ISO yyyy-MM-dd, the record identity
    notes       TEXT               free-text general notes
    periods     TEXT NOT NULL      JSON: period id -> payload
    created_at  TEXT NOT NULL
    updated_at  TEXT NOT NULL

FULL-REPLACE SEMANTICS:
  SaveRecord upserts the whole periods document. The storage layer never
  patches individual fields; the form layer always sends the day's complete
  period payloads.

LEDGER ITEM IDS:
  Itemized ledger lines created by older form versions arrive without ids.
  The save path assigns a UUID to any item missing one, so lines stay
  addressable across edits.

WAL MODE:
  SQLite is opened with WAL for concurrent report reads during saves.

USAGE:
  store, err := sqlite.New("./data/revenue.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: interface contract
  - engine/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/revenue-engine/engine"
)

// Store implements engine.RecordStore using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_records (
		date       TEXT PRIMARY KEY,
		notes      TEXT NOT NULL DEFAULT '',
		periods    TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD STORE
// =============================================================================

// GetRecord returns the record for an ISO date, or engine.ErrRecordNotFound.
func (s *Store) GetRecord(ctx context.Context, dateID string) (*engine.DailyRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT date, notes, periods FROM daily_records WHERE date = ?`, dateID)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", engine.ErrRecordNotFound, dateID)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRecords returns the records in the inclusive range, ascending by date.
// ISO dates compare lexicographically, so BETWEEN on the text column is
// exact.
func (s *Store) GetRecords(ctx context.Context, rng engine.DateRange) ([]engine.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, notes, periods FROM daily_records
		 WHERE date BETWEEN ? AND ?
		 ORDER BY date ASC`, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	defer rows.Close()

	var out []engine.DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// SaveRecord creates or fully replaces a day's record.
func (s *Store) SaveRecord(ctx context.Context, rec *engine.DailyRecord) error {
	if _, err := rec.Day(); err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	periods, err := marshalPeriods(rec.Periods)
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.Date, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_records (date, notes, periods, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			notes      = excluded.notes,
			periods    = excluded.periods,
			updated_at = excluded.updated_at`,
		rec.Date, rec.Notes, periods, now, now)
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.Date, err)
	}
	return nil
}

func scanRecord(scan func(dest ...any) error) (*engine.DailyRecord, error) {
	var (
		rec     engine.DailyRecord
		periods string
	)
	if err := scan(&rec.Date, &rec.Notes, &periods); err != nil {
		return nil, err
	}
	// The periods document is decoded only one level deep; individual period
	// payloads stay raw so the engine can diagnose malformed ones per period
	// instead of this layer rejecting the whole day.
	if err := json.Unmarshal([]byte(periods), &rec.Periods); err != nil {
		rec.Periods = map[engine.PeriodID]json.RawMessage{}
	}
	return &rec, nil
}

// =============================================================================
// SAVE-PATH NORMALIZATION
// =============================================================================

// marshalPeriods re-encodes the periods document, assigning ids to ledger
// items that lack one. Payloads that are not objects are stored untouched.
func marshalPeriods(periods map[engine.PeriodID]json.RawMessage) (string, error) {
	normalized := make(map[engine.PeriodID]json.RawMessage, len(periods))
	for id, raw := range periods {
		normalized[id] = ensureItemIDs(raw)
	}
	doc, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(doc), nil
}

func ensureItemIDs(raw json.RawMessage) json.RawMessage {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return raw
	}
	changed := false
	for _, tab := range payload {
		obj, ok := tab.(map[string]any)
		if !ok {
			continue
		}
		items, ok := obj["items"].([]any)
		if !ok {
			continue
		}
		for _, it := range items {
			item, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if id, _ := item["id"].(string); id == "" {
				item["id"] = uuid.NewString()
				changed = true
			}
		}
	}
	if !changed {
		return raw
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return raw
	}
	return out
}
