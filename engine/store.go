/*
store.go - Persistence collaborator interface

PURPOSE:
  The engine itself performs no I/O; records are supplied by a RecordStore.
  Implementations exist for SQLite (production) and memory (tests/demos).

CONTRACT:
  - GetRecord returns ErrRecordNotFound (wrapped or bare) for absent dates;
    days with no entered data simply have no record.
  - GetRecords is inclusive on both ISO yyyy-MM-dd bounds and returns
    records in ascending date order.
  - SaveRecord fully replaces the stored period payloads it carries; the
    storage layer never patches individual fields.
  - Store failures are the collaborator's own error category: the engine
    wraps and surfaces them, it never absorbs them into zeroes.

SEE ALSO:
  - engine/store/memory.go: in-memory implementation
  - store/sqlite/sqlite.go:  SQLite implementation
*/
package engine

import (
	"context"
	"fmt"
	"time"
)

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return t, nil
}

// DateRange is an inclusive ISO date range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Validate checks both bounds parse and are ordered.
func (r DateRange) Validate() error {
	start, err := parseDate(r.Start)
	if err != nil {
		return err
	}
	end, err := parseDate(r.End)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return ErrInvalidRange
	}
	return nil
}

// RecordStore is the persistence collaborator consumed by the engine.
type RecordStore interface {
	// GetRecord returns the record for an ISO date, or ErrRecordNotFound.
	GetRecord(ctx context.Context, dateID string) (*DailyRecord, error)

	// GetRecords returns the records in range, ascending by date.
	GetRecords(ctx context.Context, rng DateRange) ([]DailyRecord, error)

	// SaveRecord creates or fully replaces a day's record.
	SaveRecord(ctx context.Context, rec *DailyRecord) error
}
