/*
errors.go - Centralized error types and diagnostics for the engine

PURPOSE:
  All engine error types in one place. Two distinct families exist:

  1. Errors   - returned to callers (bad range, unknown period, registry
                misconfiguration, store failures passed through wrapped)
  2. Diagnostics - recorded, never raised. A fault in one day's data must
                never abort a multi-day report, so malformed period payloads
                and unparseable record dates degrade to zeroes/exclusion and
                leave a Diagnostic on the result instead.

USAGE:
  if errors.Is(err, engine.ErrUnknownPeriod) { ... }

SEE ALSO:
  - daily.go: emits MalformedPeriodData diagnostics
  - report.go: emits InvalidDate diagnostics, wraps store errors
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a report range is malformed
	// (unparseable bound, or end before start).
	ErrInvalidRange = errors.New("invalid date range")

	// ErrUnknownPeriod is returned when a period report names an id the
	// registry does not define (the virtual "lunch" id excepted).
	ErrUnknownPeriod = errors.New("unknown period id")

	// ErrRecordNotFound is returned by stores when no record exists for a
	// date. Absence is normal: days with no entered data simply have no row.
	ErrRecordNotFound = errors.New("record not found")

	// Registry construction errors.
	ErrEmptyPeriodID     = errors.New("empty period id")
	ErrDuplicatePeriodID = errors.New("duplicate period id")
	ErrReconciledShape   = errors.New("reconciled period must be sub-tabbed")
)

// IsClientError reports whether the error is due to invalid caller input,
// as opposed to a persistence failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrUnknownPeriod)
}

// =============================================================================
// DIAGNOSTICS - Recorded faults that never abort a computation
// =============================================================================

type DiagnosticCode string

const (
	// DiagMalformedPeriod: a stored period payload could not be parsed.
	// The period was treated as all-zero and the day still produced a row.
	DiagMalformedPeriod DiagnosticCode = "malformed_period_data"

	// DiagInvalidDate: a record's date could not be parsed. The record was
	// excluded from the range computation.
	DiagInvalidDate DiagnosticCode = "invalid_date"
)

// Diagnostic records a data fault the engine worked around.
type Diagnostic struct {
	Code   DiagnosticCode `json:"code"`
	Date   string         `json:"date"`
	Period PeriodID       `json:"period,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Period != "" {
		return fmt.Sprintf("%s: %s/%s: %s", d.Code, d.Date, d.Period, d.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", d.Code, d.Date, d.Detail)
}
