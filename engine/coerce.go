/*
coerce.go - Null-safe numeric extraction from loosely typed data

PURPOSE:
  The engine's universal null-safety primitive. Every leaf read of a stored
  record goes through NumberAt/DecimalOf: a missing path, a nil value or an
  unparseable string contributes zero to a total and never raises an error.

WHY SO DEFENSIVE:
  Records were written by several generations of forms. Numbers arrive as
  JSON numbers, as "12.50", as "12,50" (comma decimal separator from
  pt-BR keyboards) and as "1.234,56" (thousands dots). Old saves omit
  whole blocks. None of that may ever abort a report.

SEE ALSO:
  - types.go: LedgerAt/EventsAt use DecimalOf for item fields
  - reconcile.go: legacy block reads use NumberAt with dotted paths
*/
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NumberAt traverses a dotted path into a possibly absent nested structure
// and coerces the leaf to a decimal. Returns zero for a missing path, nil,
// or a non-numeric leaf.
//
//	NumberAt(period, "billing-and-internal-consumption.billed-hotel.value")
func NumberAt(container any, path string) decimal.Decimal {
	return DecimalOf(valueAt(container, path))
}

// StringAt traverses a dotted path and returns the leaf as a string, or ""
// when the path is absent or the leaf is not a string.
func StringAt(container any, path string) string {
	if s, ok := valueAt(container, path).(string); ok {
		return s
	}
	return ""
}

// valueAt walks one map level per path segment. Only string-keyed maps are
// traversed; anything else terminates the walk.
func valueAt(container any, path string) any {
	current := container
	if pd, ok := current.(PeriodData); ok {
		current = map[string]any(pd)
	}
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[segment]
	}
	return current
}

// DecimalOf coerces a single loose value to a decimal. Handles JSON numbers
// (float64), Go ints from in-process construction, decimals passed through,
// and user-entered strings with either "." or "," as the decimal separator.
func DecimalOf(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case float64:
		return decimal.NewFromFloat(n)
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case string:
		return decimalFromString(n)
	default:
		return decimal.Zero
	}
}

func decimalFromString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") {
		// pt-BR form: dots are thousands separators, comma is decimal.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
