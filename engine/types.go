/*
Package engine provides the core revenue aggregation and reconciliation engine.

PURPOSE:
  This package contains the pure computation that turns one day's
  heterogeneous, schema-evolving sales record into reliable quantity/value
  totals, and that combines many days into range reports. The same functions
  back both the live in-form preview and the authoritative multi-day reports,
  so the two can never drift apart numerically.

KEY CONCEPTS IN THIS FILE (types.go):
  - Total: A {quantity, value} pair (decimal-based, no float drift)
  - DailyRecord: One calendar day of sales data, keyed by ISO date
  - PeriodData: A period's payload as decoded, loosely typed JSON
  - Ledger/LedgerItem: Itemized billed / internal-consumption entries
  - Event/SubEvent: Banquet-style event entries

DESIGN PRINCIPLES:
  1. Purity: The engine never mutates records, it only derives reports
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Null-safety: Absent or unparseable data contributes zero, never panics
  4. Dual-schema: Legacy and itemized billing blocks are both summed,
     indefinitely, because historical records were never force-migrated

SEE ALSO:
  - coerce.go: Null-safe numeric extraction from loose JSON
  - total.go: Generic period totals
  - reconcile.go: Legacy vs itemized billing reconciliation
  - daily.go: One day's full breakdown
  - report.go: Multi-day report builders
*/
package engine

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TOTAL - Quantity/value pair
// =============================================================================

// Total is a quantity/value pair. Every category, channel, sub-tab and report
// cell in the system reduces to one of these.
type Total struct {
	Quantity decimal.Decimal `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

func NewTotal(quantity, value float64) Total {
	return Total{
		Quantity: decimal.NewFromFloat(quantity),
		Value:    decimal.NewFromFloat(value),
	}
}

func ZeroTotal() Total {
	return Total{Quantity: decimal.Zero, Value: decimal.Zero}
}

func (t Total) Add(o Total) Total {
	return Total{Quantity: t.Quantity.Add(o.Quantity), Value: t.Value.Add(o.Value)}
}

func (t Total) Sub(o Total) Total {
	return Total{Quantity: t.Quantity.Sub(o.Quantity), Value: t.Value.Sub(o.Value)}
}

func (t Total) AddValue(v decimal.Decimal) Total {
	return Total{Quantity: t.Quantity, Value: t.Value.Add(v)}
}

func (t Total) IsZero() bool {
	return t.Quantity.IsZero() && t.Value.IsZero()
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// PeriodID names a service window or control sheet (e.g. "lunch-shift-1").
type PeriodID string

// CategoryID names a general-report column. Consolidation maps several
// periods onto one category (both lunch shifts report under "lunch").
type CategoryID string

// SubTabID names a sub-category inside a period (e.g. "delivery", "billed").
// Period reports also use it for dynamically discovered channel ids.
type SubTabID string

// =============================================================================
// DAILY RECORD - One calendar day of sales data
// =============================================================================

// DateLayout is the ISO layout used for record identities and range bounds.
const DateLayout = "2006-01-02"

// DailyRecord holds one day's sales data. The ISO date string is the record's
// identity. Period payloads are kept as raw JSON: the stored schema evolved
// over time and old shapes must remain readable forever, so decoding is
// deferred to the aggregation path where a malformed payload degrades to an
// all-zero period instead of failing the day.
type DailyRecord struct {
	Date    string                       `json:"date"`
	Notes   string                       `json:"notes,omitempty"`
	Periods map[PeriodID]json.RawMessage `json:"periods"`
}

// Day parses the record's identity date.
func (r *DailyRecord) Day() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// =============================================================================
// PERIOD DATA - Decoded, loosely typed period payload
// =============================================================================

// PeriodData is a period payload after JSON decoding. It is deliberately
// loose: channels, sub-tabs, ledgers and legacy blocks all live in the same
// map shape, and every numeric read goes through NumberAt.
type PeriodData map[string]any

// DecodePeriod decodes a raw period payload. A nil payload yields an empty
// PeriodData; a malformed one yields an error the caller converts into a
// diagnostic (never a failure of the whole day).
func DecodePeriod(raw json.RawMessage) (PeriodData, error) {
	if len(raw) == 0 {
		return PeriodData{}, nil
	}
	var data PeriodData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// SubTab returns the raw value stored under a sub-category id, or nil.
func (p PeriodData) SubTab(id SubTabID) any {
	if p == nil {
		return nil
	}
	return p[string(id)]
}

// =============================================================================
// ITEMIZED LEDGERS - Post-migration billing representation
// =============================================================================

// LedgerKind distinguishes the two itemized ledger lists.
type LedgerKind string

const (
	LedgerBilled              LedgerKind = "billed"
	LedgerInternalConsumption LedgerKind = "internal-consumption"
)

// LedgerItem is one line of an itemized ledger: a person or sector billed,
// or an in-house consumption entry.
type LedgerItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	Observation string          `json:"observation,omitempty"`
}

// Ledger is an itemized ledger sub-tab: an ordered item list plus, for the
// internal-consumption kind, a manual adjustment delta tracked separately.
type Ledger struct {
	Items      []LedgerItem
	Adjustment decimal.Decimal
}

// Sum folds the ledger's items. The adjustment is NOT included here; it is
// reconciled separately (see reconcile.go).
func (l Ledger) Sum() Total {
	total := ZeroTotal()
	for _, item := range l.Items {
		total = total.Add(Total{Quantity: item.Quantity, Value: item.Value})
	}
	return total
}

// LedgerAt extracts a ledger from a sub-tab value. Accepts both the object
// form {"items": [...], "adjustment": n} and a bare item array (older saves
// wrote the array directly). Anything unreadable yields an empty ledger.
func LedgerAt(v any) Ledger {
	ledger := Ledger{Adjustment: decimal.Zero}
	var items any
	switch tab := v.(type) {
	case map[string]any:
		items = tab["items"]
		ledger.Adjustment = DecimalOf(tab["adjustment"])
	case []any:
		items = tab
	default:
		return ledger
	}
	list, ok := items.([]any)
	if !ok {
		return ledger
	}
	for _, raw := range list {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		ledger.Items = append(ledger.Items, LedgerItem{
			ID:          StringAt(entry, "id"),
			Name:        StringAt(entry, "name"),
			Type:        StringAt(entry, "type"),
			Quantity:    DecimalOf(entry["quantity"]),
			Value:       DecimalOf(entry["value"]),
			Observation: StringAt(entry, "observation"),
		})
	}
	return ledger
}

// =============================================================================
// EVENTS - Banquet/event period entries
// =============================================================================

// SubEvent is one service within an event (a location served in a given way).
type SubEvent struct {
	Location    string
	ServiceType string
	Quantity    decimal.Decimal
	TotalValue  decimal.Decimal
}

// Event is a named event with its services.
type Event struct {
	Name      string
	SubEvents []SubEvent
}

// EventsAt extracts the event list stored under the payload's "events" key.
func EventsAt(data PeriodData) []Event {
	var raw any = data["events"]
	if raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	var events []Event
	for _, e := range list {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		event := Event{Name: StringAt(entry, "name")}
		if subs, ok := entry["subEvents"].([]any); ok {
			for _, s := range subs {
				sub, ok := s.(map[string]any)
				if !ok {
					continue
				}
				event.SubEvents = append(event.SubEvents, SubEvent{
					Location:    StringAt(sub, "location"),
					ServiceType: StringAt(sub, "serviceType"),
					Quantity:    DecimalOf(sub["quantity"]),
					TotalValue:  DecimalOf(sub["totalValue"]),
				})
			}
		}
		events = append(events, event)
	}
	return events
}
