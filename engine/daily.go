/*
daily.go - One day's full breakdown

PURPOSE:
  Computes a DailyRow from a DailyRecord: every category's {quantity, value}
  plus grand totals with and without internal consumption. This is the single
  implementation behind BOTH the live in-form preview and the rows of the
  authoritative reports; the two execution contexts call the same function,
  so they cannot drift apart.

TOTALS:
  grossTotal    = sum over all category columns (CI included)
  ciTotal       = sum of grossInternal over the reconciled shifts
  adjustment    = sum of totalAdjustment over the reconciled shifts
  netTotal      = grossTotal - ciTotal - adjustment
  netQuantity   = grossQuantity - ciQuantity
  ticketMedio   = netTotal / netQuantity (zero when netQuantity is zero)

FAILURE POLICY:
  A period payload that fails to decode is treated as an all-zero channel
  period; the row is still produced and a MalformedPeriodData diagnostic is
  recorded. Nothing in this file returns an error.
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DAILY ROW - One day's aggregated breakdown
// =============================================================================

// DailyRow is one day's aggregate: a general-report row, and exactly what the
// in-form preview shows while the operator edits that day.
type DailyRow struct {
	Date  string `json:"date"`
	Notes string `json:"notes,omitempty"`

	// Categories maps each general-report column to its total. The two lunch
	// shifts are consolidated under "lunch"; every shift's minibar sub-total
	// and the minibar control sheet consolidate under "minibar".
	Categories map[CategoryID]Total `json:"categories"`

	// Shifts keeps the reconciled periods separately addressable, with their
	// legacy and itemized contributions explicit.
	Shifts map[PeriodID]ShiftReconciliation `json:"shifts"`

	GrossQuantity decimal.Decimal `json:"grossQuantity"`
	NetQuantity   decimal.Decimal `json:"netQuantity"`
	GrossTotal    decimal.Decimal `json:"grossTotal"`
	NetTotal      decimal.Decimal `json:"netTotal"`

	InternalConsumptionQuantity decimal.Decimal `json:"internalConsumptionQuantity"`
	InternalConsumptionTotal    decimal.Decimal `json:"internalConsumptionTotal"`
	AdjustmentTotal             decimal.Decimal `json:"adjustmentTotal"`

	// TicketMedio is the average net value per net unit sold.
	TicketMedio decimal.Decimal `json:"ticketMedio"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// ticketMedioPlaces bounds the division; monetary averages are shown to
// four decimal places before display rounding.
const ticketMedioPlaces = 4

func ticketMedio(net, netQty decimal.Decimal) decimal.Decimal {
	if netQty.IsZero() {
		return decimal.Zero
	}
	return net.DivRound(netQty, ticketMedioPlaces)
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator computes daily breakdowns against a period registry. It is
// stateless and safe for concurrent use.
type Aggregator struct {
	Registry *Registry
}

func NewAggregator(registry *Registry) *Aggregator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Aggregator{Registry: registry}
}

// AggregateDay computes one day's full breakdown. It never fails: malformed
// period payloads degrade to zeroes with a diagnostic.
func (a *Aggregator) AggregateDay(rec DailyRecord) DailyRow {
	row := DailyRow{
		Date:                        rec.Date,
		Notes:                       rec.Notes,
		Categories:                  make(map[CategoryID]Total),
		Shifts:                      make(map[PeriodID]ShiftReconciliation),
		GrossQuantity:               decimal.Zero,
		NetQuantity:                 decimal.Zero,
		GrossTotal:                  decimal.Zero,
		NetTotal:                    decimal.Zero,
		InternalConsumptionQuantity: decimal.Zero,
		InternalConsumptionTotal:    decimal.Zero,
		AdjustmentTotal:             decimal.Zero,
		TicketMedio:                 decimal.Zero,
	}

	categories := categoryTotals(row.Categories)
	for _, id := range a.Registry.Categories() {
		categories[id] = ZeroTotal()
	}

	defs := a.Registry.Periods()
	for i := range defs {
		def := &defs[i]
		data, err := DecodePeriod(rec.Periods[def.ID])
		if err != nil {
			row.Diagnostics = append(row.Diagnostics, Diagnostic{
				Code:   DiagMalformedPeriod,
				Date:   rec.Date,
				Period: def.ID,
				Detail: err.Error(),
			})
			data = PeriodData{}
		}

		if def.Reconciled {
			shift := Reconcile(def, data)
			row.Shifts[def.ID] = shift
			categories.add(def.Category, shift.CategoryContribution())
			categories.add(CategoryMinibar, shift.Minibar)

			ci := shift.GrossInternal()
			row.InternalConsumptionQuantity = row.InternalConsumptionQuantity.Add(ci.Quantity)
			row.InternalConsumptionTotal = row.InternalConsumptionTotal.Add(ci.Value)
			row.AdjustmentTotal = row.AdjustmentTotal.Add(shift.TotalAdjustment())
			continue
		}

		categories.add(def.Category, PeriodTotal(def, data))
	}

	for _, total := range row.Categories {
		row.GrossQuantity = row.GrossQuantity.Add(total.Quantity)
		row.GrossTotal = row.GrossTotal.Add(total.Value)
	}
	row.NetQuantity = row.GrossQuantity.Sub(row.InternalConsumptionQuantity)
	row.NetTotal = row.GrossTotal.
		Sub(row.InternalConsumptionTotal).
		Sub(row.AdjustmentTotal)
	row.TicketMedio = ticketMedio(row.NetTotal, row.NetQuantity)

	return row
}

// CalculateDayPreview is the live single-day preview used where the operator
// edits data. It is the same computation as a report row by construction.
func (a *Aggregator) CalculateDayPreview(rec DailyRecord) DailyRow {
	return a.AggregateDay(rec)
}
