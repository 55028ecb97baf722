/*
report.go - Multi-day report builders

PURPOSE:
  Combines many days into range reports without double-counting or silently
  losing money. Two shapes exist:

  GENERAL REPORT: one DailyRow per date (category columns) plus a range
  summary that sums every column and recomputes ticket médio from the summed
  net figures (never by averaging the per-day averages).

  PERIOD REPORT: one period id (or the virtual "lunch" id, which fans out to
  both lunch shifts), broken down per sub-category and per day, plus a
  summary per sub-category. Only the reconciled shift periods get the two
  extra subtotals "with internal consumption" and "without internal
  consumption"; for other periods CI does not apply.

ERROR POLICY:
  Records whose date does not parse are excluded with an InvalidDate
  diagnostic. Store failures are wrapped and returned to the caller; the
  engine never converts a persistence failure into an empty report.
*/
package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// GENERAL REPORT
// =============================================================================

// Summary sums every general-report column across a range.
type Summary struct {
	Categories map[CategoryID]Total `json:"categories"`

	GrossQuantity decimal.Decimal `json:"grossQuantity"`
	NetQuantity   decimal.Decimal `json:"netQuantity"`
	GrossTotal    decimal.Decimal `json:"grossTotal"`
	NetTotal      decimal.Decimal `json:"netTotal"`

	InternalConsumptionQuantity decimal.Decimal `json:"internalConsumptionQuantity"`
	InternalConsumptionTotal    decimal.Decimal `json:"internalConsumptionTotal"`
	AdjustmentTotal             decimal.Decimal `json:"adjustmentTotal"`

	TicketMedio decimal.Decimal `json:"ticketMedio"`
}

// GeneralReport is the category-columns × date-rows report.
type GeneralReport struct {
	Range           DateRange    `json:"range"`
	DailyBreakdowns []DailyRow   `json:"dailyBreakdowns"`
	Summary         Summary      `json:"summary"`
	Diagnostics     []Diagnostic `json:"diagnostics,omitempty"`
}

// =============================================================================
// PERIOD REPORT
// =============================================================================

// PeriodRow is one day's total for one sub-category.
type PeriodRow struct {
	Date  string `json:"date"`
	Total Total  `json:"total"`
}

// PeriodReport is the sub-category breakdown of one period (or the virtual
// lunch period) over a range. GrossSubtotal/NetSubtotal are set only for
// the reconciled shift periods, where internal consumption applies.
type PeriodReport struct {
	Range    DateRange `json:"range"`
	PeriodID PeriodID  `json:"periodId"`

	DailyBreakdowns map[SubTabID][]PeriodRow `json:"dailyBreakdowns"`
	Summary         map[SubTabID]Total       `json:"summary"`

	GrossSubtotal *Total `json:"grossSubtotal,omitempty"`
	NetSubtotal   *Total `json:"netSubtotal,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Synthetic sub-category ids of reconciled period reports. The billing
// figures shown there are already reconciled (legacy + itemized summed).
const (
	SubTabAdjustment SubTabID = "adjustment"
)

// =============================================================================
// REPORTER
// =============================================================================

// Reporter builds range reports from a RecordStore. Stateless; every report
// request may run concurrently with its own fetch.
type Reporter struct {
	Aggregator *Aggregator
	Store      RecordStore
}

func NewReporter(store RecordStore, registry *Registry) *Reporter {
	return &Reporter{Aggregator: NewAggregator(registry), Store: store}
}

// fetch validates the range, loads the records and filters out records with
// unparseable dates, diagnosing each exclusion.
func (rp *Reporter) fetch(ctx context.Context, rng DateRange) ([]DailyRecord, []Diagnostic, error) {
	if err := rng.Validate(); err != nil {
		return nil, nil, err
	}
	records, err := rp.Store.GetRecords(ctx, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("load records %s..%s: %w", rng.Start, rng.End, err)
	}
	var (
		valid []DailyRecord
		diags []Diagnostic
	)
	for _, rec := range records {
		if _, err := rec.Day(); err != nil {
			diags = append(diags, Diagnostic{
				Code:   DiagInvalidDate,
				Date:   rec.Date,
				Detail: err.Error(),
			})
			continue
		}
		valid = append(valid, rec)
	}
	return valid, diags, nil
}

// GeneralReport aggregates every day in range and sums the range summary.
func (rp *Reporter) GeneralReport(ctx context.Context, rng DateRange) (*GeneralReport, error) {
	records, diags, err := rp.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}

	report := &GeneralReport{
		Range:       rng,
		Diagnostics: diags,
		Summary: Summary{
			Categories:                  make(map[CategoryID]Total),
			GrossQuantity:               decimal.Zero,
			NetQuantity:                 decimal.Zero,
			GrossTotal:                  decimal.Zero,
			NetTotal:                    decimal.Zero,
			InternalConsumptionQuantity: decimal.Zero,
			InternalConsumptionTotal:    decimal.Zero,
			AdjustmentTotal:             decimal.Zero,
			TicketMedio:                 decimal.Zero,
		},
	}
	for _, id := range rp.Aggregator.Registry.Categories() {
		report.Summary.Categories[id] = ZeroTotal()
	}

	summary := &report.Summary
	for _, rec := range records {
		row := rp.Aggregator.AggregateDay(rec)
		report.DailyBreakdowns = append(report.DailyBreakdowns, row)
		report.Diagnostics = append(report.Diagnostics, row.Diagnostics...)

		for id, total := range row.Categories {
			summary.Categories[id] = summary.Categories[id].Add(total)
		}
		summary.GrossQuantity = summary.GrossQuantity.Add(row.GrossQuantity)
		summary.NetQuantity = summary.NetQuantity.Add(row.NetQuantity)
		summary.GrossTotal = summary.GrossTotal.Add(row.GrossTotal)
		summary.NetTotal = summary.NetTotal.Add(row.NetTotal)
		summary.InternalConsumptionQuantity = summary.InternalConsumptionQuantity.Add(row.InternalConsumptionQuantity)
		summary.InternalConsumptionTotal = summary.InternalConsumptionTotal.Add(row.InternalConsumptionTotal)
		summary.AdjustmentTotal = summary.AdjustmentTotal.Add(row.AdjustmentTotal)
	}

	// Recomputed from the summed figures, never averaged across days.
	summary.TicketMedio = ticketMedio(summary.NetTotal, summary.NetQuantity)
	return report, nil
}

// resolvePeriods maps a requested period id to the concrete definitions it
// covers. The virtual "lunch" id fans out to both lunch shifts.
func (rp *Reporter) resolvePeriods(id PeriodID) ([]*PeriodDef, error) {
	registry := rp.Aggregator.Registry
	if id == VirtualPeriodLunch {
		var defs []*PeriodDef
		for _, shiftID := range []PeriodID{PeriodLunchShift1, PeriodLunchShift2} {
			if def, ok := registry.Period(shiftID); ok {
				defs = append(defs, def)
			}
		}
		if len(defs) > 0 {
			return defs, nil
		}
	}
	if def, ok := registry.Period(id); ok {
		return []*PeriodDef{def}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, id)
}

// PeriodReport builds the per-sub-category breakdown of one period over a
// range.
func (rp *Reporter) PeriodReport(ctx context.Context, rng DateRange, periodID PeriodID) (*PeriodReport, error) {
	defs, err := rp.resolvePeriods(periodID)
	if err != nil {
		return nil, err
	}
	records, diags, err := rp.fetch(ctx, rng)
	if err != nil {
		return nil, err
	}

	report := &PeriodReport{
		Range:           rng,
		PeriodID:        periodID,
		DailyBreakdowns: make(map[SubTabID][]PeriodRow),
		Summary:         make(map[SubTabID]Total),
		Diagnostics:     diags,
	}

	reconciled := defs[0].Reconciled
	gross, net := ZeroTotal(), ZeroTotal()

	for _, rec := range records {
		day := make(map[SubTabID]Total)
		for _, def := range defs {
			data, err := DecodePeriod(rec.Periods[def.ID])
			if err != nil {
				report.Diagnostics = append(report.Diagnostics, Diagnostic{
					Code:   DiagMalformedPeriod,
					Date:   rec.Date,
					Period: def.ID,
					Detail: err.Error(),
				})
				continue
			}
			collectPeriodDay(def, data, day)
			if reconciled {
				shift := Reconcile(def, data)
				gross = gross.Add(shift.GrossTotal())
				net = net.Add(shift.NetContribution())
			}
		}
		for _, id := range sortedSubTabIDs(presentIDs(day)) {
			total := day[id]
			if total.IsZero() {
				continue
			}
			report.DailyBreakdowns[id] = append(report.DailyBreakdowns[id], PeriodRow{
				Date:  rec.Date,
				Total: total,
			})
			report.Summary[id] = report.Summary[id].Add(total)
		}
	}

	if reconciled {
		report.GrossSubtotal = &gross
		report.NetSubtotal = &net
	}
	return report, nil
}

func presentIDs(day map[SubTabID]Total) map[SubTabID]bool {
	set := make(map[SubTabID]bool, len(day))
	for id := range day {
		set[id] = true
	}
	return set
}

// collectPeriodDay accumulates one period's contribution to one day of a
// period report, keyed by sub-category:
//   - sub-tabbed periods: each declared sub-tab, with the billing figures
//     already reconciled across both schemas
//   - channel periods: each channel id found in the data
//   - event periods: each service type found in the data
func collectPeriodDay(def *PeriodDef, data PeriodData, day map[SubTabID]Total) {
	add := func(id SubTabID, t Total) {
		day[id] = day[id].Add(t)
	}

	if def.Reconciled {
		shift := Reconcile(def, data)
		for _, tab := range def.SubTabs {
			if tab.Kind == SubTabChannels {
				add(tab.ID, subTabTotal(tab, data.SubTab(tab.ID)))
			}
		}
		add(SubTabBilled, shift.GrossBilled())
		add(SubTabInternal, shift.GrossInternal())
		add(SubTabAdjustment, Total{Quantity: decimal.Zero, Value: shift.TotalAdjustment()})
		return
	}

	switch def.Kind {
	case KindChannels:
		for channel, entry := range data {
			add(SubTabID(channel), entryTotal(entry))
		}
	case KindSubTabbed:
		for _, tab := range def.SubTabs {
			add(tab.ID, subTabTotal(tab, data.SubTab(tab.ID)))
		}
	case KindEvents:
		for _, event := range EventsAt(data) {
			for _, sub := range event.SubEvents {
				id := SubTabID(sub.ServiceType)
				if id == "" {
					id = "unspecified"
				}
				add(id, Total{Quantity: sub.Quantity, Value: sub.TotalValue})
			}
		}
	}
}
