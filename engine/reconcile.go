/*
reconcile.go - Legacy vs itemized billing reconciliation

PURPOSE:
  The billing schema of the three shift periods changed over time: a
  monolithic "billing-and-internal-consumption" channel block was split into
  two itemized ledgers ("billed" and "internal-consumption"). Historical
  records were never force-migrated, so some days carry only the legacy
  block, some only ledger items, and partially migrated days carry both.

POLICY - BOTH SOURCES ARE ALWAYS SUMMED:
  Summing legacy + itemized is the only policy that never loses revenue
  during the migration window. The trade-off is that the one-time migration
  job must zero the legacy fields once a day is rewritten, or totals
  overstate. To make that detectable, ShiftReconciliation keeps the legacy
  and itemized contributions EXPLICIT rather than silently folded: a
  migration pass can look for non-zero legacy contributions and zero them
  without touching the aggregation formula.

LEGACY BLOCK LAYOUT (fixed channel ids, read via NumberAt):
  billing-and-internal-consumption:
    billed:                           {quantity}          covered count
    billed-hotel:                     {value}             billed to the hotel
    billed-staff:                     {value}             billed to staff
    internal-consumption:             {quantity, value}   CI count and TOTAL
    internal-consumption-adjustment:  {value}             manual delta

  Note the stored CI value is the TOTAL including the adjustment; the net
  legacy CI contribution is total minus adjustment, with the adjustment
  tracked as its own component.

FORMULAS (per shift p):
  grossBilled(p)    = legacyBilled(p)    + itemizedBilled(p)
  grossInternal(p)  = legacyInternal(p)  + itemizedInternal(p)
  totalAdjustment(p)= legacyAdjustment(p)+ itemizedAdjustment(p)
  grossTotal(p)     = restaurant + roomService + minibar
                      + grossBilled + grossInternal + totalAdjustment
  netContribution(p)= grossTotal - grossInternal - totalAdjustment
*/
package engine

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Fixed channel ids of the legacy block.
const (
	legacyBilledPath     = "billed.quantity"
	legacyHotelPath      = "billed-hotel.value"
	legacyStaffPath      = "billed-staff.value"
	legacyCIQtyPath      = "internal-consumption.quantity"
	legacyCITotalPath    = "internal-consumption.value"
	legacyAdjustmentPath = "internal-consumption-adjustment.value"
)

// =============================================================================
// SHIFT RECONCILIATION - Explicit legacy/itemized breakdown of one shift
// =============================================================================

// ShiftReconciliation is one shift period's full breakdown. Legacy and
// itemized contributions stay separate; gross figures are derived.
type ShiftReconciliation struct {
	PeriodID PeriodID

	// Floor components (itemized ledgers do not apply to these).
	RestaurantChannels Total
	RoomService        Total
	Minibar            Total

	// Billing components, per source.
	LegacyBilled     Total
	ItemizedBilled   Total
	LegacyInternal   Total // value is CI total MINUS the legacy adjustment
	ItemizedInternal Total

	LegacyAdjustment   decimal.Decimal
	ItemizedAdjustment decimal.Decimal
}

// GrossBilled sums both billing sources. Intentionally NOT deduplicated:
// see the package comment on the migration-window policy.
func (s ShiftReconciliation) GrossBilled() Total {
	return s.LegacyBilled.Add(s.ItemizedBilled)
}

// GrossInternal sums both internal-consumption sources.
func (s ShiftReconciliation) GrossInternal() Total {
	return s.LegacyInternal.Add(s.ItemizedInternal)
}

// TotalAdjustment sums the manual CI adjustment deltas of both sources.
func (s ShiftReconciliation) TotalAdjustment() decimal.Decimal {
	return s.LegacyAdjustment.Add(s.ItemizedAdjustment)
}

// GrossTotal is the shift's full revenue including internal consumption.
func (s ShiftReconciliation) GrossTotal() Total {
	return s.RestaurantChannels.
		Add(s.RoomService).
		Add(s.Minibar).
		Add(s.GrossBilled()).
		Add(s.GrossInternal()).
		AddValue(s.TotalAdjustment())
}

// NetContribution is the shift's revenue excluding internal consumption and
// its adjustment.
func (s ShiftReconciliation) NetContribution() Total {
	return s.GrossTotal().
		Sub(s.GrossInternal()).
		AddValue(s.TotalAdjustment().Neg())
}

// CategoryContribution is what the shift reports under its general-report
// category: everything except the minibar sub-total, which consolidates
// into the shared minibar column instead.
func (s ShiftReconciliation) CategoryContribution() Total {
	return s.GrossTotal().Sub(s.Minibar)
}

// HasLegacyContribution reports whether any pre-migration field is still
// non-zero. The migration batch job uses this to find days left to rewrite.
func (s ShiftReconciliation) HasLegacyContribution() bool {
	return !s.LegacyBilled.IsZero() ||
		!s.LegacyInternal.IsZero() ||
		!s.LegacyAdjustment.IsZero()
}

// MarshalJSON emits the explicit contributions together with the derived
// gross/net figures, so API consumers never re-derive the formulas.
func (s ShiftReconciliation) MarshalJSON() ([]byte, error) {
	type component struct {
		Legacy   Total `json:"legacy"`
		Itemized Total `json:"itemized"`
		Gross    Total `json:"gross"`
	}
	return json.Marshal(struct {
		PeriodID           PeriodID        `json:"periodId"`
		RestaurantChannels Total           `json:"restaurantChannels"`
		RoomService        Total           `json:"roomService"`
		Minibar            Total           `json:"minibar"`
		Billed             component       `json:"billed"`
		Internal           component       `json:"internalConsumption"`
		LegacyAdjustment   decimal.Decimal `json:"legacyAdjustment"`
		ItemizedAdjustment decimal.Decimal `json:"itemizedAdjustment"`
		TotalAdjustment    decimal.Decimal `json:"totalAdjustment"`
		GrossTotal         Total           `json:"grossTotal"`
		NetContribution    Total           `json:"netContribution"`
		HasLegacy          bool            `json:"hasLegacyContribution"`
	}{
		PeriodID:           s.PeriodID,
		RestaurantChannels: s.RestaurantChannels,
		RoomService:        s.RoomService,
		Minibar:            s.Minibar,
		Billed:             component{Legacy: s.LegacyBilled, Itemized: s.ItemizedBilled, Gross: s.GrossBilled()},
		Internal:           component{Legacy: s.LegacyInternal, Itemized: s.ItemizedInternal, Gross: s.GrossInternal()},
		LegacyAdjustment:   s.LegacyAdjustment,
		ItemizedAdjustment: s.ItemizedAdjustment,
		TotalAdjustment:    s.TotalAdjustment(),
		GrossTotal:         s.GrossTotal(),
		NetContribution:    s.NetContribution(),
		HasLegacy:          s.HasLegacyContribution(),
	})
}

// =============================================================================
// RECONCILE - Merge the two billing schemas of one shift period
// =============================================================================

// Reconcile computes a shift period's breakdown from its decoded payload.
// Every read is coercion-safe: a day that predates any of the blocks simply
// contributes zeroes.
func Reconcile(def *PeriodDef, data PeriodData) ShiftReconciliation {
	rec := ShiftReconciliation{
		PeriodID:           def.ID,
		LegacyAdjustment:   decimal.Zero,
		ItemizedAdjustment: decimal.Zero,
	}

	for _, tab := range def.SubTabs {
		v := data.SubTab(tab.ID)
		switch tab.Kind {
		case SubTabChannels:
			total := subTabTotal(tab, v)
			switch tab.Group {
			case GroupRoomService:
				rec.RoomService = rec.RoomService.Add(total)
			case GroupMinibar:
				rec.Minibar = rec.Minibar.Add(total)
			default:
				rec.RestaurantChannels = rec.RestaurantChannels.Add(total)
			}
		case SubTabLedger:
			ledger := LedgerAt(v)
			switch tab.LedgerKind {
			case LedgerInternalConsumption:
				rec.ItemizedInternal = rec.ItemizedInternal.Add(ledger.Sum())
				rec.ItemizedAdjustment = rec.ItemizedAdjustment.Add(ledger.Adjustment)
			default:
				rec.ItemizedBilled = rec.ItemizedBilled.Add(ledger.Sum())
			}
		case SubTabLegacy:
			rec.LegacyBilled = Total{
				Quantity: NumberAt(v, legacyBilledPath),
				Value:    NumberAt(v, legacyHotelPath).Add(NumberAt(v, legacyStaffPath)),
			}
			rec.LegacyAdjustment = NumberAt(v, legacyAdjustmentPath)
			rec.LegacyInternal = Total{
				Quantity: NumberAt(v, legacyCIQtyPath),
				Value:    NumberAt(v, legacyCITotalPath).Sub(rec.LegacyAdjustment),
			}
		}
	}
	return rec
}
