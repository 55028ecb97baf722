/*
periods.go - Data-driven period and category registry

PURPOSE:
  Declares WHICH periods exist and how each one is shaped, as data rather
  than code. New sales channels and sub-categories ship as registry entries,
  so the total calculator stays a single generic fold instead of growing a
  branch per category.

KEY CONCEPTS:
  - PeriodDef:  one service window (kind, sub-tabs, report category)
  - SubTabDef:  one sub-category inside a sub-tabbed period
  - Registry:   the validated set of period definitions
  - Reconciled periods: the three shifts that carry BOTH the legacy
    "billing-and-internal-consumption" block and the itemized ledgers

CONSOLIDATION:
  Each PeriodDef names the general-report category it reports under. The two
  lunch shifts both name "lunch"; the minibar sub-tab of every reconciled
  shift reports under "minibar" together with the minibar control sheet.

SEE ALSO:
  - factory/registry.go: JSON configuration -> Registry
  - reconcile.go: uses the sub-tab groups of reconciled periods
*/
package engine

import (
	"fmt"
	"sort"
)

// =============================================================================
// KINDS AND GROUPS
// =============================================================================

// PeriodKind selects the payload shape of a period.
type PeriodKind string

const (
	KindChannels  PeriodKind = "channels"  // flat channel -> {quantity, value} map
	KindSubTabbed PeriodKind = "subtabbed" // named sub-tabs (channels, ledgers, legacy)
	KindEvents    PeriodKind = "events"    // event list with sub-events
)

// SubTabKind selects the payload shape of one sub-tab.
type SubTabKind string

const (
	SubTabChannels SubTabKind = "channels"
	SubTabLedger   SubTabKind = "ledger"
	SubTabLegacy   SubTabKind = "legacy" // pre-migration billing+CI block
)

// ComponentGroup assigns a sub-tab to one of the reconciliation formula's
// components (restaurant floor, room service, minibar, billing).
type ComponentGroup string

const (
	GroupRestaurant  ComponentGroup = "restaurant"
	GroupRoomService ComponentGroup = "room-service"
	GroupMinibar     ComponentGroup = "minibar"
	GroupBilling     ComponentGroup = "billing"
)

// =============================================================================
// DEFINITIONS
// =============================================================================

type SubTabDef struct {
	ID         SubTabID
	Name       string
	Kind       SubTabKind
	Group      ComponentGroup
	LedgerKind LedgerKind // set when Kind == SubTabLedger
}

type PeriodDef struct {
	ID   PeriodID
	Name string
	Kind PeriodKind

	// Reconciled marks the shift periods that underwent the billing schema
	// split and need the legacy + itemized merge.
	Reconciled bool

	// Category is the general-report column this period reports under.
	Category CategoryID

	// SubTabs applies to KindSubTabbed periods only.
	SubTabs []SubTabDef
}

// LedgerTab returns the sub-tab carrying the given itemized ledger kind.
func (d *PeriodDef) LedgerTab(kind LedgerKind) (SubTabDef, bool) {
	for _, tab := range d.SubTabs {
		if tab.Kind == SubTabLedger && tab.LedgerKind == kind {
			return tab, true
		}
	}
	return SubTabDef{}, false
}

// LegacyTab returns the pre-migration billing block sub-tab, if defined.
func (d *PeriodDef) LegacyTab() (SubTabDef, bool) {
	for _, tab := range d.SubTabs {
		if tab.Kind == SubTabLegacy {
			return tab, true
		}
	}
	return SubTabDef{}, false
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is the validated set of period definitions. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	periods []PeriodDef
	byID    map[PeriodID]*PeriodDef
}

func NewRegistry(defs []PeriodDef) (*Registry, error) {
	r := &Registry{
		periods: make([]PeriodDef, len(defs)),
		byID:    make(map[PeriodID]*PeriodDef, len(defs)),
	}
	copy(r.periods, defs)
	for i := range r.periods {
		def := &r.periods[i]
		if def.ID == "" {
			return nil, fmt.Errorf("period %d: %w", i, ErrEmptyPeriodID)
		}
		if _, exists := r.byID[def.ID]; exists {
			return nil, fmt.Errorf("period %q: %w", def.ID, ErrDuplicatePeriodID)
		}
		if def.Category == "" {
			def.Category = CategoryID(def.ID)
		}
		if def.Reconciled && def.Kind != KindSubTabbed {
			return nil, fmt.Errorf("period %q: %w", def.ID, ErrReconciledShape)
		}
		r.byID[def.ID] = def
	}
	return r, nil
}

// Period looks up a definition by id.
func (r *Registry) Period(id PeriodID) (*PeriodDef, bool) {
	def, ok := r.byID[id]
	return def, ok
}

// Periods returns the definitions in declaration order.
func (r *Registry) Periods() []PeriodDef {
	return r.periods
}

// ReconciledPeriods returns the shift periods in declaration order.
func (r *Registry) ReconciledPeriods() []PeriodDef {
	var out []PeriodDef
	for _, def := range r.periods {
		if def.Reconciled {
			out = append(out, def)
		}
	}
	return out
}

// Categories returns every general-report column in a stable order:
// declaration order of the first period reporting under each category, with
// the consolidated minibar column appended if any period feeds it.
func (r *Registry) Categories() []CategoryID {
	seen := make(map[CategoryID]bool)
	var out []CategoryID
	add := func(c CategoryID) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, def := range r.periods {
		add(def.Category)
		if def.Reconciled {
			add(CategoryMinibar)
		}
	}
	return out
}

// sortedSubTabIDs is shared by report builders that discover sub-category
// ids dynamically from the data.
func sortedSubTabIDs(set map[SubTabID]bool) []SubTabID {
	ids := make([]SubTabID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// =============================================================================
// DEFAULT REGISTRY - The hotel's current period set
// =============================================================================

// Well-known identifiers. The virtual "lunch" period id is accepted by the
// period report and fans out to both lunch shifts.
const (
	PeriodBreakfast     PeriodID = "breakfast"
	PeriodLunchShift1   PeriodID = "lunch-shift-1"
	PeriodLunchShift2   PeriodID = "lunch-shift-2"
	PeriodDinner        PeriodID = "dinner"
	PeriodEvents        PeriodID = "events"
	PeriodMinibar       PeriodID = "minibar-control"
	PeriodNoShow        PeriodID = "no-show-control"
	PeriodPizzeria      PeriodID = "pizzeria"
	PeriodRodizio       PeriodID = "rodizio"
	VirtualPeriodLunch  PeriodID = "lunch"

	CategoryLunch   CategoryID = "lunch"
	CategoryMinibar CategoryID = "minibar"
)

// Sub-tab ids of the reconciled shift periods.
const (
	SubTabGuests      SubTabID = "guests"
	SubTabTable       SubTabID = "table"
	SubTabDelivery    SubTabID = "delivery"
	SubTabTakeaway    SubTabID = "takeaway"
	SubTabRoomService SubTabID = "room-service"
	SubTabMinibar     SubTabID = "minibar"
	SubTabLegacyBlock SubTabID = "billing-and-internal-consumption"
	SubTabBilled      SubTabID = "billed"
	SubTabInternal    SubTabID = "internal-consumption"
)

func shiftSubTabs() []SubTabDef {
	return []SubTabDef{
		{ID: SubTabGuests, Name: "Guests", Kind: SubTabChannels, Group: GroupRestaurant},
		{ID: SubTabTable, Name: "Table", Kind: SubTabChannels, Group: GroupRestaurant},
		{ID: SubTabDelivery, Name: "Delivery", Kind: SubTabChannels, Group: GroupRestaurant},
		{ID: SubTabTakeaway, Name: "Takeaway", Kind: SubTabChannels, Group: GroupRestaurant},
		{ID: SubTabRoomService, Name: "Room Service", Kind: SubTabChannels, Group: GroupRoomService},
		{ID: SubTabMinibar, Name: "Minibar", Kind: SubTabChannels, Group: GroupMinibar},
		{ID: SubTabLegacyBlock, Name: "Billing & Internal Consumption (legacy)", Kind: SubTabLegacy, Group: GroupBilling},
		{ID: SubTabBilled, Name: "Billed", Kind: SubTabLedger, Group: GroupBilling, LedgerKind: LedgerBilled},
		{ID: SubTabInternal, Name: "Internal Consumption", Kind: SubTabLedger, Group: GroupBilling, LedgerKind: LedgerInternalConsumption},
	}
}

// DefaultRegistry returns the hotel's current period set. Deployments with a
// different set load their own via factory.ParseRegistry.
func DefaultRegistry() *Registry {
	r, err := NewRegistry([]PeriodDef{
		{ID: PeriodBreakfast, Name: "Breakfast", Kind: KindChannels},
		{ID: PeriodLunchShift1, Name: "Lunch Shift 1", Kind: KindSubTabbed, Reconciled: true, Category: CategoryLunch, SubTabs: shiftSubTabs()},
		{ID: PeriodLunchShift2, Name: "Lunch Shift 2", Kind: KindSubTabbed, Reconciled: true, Category: CategoryLunch, SubTabs: shiftSubTabs()},
		{ID: PeriodDinner, Name: "Dinner", Kind: KindSubTabbed, Reconciled: true, SubTabs: shiftSubTabs()},
		{ID: PeriodPizzeria, Name: "Pizzeria", Kind: KindChannels},
		{ID: PeriodRodizio, Name: "Rodízio", Kind: KindChannels},
		{ID: PeriodEvents, Name: "Events", Kind: KindEvents},
		{ID: PeriodMinibar, Name: "Minibar Control", Kind: KindChannels, Category: CategoryMinibar},
		{ID: PeriodNoShow, Name: "No-Show Control", Kind: KindChannels},
	})
	if err != nil {
		// The built-in set is validated by tests; this cannot happen at runtime.
		panic(err)
	}
	return r
}
