/*
Package factory provides JSON to Go period-registry conversion.

PURPOSE:
  Converts JSON period definitions into an engine.Registry. This enables the
  period set to change without code changes - a new delivery platform, a new
  themed restaurant night or a new control sheet ships as configuration.

JSON SCHEMA:
  {
    "periods": [
      {"id": "breakfast", "name": "Breakfast", "kind": "channels"},
      {
        "id": "lunch-shift-1",
        "name": "Lunch Shift 1",
        "kind": "subtabbed",
        "reconciled": true,
        "category": "lunch",
        "subTabs": [
          {"id": "table", "kind": "channels", "group": "restaurant"},
          {"id": "billed", "kind": "ledger", "ledgerKind": "billed"},
          ...
        ]
      }
    ]
  }

KEY FEATURES:
  - Validates kinds, groups and ledger kinds
  - Defaults: category = period id, sub-tab group = restaurant
  - Empty input falls back to the built-in registry

USAGE:
  registry, err := factory.ParseRegistry(jsonBytes)

SEE ALSO:
  - engine/periods.go: registry semantics and the built-in default set
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/revenue-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type RegistryJSON struct {
	Periods []PeriodJSON `json:"periods"`
}

type PeriodJSON struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	Reconciled bool        `json:"reconciled,omitempty"`
	Category   string      `json:"category,omitempty"`
	SubTabs    []SubTabJSON `json:"subTabs,omitempty"`
}

type SubTabJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Kind       string `json:"kind"`
	Group      string `json:"group,omitempty"`
	LedgerKind string `json:"ledgerKind,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

var periodKinds = map[string]engine.PeriodKind{
	"channels":  engine.KindChannels,
	"subtabbed": engine.KindSubTabbed,
	"events":    engine.KindEvents,
}

var subTabKinds = map[string]engine.SubTabKind{
	"channels": engine.SubTabChannels,
	"ledger":   engine.SubTabLedger,
	"legacy":   engine.SubTabLegacy,
}

var groups = map[string]engine.ComponentGroup{
	"":             engine.GroupRestaurant,
	"restaurant":   engine.GroupRestaurant,
	"room-service": engine.GroupRoomService,
	"minibar":      engine.GroupMinibar,
	"billing":      engine.GroupBilling,
}

var ledgerKinds = map[string]engine.LedgerKind{
	"billed":               engine.LedgerBilled,
	"internal-consumption": engine.LedgerInternalConsumption,
}

// ParseRegistry converts a JSON registry document into an engine.Registry.
// Empty input yields the built-in default registry.
func ParseRegistry(data []byte) (*engine.Registry, error) {
	if len(data) == 0 {
		return engine.DefaultRegistry(), nil
	}
	var doc RegistryJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(doc.Periods) == 0 {
		return engine.DefaultRegistry(), nil
	}

	defs := make([]engine.PeriodDef, 0, len(doc.Periods))
	for _, p := range doc.Periods {
		def, err := convertPeriod(p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return engine.NewRegistry(defs)
}

func convertPeriod(p PeriodJSON) (engine.PeriodDef, error) {
	kind, ok := periodKinds[p.Kind]
	if !ok {
		return engine.PeriodDef{}, fmt.Errorf("period %q: unknown kind %q", p.ID, p.Kind)
	}
	def := engine.PeriodDef{
		ID:         engine.PeriodID(p.ID),
		Name:       p.Name,
		Kind:       kind,
		Reconciled: p.Reconciled,
		Category:   engine.CategoryID(p.Category),
	}
	if def.Name == "" {
		def.Name = p.ID
	}
	for _, t := range p.SubTabs {
		tab, err := convertSubTab(p.ID, t)
		if err != nil {
			return engine.PeriodDef{}, err
		}
		def.SubTabs = append(def.SubTabs, tab)
	}
	return def, nil
}

func convertSubTab(periodID string, t SubTabJSON) (engine.SubTabDef, error) {
	kind, ok := subTabKinds[t.Kind]
	if !ok {
		return engine.SubTabDef{}, fmt.Errorf("period %q sub-tab %q: unknown kind %q", periodID, t.ID, t.Kind)
	}
	group, ok := groups[t.Group]
	if !ok {
		return engine.SubTabDef{}, fmt.Errorf("period %q sub-tab %q: unknown group %q", periodID, t.ID, t.Group)
	}
	tab := engine.SubTabDef{
		ID:    engine.SubTabID(t.ID),
		Name:  t.Name,
		Kind:  kind,
		Group: group,
	}
	if tab.Name == "" {
		tab.Name = t.ID
	}
	if kind == engine.SubTabLedger {
		lk, ok := ledgerKinds[t.LedgerKind]
		if !ok {
			return engine.SubTabDef{}, fmt.Errorf("period %q sub-tab %q: unknown ledger kind %q", periodID, t.ID, t.LedgerKind)
		}
		tab.LedgerKind = lk
	}
	if kind == engine.SubTabLegacy || kind == engine.SubTabLedger {
		tab.Group = engine.GroupBilling
	}
	return tab, nil
}
