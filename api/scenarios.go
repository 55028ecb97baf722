/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Populates the store with realistic daily records demonstrating the three
  billing-schema situations the reconciliation layer exists for.

AVAILABLE SCENARIOS:
  legacy-days:       Historical days carrying only the pre-migration
                     billing-and-internal-consumption block
  itemized-days:     Current days carrying only itemized ledgers
  migration-overlap: Partially migrated days carrying BOTH (summed, not
                     deduplicated - the documented policy)

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "migration-overlap"}

NOTE:
  Scenarios write records over existing dates. Development/demo only.
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/revenue-engine/engine"
)

var scenarios = []ScenarioDTO{
	{
		ID:          "legacy-days",
		Name:        "Legacy Billing Days",
		Description: "Days recorded before the billing schema split",
	},
	{
		ID:          "itemized-days",
		Name:        "Itemized Ledger Days",
		Description: "Days recorded with the current itemized ledgers",
	},
	{
		ID:          "migration-overlap",
		Name:        "Migration Overlap",
		Description: "Partially migrated days carrying both billing schemas",
	},
}

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed body"})
		return
	}

	var err error
	switch req.ScenarioID {
	case "legacy-days":
		err = h.loadLegacyDays(r.Context())
	case "itemized-days":
		err = h.loadItemizedDays(r.Context())
	case "migration-overlap":
		err = h.loadMigrationOverlap(r.Context())
	default:
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unknown scenario %q", req.ScenarioID)})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO DATA
// =============================================================================

func mustRaw(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

func channels(entries map[string][2]float64) map[string]any {
	out := make(map[string]any, len(entries))
	for id, qv := range entries {
		out[id] = map[string]any{"quantity": qv[0], "value": qv[1]}
	}
	return out
}

func legacyBlock(qty, hotel, staff, ciQty, ciTotal, ciAdj float64) map[string]any {
	return map[string]any{
		"billed":                          map[string]any{"quantity": qty},
		"billed-hotel":                    map[string]any{"value": hotel},
		"billed-staff":                    map[string]any{"value": staff},
		"internal-consumption":            map[string]any{"quantity": ciQty, "value": ciTotal},
		"internal-consumption-adjustment": map[string]any{"value": ciAdj},
	}
}

func ledgerTab(adjustment float64, items ...map[string]any) map[string]any {
	tab := map[string]any{"items": items}
	if adjustment != 0 {
		tab["adjustment"] = adjustment
	}
	return tab
}

func ledgerItem(name, typ string, qty, value float64) map[string]any {
	return map[string]any{"name": name, "type": typ, "quantity": qty, "value": value}
}

func (h *Handler) saveAll(ctx context.Context, recs []engine.DailyRecord) error {
	for i := range recs {
		if err := h.Store.SaveRecord(ctx, &recs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadLegacyDays(ctx context.Context) error {
	return h.saveAll(ctx, []engine.DailyRecord{
		{
			Date: "2023-03-10",
			Periods: map[engine.PeriodID]json.RawMessage{
				engine.PeriodBreakfast: mustRaw(channels(map[string][2]float64{
					"included": {120, 0}, "walk-in": {8, 360},
				})),
				engine.PeriodLunchShift1: mustRaw(map[string]any{
					"table":                            channels(map[string][2]float64{"cash": {14, 980}, "credit-card": {30, 2460}}),
					"room-service":                     channels(map[string][2]float64{"room-service": {6, 410}}),
					"minibar":                          channels(map[string][2]float64{"minibar": {9, 185}}),
					"billing-and-internal-consumption": legacyBlock(4, 320, 75, 5, 140, 15),
				}),
				engine.PeriodDinner: mustRaw(map[string]any{
					"table":                            channels(map[string][2]float64{"cash": {22, 1890}, "pix": {17, 1340}}),
					"billing-and-internal-consumption": legacyBlock(2, 150, 0, 3, 95, 0),
				}),
			},
		},
	})
}

func (h *Handler) loadItemizedDays(ctx context.Context) error {
	return h.saveAll(ctx, []engine.DailyRecord{
		{
			Date: "2024-08-05",
			Periods: map[engine.PeriodID]json.RawMessage{
				engine.PeriodLunchShift1: mustRaw(map[string]any{
					"table":    channels(map[string][2]float64{"credit-card": {26, 2140}, "pix": {12, 960}}),
					"delivery": channels(map[string][2]float64{"ifood": {18, 870}}),
					"billed":   ledgerTab(0, ledgerItem("Eng. Dept lunch", "sector", 6, 240)),
					"internal-consumption": ledgerTab(10,
						ledgerItem("Kitchen staff", "staff", 8, 160),
						ledgerItem("Manager tasting", "courtesy", 1, 45),
					),
				}),
				engine.PeriodEvents: mustRaw(map[string]any{
					"events": []any{
						map[string]any{
							"name": "Mendes wedding",
							"subEvents": []any{
								map[string]any{"location": "garden", "serviceType": "buffet", "quantity": 110, "totalValue": 9350},
								map[string]any{"location": "hall", "serviceType": "open-bar", "quantity": 110, "totalValue": 4200},
							},
						},
					},
				}),
			},
		},
	})
}

func (h *Handler) loadMigrationOverlap(ctx context.Context) error {
	return h.saveAll(ctx, []engine.DailyRecord{
		{
			Date:  "2024-01-15",
			Notes: "migration window: legacy fields not yet zeroed",
			Periods: map[engine.PeriodID]json.RawMessage{
				engine.PeriodLunchShift2: mustRaw(map[string]any{
					"table":                            channels(map[string][2]float64{"cash": {11, 830}}),
					"billing-and-internal-consumption": legacyBlock(3, 100, 50, 2, 40, 5),
					"billed":                           ledgerTab(0, ledgerItem("Sales convention", "company", 1, 200)),
					"internal-consumption":             ledgerTab(0, ledgerItem("Front desk", "staff", 2, 50)),
				}),
			},
		},
	})
}
