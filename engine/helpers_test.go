package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/warp/revenue-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
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

// legacyBlock builds the pre-migration billing-and-internal-consumption
// payload with its fixed channel ids.
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

func ledgerItem(name string, qty, value float64) map[string]any {
	return map[string]any{"name": name, "quantity": qty, "value": value}
}

func shiftDef(t *testing.T, id engine.PeriodID) *engine.PeriodDef {
	t.Helper()
	def, ok := engine.DefaultRegistry().Period(id)
	if !ok {
		t.Fatalf("period %q not in default registry", id)
	}
	return def
}

func decodePeriod(t *testing.T, v any) engine.PeriodData {
	t.Helper()
	data, err := engine.DecodePeriod(mustRaw(t, v))
	if err != nil {
		t.Fatalf("decode period: %v", err)
	}
	return data
}

func assertDecEqual(t *testing.T, want, got decimal.Decimal, msg string) {
	t.Helper()
	if !want.Equal(got) {
		t.Errorf("%s: want %s, got %s", msg, want, got)
	}
}

func assertTotalEqual(t *testing.T, wantQty, wantValue float64, got engine.Total, msg string) {
	t.Helper()
	assertDecEqual(t, dec(wantQty), got.Quantity, msg+" quantity")
	assertDecEqual(t, dec(wantValue), got.Value, msg+" value")
}

func record(date string, periods map[engine.PeriodID]json.RawMessage) engine.DailyRecord {
	return engine.DailyRecord{Date: date, Periods: periods}
}
