package engine_test

import (
	"testing"

	"github.com/warp/revenue-engine/engine"
)

func periodDef(t *testing.T, id engine.PeriodID) *engine.PeriodDef {
	t.Helper()
	def, ok := engine.DefaultRegistry().Period(id)
	if !ok {
		t.Fatalf("period %q not defined", id)
	}
	return def
}

func TestPeriodTotal_ChannelPeriod_FoldsEveryChannel(t *testing.T) {
	def := periodDef(t, engine.PeriodBreakfast)
	data := decodePeriod(t, channels(map[string][2]float64{
		"included": {120, 0},
		"walk-in":  {8, 360},
		"half":     {2, 45.5},
	}))

	assertTotalEqual(t, 130, 405.5, engine.PeriodTotal(def, data), "channel fold")
}

func TestPeriodTotal_ChannelPeriod_StringValues(t *testing.T) {
	// Old form versions saved user-entered strings, comma decimals included.
	def := periodDef(t, engine.PeriodBreakfast)
	data := decodePeriod(t, map[string]any{
		"walk-in": map[string]any{"quantity": "3", "value": "120,50"},
		"broken":  map[string]any{"quantity": "abc", "value": nil},
	})

	assertTotalEqual(t, 3, 120.5, engine.PeriodTotal(def, data), "string coercion")
}

func TestPeriodTotal_EventPeriod_FoldsSubEvents(t *testing.T) {
	def := periodDef(t, engine.PeriodEvents)
	data := decodePeriod(t, map[string]any{
		"events": []any{
			map[string]any{
				"name": "Wedding",
				"subEvents": []any{
					map[string]any{"location": "garden", "serviceType": "buffet", "quantity": 100, "totalValue": 9000},
					map[string]any{"location": "hall", "serviceType": "open-bar", "quantity": 100, "totalValue": 4000},
				},
			},
			map[string]any{
				"name": "Board meeting",
				"subEvents": []any{
					map[string]any{"location": "mezzanine", "serviceType": "coffee-break", "quantity": 20, "totalValue": 600},
				},
			},
		},
	})

	assertTotalEqual(t, 220, 13600, engine.PeriodTotal(def, data), "events fold")
}

func TestPeriodTotal_EmptyAndMalformedShapes_Zero(t *testing.T) {
	def := periodDef(t, engine.PeriodBreakfast)

	for name, payload := range map[string]any{
		"empty object":  map[string]any{},
		"entries wrong": map[string]any{"x": "not an object", "y": 12},
	} {
		if total := engine.PeriodTotal(def, decodePeriod(t, payload)); !total.IsZero() {
			t.Errorf("%s: expected zero total, got %+v", name, total)
		}
	}
}
