package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/revenue-engine/engine"
	"github.com/warp/revenue-engine/factory"
)

func TestParseRegistry_EmptyInput_FallsBackToDefault(t *testing.T) {
	registry, err := factory.ParseRegistry(nil)
	require.NoError(t, err)

	_, ok := registry.Period(engine.PeriodLunchShift1)
	assert.True(t, ok, "default registry must define the lunch shifts")
}

func TestParseRegistry_CustomPeriodSet(t *testing.T) {
	doc := []byte(`{
		"periods": [
			{"id": "breakfast", "name": "Breakfast", "kind": "channels"},
			{
				"id": "dinner",
				"kind": "subtabbed",
				"reconciled": true,
				"subTabs": [
					{"id": "table", "kind": "channels", "group": "restaurant"},
					{"id": "minibar", "kind": "channels", "group": "minibar"},
					{"id": "billing-and-internal-consumption", "kind": "legacy"},
					{"id": "billed", "kind": "ledger", "ledgerKind": "billed"},
					{"id": "internal-consumption", "kind": "ledger", "ledgerKind": "internal-consumption"}
				]
			},
			{"id": "pool-bar", "kind": "channels"}
		]
	}`)

	registry, err := factory.ParseRegistry(doc)
	require.NoError(t, err)

	dinner, ok := registry.Period("dinner")
	require.True(t, ok)
	assert.True(t, dinner.Reconciled)
	assert.Equal(t, engine.CategoryID("dinner"), dinner.Category, "category defaults to the period id")

	billed, ok := dinner.LedgerTab(engine.LedgerBilled)
	require.True(t, ok)
	assert.Equal(t, engine.SubTabID("billed"), billed.ID)

	_, ok = dinner.LegacyTab()
	assert.True(t, ok)

	poolBar, ok := registry.Period("pool-bar")
	require.True(t, ok)
	assert.Equal(t, engine.KindChannels, poolBar.Kind)
}

func TestParseRegistry_Rejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"unknown period kind", `{"periods":[{"id":"x","kind":"pivot"}]}`},
		{"unknown sub-tab kind", `{"periods":[{"id":"x","kind":"subtabbed","subTabs":[{"id":"t","kind":"grid"}]}]}`},
		{"unknown ledger kind", `{"periods":[{"id":"x","kind":"subtabbed","subTabs":[{"id":"t","kind":"ledger","ledgerKind":"misc"}]}]}`},
		{"duplicate period id", `{"periods":[{"id":"x","kind":"channels"},{"id":"x","kind":"channels"}]}`},
		{"reconciled channels period", `{"periods":[{"id":"x","kind":"channels","reconciled":true}]}`},
		{"not json", `{"periods": [`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := factory.ParseRegistry([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}
