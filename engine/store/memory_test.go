package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/revenue-engine/engine"
	"github.com/warp/revenue-engine/engine/store"
)

func seed(t *testing.T, m *store.Memory, dates ...string) {
	t.Helper()
	for _, d := range dates {
		rec := engine.DailyRecord{
			Date: d,
			Periods: map[engine.PeriodID]json.RawMessage{
				engine.PeriodBreakfast: json.RawMessage(`{"walk-in":{"quantity":1,"value":10}}`),
			},
		}
		require.NoError(t, m.SaveRecord(context.Background(), &rec))
	}
}

func TestMemory_GetRecord_NotFound(t *testing.T) {
	m := store.NewMemory()

	_, err := m.GetRecord(context.Background(), "2024-01-01")
	assert.True(t, errors.Is(err, engine.ErrRecordNotFound))
}

func TestMemory_GetRecords_InclusiveAscending(t *testing.T) {
	m := store.NewMemory()
	seed(t, m, "2024-01-03", "2024-01-01", "2024-01-02", "2023-12-31", "2024-01-04")

	recs, err := m.GetRecords(context.Background(), engine.DateRange{Start: "2024-01-01", End: "2024-01-03"})
	require.NoError(t, err)

	require.Len(t, recs, 3, "bounds are inclusive")
	assert.Equal(t, "2024-01-01", recs[0].Date)
	assert.Equal(t, "2024-01-02", recs[1].Date)
	assert.Equal(t, "2024-01-03", recs[2].Date)
}

func TestMemory_SaveRecord_FullReplace(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	seed(t, m, "2024-01-01")

	replacement := engine.DailyRecord{
		Date: "2024-01-01",
		Periods: map[engine.PeriodID]json.RawMessage{
			engine.PeriodDinner: json.RawMessage(`{}`),
		},
	}
	require.NoError(t, m.SaveRecord(ctx, &replacement))

	got, err := m.GetRecord(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.NotContains(t, got.Periods, engine.PeriodBreakfast, "save replaces, never merges")
	assert.Contains(t, got.Periods, engine.PeriodDinner)
}

func TestMemory_Reads_AreIsolatedCopies(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	seed(t, m, "2024-01-01")

	first, err := m.GetRecord(ctx, "2024-01-01")
	require.NoError(t, err)
	first.Periods[engine.PeriodBreakfast] = json.RawMessage(`"mutated"`)

	second, err := m.GetRecord(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.JSONEq(t, `{"walk-in":{"quantity":1,"value":10}}`, string(second.Periods[engine.PeriodBreakfast]))
}
