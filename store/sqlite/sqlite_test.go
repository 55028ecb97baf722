package sqlite_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/revenue-engine/engine"
	"github.com/warp/revenue-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveGetRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := engine.DailyRecord{
		Date:  "2024-03-10",
		Notes: "rainy day, low walk-in",
		Periods: map[engine.PeriodID]json.RawMessage{
			engine.PeriodBreakfast: json.RawMessage(`{"walk-in":{"quantity":3,"value":120}}`),
		},
	}
	require.NoError(t, store.SaveRecord(ctx, &rec))

	got, err := store.GetRecord(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, rec.Date, got.Date)
	assert.Equal(t, rec.Notes, got.Notes)
	assert.JSONEq(t, string(rec.Periods[engine.PeriodBreakfast]), string(got.Periods[engine.PeriodBreakfast]))
}

func TestStore_GetRecord_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRecord(context.Background(), "1999-01-01")
	assert.True(t, errors.Is(err, engine.ErrRecordNotFound))
}

func TestStore_SaveRecord_RejectsBadDate(t *testing.T) {
	store := newTestStore(t)

	rec := engine.DailyRecord{Date: "10/03/2024"}
	assert.Error(t, store.SaveRecord(context.Background(), &rec))
}

func TestStore_GetRecords_InclusiveAscending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []string{"2024-03-12", "2024-03-10", "2024-03-11", "2024-03-09"} {
		rec := engine.DailyRecord{Date: d, Periods: map[engine.PeriodID]json.RawMessage{}}
		require.NoError(t, store.SaveRecord(ctx, &rec))
	}

	recs, err := store.GetRecords(ctx, engine.DateRange{Start: "2024-03-10", End: "2024-03-12"})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "2024-03-10", recs[0].Date)
	assert.Equal(t, "2024-03-12", recs[2].Date)
}

func TestStore_SaveRecord_Upserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := engine.DailyRecord{
		Date:    "2024-03-10",
		Periods: map[engine.PeriodID]json.RawMessage{engine.PeriodBreakfast: json.RawMessage(`{}`)},
	}
	require.NoError(t, store.SaveRecord(ctx, &rec))

	rec.Periods = map[engine.PeriodID]json.RawMessage{engine.PeriodDinner: json.RawMessage(`{}`)}
	require.NoError(t, store.SaveRecord(ctx, &rec))

	got, err := store.GetRecord(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.NotContains(t, got.Periods, engine.PeriodBreakfast, "full replace, not merge")
	assert.Contains(t, got.Periods, engine.PeriodDinner)
}

func TestStore_SaveRecord_AssignsLedgerItemIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := engine.DailyRecord{
		Date: "2024-03-10",
		Periods: map[engine.PeriodID]json.RawMessage{
			engine.PeriodLunchShift1: json.RawMessage(
				`{"billed":{"items":[{"name":"Company X","quantity":1,"value":200}]}}`),
		},
	}
	require.NoError(t, store.SaveRecord(ctx, &rec))

	got, err := store.GetRecord(ctx, "2024-03-10")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(got.Periods[engine.PeriodLunchShift1], &payload))
	items := payload["billed"].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	id, _ := items[0].(map[string]any)["id"].(string)
	assert.NotEmpty(t, id, "save path must assign ids to ledger items missing one")
}
