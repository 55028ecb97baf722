package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/warp/revenue-engine/engine"
	"github.com/warp/revenue-engine/engine/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newReporter(t *testing.T, records ...engine.DailyRecord) *engine.Reporter {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()
	for i := range records {
		if err := mem.SaveRecord(ctx, &records[i]); err != nil {
			t.Fatalf("seed record %s: %v", records[i].Date, err)
		}
	}
	return engine.NewReporter(mem, nil)
}

func breakfastDay(t *testing.T, date string, qty, value float64) engine.DailyRecord {
	t.Helper()
	return record(date, map[engine.PeriodID]json.RawMessage{
		engine.PeriodBreakfast: mustRaw(t, channels(map[string][2]float64{
			"walk-in": {qty, value},
		})),
	})
}

func rng(start, end string) engine.DateRange {
	return engine.DateRange{Start: start, End: end}
}

// =============================================================================
// GENERAL REPORT
// =============================================================================

func TestGeneralReport_RangeSummary(t *testing.T) {
	// GIVEN: Two days with net totals 1000 and 2000, net quantities 10 and 20
	// WHEN: Building the range report
	// THEN: summary netTotal = 3000, ticket médio = 3000/30 = 100

	rp := newReporter(t,
		breakfastDay(t, "2024-06-01", 10, 1000),
		breakfastDay(t, "2024-06-02", 20, 2000),
	)

	report, err := rp.GeneralReport(context.Background(), rng("2024-06-01", "2024-06-30"))
	if err != nil {
		t.Fatal(err)
	}

	if len(report.DailyBreakdowns) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report.DailyBreakdowns))
	}
	assertDecEqual(t, dec(3000), report.Summary.NetTotal, "summary netTotal")
	assertDecEqual(t, dec(30), report.Summary.NetQuantity, "summary netQuantity")
	assertDecEqual(t, dec(100), report.Summary.TicketMedio, "summary ticket médio")
}

func TestGeneralReport_TicketMedio_ZeroQuantity(t *testing.T) {
	rp := newReporter(t)

	report, err := rp.GeneralReport(context.Background(), rng("2024-06-01", "2024-06-30"))
	if err != nil {
		t.Fatal(err)
	}
	if !report.Summary.TicketMedio.IsZero() {
		t.Errorf("ticket médio must be zero when netQuantity is zero, got %s", report.Summary.TicketMedio)
	}
}

func TestGeneralReport_RowsAscendingByDate(t *testing.T) {
	rp := newReporter(t,
		breakfastDay(t, "2024-06-03", 1, 10),
		breakfastDay(t, "2024-06-01", 1, 10),
		breakfastDay(t, "2024-06-02", 1, 10),
	)

	report, err := rp.GeneralReport(context.Background(), rng("2024-06-01", "2024-06-30"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(report.DailyBreakdowns); i++ {
		if report.DailyBreakdowns[i-1].Date >= report.DailyBreakdowns[i].Date {
			t.Fatalf("rows not ascending: %s before %s",
				report.DailyBreakdowns[i-1].Date, report.DailyBreakdowns[i].Date)
		}
	}
}

func TestGeneralReport_InvalidRecordDate_ExcludedWithDiagnostic(t *testing.T) {
	rp := newReporter(t,
		breakfastDay(t, "2024-06-01", 1, 100),
		breakfastDay(t, "2024-06-31", 1, 100), // no June 31st
	)

	report, err := rp.GeneralReport(context.Background(), rng("2024-06-01", "2024-07-31"))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.DailyBreakdowns) != 1 {
		t.Fatalf("expected the invalid-date record excluded, got %d rows", len(report.DailyBreakdowns))
	}
	found := false
	for _, d := range report.Diagnostics {
		if d.Code == engine.DiagInvalidDate && d.Date == "2024-06-31" {
			found = true
		}
	}
	if !found {
		t.Error("expected an invalid_date diagnostic for 2024-06-31")
	}
}

func TestGeneralReport_InvalidRange(t *testing.T) {
	rp := newReporter(t)

	cases := []engine.DateRange{
		rng("2024-06-30", "2024-06-01"), // end before start
		rng("garbage", "2024-06-30"),
		rng("", ""),
	}
	for _, rg := range cases {
		if _, err := rp.GeneralReport(context.Background(), rg); !errors.Is(err, engine.ErrInvalidRange) {
			t.Errorf("range %+v: expected ErrInvalidRange, got %v", rg, err)
		}
	}
}

type failingStore struct{}

func (failingStore) GetRecord(context.Context, string) (*engine.DailyRecord, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) GetRecords(context.Context, engine.DateRange) ([]engine.DailyRecord, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) SaveRecord(context.Context, *engine.DailyRecord) error {
	return errors.New("connection refused")
}

func TestGeneralReport_StoreFailure_Surfaced(t *testing.T) {
	// Persistence failures are a distinct error category: surfaced to the
	// caller, never absorbed into an empty report.

	rp := engine.NewReporter(failingStore{}, nil)

	_, err := rp.GeneralReport(context.Background(), rng("2024-06-01", "2024-06-30"))
	if err == nil {
		t.Fatal("expected store failure to surface")
	}
	if engine.IsClientError(err) {
		t.Error("store failure must not classify as a client error")
	}
}

// =============================================================================
// PERIOD REPORT
// =============================================================================

func shiftDayRecord(t *testing.T, date string) engine.DailyRecord {
	t.Helper()
	return record(date, map[engine.PeriodID]json.RawMessage{
		engine.PeriodLunchShift1: mustRaw(t, map[string]any{
			"table":                            channels(map[string][2]float64{"cash": {10, 1000}}),
			"billing-and-internal-consumption": legacyBlock(2, 100, 50, 2, 40, 5),
		}),
		engine.PeriodLunchShift2: mustRaw(t, map[string]any{
			"delivery": channels(map[string][2]float64{"ifood": {6, 300}}),
			"billed":   ledgerTab(0, ledgerItem("Company X", 1, 200)),
		}),
	})
}

func TestPeriodReport_VirtualLunch_MergesBothShifts(t *testing.T) {
	rp := newReporter(t, shiftDayRecord(t, "2024-06-10"))

	report, err := rp.PeriodReport(context.Background(), rng("2024-06-01", "2024-06-30"), engine.VirtualPeriodLunch)
	if err != nil {
		t.Fatal(err)
	}

	// shift1 contributes table + reconciled billing; shift2 contributes
	// delivery + its ledger item. Both must appear merged per sub-category.
	assertTotalEqual(t, 10, 1000, report.Summary[engine.SubTabTable], "table summary")
	assertTotalEqual(t, 6, 300, report.Summary[engine.SubTabDelivery], "delivery summary")
	// billed: legacy 150 (shift1) + itemized 200 (shift2)
	assertTotalEqual(t, 3, 350, report.Summary[engine.SubTabBilled], "billed summary")

	if report.GrossSubtotal == nil || report.NetSubtotal == nil {
		t.Fatal("reconciled period report must carry gross/net subtotals")
	}
	wantNet := report.GrossSubtotal.Value.
		Sub(report.Summary[engine.SubTabInternal].Value).
		Sub(report.Summary[engine.SubTabAdjustment].Value)
	assertDecEqual(t, wantNet, report.NetSubtotal.Value, "net subtotal")
}

func TestPeriodReport_SingleShift_StillAddressable(t *testing.T) {
	// Consolidation must not make the shifts inseparable: a period report
	// for one shift sees only that shift's figures.

	rp := newReporter(t, shiftDayRecord(t, "2024-06-10"))

	report, err := rp.PeriodReport(context.Background(), rng("2024-06-01", "2024-06-30"), engine.PeriodLunchShift2)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := report.Summary[engine.SubTabTable]; ok {
		t.Error("shift2 report must not include shift1's table figures")
	}
	assertTotalEqual(t, 1, 200, report.Summary[engine.SubTabBilled], "shift2 billed")
}

func TestPeriodReport_ChannelPeriod_DynamicSubCategories(t *testing.T) {
	rp := newReporter(t, breakfastDay(t, "2024-06-01", 4, 180))

	report, err := rp.PeriodReport(context.Background(), rng("2024-06-01", "2024-06-30"), engine.PeriodBreakfast)
	if err != nil {
		t.Fatal(err)
	}
	assertTotalEqual(t, 4, 180, report.Summary[engine.SubTabID("walk-in")], "walk-in channel")

	// No CI applies outside the reconciled shifts: no subtotals.
	if report.GrossSubtotal != nil || report.NetSubtotal != nil {
		t.Error("non-reconciled period report must not carry gross/net subtotals")
	}
}

func TestPeriodReport_UnknownPeriod(t *testing.T) {
	rp := newReporter(t)

	_, err := rp.PeriodReport(context.Background(), rng("2024-06-01", "2024-06-30"), "spa")
	if !errors.Is(err, engine.ErrUnknownPeriod) {
		t.Errorf("expected ErrUnknownPeriod, got %v", err)
	}
	if !engine.IsClientError(err) {
		t.Error("unknown period must classify as a client error")
	}
}
