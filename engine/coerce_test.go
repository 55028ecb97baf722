package engine_test

import (
	"testing"

	"github.com/warp/revenue-engine/engine"
)

// =============================================================================
// NULL-SAFETY TESTS
// =============================================================================

func TestNumberAt_MissingContainer_ReturnsZero(t *testing.T) {
	// GIVEN: No container at all
	// WHEN: Reading a nested path
	// THEN: Zero, never a panic

	if got := engine.NumberAt(nil, "a.b.c"); !got.IsZero() {
		t.Errorf("expected zero for nil container, got %s", got)
	}
}

func TestNumberAt_MissingPath_ReturnsZero(t *testing.T) {
	container := map[string]any{"a": map[string]any{"x": 1.0}}

	if got := engine.NumberAt(container, "a.b.c"); !got.IsZero() {
		t.Errorf("expected zero for missing path, got %s", got)
	}
}

func TestNumberAt_NonMapIntermediate_ReturnsZero(t *testing.T) {
	container := map[string]any{"a": "not a map"}

	if got := engine.NumberAt(container, "a.b"); !got.IsZero() {
		t.Errorf("expected zero when traversal hits a leaf, got %s", got)
	}
}

func TestNumberAt_NestedNumber(t *testing.T) {
	container := map[string]any{"a": map[string]any{"b": map[string]any{"c": 42.5}}}

	assertDecEqual(t, dec(42.5), engine.NumberAt(container, "a.b.c"), "nested number")
}

func TestNumberAt_CommaDecimalString(t *testing.T) {
	// User-entered pt-BR strings use comma as the decimal separator.
	container := map[string]any{"a": map[string]any{"b": map[string]any{"c": "12,50"}}}

	assertDecEqual(t, dec(12.5), engine.NumberAt(container, "a.b.c"), "comma decimal")
}

func TestDecimalOf_Variants(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 7.25, 7.25},
		{"int", 3, 3},
		{"dot string", "12.50", 12.5},
		{"comma string", "12,50", 12.5},
		{"thousands and comma", "1.234,56", 1234.56},
		{"garbage string", "n/a", 0},
		{"empty string", "", 0},
		{"whitespace", "  8,1 ", 8.1},
		{"bool", true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertDecEqual(t, dec(tc.want), engine.DecimalOf(tc.in), tc.name)
		})
	}
}
