/*
consolidate.go - Shift consolidation

PURPOSE:
  The two lunch shifts are one "Lunch" category for general reporting while
  remaining separately addressable for period reporting. The same merge
  applies to the per-shift minibar sub-totals, which report together with
  the minibar control sheet.

INVARIANT:
  A consolidated category always equals the arithmetic sum of its
  constituent shift categories. Consolidation never drops or double-applies
  a shift; it is plain addition, for any inputs including zero and negative
  corrections.
*/
package engine

// Consolidate merges two category totals into one.
func Consolidate(a, b Total) Total {
	return a.Add(b)
}

// ConsolidateAll merges any number of category totals.
func ConsolidateAll(totals ...Total) Total {
	merged := ZeroTotal()
	for _, t := range totals {
		merged = merged.Add(t)
	}
	return merged
}

// categoryTotals accumulates period contributions into general-report
// columns. Reconciled shifts feed two columns: their own category (minus
// minibar) and the shared minibar column.
type categoryTotals map[CategoryID]Total

func (c categoryTotals) add(id CategoryID, t Total) {
	c[id] = Consolidate(c[id], t)
}
