/*
total.go - Generic period total calculator

PURPOSE:
  Sums quantity/value across a period's payload, independent of which
  channels or sub-categories exist. One fold handles every period kind:

    channels:   fold every channel's {quantity, value}
    subtabbed:  fold every sub-tab (channels recurse, ledgers fold items)
    events:     fold every event's sub-events

  Addition is commutative, so iteration order over the decoded maps is
  irrelevant; every present entry contributes exactly once, unweighted.

RECONCILED PERIODS:
  The three shift periods are NOT summed by the blind fold: their legacy
  block encodes an internal-consumption total net of its adjustment, which a
  naive fold would miscount. PeriodTotal routes them through Reconcile so the
  preview and the reports agree to the cent.

SEE ALSO:
  - reconcile.go: the shift merge formulas
*/
package engine

// PeriodTotal computes the {quantity, value} total of one period's payload.
func PeriodTotal(def *PeriodDef, data PeriodData) Total {
	if def.Reconciled {
		return Reconcile(def, data).GrossTotal()
	}
	switch def.Kind {
	case KindChannels:
		return channelsTotal(map[string]any(data))
	case KindSubTabbed:
		return subTabbedTotal(def, data)
	case KindEvents:
		return eventsTotal(data)
	default:
		return ZeroTotal()
	}
}

// channelsTotal folds a channel -> {quantity, value} map. Entries that are
// not objects contribute zero via coercion.
func channelsTotal(channels map[string]any) Total {
	total := ZeroTotal()
	for _, entry := range channels {
		total = total.Add(entryTotal(entry))
	}
	return total
}

// entryTotal reads the {quantity, value} leaf of one channel entry.
func entryTotal(entry any) Total {
	return Total{
		Quantity: NumberAt(entry, "quantity"),
		Value:    NumberAt(entry, "value"),
	}
}

func subTabbedTotal(def *PeriodDef, data PeriodData) Total {
	total := ZeroTotal()
	for _, tab := range def.SubTabs {
		total = total.Add(subTabTotal(tab, data.SubTab(tab.ID)))
	}
	return total
}

func subTabTotal(tab SubTabDef, v any) Total {
	switch tab.Kind {
	case SubTabLedger:
		return LedgerAt(v).Sum()
	default:
		if channels, ok := v.(map[string]any); ok {
			return channelsTotal(channels)
		}
		return ZeroTotal()
	}
}

func eventsTotal(data PeriodData) Total {
	total := ZeroTotal()
	for _, event := range EventsAt(data) {
		for _, sub := range event.SubEvents {
			total = total.Add(Total{Quantity: sub.Quantity, Value: sub.TotalValue})
		}
	}
	return total
}
