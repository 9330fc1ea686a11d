/*
usage.go - Aggregating departmental charges into the used amount

OVERRIDE SEMANTICS:
  A non-nil override replaces the cross-department sum wholesale: the
  used amount IS the override, and the per-entry breakdown is treated
  as unavailable. The override does NOT touch the counter section's own
  display total, which always includes the auto-computed bed fee plus
  the manual counter entries.

BED FEE:
  bedFee = billableDays * wardRate. It appears only in the counter
  section total; it is never part of the cross-department used amount,
  with or without an override.
*/
package billing

// UsageBreakdown exposes the department subtotals alongside the final
// used amount. Counter holds manual counter entries only; the bed fee
// is carried separately and folded into CounterSection.
type UsageBreakdown struct {
	Lab     Money
	Pharma  Money
	Xray    Money
	Counter Money

	BedFee         Money
	CounterSection Money // BedFee + Counter, the counter card's total

	EntriesTotal Money // Lab + Pharma + Xray + Counter
	Overridden   bool
	Used         Money // override if present, else EntriesTotal
}

// Usage sums the four department lists and applies the override rule.
func Usage(entries Entries, override *Money, bedFee Money) UsageBreakdown {
	u := UsageBreakdown{
		Lab:     sumEntries(entries.Lab),
		Pharma:  sumEntries(entries.Pharma),
		Xray:    sumEntries(entries.Xray),
		Counter: sumEntries(entries.Counter),
		BedFee:  bedFee,
	}
	u.CounterSection = bedFee.Add(u.Counter)
	u.EntriesTotal = u.Lab.Add(u.Pharma).Add(u.Xray).Add(u.Counter)

	if override != nil {
		u.Overridden = true
		u.Used = *override
		return u
	}
	u.Used = u.EntriesTotal
	return u
}

func sumEntries(entries []Entry) Money {
	total := ZeroMoney()
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
