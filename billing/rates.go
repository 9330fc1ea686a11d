package billing

import "strings"

// ResolveRates turns the raw rate table into a RateSet by
// case-insensitive substring match on the description column. The first
// row matching each keyword wins; a keyword with no matching row
// resolves to zero, which keeps the tracker usable while the rate table
// is incomplete.
//
// Keywords: "muhcs" (per-diem insurance), "cabin", "semi", "bed".
func ResolveRates(records []RateRecord) RateSet {
	return RateSet{
		PerDiemInsurance: firstMatch(records, "muhcs"),
		CabinRate:        firstMatch(records, "cabin"),
		SemiPrivateRate:  firstMatch(records, "semi"),
		BedRate:          firstMatch(records, "bed"),
	}
}

func firstMatch(records []RateRecord, keyword string) Money {
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Description), keyword) {
			return r.Amount
		}
	}
	return ZeroMoney()
}
