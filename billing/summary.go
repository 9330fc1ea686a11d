/*
summary.go - Dashboard-level aggregates

Only discharged admissions contribute to the claim figure: an active
stay's allowance still grows daily, so it is not claimable yet.
Payments are hospital-wide and are summed as-is.
*/
package billing

import "time"

// ClaimTotal sums the real allowance over all discharged admissions.
func ClaimTotal(admissions []Admission, rates RateSet, today Date) (Money, error) {
	total := ZeroMoney()
	for _, a := range admissions {
		if !a.Discharged() {
			continue
		}
		allowance, err := Allowances(CountDays(a, today), a.Ward, rates)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(allowance.Real)
	}
	return total, nil
}

// PaymentsTotal sums all recorded payments.
func PaymentsTotal(payments []Payment) Money {
	total := ZeroMoney()
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// MonthlySummary aggregates one calendar month of admissions.
type MonthlySummary struct {
	Admissions int
	Discharged int
	Billed     Money // sum of used amounts over the month's discharged stays
	Claim      Money // sum of real allowances over the month's discharged stays
}

// SummarizeMonth aggregates admissions whose admission date falls in the
// given month. usedByAdmission supplies the already-computed used amount
// per admission id (override-aware), from the same snapshot the caller
// evaluated the rest of the dashboard from.
func SummarizeMonth(admissions []Admission, usedByAdmission map[int64]Money, rates RateSet, year int, month time.Month, today Date) (MonthlySummary, error) {
	s := MonthlySummary{Billed: ZeroMoney(), Claim: ZeroMoney()}
	for _, a := range admissions {
		if a.AdmissionDate.Year() != year || a.AdmissionDate.Month() != month {
			continue
		}
		s.Admissions++
		if !a.Discharged() {
			continue
		}
		s.Discharged++

		allowance, err := Allowances(CountDays(a, today), a.Ward, rates)
		if err != nil {
			return MonthlySummary{}, err
		}
		s.Claim = s.Claim.Add(allowance.Real)
		if used, ok := usedByAdmission[a.ID]; ok {
			s.Billed = s.Billed.Add(used)
		}
	}
	return s, nil
}
