/*
allowance.go - Ward add-ons and the insurance allowance pair

ALLOWANCE FORMULA:
  allowance = days * perDiemInsurance + wardAddon(ward, days)

  The add-on is zero for general ward, days*cabinRate for cabins and
  days*semiPrivateRate for semi-private rooms. Any other ward value is
  rejected; pricing an unknown ward at zero would silently understate
  the claim.

REAL vs ALERT:
  Allowances returns both variants from the same formula, driven only
  by the two day counts. The alert variant exists to trip the status
  indicator before the real allowance is exhausted, giving staff a
  one-day buffer to act.
*/
package billing

// WardAddon computes the extra daily charge for non-general wards over
// the given number of days.
func WardAddon(ward WardType, days int, rates RateSet) (Money, error) {
	switch ward {
	case WardGeneral:
		return ZeroMoney(), nil
	case WardCabin:
		return rates.CabinRate.MulDays(days), nil
	case WardSemiPrivate:
		return rates.SemiPrivateRate.MulDays(days), nil
	}
	return Money{}, &InvalidWardTypeError{Ward: string(ward)}
}

// WardRate returns the per-day accommodation rate used for the
// auto-computed bed fee. Unlike the add-on, general ward beds are not
// free: they bill at the base bed rate.
func WardRate(ward WardType, rates RateSet) (Money, error) {
	switch ward {
	case WardGeneral:
		return rates.BedRate, nil
	case WardCabin:
		return rates.CabinRate, nil
	case WardSemiPrivate:
		return rates.SemiPrivateRate, nil
	}
	return Money{}, &InvalidWardTypeError{Ward: string(ward)}
}

// AllowancePair holds the real allowance (displayed numbers, balance)
// and the alert allowance (status tier, progress bar) for one admission.
type AllowancePair struct {
	Real  Money
	Alert Money
}

// Allowances computes both allowance variants.
func Allowances(days DayCounts, ward WardType, rates RateSet) (AllowancePair, error) {
	realAllowed, err := allowanceFor(days.Billable, ward, rates)
	if err != nil {
		return AllowancePair{}, err
	}
	alertAllowed, err := allowanceFor(days.Alert, ward, rates)
	if err != nil {
		return AllowancePair{}, err
	}
	return AllowancePair{Real: realAllowed, Alert: alertAllowed}, nil
}

func allowanceFor(days int, ward WardType, rates RateSet) (Money, error) {
	addon, err := WardAddon(ward, days, rates)
	if err != nil {
		return Money{}, err
	}
	return rates.PerDiemInsurance.MulDays(days).Add(addon), nil
}
