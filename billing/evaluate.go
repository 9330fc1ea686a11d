/*
evaluate.go - Claim/balance evaluation and the per-admission entry point

STATUS TIERS (first match wins):
  Exceeded: used > alertAllowed
  Critical: alertPercent >= 95
  Warning:  alertPercent >= 80
  Safe:     otherwise

  The tier and the progress-bar percentage run against the ALERT
  allowance; the displayed percentage and the remaining/excess balance
  run against the REAL allowance. Both percentages are capped at 100.
*/
package billing

// Status is the claim health tier shown to staff.
type Status string

const (
	StatusSafe     Status = "safe"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusExceeded Status = "exceeded"
)

// BalanceState is the computed claim position for one admission.
type BalanceState struct {
	Used         Money
	Allowed      Money
	AlertAllowed Money

	// PercentUsed is used/Allowed*100 capped at 100, for display.
	// AlertPercent is the same against AlertAllowed; it drives the
	// progress bar and the status tier.
	PercentUsed  float64
	AlertPercent float64

	// Balance is Allowed - Used and may be negative. Excess reports
	// whether the used amount exceeds the real allowance, i.e. whether
	// the balance should be labeled "Excess" rather than "Remaining".
	Balance Money
	Excess  bool

	Status Status
}

// Evaluate derives the balance state from the used amount and the two
// allowance variants.
func Evaluate(used Money, allowed AllowancePair) BalanceState {
	s := BalanceState{
		Used:         used,
		Allowed:      allowed.Real,
		AlertAllowed: allowed.Alert,
		PercentUsed:  percentUsed(used, allowed.Real),
		AlertPercent: percentUsed(used, allowed.Alert),
		Balance:      allowed.Real.Sub(used),
		Excess:       used.GreaterThan(allowed.Real),
	}

	switch {
	case used.GreaterThan(allowed.Alert):
		s.Status = StatusExceeded
	case s.AlertPercent >= 95:
		s.Status = StatusCritical
	case s.AlertPercent >= 80:
		s.Status = StatusWarning
	default:
		s.Status = StatusSafe
	}
	return s
}

func percentUsed(used, allowed Money) float64 {
	if !allowed.IsPositive() {
		return 0
	}
	pct := used.Value.Div(allowed.Value).InexactFloat64() * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// =============================================================================
// PER-ADMISSION ENTRY POINT
// =============================================================================

// Evaluation is the full computed snapshot for one admission, ready for
// the presentation layer. No formatting happens here.
type Evaluation struct {
	Days      DayCounts
	Allowance AllowancePair
	Usage     UsageBreakdown
	Balance   BalanceState
}

// EvaluateAdmission runs the whole pipeline for one admission: day
// counts, allowance pair, bed fee, usage aggregation, balance state.
// It is pure and idempotent; callers re-run it after every mutation.
func EvaluateAdmission(a Admission, rates RateSet, entries Entries, today Date) (Evaluation, error) {
	days := CountDays(a, today)

	allowance, err := Allowances(days, a.Ward, rates)
	if err != nil {
		return Evaluation{}, err
	}

	wardRate, err := WardRate(a.Ward, rates)
	if err != nil {
		return Evaluation{}, err
	}
	bedFee := wardRate.MulDays(days.Billable)

	usage := Usage(entries, a.Override, bedFee)

	return Evaluation{
		Days:      days,
		Allowance: allowance,
		Usage:     usage,
		Balance:   Evaluate(usage.Used, allowance),
	}, nil
}
