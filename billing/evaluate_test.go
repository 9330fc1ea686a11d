package billing_test

import (
	"math"
	"testing"
	"time"

	"github.com/zohmingaRalte/muhcs-billtrack/billing"
)

func pair(real, alert int64) billing.AllowancePair {
	return billing.AllowancePair{Real: rs(real), Alert: rs(alert)}
}

// =============================================================================
// STATUS TIER TESTS
// =============================================================================

func TestEvaluate_Safe_WellUnderAlertAllowance(t *testing.T) {
	// GIVEN: used 500 against real 2000 / alert 1600
	// WHEN: Evaluating
	// THEN: Status safe, positive balance, no excess

	state := billing.Evaluate(rs(500), pair(2000, 1600))

	if state.Status != billing.StatusSafe {
		t.Errorf("expected safe status, got %s", state.Status)
	}
	if !state.Balance.Equal(rs(1500)) {
		t.Errorf("expected balance 1500, got %s", state.Balance)
	}
	if state.Excess {
		t.Errorf("expected no excess flag")
	}
}

func TestEvaluate_Warning_At80PercentOfAlertAllowance(t *testing.T) {
	// GIVEN: used 1280 against alert 1600 (exactly 80%)
	// WHEN: Evaluating
	// THEN: Warning; the 80% boundary is inclusive

	state := billing.Evaluate(rs(1280), pair(2000, 1600))

	if state.Status != billing.StatusWarning {
		t.Errorf("expected warning at the 80%% boundary, got %s", state.Status)
	}
}

func TestEvaluate_Critical_At95PercentOfAlertAllowance(t *testing.T) {
	// GIVEN: used 1520 against alert 1600 (exactly 95%)
	// WHEN: Evaluating
	// THEN: Critical; the 95% boundary is inclusive

	state := billing.Evaluate(rs(1520), pair(2000, 1600))

	if state.Status != billing.StatusCritical {
		t.Errorf("expected critical at the 95%% boundary, got %s", state.Status)
	}
}

func TestEvaluate_UsedEqualsAlertAllowance_NotExceeded(t *testing.T) {
	// GIVEN: used exactly equal to the alert allowance
	// WHEN: Evaluating
	// THEN: Critical, not exceeded; only strictly greater trips exceeded

	state := billing.Evaluate(rs(1600), pair(2000, 1600))

	if state.Status != billing.StatusExceeded && state.Status != billing.StatusCritical {
		t.Fatalf("unexpected status %s", state.Status)
	}
	if state.Status == billing.StatusExceeded {
		t.Errorf("used == alert allowance must not be exceeded")
	}
}

func TestEvaluate_Exceeded_OverAlertAllowance(t *testing.T) {
	// GIVEN: used just past the alert allowance but under the real one
	// WHEN: Evaluating
	// THEN: Exceeded even though the real allowance still has room

	state := billing.Evaluate(rs(1601), pair(2000, 1600))

	if state.Status != billing.StatusExceeded {
		t.Errorf("expected exceeded status, got %s", state.Status)
	}
	if state.Excess {
		t.Errorf("excess tracks the real allowance, not the alert allowance")
	}
	if !state.Balance.Equal(rs(399)) {
		t.Errorf("expected balance 399, got %s", state.Balance)
	}
}

func TestEvaluate_UsedEqualsRealAllowance_ZeroBalanceNoExcess(t *testing.T) {
	// GIVEN: used 5700 against real 5700 / alert 5000
	// WHEN: Evaluating
	// THEN: Exceeded, balance zero, and the excess label stays off
	//       because the real allowance is matched, not passed

	state := billing.Evaluate(rs(5700), pair(5700, 5000))

	if state.Status != billing.StatusExceeded {
		t.Errorf("expected exceeded status, got %s", state.Status)
	}
	if !state.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", state.Balance)
	}
	if state.Excess {
		t.Errorf("expected no excess when used equals the real allowance")
	}
}

func TestEvaluate_OverRealAllowance_NegativeBalanceWithExcess(t *testing.T) {
	// GIVEN: used 2500 against real 2000
	// WHEN: Evaluating
	// THEN: Balance -500 with the excess flag set

	state := billing.Evaluate(rs(2500), pair(2000, 1600))

	if !state.Balance.Equal(rs(-500)) {
		t.Errorf("expected balance -500, got %s", state.Balance)
	}
	if !state.Excess {
		t.Errorf("expected excess flag when used exceeds the real allowance")
	}
}

func TestEvaluate_PercentagesCappedAt100(t *testing.T) {
	// GIVEN: used far beyond both allowances
	// WHEN: Evaluating
	// THEN: Both displayed percentages cap at 100

	state := billing.Evaluate(rs(99999), pair(2000, 1600))

	if state.PercentUsed != 100 || state.AlertPercent != 100 {
		t.Errorf("expected capped percentages, got %.2f / %.2f", state.PercentUsed, state.AlertPercent)
	}
}

func TestEvaluate_ZeroAllowance_PercentIsZero(t *testing.T) {
	// GIVEN: A zero allowance (empty rate table) with nonzero usage
	// WHEN: Evaluating
	// THEN: Percentages report 0 rather than dividing by zero; the
	//       status still trips exceeded because used > alert allowance

	state := billing.Evaluate(rs(300), pair(0, 0))

	if state.PercentUsed != 0 || state.AlertPercent != 0 {
		t.Errorf("expected zero percentages, got %.2f / %.2f", state.PercentUsed, state.AlertPercent)
	}
	if state.Status != billing.StatusExceeded {
		t.Errorf("expected exceeded against a zero allowance, got %s", state.Status)
	}
}

func TestEvaluate_PercentPrecision(t *testing.T) {
	// GIVEN: used 1234 against alert 1600
	// WHEN: Evaluating
	// THEN: Alert percent is 77.125

	state := billing.Evaluate(rs(1234), pair(2000, 1600))

	if math.Abs(state.AlertPercent-77.125) > 0.0001 {
		t.Errorf("expected alert percent 77.125, got %v", state.AlertPercent)
	}
	if state.Status != billing.StatusSafe {
		t.Errorf("expected safe below the 80%% boundary, got %s", state.Status)
	}
}

// =============================================================================
// FULL PIPELINE TESTS
// =============================================================================

func TestEvaluateAdmission_ActiveGeneralWard(t *testing.T) {
	// GIVEN: General ward, admitted 2024-01-01, today 2024-01-05,
	//        lab 300 + pharma 200 recorded, standard rates
	// WHEN: Evaluating the admission
	// THEN: 5/4 days, allowance 2000/1600, bed fee 2000, used 500, safe

	a := activeAdmission(date(2024, time.January, 1), billing.WardGeneral)
	entries := billing.Entries{
		Lab:    []billing.Entry{entry(300)},
		Pharma: []billing.Entry{entry(200)},
	}

	eval, err := billing.EvaluateAdmission(a, standardRates(), entries, date(2024, time.January, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if eval.Days.Billable != 5 || eval.Days.Alert != 4 {
		t.Errorf("expected 5/4 days, got %d/%d", eval.Days.Billable, eval.Days.Alert)
	}
	if !eval.Allowance.Real.Equal(rs(2000)) || !eval.Allowance.Alert.Equal(rs(1600)) {
		t.Errorf("expected allowance 2000/1600, got %s/%s", eval.Allowance.Real, eval.Allowance.Alert)
	}
	if !eval.Usage.BedFee.Equal(rs(2000)) {
		t.Errorf("expected bed fee 2000 (5 days at 400), got %s", eval.Usage.BedFee)
	}
	if !eval.Usage.Used.Equal(rs(500)) {
		t.Errorf("expected used 500, got %s", eval.Usage.Used)
	}
	if eval.Balance.Status != billing.StatusSafe {
		t.Errorf("expected safe status, got %s", eval.Balance.Status)
	}
}

func TestEvaluateAdmission_DischargedCabin(t *testing.T) {
	// GIVEN: Cabin stay 2024-01-01 to 2024-01-04 (3 billable days),
	//        standard rates, entries totaling 5800
	// WHEN: Evaluating
	// THEN: Allowance 5700 both ways, bed fee 4500, excess 100

	a := dischargedAdmission(date(2024, time.January, 1), date(2024, time.January, 4), billing.WardCabin)
	entries := billing.Entries{
		Lab:     []billing.Entry{entry(2800)},
		Counter: []billing.Entry{entry(3000)},
	}

	eval, err := billing.EvaluateAdmission(a, standardRates(), entries, date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !eval.Allowance.Real.Equal(rs(5700)) || !eval.Allowance.Alert.Equal(rs(5700)) {
		t.Errorf("expected allowance 5700/5700, got %s/%s", eval.Allowance.Real, eval.Allowance.Alert)
	}
	if !eval.Usage.BedFee.Equal(rs(4500)) {
		t.Errorf("expected bed fee 4500 (3 days at 1500), got %s", eval.Usage.BedFee)
	}
	if !eval.Usage.CounterSection.Equal(rs(7500)) {
		t.Errorf("expected counter section 7500, got %s", eval.Usage.CounterSection)
	}
	if eval.Balance.Status != billing.StatusExceeded {
		t.Errorf("expected exceeded status, got %s", eval.Balance.Status)
	}
	if !eval.Balance.Balance.Equal(rs(-100)) || !eval.Balance.Excess {
		t.Errorf("expected excess of 100, got balance %s excess=%v", eval.Balance.Balance, eval.Balance.Excess)
	}
}

func TestEvaluateAdmission_OverridePinsUsed(t *testing.T) {
	// GIVEN: An active stay with an override of 9999 over entries of 500
	// WHEN: Evaluating
	// THEN: The balance state is computed from the override

	a := activeAdmission(date(2024, time.January, 1), billing.WardGeneral)
	override := rs(9999)
	a.Override = &override
	entries := billing.Entries{Lab: []billing.Entry{entry(500)}}

	eval, err := billing.EvaluateAdmission(a, standardRates(), entries, date(2024, time.January, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !eval.Usage.Used.Equal(rs(9999)) || !eval.Usage.Overridden {
		t.Errorf("expected overridden used 9999, got %s", eval.Usage.Used)
	}
	if eval.Balance.Status != billing.StatusExceeded {
		t.Errorf("expected exceeded status from override, got %s", eval.Balance.Status)
	}
	if !eval.Balance.Excess {
		t.Errorf("expected excess flag: override 9999 > real allowance 2000")
	}
}

func TestEvaluateAdmission_UnknownWard_FailsClosed(t *testing.T) {
	// GIVEN: An admission carrying a corrupt ward value
	// WHEN: Evaluating
	// THEN: The pipeline rejects it instead of pricing at zero

	a := activeAdmission(date(2024, time.January, 1), billing.WardType("penthouse"))

	_, err := billing.EvaluateAdmission(a, standardRates(), billing.Entries{}, date(2024, time.January, 5))
	if err == nil {
		t.Fatalf("expected an error for an unknown ward")
	}
}

func TestEvaluateAdmission_Idempotent(t *testing.T) {
	// GIVEN: The same inputs
	// WHEN: Evaluating twice
	// THEN: Identical results; the pipeline holds no state

	a := activeAdmission(date(2024, time.February, 1), billing.WardSemiPrivate)
	entries := billing.Entries{Xray: []billing.Entry{entry(900)}}
	today := date(2024, time.February, 10)

	first, err := billing.EvaluateAdmission(a, standardRates(), entries, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := billing.EvaluateAdmission(a, standardRates(), entries, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Usage.Used.Equal(second.Usage.Used) ||
		!first.Allowance.Real.Equal(second.Allowance.Real) ||
		first.Balance.Status != second.Balance.Status {
		t.Errorf("expected identical evaluations, got %+v vs %+v", first, second)
	}
}
