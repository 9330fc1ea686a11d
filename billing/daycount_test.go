package billing_test

import (
	"testing"
	"time"

	"github.com/zohmingaRalte/muhcs-billtrack/billing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func rs(n int64) billing.Money {
	return billing.NewMoneyFromInt(n)
}

func date(year int, month time.Month, day int) billing.Date {
	return billing.NewDate(year, month, day)
}

func activeAdmission(admitted billing.Date, ward billing.WardType) billing.Admission {
	return billing.Admission{
		ID:            1,
		PatientID:     1,
		AdmissionDate: admitted,
		Ward:          ward,
		Status:        billing.StatusAdmitted,
	}
}

func dischargedAdmission(admitted, discharged billing.Date, ward billing.WardType) billing.Admission {
	return billing.Admission{
		ID:            1,
		PatientID:     1,
		AdmissionDate: admitted,
		DischargeDate: &discharged,
		Ward:          ward,
		Status:        billing.StatusDischarged,
	}
}

// standardRates mirrors the default rate card: MUHCS per-diem 400,
// semi-private 800, cabin 1500, general bed 400.
func standardRates() billing.RateSet {
	return billing.RateSet{
		PerDiemInsurance: rs(400),
		SemiPrivateRate:  rs(800),
		CabinRate:        rs(1500),
		BedRate:          rs(400),
	}
}

// =============================================================================
// DAY COUNT TESTS
// =============================================================================

func TestCountDays_ActiveStay_IncludesToday(t *testing.T) {
	// GIVEN: Admitted 2024-01-01, still in the ward
	// WHEN: Counting days on 2024-01-05
	// THEN: Billable days = 5 (admission day and today both count),
	//       alert days = 4 (one day of headroom)

	a := activeAdmission(date(2024, time.January, 1), billing.WardGeneral)
	days := billing.CountDays(a, date(2024, time.January, 5))

	if days.Billable != 5 {
		t.Errorf("expected 5 billable days, got %d", days.Billable)
	}
	if days.Alert != 4 {
		t.Errorf("expected 4 alert days, got %d", days.Alert)
	}
}

func TestCountDays_ActiveStay_AdmittedToday_MinimumOneDay(t *testing.T) {
	// GIVEN: Admitted today
	// WHEN: Counting days the same day
	// THEN: Both counts are 1, never zero

	a := activeAdmission(date(2024, time.March, 10), billing.WardGeneral)
	days := billing.CountDays(a, date(2024, time.March, 10))

	if days.Billable != 1 || days.Alert != 1 {
		t.Errorf("expected 1/1 days for same-day active stay, got %d/%d", days.Billable, days.Alert)
	}
}

func TestCountDays_DischargedStay_ExcludesDischargeDay(t *testing.T) {
	// GIVEN: Admitted 2024-01-01, discharged 2024-01-04
	// WHEN: Counting days (today is irrelevant once discharged)
	// THEN: Billable days = 3, and alert days equal billable days

	a := dischargedAdmission(date(2024, time.January, 1), date(2024, time.January, 4), billing.WardGeneral)
	days := billing.CountDays(a, date(2024, time.June, 1))

	if days.Billable != 3 {
		t.Errorf("expected 3 billable days, got %d", days.Billable)
	}
	if days.Alert != 3 {
		t.Errorf("expected alert days to match billable days after discharge, got %d", days.Alert)
	}
}

func TestCountDays_SameDayDischarge_MinimumOneDay(t *testing.T) {
	// GIVEN: Admitted and discharged on the same date
	// WHEN: Counting days
	// THEN: One billable day is still charged

	a := dischargedAdmission(date(2024, time.February, 15), date(2024, time.February, 15), billing.WardGeneral)
	days := billing.CountDays(a, date(2024, time.February, 20))

	if days.Billable != 1 || days.Alert != 1 {
		t.Errorf("expected 1/1 days for same-day discharge, got %d/%d", days.Billable, days.Alert)
	}
}

func TestCountDays_AlertNeverExceedsBillable(t *testing.T) {
	// GIVEN: A spread of active and discharged stays
	// WHEN: Counting days for each
	// THEN: Alert days <= billable days, with equality only for
	//       discharged stays or one-day stays

	today := date(2024, time.May, 10)
	cases := []struct {
		name string
		a    billing.Admission
	}{
		{"active multi-day", activeAdmission(date(2024, time.May, 1), billing.WardGeneral)},
		{"active same-day", activeAdmission(today, billing.WardCabin)},
		{"discharged", dischargedAdmission(date(2024, time.April, 1), date(2024, time.April, 7), billing.WardSemiPrivate)},
	}

	for _, tc := range cases {
		days := billing.CountDays(tc.a, today)
		if days.Alert > days.Billable {
			t.Errorf("%s: alert days %d exceed billable days %d", tc.name, days.Alert, days.Billable)
		}
		if days.Billable < 1 || days.Alert < 1 {
			t.Errorf("%s: day counts must be at least 1, got %d/%d", tc.name, days.Billable, days.Alert)
		}
	}
}

// =============================================================================
// RATE RESOLUTION TESTS
// =============================================================================

func TestResolveRates_MatchesByKeyword_CaseInsensitive(t *testing.T) {
	// GIVEN: A rate master with mixed-case service names
	// WHEN: Resolving the rate set
	// THEN: Each slot matches by case-insensitive substring

	records := []billing.RateRecord{
		{Description: "MUHCS Per Diem", Amount: rs(400)},
		{Description: "Deluxe CABIN (per day)", Amount: rs(1500)},
		{Description: "Semi-Private Ward", Amount: rs(800)},
		{Description: "General Bed Charge", Amount: rs(350)},
	}

	rates := billing.ResolveRates(records)

	if !rates.PerDiemInsurance.Equal(rs(400)) {
		t.Errorf("expected per-diem 400, got %s", rates.PerDiemInsurance)
	}
	if !rates.CabinRate.Equal(rs(1500)) {
		t.Errorf("expected cabin rate 1500, got %s", rates.CabinRate)
	}
	if !rates.SemiPrivateRate.Equal(rs(800)) {
		t.Errorf("expected semi-private rate 800, got %s", rates.SemiPrivateRate)
	}
	if !rates.BedRate.Equal(rs(350)) {
		t.Errorf("expected bed rate 350, got %s", rates.BedRate)
	}
}

func TestResolveRates_FirstMatchWins(t *testing.T) {
	// GIVEN: Two rows matching "cabin"
	// WHEN: Resolving
	// THEN: The earlier row is used

	records := []billing.RateRecord{
		{Description: "Cabin (old)", Amount: rs(1200)},
		{Description: "Cabin (revised)", Amount: rs(1500)},
	}

	rates := billing.ResolveRates(records)

	if !rates.CabinRate.Equal(rs(1200)) {
		t.Errorf("expected first matching cabin rate 1200, got %s", rates.CabinRate)
	}
}

func TestResolveRates_MissingRow_DegradesToZero(t *testing.T) {
	// GIVEN: A rate master with no cabin row
	// WHEN: Resolving
	// THEN: The cabin slot is zero and resolution does not fail

	records := []billing.RateRecord{
		{Description: "MUHCS per diem", Amount: rs(400)},
	}

	rates := billing.ResolveRates(records)

	if !rates.CabinRate.IsZero() {
		t.Errorf("expected zero cabin rate when no row matches, got %s", rates.CabinRate)
	}
	if !rates.PerDiemInsurance.Equal(rs(400)) {
		t.Errorf("expected per-diem 400, got %s", rates.PerDiemInsurance)
	}
}

func TestResolveRates_EmptyMaster_AllZero(t *testing.T) {
	// GIVEN: No rate rows at all
	// WHEN: Resolving
	// THEN: Every slot is zero

	rates := billing.ResolveRates(nil)

	if !rates.PerDiemInsurance.IsZero() || !rates.CabinRate.IsZero() ||
		!rates.SemiPrivateRate.IsZero() || !rates.BedRate.IsZero() {
		t.Errorf("expected all-zero rate set from empty master, got %+v", rates)
	}
}
