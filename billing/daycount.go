/*
daycount.go - Billable and alert day counts

THE TWO COUNTS:
  Billable: the day count the hospital bills against.
    Discharged stays: discharge - admission, floored at 1. The discharge
    day itself is excluded; a same-day discharge still bills one day.
    Active stays: today - admission + 1. The admission day counts as
    day 1, so the count rises by one each calendar day.

  Alert: a conservative count used only to trip the warning status one
    day early. Active stays use billable-1 (floored at 1); discharged
    stays need no head start, so alert equals billable.
*/
package billing

// DayCounts holds both counts for an admission. They are produced
// together so the alert variant can never be computed from a different
// formula than the real one.
type DayCounts struct {
	Billable int
	Alert    int
}

// CountDays computes the day counts for an admission as of the given
// day. The caller supplies today; discharged stays ignore it.
func CountDays(a Admission, today Date) DayCounts {
	if a.Discharged() {
		days := DaysBetween(a.AdmissionDate, *a.DischargeDate)
		if days < 1 {
			days = 1
		}
		return DayCounts{Billable: days, Alert: days}
	}

	days := DaysBetween(a.AdmissionDate, today) + 1
	if days < 1 {
		days = 1
	}
	alert := days - 1
	if alert < 1 {
		alert = 1
	}
	return DayCounts{Billable: days, Alert: alert}
}
