/*
validate.go - Write-path validation

Checks applied before anything is persisted. Read-path computation is
deliberately lenient (missing rates degrade to zero); write paths are
strict so bad data never makes it into the ledger.
*/
package billing

import "fmt"

// ValidateEntryAmount rejects zero or negative department charges.
func ValidateEntryAmount(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("entry amount %s: %w", amount, ErrInvalidAmount)
	}
	return nil
}

// ValidateOverride rejects negative overrides. Zero is allowed: it
// pins the used amount to nothing, which is a legitimate correction.
func ValidateOverride(amount Money) error {
	if amount.IsNegative() {
		return fmt.Errorf("override amount %s: %w", amount, ErrInvalidAmount)
	}
	return nil
}

// ValidatePaymentAmount rejects zero or negative payments.
func ValidatePaymentAmount(amount Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("payment amount %s: %w", amount, ErrInvalidAmount)
	}
	return nil
}

// ValidateDischarge checks that an admission can be discharged on the
// given date: not already discharged, and the date must not precede
// the admission date.
func ValidateDischarge(a Admission, dischargeDate Date) error {
	if a.Discharged() {
		return fmt.Errorf("admission %d: %w", a.ID, ErrAlreadyDischarged)
	}
	if dischargeDate.Before(a.AdmissionDate) {
		return &DateOrderError{AdmissionDate: a.AdmissionDate, DischargeDate: dischargeDate}
	}
	return nil
}
