/*
errors.go - Centralized error types for the billing engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these to HTTP statuses; the engine only ever
  returns them as values.

ERROR CATEGORIES:
  1. Input errors - invalid amounts, dates, ward types
  2. Lookup errors - missing records

NOTE ON MISSING RATES:
  A rate description absent from the rate table is NOT an error. The
  rate resolves to zero and computation proceeds; the rate table is
  operator-maintained data and an absent row is a configuration state,
  not a fault. Ward types, by contrast, are written only by this
  application, so an unrecognized value is corrupt data and fails hard.
*/
package billing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidWardType is returned when an admission carries a ward
	// value outside {general, semi_private, cabin}.
	ErrInvalidWardType = errors.New("invalid ward type")

	// ErrInvalidChargeType is returned for counter entries with an
	// unrecognized charge classification.
	ErrInvalidChargeType = errors.New("invalid charge type")

	// ErrInvalidAmount is returned when a monetary input is malformed,
	// non-positive where a positive value is required, or negative
	// where a non-negative value is required.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDateOrder is returned when a discharge date precedes
	// the admission date.
	ErrInvalidDateOrder = errors.New("discharge date before admission date")

	// ErrAlreadyDischarged is returned when discharging an admission
	// that is already discharged. The transition is one-way.
	ErrAlreadyDischarged = errors.New("admission already discharged")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidWardTypeError reports the offending ward value.
type InvalidWardTypeError struct {
	Ward string
}

func (e *InvalidWardTypeError) Error() string {
	return fmt.Sprintf("invalid ward type %q", e.Ward)
}

func (e *InvalidWardTypeError) Unwrap() error { return ErrInvalidWardType }

// InvalidChargeTypeError reports the offending charge type value.
type InvalidChargeTypeError struct {
	ChargeType string
}

func (e *InvalidChargeTypeError) Error() string {
	return fmt.Sprintf("invalid charge type %q", e.ChargeType)
}

func (e *InvalidChargeTypeError) Unwrap() error { return ErrInvalidChargeType }

// DateOrderError reports the pair of dates that violate ordering.
type DateOrderError struct {
	AdmissionDate Date
	DischargeDate Date
}

func (e *DateOrderError) Error() string {
	return fmt.Sprintf("discharge date %s before admission date %s",
		e.DischargeDate, e.AdmissionDate)
}

func (e *DateOrderError) Unwrap() error { return ErrInvalidDateOrder }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidWardType) ||
		errors.Is(err, ErrInvalidChargeType) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDateOrder) ||
		errors.Is(err, ErrAlreadyDischarged)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
