/*
Package billing provides the core claim computation engine for the MUHCS
bill tracker.

PURPOSE:
  This package contains the deterministic arithmetic that turns an
  admission record, the hospital rate table, and departmental charge
  entries into the numbers shown to staff: billable day counts, the
  insurance allowance, the used amount, and the Safe/Warning/Critical/
  Exceeded status tier.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary amount backed by decimal.Decimal
  - Date: A calendar day (midnight-normalized, UTC)
  - RateSet: The resolved per-day rates (MUHCS per-diem, cabin, semi, bed)
  - Admission / Entry / Payment: The records the engine computes over

DESIGN PRINCIPLES:
  1. Purity: every computation is a function of its inputs; the caller
     supplies "today", the engine never reads the clock
  2. Precision: decimal.Decimal throughout, no floating-point money
  3. Dual outputs: the real and alert allowance come from one function,
     so the two formulas cannot drift apart

USAGE:
  rates := billing.ResolveRates(records)
  eval, err := billing.EvaluateAdmission(adm, rates, entries, billing.Today())
  // eval.Balance.Status, eval.Usage.Used, eval.Allowance.Real, ...

SEE ALSO:
  - daycount.go:  billable and alert day counts
  - allowance.go: ward add-ons and allowance pairs
  - usage.go:     department sums, bed fee, override handling
  - evaluate.go:  BalanceState and the per-admission entry point
*/
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount (INR, but the engine is currency-agnostic)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

// ParseMoney parses a decimal string such as "1500" or "249.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Value: d}, nil
}

// MustParseMoney parses a decimal string, returning zero on malformed input.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}
	}
	return Money{Value: d}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(o Money) Money          { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money          { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) MulDays(days int) Money     { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(days)))} }
func (m Money) Neg() Money                 { return Money{Value: m.Value.Neg()} }
func (m Money) Abs() Money                 { return Money{Value: m.Value.Abs()} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) GreaterThan(o Money) bool   { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool      { return m.Value.LessThan(o.Value) }
func (m Money) Equal(o Money) bool         { return m.Value.Equal(o.Value) }
func (m Money) String() string             { return m.Value.String() }
func (m Money) Float64() float64           { f, _ := m.Value.Float64(); return f }

// =============================================================================
// DATE - Calendar day, midnight-normalized in UTC
// =============================================================================

type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02" formatted dates.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(o Date) bool { return d.normalize().Before(o.normalize()) }
func (d Date) After(o Date) bool  { return d.normalize().After(o.normalize()) }
func (d Date) Equal(o Date) bool  { return d.normalize().Equal(o.normalize()) }
func (d Date) IsZero() bool       { return d.Time.IsZero() }

func (d Date) AddDays(n int) Date { return Date{Time: d.normalize().AddDate(0, 0, n)} }

func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// DaysBetween returns the number of whole calendar days from one date to
// another. Both dates are normalized to midnight first, so the result is
// exact for any pair of dates.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// WARD / STATUS / CHARGE TYPE ENUMS
// =============================================================================

type WardType string

const (
	WardGeneral     WardType = "general"
	WardSemiPrivate WardType = "semi_private"
	WardCabin       WardType = "cabin"
)

// ParseWardType validates a stored ward value.
func ParseWardType(s string) (WardType, error) {
	switch WardType(s) {
	case WardGeneral, WardSemiPrivate, WardCabin:
		return WardType(s), nil
	}
	return "", &InvalidWardTypeError{Ward: s}
}

type AdmissionStatus string

const (
	StatusAdmitted   AdmissionStatus = "admitted"
	StatusDischarged AdmissionStatus = "discharged"
)

// ChargeType classifies manual counter entries. Lab, pharmacy and X-ray
// entries carry no charge type.
type ChargeType string

const (
	ChargeNursing      ChargeType = "nursing"
	ChargeConsultation ChargeType = "consultation"
	ChargeMisc         ChargeType = "misc"
)

func ParseChargeType(s string) (ChargeType, error) {
	switch ChargeType(s) {
	case ChargeNursing, ChargeConsultation, ChargeMisc:
		return ChargeType(s), nil
	}
	return "", &InvalidChargeTypeError{ChargeType: s}
}

// =============================================================================
// RATE SET - Resolved per-day rates
// =============================================================================

// RateRecord is one row of the hospital's rate table, matched by
// description substring during resolution.
type RateRecord struct {
	Description string
	Amount      Money
}

// RateSet holds the four rates the engine needs. Fields missing from the
// rate table resolve to zero (see ResolveRates).
type RateSet struct {
	PerDiemInsurance Money // the MUHCS per-day claim allowance
	CabinRate        Money
	SemiPrivateRate  Money
	BedRate          Money
}

// =============================================================================
// RECORDS - Inputs fetched from the store
// =============================================================================

// Admission is one hospital stay for a patient. DischargeDate is nil
// while the patient is admitted; Override, when non-nil, replaces the
// entry-based used amount wholesale.
type Admission struct {
	ID            int64
	PatientID     int64
	AdmissionDate Date
	DischargeDate *Date
	Ward          WardType
	Status        AdmissionStatus
	Override      *Money
}

// Discharged reports whether the stay has ended. Discharge is recorded
// as status plus date in one write, so both are checked.
func (a Admission) Discharged() bool {
	return a.Status == StatusDischarged && a.DischargeDate != nil
}

// Entry is a single departmental charge against an admission.
// ChargeType is set for counter entries only.
type Entry struct {
	ID          int64
	AdmissionID int64
	Amount      Money
	EntryDate   Date
	ChargeType  ChargeType
}

// Entries groups the four department lists fetched for one admission.
type Entries struct {
	Lab     []Entry
	Pharma  []Entry
	Xray    []Entry
	Counter []Entry
}

// Payment is money received against the aggregate claim. Payments are
// hospital-wide, not tied to an admission.
type Payment struct {
	ID          int64
	Amount      Money
	PaymentDate Date
}
