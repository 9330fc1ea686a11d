/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND DATES:
  Money travels as decimal strings ("5700"). Dates are YYYY-MM-DD
  strings. Percentages are plain floats already capped at 100.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - billing/evaluate.go: The Evaluation these DTOs flatten
*/
package api

import (
	"github.com/zohmingaRalte/muhcs-billtrack/billing"
	"github.com/zohmingaRalte/muhcs-billtrack/store/sqlite"
)

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// =============================================================================
// PATIENTS AND ADMISSIONS
// =============================================================================

type PatientDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Contact  string `json:"contact"`
}

type AdmissionDTO struct {
	ID            int64   `json:"id"`
	PatientID     int64   `json:"patient_id"`
	AdmissionDate string  `json:"admission_date"`
	DischargeDate *string `json:"discharge_date,omitempty"`
	Ward          string  `json:"ward"`
	Status        string  `json:"status"`
	Override      *string `json:"override,omitempty"`
}

// AdmissionRowDTO is one dashboard table row: admission, patient, and
// the headline numbers from the evaluation.
type AdmissionRowDTO struct {
	Admission AdmissionDTO `json:"admission"`
	Patient   PatientDTO   `json:"patient"`

	Days         int     `json:"days"`
	Used         string  `json:"used"`
	Allowed      string  `json:"allowed"`
	PercentUsed  float64 `json:"percent_used"`
	AlertPercent float64 `json:"alert_percent"`
	StatusTier   string  `json:"status_tier"`
}

// CreateAdmissionRequest creates the patient and the admission in one
// call, matching the front desk's single intake form.
type CreateAdmissionRequest struct {
	FullName      string `json:"full_name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Contact       string `json:"contact"`
	AdmissionDate string `json:"admission_date"`
	Ward          string `json:"ward"`
}

type UpdateAdmissionRequest struct {
	FullName      string `json:"full_name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Contact       string `json:"contact"`
	AdmissionDate string `json:"admission_date"`
	Ward          string `json:"ward"`
}

type DischargeRequest struct {
	DischargeDate string `json:"discharge_date"`
}

type OverrideRequest struct {
	Amount string `json:"amount"`
}

// =============================================================================
// ENTRIES AND PAYMENTS
// =============================================================================

type EntryDTO struct {
	ID         int64  `json:"id"`
	Amount     string `json:"amount"`
	EntryDate  string `json:"entry_date"`
	ChargeType string `json:"charge_type,omitempty"`
}

type EntryRequest struct {
	Amount     string `json:"amount"`
	EntryDate  string `json:"entry_date"`
	ChargeType string `json:"charge_type,omitempty"`
}

type PaymentDTO struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
}

type PaymentRequest struct {
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date"`
}

// =============================================================================
// EVALUATION
// =============================================================================

// EvaluationDTO flattens billing.Evaluation for the admission page.
type EvaluationDTO struct {
	BillableDays int `json:"billable_days"`
	AlertDays    int `json:"alert_days"`

	Allowed      string `json:"allowed"`
	AlertAllowed string `json:"alert_allowed"`

	Lab            string `json:"lab_total"`
	Pharma         string `json:"pharma_total"`
	Xray           string `json:"xray_total"`
	Counter        string `json:"counter_total"`
	BedFee         string `json:"bed_fee"`
	CounterSection string `json:"counter_section_total"`

	Used       string `json:"used"`
	Overridden bool   `json:"overridden"`

	Balance      string  `json:"balance"`
	Excess       bool    `json:"excess"`
	PercentUsed  float64 `json:"percent_used"`
	AlertPercent float64 `json:"alert_percent"`
	StatusTier   string  `json:"status_tier"`
}

// AdmissionSnapshotDTO is the full admission page payload.
type AdmissionSnapshotDTO struct {
	Admission  AdmissionDTO  `json:"admission"`
	Patient    PatientDTO    `json:"patient"`
	Rates      RateSetDTO    `json:"rates"`
	Lab        []EntryDTO    `json:"lab_entries"`
	Pharma     []EntryDTO    `json:"pharma_entries"`
	Xray       []EntryDTO    `json:"xray_entries"`
	Counter    []EntryDTO    `json:"counter_entries"`
	Evaluation EvaluationDTO `json:"evaluation"`
}

// =============================================================================
// RATES AND SUMMARY
// =============================================================================

type RateDTO struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type RateSetDTO struct {
	PerDiemInsurance string `json:"per_diem_insurance"`
	CabinRate        string `json:"cabin_rate"`
	SemiPrivateRate  string `json:"semi_private_rate"`
	BedRate          string `json:"bed_rate"`
}

type RatesResponse struct {
	Records  []RateDTO  `json:"records"`
	Resolved RateSetDTO `json:"resolved"`
}

type MonthlySummaryDTO struct {
	Admissions int    `json:"admissions"`
	Discharged int    `json:"discharged"`
	Billed     string `json:"billed"`
	Claim      string `json:"claim"`
}

type SummaryDTO struct {
	Patients   int `json:"patients"`
	Active     int `json:"active"`
	Discharged int `json:"discharged"`

	TotalClaim string `json:"total_claim"`
	Received   string `json:"received"`
	Pending    string `json:"pending"` // zero when received covers the claim

	Month *MonthlySummaryDTO `json:"month,omitempty"`
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active,omitempty"`
}

type LoadScenarioRequest struct {
	ID string `json:"id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toPatientDTO(p sqlite.Patient) PatientDTO {
	return PatientDTO{ID: p.ID, FullName: p.FullName, Age: p.Age, Gender: p.Gender, Contact: p.Contact}
}

func toAdmissionDTO(a billing.Admission) AdmissionDTO {
	dto := AdmissionDTO{
		ID:            a.ID,
		PatientID:     a.PatientID,
		AdmissionDate: a.AdmissionDate.String(),
		Ward:          string(a.Ward),
		Status:        string(a.Status),
	}
	if a.DischargeDate != nil {
		s := a.DischargeDate.String()
		dto.DischargeDate = &s
	}
	if a.Override != nil {
		s := a.Override.String()
		dto.Override = &s
	}
	return dto
}

func toEntryDTOs(entries []billing.Entry, counter bool) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dto := EntryDTO{ID: e.ID, Amount: e.Amount.String(), EntryDate: e.EntryDate.String()}
		if counter {
			dto.ChargeType = string(e.ChargeType)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func toRateSetDTO(rates billing.RateSet) RateSetDTO {
	return RateSetDTO{
		PerDiemInsurance: rates.PerDiemInsurance.String(),
		CabinRate:        rates.CabinRate.String(),
		SemiPrivateRate:  rates.SemiPrivateRate.String(),
		BedRate:          rates.BedRate.String(),
	}
}

func toEvaluationDTO(eval billing.Evaluation) EvaluationDTO {
	return EvaluationDTO{
		BillableDays: eval.Days.Billable,
		AlertDays:    eval.Days.Alert,

		Allowed:      eval.Allowance.Real.String(),
		AlertAllowed: eval.Allowance.Alert.String(),

		Lab:            eval.Usage.Lab.String(),
		Pharma:         eval.Usage.Pharma.String(),
		Xray:           eval.Usage.Xray.String(),
		Counter:        eval.Usage.Counter.String(),
		BedFee:         eval.Usage.BedFee.String(),
		CounterSection: eval.Usage.CounterSection.String(),

		Used:       eval.Usage.Used.String(),
		Overridden: eval.Usage.Overridden,

		Balance:      eval.Balance.Balance.String(),
		Excess:       eval.Balance.Excess,
		PercentUsed:  eval.Balance.PercentUsed,
		AlertPercent: eval.Balance.AlertPercent,
		StatusTier:   string(eval.Balance.Status),
	}
}
