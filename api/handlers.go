/*
handlers.go - HTTP API handlers for the billing tracker

PURPOSE:
  Exposes admissions, department charges, payments, and the dashboard
  summary via REST. Handles HTTP request/response, JSON serialization,
  and delegates all computation to the billing package.

ENDPOINTS:
  Auth:
    POST   /api/login                   Name+password login
    POST   /api/logout                  Delete session
    POST   /api/password                Change own password

  Admissions:
    GET    /api/admissions              Dashboard table rows
    POST   /api/admissions              Intake: patient + admission
    GET    /api/admissions/{id}         Full snapshot with evaluation
    PUT    /api/admissions/{id}         Edit patient / date / ward
    POST   /api/admissions/{id}/discharge
    PUT    /api/admissions/{id}/override
    DELETE /api/admissions/{id}/override

  Entries:
    POST   /api/admissions/{id}/entries/{dept}
    PUT    /api/entries/{dept}/{entryID}
    DELETE /api/entries/{dept}/{entryID}

  Other:
    GET    /api/rates                   Rate table + resolved set
    GET    /api/summary                 Claim/received/pending + month
    GET    /api/payments
    POST   /api/payments
    GET    /api/scenarios
    POST   /api/scenarios/load
    POST   /api/reset

REQUEST FLOW:
  1. Parse HTTP request
  2. Capability check (access.CanPerform)
  3. Validate input with the billing validators
  4. Store write / read
  5. Re-evaluate and serialize

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Bad credentials or session
  - 403: Capability denied
  - 404: Record not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Session middleware and auth handlers
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/zohmingaRalte/muhcs-billtrack/access"
	"github.com/zohmingaRalte/muhcs-billtrack/billing"
	"github.com/zohmingaRalte/muhcs-billtrack/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Log        zerolog.Logger
	SessionTTL time.Duration

	// Now overrides the clock in tests. nil means time.Now.
	Now func() time.Time

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler with a 24h session TTL and a no-op
// logger. Callers wire real logging and TTL from config.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:      store,
		Log:        zerolog.Nop(),
		SessionTTL: 24 * time.Hour,
	}
}

func (h *Handler) today() billing.Date {
	t := h.now()
	return billing.NewDate(t.Year(), t.Month(), t.Day())
}

// resolvedRates fetches the rate table and resolves it. Every request
// refetches; the table is tiny and edits must show up immediately.
func (h *Handler) resolvedRates(r *http.Request) (billing.RateSet, []billing.RateRecord, error) {
	records, err := h.Store.ListRates(r.Context())
	if err != nil {
		return billing.RateSet{}, nil, err
	}
	return billing.ResolveRates(records), records, nil
}

// =============================================================================
// ADMISSION HANDLERS
// =============================================================================

// ListAdmissions returns the dashboard table.
// GET /api/admissions?status=&search=&sort=
func (h *Handler) ListAdmissions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionViewDashboard); !ok {
		return
	}

	filter := sqlite.AdmissionFilter{
		Status: billing.AdmissionStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}

	rows, err := h.Store.ListAdmissions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list admissions", err)
		return
	}

	rates, _, err := h.resolvedRates(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rates", err)
		return
	}

	today := h.today()
	dtos := make([]AdmissionRowDTO, 0, len(rows))
	for _, row := range rows {
		entries, err := h.Store.ListEntries(r.Context(), row.Admission.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
			return
		}
		eval, err := billing.EvaluateAdmission(row.Admission, rates, entries, today)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to evaluate admission", err)
			return
		}
		dtos = append(dtos, AdmissionRowDTO{
			Admission:    toAdmissionDTO(row.Admission),
			Patient:      toPatientDTO(row.Patient),
			Days:         eval.Days.Billable,
			Used:         eval.Usage.Used.String(),
			Allowed:      eval.Allowance.Real.String(),
			PercentUsed:  eval.Balance.PercentUsed,
			AlertPercent: eval.Balance.AlertPercent,
			StatusTier:   string(eval.Balance.Status),
		})
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateAdmission records a new patient and their admission.
// POST /api/admissions
func (h *Handler) CreateAdmission(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAction(w, r, access.ActionCreateAdmission)
	if !ok {
		return
	}

	var req CreateAdmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FullName == "" {
		writeError(w, http.StatusBadRequest, "Patient name is required", nil)
		return
	}
	ward, err := billing.ParseWardType(req.Ward)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	admissionDate, err := billing.ParseDate(req.AdmissionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid admission_date format (use YYYY-MM-DD)", err)
		return
	}

	patientID, err := h.Store.CreatePatient(r.Context(), sqlite.Patient{
		FullName: req.FullName, Age: req.Age, Gender: req.Gender, Contact: req.Contact,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create patient", err)
		return
	}
	admissionID, err := h.Store.CreateAdmission(r.Context(), patientID, admissionDate, ward)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create admission", err)
		return
	}

	h.Log.Info().Int64("admission", admissionID).Str("ward", string(ward)).
		Str("by", sess.UserName).Msg("admission created")

	a, err := h.Store.GetAdmission(r.Context(), admissionID)
	if err != nil || a == nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back admission", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdmissionDTO(*a))
}

// GetAdmission returns the full snapshot for the admission page.
// GET /api/admissions/{id}
func (h *Handler) GetAdmission(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAction(w, r, access.ActionViewDashboard)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Store.GetAdmission(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get admission", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Admission not found", nil)
		return
	}

	patient, err := h.Store.GetPatient(r.Context(), a.PatientID)
	if err != nil || patient == nil {
		writeError(w, http.StatusInternalServerError, "Failed to get patient", err)
		return
	}

	rates, _, err := h.resolvedRates(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rates", err)
		return
	}
	entries, err := h.Store.ListEntries(r.Context(), a.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}

	eval, err := billing.EvaluateAdmission(*a, rates, entries, h.today())
	if err != nil {
		writeBillingError(w, err)
		return
	}

	// Department staff only see their own section; the counter desk,
	// admins, and viewers see everything.
	snapshot := AdmissionSnapshotDTO{
		Admission:  toAdmissionDTO(*a),
		Patient:    toPatientDTO(*patient),
		Rates:      toRateSetDTO(rates),
		Evaluation: toEvaluationDTO(eval),
	}
	if access.CanPerform(sess.Role, access.ActionViewLabSection) {
		snapshot.Lab = toEntryDTOs(entries.Lab, false)
	}
	if access.CanPerform(sess.Role, access.ActionViewPharmaSection) {
		snapshot.Pharma = toEntryDTOs(entries.Pharma, false)
	}
	if access.CanPerform(sess.Role, access.ActionViewXraySection) {
		snapshot.Xray = toEntryDTOs(entries.Xray, false)
	}
	if access.CanPerform(sess.Role, access.ActionViewCounterSection) {
		snapshot.Counter = toEntryDTOs(entries.Counter, true)
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// UpdateAdmission edits patient demographics, admission date, and ward.
// PUT /api/admissions/{id}
func (h *Handler) UpdateAdmission(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionEditAdmission); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateAdmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ward, err := billing.ParseWardType(req.Ward)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	admissionDate, err := billing.ParseDate(req.AdmissionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid admission_date format (use YYYY-MM-DD)", err)
		return
	}

	a, err := h.Store.GetAdmission(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get admission", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Admission not found", nil)
		return
	}
	// The admission date cannot move past an existing discharge date.
	if a.DischargeDate != nil && a.DischargeDate.Before(admissionDate) {
		writeBillingError(w, &billing.DateOrderError{AdmissionDate: admissionDate, DischargeDate: *a.DischargeDate})
		return
	}

	if err := h.Store.UpdatePatient(r.Context(), sqlite.Patient{
		ID: a.PatientID, FullName: req.FullName, Age: req.Age, Gender: req.Gender, Contact: req.Contact,
	}); err != nil {
		writeBillingError(w, err)
		return
	}
	if err := h.Store.UpdateAdmission(r.Context(), id, admissionDate, ward); err != nil {
		writeBillingError(w, err)
		return
	}

	updated, err := h.Store.GetAdmission(r.Context(), id)
	if err != nil || updated == nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back admission", err)
		return
	}
	writeJSON(w, http.StatusOK, toAdmissionDTO(*updated))
}

// Discharge ends a stay.
// POST /api/admissions/{id}/discharge
func (h *Handler) Discharge(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAction(w, r, access.ActionDischarge)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req DischargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	dischargeDate, err := billing.ParseDate(req.DischargeDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid discharge_date format (use YYYY-MM-DD)", err)
		return
	}

	a, err := h.Store.GetAdmission(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get admission", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Admission not found", nil)
		return
	}
	if err := billing.ValidateDischarge(*a, dischargeDate); err != nil {
		writeBillingError(w, err)
		return
	}
	if err := h.Store.Discharge(r.Context(), id, dischargeDate); err != nil {
		writeBillingError(w, err)
		return
	}

	h.Log.Info().Int64("admission", id).Str("date", dischargeDate.String()).
		Str("by", sess.UserName).Msg("discharged")

	updated, err := h.Store.GetAdmission(r.Context(), id)
	if err != nil || updated == nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back admission", err)
		return
	}
	writeJSON(w, http.StatusOK, toAdmissionDTO(*updated))
}

// SetOverride pins the used amount.
// PUT /api/admissions/{id}/override
func (h *Handler) SetOverride(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAction(w, r, access.ActionSetOverride)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := billing.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	if err := billing.ValidateOverride(amount); err != nil {
		writeBillingError(w, err)
		return
	}

	if err := h.Store.SetOverride(r.Context(), id, amount); err != nil {
		writeBillingError(w, err)
		return
	}

	h.Log.Info().Int64("admission", id).Str("amount", amount.String()).
		Str("by", sess.UserName).Msg("override set")

	writeJSON(w, http.StatusOK, map[string]string{"status": "override_set"})
}

// ClearOverride restores the entry-based used amount.
// DELETE /api/admissions/{id}/override
func (h *Handler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionSetOverride); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Store.ClearOverride(r.Context(), id); err != nil {
		writeBillingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "override_cleared"})
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// AddEntry records a department charge against an active admission.
// POST /api/admissions/{id}/entries/{dept}
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	dept := chi.URLParam(r, "dept")
	action, known := access.EntryAddAction(dept)
	if !known {
		writeError(w, http.StatusNotFound, "Unknown department", nil)
		return
	}
	sess, ok := h.requireAction(w, r, action)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := h.parseEntry(req, dept)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	entry.AdmissionID = id

	a, err := h.Store.GetAdmission(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get admission", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Admission not found", nil)
		return
	}
	// New charges are for current care; corrections to old stays go
	// through edit, not add.
	if a.Discharged() {
		writeBillingError(w, billing.ErrAlreadyDischarged)
		return
	}

	entryID, err := h.Store.AddEntry(r.Context(), dept, entry, sess.UserName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add entry", err)
		return
	}

	entry.ID = entryID
	dto := EntryDTO{ID: entryID, Amount: entry.Amount.String(), EntryDate: entry.EntryDate.String()}
	if dept == "counter" {
		dto.ChargeType = string(entry.ChargeType)
	}
	writeJSON(w, http.StatusCreated, dto)
}

// UpdateEntry corrects a charge.
// PUT /api/entries/{dept}/{entryID}
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	dept := chi.URLParam(r, "dept")
	if _, known := access.EntryAddAction(dept); !known {
		writeError(w, http.StatusNotFound, "Unknown department", nil)
		return
	}
	if _, ok := h.requireAction(w, r, access.ActionEditEntry); !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	entry, err := h.parseEntry(req, dept)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	entry.ID = entryID

	if err := h.Store.UpdateEntry(r.Context(), dept, entry); err != nil {
		writeBillingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "entry_updated"})
}

// DeleteEntry removes a charge.
// DELETE /api/entries/{dept}/{entryID}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	dept := chi.URLParam(r, "dept")
	if _, known := access.EntryAddAction(dept); !known {
		writeError(w, http.StatusNotFound, "Unknown department", nil)
		return
	}
	if _, ok := h.requireAction(w, r, access.ActionEditEntry); !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	if err := h.Store.DeleteEntry(r.Context(), dept, entryID); err != nil {
		writeBillingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "entry_deleted"})
}

// parseEntry validates the shared entry fields. Charge type only
// matters for the counter table.
func (h *Handler) parseEntry(req EntryRequest, dept string) (billing.Entry, error) {
	amount, err := billing.ParseMoney(req.Amount)
	if err != nil {
		return billing.Entry{}, billing.ErrInvalidAmount
	}
	if err := billing.ValidateEntryAmount(amount); err != nil {
		return billing.Entry{}, err
	}

	entryDate := h.today()
	if req.EntryDate != "" {
		if entryDate, err = billing.ParseDate(req.EntryDate); err != nil {
			return billing.Entry{}, billing.ErrInvalidAmount
		}
	}

	entry := billing.Entry{Amount: amount, EntryDate: entryDate}
	if dept == "counter" {
		chargeType := req.ChargeType
		if chargeType == "" {
			chargeType = string(billing.ChargeMisc)
		}
		if entry.ChargeType, err = billing.ParseChargeType(chargeType); err != nil {
			return billing.Entry{}, err
		}
	}
	return entry, nil
}

// =============================================================================
// RATES, SUMMARY, PAYMENTS
// =============================================================================

// ListRates returns the raw rate table and the resolved rate set.
// GET /api/rates
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionViewDashboard); !ok {
		return
	}

	rates, records, err := h.resolvedRates(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rates", err)
		return
	}

	dtos := make([]RateDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, RateDTO{Description: rec.Description, Amount: rec.Amount.String()})
	}
	writeJSON(w, http.StatusOK, RatesResponse{Records: dtos, Resolved: toRateSetDTO(rates)})
}

// GetSummary returns the dashboard headline numbers.
// GET /api/summary?month=&year=
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionViewDashboard); !ok {
		return
	}

	rows, err := h.Store.ListAdmissions(r.Context(), sqlite.AdmissionFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list admissions", err)
		return
	}
	rates, _, err := h.resolvedRates(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rates", err)
		return
	}
	payments, err := h.Store.ListPayments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	today := h.today()
	admissions := make([]billing.Admission, 0, len(rows))
	patients := make(map[int64]struct{}, len(rows))
	active, discharged := 0, 0
	usedByAdmission := make(map[int64]billing.Money, len(rows))

	for _, row := range rows {
		admissions = append(admissions, row.Admission)
		patients[row.Patient.ID] = struct{}{}
		if row.Admission.Discharged() {
			discharged++
		} else {
			active++
		}

		entries, err := h.Store.ListEntries(r.Context(), row.Admission.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
			return
		}
		eval, err := billing.EvaluateAdmission(row.Admission, rates, entries, today)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to evaluate admission", err)
			return
		}
		usedByAdmission[row.Admission.ID] = eval.Usage.Used
	}

	claim, err := billing.ClaimTotal(admissions, rates, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to total claim", err)
		return
	}
	received := billing.PaymentsTotal(payments)
	pending := claim.Sub(received)
	if pending.IsNegative() {
		pending = billing.ZeroMoney()
	}

	summary := SummaryDTO{
		Patients:   len(patients),
		Active:     active,
		Discharged: discharged,
		TotalClaim: claim.String(),
		Received:   received.String(),
		Pending:    pending.String(),
	}

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, merr := strconv.Atoi(monthStr)
		year, yerr := strconv.Atoi(r.URL.Query().Get("year"))
		if merr != nil || yerr != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month/year", nil)
			return
		}
		ms, err := billing.SummarizeMonth(admissions, usedByAdmission, rates, year, time.Month(month), today)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to summarize month", err)
			return
		}
		summary.Month = &MonthlySummaryDTO{
			Admissions: ms.Admissions,
			Discharged: ms.Discharged,
			Billed:     ms.Billed.String(),
			Claim:      ms.Claim.String(),
		}
	}

	writeJSON(w, http.StatusOK, summary)
}

// AddPayment records a receipt against the aggregate claim.
// POST /api/payments
func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAction(w, r, access.ActionRecordPayment)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := billing.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	if err := billing.ValidatePaymentAmount(amount); err != nil {
		writeBillingError(w, err)
		return
	}
	paymentDate := h.today()
	if req.PaymentDate != "" {
		if paymentDate, err = billing.ParseDate(req.PaymentDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payment_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	id, err := h.Store.AddPayment(r.Context(), billing.Payment{
		Amount: amount, PaymentDate: paymentDate,
	}, sess.UserName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add payment", err)
		return
	}

	h.Log.Info().Int64("payment", id).Str("amount", amount.String()).
		Str("by", sess.UserName).Msg("payment recorded")

	writeJSON(w, http.StatusCreated, PaymentDTO{
		ID: id, Amount: amount.String(), PaymentDate: paymentDate.String(),
	})
}

// ListPayments returns all receipts, newest first.
// GET /api/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionViewDashboard); !ok {
		return
	}

	payments, err := h.Store.ListPayments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, PaymentDTO{ID: p.ID, Amount: p.Amount.String(), PaymentDate: p.PaymentDate.String()})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeBillingError maps billing error classes onto HTTP statuses.
func writeBillingError(w http.ResponseWriter, err error) {
	switch {
	case billing.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case billing.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
