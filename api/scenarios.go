/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	admissions for testing and demos. Each scenario creates patients,
	admissions, department charges, and payments that land in specific
	claim states on the dashboard.

AVAILABLE SCENARIOS:

	quiet-ward:      A couple of fresh general-ward admissions, all safe
	busy-ward:       Mixed wards and tiers: safe, warning, critical
	exceeded-claims: Discharged stays over their allowance, one override

HOW SCENARIOS WORK:
 1. Reset domain data (users survive)
 2. Seed the default rate table
 3. Create patients and admissions relative to today
 4. Add department charges sized to hit the intended tier
 5. Optionally record payments

USAGE VIA API:

	POST /api/scenarios/load
	{"id": "busy-ward"}

NOTE:

	Scenarios reset the database. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: The handlers these scenarios feed
  - store/sqlite/sqlite.go: Reset semantics
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/zohmingaRalte/muhcs-billtrack/access"
	"github.com/zohmingaRalte/muhcs-billtrack/billing"
	"github.com/zohmingaRalte/muhcs-billtrack/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "quiet-ward",
		Name:        "Quiet Ward",
		Description: "Two fresh general-ward admissions, claims well inside the allowance",
	},
	{
		ID:          "busy-ward",
		Name:        "Busy Ward",
		Description: "Mixed wards with claims in safe, warning, and critical tiers",
	},
	{
		ID:          "exceeded-claims",
		Name:        "Exceeded Claims",
		Description: "Discharged stays over the allowance, one with a manual override",
	},
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionViewDashboard); !ok {
		return
	}
	out := make([]ScenarioDTO, len(scenarios))
	copy(out, scenarios)
	for i := range out {
		out[i].Active = out[i].ID == h.currentScenario
	}
	writeJSON(w, http.StatusOK, out)
}

// LoadScenario wipes domain data and loads a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionManageData); !ok {
		return
	}

	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := h.SeedRates(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed rates", err)
		return
	}

	var err error
	switch req.ID {
	case "quiet-ward":
		err = h.loadQuietWardScenario(ctx)
	case "busy-ward":
		err = h.loadBusyWardScenario(ctx)
	case "exceeded-claims":
		err = h.loadExceededClaimsScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ID
	h.Log.Info().Str("scenario", req.ID).Msg("scenario loaded")

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ID})
}

// ResetDatabase wipes domain data without loading a scenario.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAction(w, r, access.ActionManageData); !ok {
		return
	}

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	if err := h.SeedRates(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed rates", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// BASELINE SEEDS
// =============================================================================

// SeedRates installs the default rate card when the table is empty.
func (h *Handler) SeedRates(ctx context.Context) error {
	existing, err := h.Store.ListRates(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []billing.RateRecord{
		{Description: "MUHCS per diem allowance", Amount: billing.NewMoneyFromInt(400)},
		{Description: "General bed charge", Amount: billing.NewMoneyFromInt(400)},
		{Description: "Semi-private room charge", Amount: billing.NewMoneyFromInt(800)},
		{Description: "Cabin charge", Amount: billing.NewMoneyFromInt(1500)},
	}
	for _, rec := range defaults {
		if _, err := h.Store.SaveRate(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// SeedDemo populates an empty database with the busy-ward scenario so a
// fresh install has something on the dashboard. No-op when admissions exist.
func (h *Handler) SeedDemo(ctx context.Context) error {
	existing, err := h.Store.ListAdmissions(ctx, sqlite.AdmissionFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return h.loadBusyWardScenario(ctx)
}

// SeedUsers installs one account per role. Existing names are updated,
// so re-running on startup is harmless.
func (h *Handler) SeedUsers(ctx context.Context) error {
	accounts := []struct {
		name     string
		password string
		role     access.Role
	}{
		{"admin", "admin123", access.RoleAdmin},
		{"counter", "counter123", access.RoleCounter},
		{"lab", "lab123", access.RoleLab},
		{"xray", "xray123", access.RoleXray},
		{"pharma", "pharma123", access.RolePharma},
		{"viewer", "viewer123", access.RoleViewer},
	}
	for _, acc := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := h.Store.CreateUser(ctx, sqlite.User{
			Name: acc.name, PasswordHash: string(hash), Role: acc.role,
		}); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

type scenarioAdmission struct {
	name      string
	age       int
	gender    string
	ward      billing.WardType
	daysAgo   int // admitted this many days before today
	discharge int // discharged this many days after admission; 0 = still in
	charges   map[string]int64
	override  int64 // 0 = none
}

func (h *Handler) loadScenarioAdmissions(ctx context.Context, items []scenarioAdmission) error {
	today := h.today()
	for _, item := range items {
		patientID, err := h.Store.CreatePatient(ctx, sqlite.Patient{
			FullName: item.name, Age: item.age, Gender: item.gender,
		})
		if err != nil {
			return err
		}

		admitted := today.AddDays(-item.daysAgo)
		admissionID, err := h.Store.CreateAdmission(ctx, patientID, admitted, item.ward)
		if err != nil {
			return err
		}

		entryDate := admitted.AddDays(1)
		if entryDate.After(today) {
			entryDate = today
		}
		for dept, amount := range item.charges {
			entry := billing.Entry{
				AdmissionID: admissionID,
				Amount:      billing.NewMoneyFromInt(amount),
				EntryDate:   entryDate,
			}
			if dept == "counter" {
				entry.ChargeType = billing.ChargeNursing
			}
			if _, err := h.Store.AddEntry(ctx, dept, entry, "demo"); err != nil {
				return err
			}
		}

		if item.discharge > 0 {
			if err := h.Store.Discharge(ctx, admissionID, admitted.AddDays(item.discharge)); err != nil {
				return err
			}
		}
		if item.override > 0 {
			if err := h.Store.SetOverride(ctx, admissionID, billing.NewMoneyFromInt(item.override)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handler) loadQuietWardScenario(ctx context.Context) error {
	return h.loadScenarioAdmissions(ctx, []scenarioAdmission{
		{
			name: "Lalruatfela Chhangte", age: 42, gender: "male",
			ward: billing.WardGeneral, daysAgo: 2,
			charges: map[string]int64{"lab": 350, "pharma": 180},
		},
		{
			name: "Vanlalhruaii Ralte", age: 29, gender: "female",
			ward: billing.WardGeneral, daysAgo: 1,
			charges: map[string]int64{"pharma": 120},
		},
	})
}

func (h *Handler) loadBusyWardScenario(ctx context.Context) error {
	return h.loadScenarioAdmissions(ctx, []scenarioAdmission{
		// Safe: 6 days general, allowance 2400/2000, used 900.
		{
			name: "Zothanpuia Hnamte", age: 61, gender: "male",
			ward: billing.WardGeneral, daysAgo: 5,
			charges: map[string]int64{"lab": 400, "pharma": 300, "xray": 200},
		},
		// Warning: 4 days semi-private, alert allowance 3600, used ~3100.
		{
			name: "Lalnunmawii Pachuau", age: 48, gender: "female",
			ward: billing.WardSemiPrivate, daysAgo: 3,
			charges: map[string]int64{"lab": 1200, "pharma": 900, "xray": 1000},
		},
		// Critical: 3 days cabin, alert allowance 3800, used 3700.
		{
			name: "Ramdinthara Colney", age: 55, gender: "male",
			ward: billing.WardCabin, daysAgo: 2,
			charges: map[string]int64{"lab": 1500, "pharma": 1200, "counter": 1000},
		},
		// Discharged and settled.
		{
			name: "Lalhriatpuii Fanai", age: 37, gender: "female",
			ward: billing.WardGeneral, daysAgo: 10, discharge: 4,
			charges: map[string]int64{"lab": 500, "pharma": 400},
		},
	})
}

func (h *Handler) loadExceededClaimsScenario(ctx context.Context) error {
	if err := h.loadScenarioAdmissions(ctx, []scenarioAdmission{
		// Discharged 3-day general stay, allowance 1200, used 2150.
		{
			name: "Thangvunga Tlau", age: 67, gender: "male",
			ward: billing.WardGeneral, daysAgo: 8, discharge: 3,
			charges: map[string]int64{"lab": 800, "pharma": 650, "xray": 700},
		},
		// Override far past the cabin allowance.
		{
			name: "Zonunsangi Khawlhring", age: 51, gender: "female",
			ward: billing.WardCabin, daysAgo: 12, discharge: 5,
			charges:  map[string]int64{"lab": 2000},
			override: 15000,
		},
	}); err != nil {
		return err
	}

	// A partial payment so the dashboard shows pending claim.
	_, err := h.Store.AddPayment(ctx, billing.Payment{
		Amount:      billing.NewMoneyFromInt(1000),
		PaymentDate: h.today().AddDays(-1),
	}, "demo")
	return err
}
