/*
scenarios_test.go - Tests for demo scenarios and the dashboard summary

PURPOSE:
	Tests that each scenario correctly sets up the expected state:
	- Admissions land in the intended claim tiers
	- The dashboard summary totals match the seeded data
	- Reset clears domain data without locking anyone out
*/
package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zohmingaRalte/muhcs-billtrack/api"
)

func loadScenario(t *testing.T, srv *httptest.Server, token, id string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load", token, api.LoadScenarioRequest{ID: id})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestScenarios_ListRequiresLogin(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/scenarios", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	admin := login(t, srv, "admin", "admin123")
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/scenarios", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []api.ScenarioDTO
	decode(t, resp, &list)
	require.Len(t, list, 3)
	for _, s := range list {
		assert.False(t, s.Active)
	}

	loadScenario(t, srv, admin, "quiet-ward")
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/scenarios", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &list)
	for _, s := range list {
		assert.Equal(t, s.ID == "quiet-ward", s.Active)
	}
}

func TestScenarios_OnlyAdminLoads(t *testing.T) {
	srv := newTestServer(t)
	counter := login(t, srv, "counter", "counter123")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load", counter,
		api.LoadScenarioRequest{ID: "quiet-ward"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestScenarios_QuietWard_AllSafe(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")
	loadScenario(t, srv, admin, "quiet-ward")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/admissions", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []api.AdmissionRowDTO
	decode(t, resp, &rows)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "safe", row.StatusTier)
		assert.Equal(t, "admitted", row.Admission.Status)
	}
}

func TestScenarios_BusyWard_MixedTiers(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")
	loadScenario(t, srv, admin, "busy-ward")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/admissions", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []api.AdmissionRowDTO
	decode(t, resp, &rows)
	require.Len(t, rows, 4)

	tiers := make(map[string]int)
	for _, row := range rows {
		tiers[row.StatusTier]++
	}
	assert.Equal(t, 2, tiers["safe"])
	assert.Equal(t, 1, tiers["warning"])
	assert.Equal(t, 1, tiers["critical"])
}

func TestScenarios_ExceededClaims_SummaryTotals(t *testing.T) {
	// GIVEN: The exceeded-claims scenario with today pinned to 2024-01-05:
	//        a 3-day general stay (claim 1200, used 2150) and a 5-day
	//        cabin stay (claim 9500, override 15000), payment 1000
	// WHEN: Fetching the summary
	// THEN: Claim 10700, received 1000, pending 9700

	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")
	loadScenario(t, srv, admin, "exceeded-claims")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/summary", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary api.SummaryDTO
	decode(t, resp, &summary)

	assert.Equal(t, 2, summary.Patients)
	assert.Equal(t, 0, summary.Active)
	assert.Equal(t, 2, summary.Discharged)
	assert.Equal(t, "10700", summary.TotalClaim)
	assert.Equal(t, "1000", summary.Received)
	assert.Equal(t, "9700", summary.Pending)
}

func TestScenarios_MonthlySummary(t *testing.T) {
	// Both exceeded-claims admissions fall in December 2023 relative to
	// the pinned clock: billed = 2150 + 15000 (override), claim 10700.

	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")
	loadScenario(t, srv, admin, "exceeded-claims")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/summary?month=12&year=2023", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary api.SummaryDTO
	decode(t, resp, &summary)
	require.NotNil(t, summary.Month)

	assert.Equal(t, 2, summary.Month.Admissions)
	assert.Equal(t, 2, summary.Month.Discharged)
	assert.Equal(t, "17150", summary.Month.Billed)
	assert.Equal(t, "10700", summary.Month.Claim)
}

func TestScenarios_InvalidMonthRejected(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/summary?month=13&year=2024", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestReset_ClearsAdmissionsKeepsLogin(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, "admin", "admin123")
	loadScenario(t, srv, admin, "busy-ward")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/reset", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Same session still works; the data is gone but the seed rates are back.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/admissions", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []api.AdmissionRowDTO
	decode(t, resp, &rows)
	assert.Empty(t, rows)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rates", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rates api.RatesResponse
	decode(t, resp, &rates)
	assert.Len(t, rates.Records, 4)
	assert.Equal(t, "400", rates.Resolved.PerDiemInsurance)
}
