/*
handlers_test.go - Tests for the calculation API

Tests for:
- Creating calculations (happy path, rejected input, unavailable holidays)
- History listing and retrieval
- Summary and CSV/PDF exports
- Reference data endpoints and worked scenarios
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-entitlement/generic"
	"github.com/warp/leave-entitlement/holidays"
	"github.com/warp/leave-entitlement/metrics"
	"github.com/warp/leave-entitlement/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// unavailableProvider simulates a calendar API that cannot be reached.
type unavailableProvider struct{}

func (unavailableProvider) BankHolidays(_ context.Context, year int, region holidays.Region) holidays.Count {
	return holidays.Unavailable(year, region)
}

// calendarStub lists fixed events and counts them.
type calendarStub struct {
	events []holidays.Event
	err    error
}

func (c calendarStub) BankHolidays(_ context.Context, year int, region holidays.Region) holidays.Count {
	if c.err != nil {
		return holidays.Unavailable(year, region)
	}
	return holidays.Known(year, region, len(c.events))
}

func (c calendarStub) Events(_ context.Context, _ int, _ holidays.Region) ([]holidays.Event, error) {
	return c.events, c.err
}

func newTestServer(t *testing.T, provider holidays.Provider) (*Handler, http.Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, provider, nil)
	h.now = func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return h, NewRouter(h, DefaultRouterOptions())
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func fullTimeRequest() CalculationRequest {
	return CalculationRequest{
		EmployeeNumber:  "E1001",
		LeaveStart:      "2025-01-01",
		LeaveEnd:        "2025-12-31",
		HireDate:        "2022-01-01",
		ContractedHours: "37.5",
		Region:          "england-and-wales",
	}
}

// =============================================================================
// CREATE CALCULATION TESTS
// =============================================================================

func TestCreateCalculation_FullTime(t *testing.T) {
	// GIVEN: A full-timer, full leave year, 8 bank holidays
	// WHEN: Calculating
	// THEN: 187.5 base + 60 bank holiday hours, stored and retrievable
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	rec := do(t, router, http.MethodPost, "/api/calculations", fullTimeRequest())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[CalculationDTO](t, rec)
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "E1001", dto.EmployeeNumber)
	assert.Equal(t, "England & Wales", dto.RegionName)
	assert.Equal(t, "2025-12-31", dto.TerminationDate)
	assert.Equal(t, 365, dto.LeaveDays)
	require.NotNil(t, dto.BankHolidays)
	assert.Equal(t, 8, *dto.BankHolidays)
	assert.Equal(t, 187.5, dto.Entitlement.Base)
	assert.Equal(t, 60.0, dto.Entitlement.BankHoliday)
	assert.Equal(t, 247.5, dto.Entitlement.Prorated)
	assert.Equal(t, 0.0, dto.Entitlement.LongService.Award)
	assert.Equal(t, 247.5, dto.Entitlement.Total)
	assert.Contains(t, dto.Summary, "Total Annual Entitlement: 247.50 hours")

	rec = do(t, router, http.MethodGet, "/api/calculations/"+dto.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[CalculationDTO](t, rec)
	assert.Equal(t, dto.ID, stored.ID)
	assert.Equal(t, 247.5, stored.Entitlement.Total)
	assert.Equal(t, dto.Summary, stored.Summary)
}

func TestCreateCalculation_BlankHoursMeansFullTime(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	req := fullTimeRequest()
	req.ContractedHours = ""
	req.Region = ""
	rec := do(t, router, http.MethodPost, "/api/calculations", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[CalculationDTO](t, rec)
	assert.Equal(t, 37.5, dto.ContractedHours)
	assert.Equal(t, "england-and-wales", dto.Region)
}

func TestCreateCalculation_InvalidContractedHours(t *testing.T) {
	// GIVEN: Hours that are not a quarter-hour value, or above the maximum
	// THEN: 400 with the user-facing message
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	for _, hours := range []string{"37.6", "40.25", "-1", "abc"} {
		req := fullTimeRequest()
		req.ContractedHours = hours
		rec := do(t, router, http.MethodPost, "/api/calculations", req)

		require.Equal(t, http.StatusBadRequest, rec.Code, hours)
		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, "Contracted hours must be between 0 and 40 in 15-minute increments.", resp.Error, hours)
	}
}

func TestCreateCalculation_ExtremeExponentHours(t *testing.T) {
	// GIVEN: Contracted hours written with huge positive and negative exponents
	// THEN: Overflow is a 400, underflow reads as zero hours, both answer promptly
	_, router := newTestServer(t, holidays.Fixed{Value: 8})
	start := time.Now()

	req := fullTimeRequest()
	req.ContractedHours = "1e99999999"
	rec := do(t, router, http.MethodPost, "/api/calculations", req)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "Contracted hours must be between 0 and 40 in 15-minute increments.", decode[ErrorResponse](t, rec).Error)

	req.ContractedHours = "1e-99999999"
	rec = do(t, router, http.MethodPost, "/api/calculations", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dto := decode[CalculationDTO](t, rec)
	assert.Equal(t, 0.0, dto.ContractedHours)

	assert.Less(t, time.Since(start), time.Second)
}

func TestCreateCalculation_ValidationErrors(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	req := fullTimeRequest()
	req.LeaveStart = ""
	req.HireDate = "01/02/2020"
	rec := do(t, router, http.MethodPost, "/api/calculations", req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Invalid input", resp.Error)
	assert.Equal(t, "validation", resp.Code)

	details, ok := resp.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", details["CalculationRequest.LeaveStart"])
	assert.Equal(t, "datetime", details["CalculationRequest.HireDate"])
}

func TestCreateCalculation_RejectedInput(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	tests := []struct {
		name   string
		mutate func(*CalculationRequest)
	}{
		{"termination before hire", func(r *CalculationRequest) { r.TerminationDate = "2021-12-31" }},
		{"leave period reversed", func(r *CalculationRequest) { r.LeaveStart = "2026-01-01" }},
		{"unknown region", func(r *CalculationRequest) { r.Region = "wales-only" }},
		{"impossible date", func(r *CalculationRequest) { r.LeaveEnd = "2025-02-30" }},
		{"overlapping contract periods", func(r *CalculationRequest) {
			r.ContractPeriods = []ContractPeriodRequest{
				{Start: "2025-01-01", End: "2025-07-31", WeeklyHours: "37.5"},
				{Start: "2025-07-01", End: "2025-12-31", WeeklyHours: "20"},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fullTimeRequest()
			tt.mutate(&req)
			rec := do(t, router, http.MethodPost, "/api/calculations", req)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "Invalid input", decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestCreateCalculation_MalformedBody(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	req := httptest.NewRequest(http.MethodPost, "/api/calculations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode[ErrorResponse](t, rec).Error)
}

func TestCreateCalculation_HolidaysUnavailable(t *testing.T) {
	// GIVEN: The calendar API cannot be reached
	// WHEN: Calculating
	// THEN: Zero holidays are used and the result says so
	_, router := newTestServer(t, unavailableProvider{})

	rec := do(t, router, http.MethodPost, "/api/calculations", fullTimeRequest())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[CalculationDTO](t, rec)
	assert.Nil(t, dto.BankHolidays)
	assert.Equal(t, 187.5, dto.Entitlement.Total)
	assert.Equal(t, 0.0, dto.Entitlement.BankHoliday)
	assert.Contains(t, dto.Summary, "Unavailable")

	rec = do(t, router, http.MethodGet, "/api/calculations", nil)
	list := decode[[]CalculationSummaryDTO](t, rec)
	require.Len(t, list, 1)
	assert.False(t, list[0].HolidaysAvailable)
}

func TestCreateCalculation_ContractPeriods(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	req := fullTimeRequest()
	req.ContractPeriods = []ContractPeriodRequest{
		{Start: "2025-01-01", End: "2025-06-30", WeeklyHours: "37.5"},
		{Start: "2025-07-01", End: "2025-12-31", WeeklyHours: "20"},
	}
	rec := do(t, router, http.MethodPost, "/api/calculations", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[CalculationDTO](t, rec)
	require.Len(t, dto.Periods, 2)
	assert.Equal(t, 181, dto.Periods[0].Days)
	assert.Equal(t, 122.75, dto.Periods[0].Prorated)
	assert.Equal(t, 184, dto.Periods[1].Days)
	assert.Equal(t, 66.5, dto.Periods[1].Prorated)
	assert.Equal(t, 189.25, dto.Entitlement.Total)
	assert.Contains(t, dto.Summary, "Contract Periods:")
}

// =============================================================================
// HISTORY AND EXPORT TESTS
// =============================================================================

func TestListCalculations_FilterAndLimit(t *testing.T) {
	h, router := newTestServer(t, holidays.Fixed{Value: 8})

	clock := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, emp := range []string{"E1001", "E2002", "E1001"} {
		req := fullTimeRequest()
		req.EmployeeNumber = emp
		require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/calculations", req).Code)
	}

	all := decode[[]CalculationSummaryDTO](t, do(t, router, http.MethodGet, "/api/calculations", nil))
	assert.Len(t, all, 3)

	mine := decode[[]CalculationSummaryDTO](t, do(t, router, http.MethodGet, "/api/calculations?employee=E1001", nil))
	require.Len(t, mine, 2)
	assert.Equal(t, "247.50", mine[0].TotalHours)
	assert.True(t, mine[0].CreatedAt.After(mine[1].CreatedAt))

	limited := decode[[]CalculationSummaryDTO](t, do(t, router, http.MethodGet, "/api/calculations?limit=1", nil))
	assert.Len(t, limited, 1)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/calculations?limit=zero", nil).Code)
}

func TestGetCalculation_NotFound(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	for _, path := range []string{
		"/api/calculations/missing",
		"/api/calculations/missing/summary",
		"/api/calculations/missing/export.csv",
		"/api/calculations/missing/export.pdf",
	} {
		rec := do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestSummaryAndExports(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	created := decode[CalculationDTO](t, do(t, router, http.MethodPost, "/api/calculations", fullTimeRequest()))
	base := "/api/calculations/" + created.ID

	rec := do(t, router, http.MethodGet, base+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "ANNUAL LEAVE CALCULATION SUMMARY")

	rec = do(t, router, http.MethodGet, base+"/export.csv?split=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "leave-E1001-2025-12-31.csv")
	assert.Contains(t, rec.Body.String(), "Employee Number,E1001")

	rec = do(t, router, http.MethodGet, base+"/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Employee Number: E1001")

	rec = do(t, router, http.MethodGet, base+"/export.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

// =============================================================================
// REFERENCE DATA TESTS
// =============================================================================

func TestGetBankHolidays_WithEvents(t *testing.T) {
	stub := calendarStub{events: []holidays.Event{
		{Title: "New Year's Day", Date: generic.NewTimePoint(2025, time.January, 1), Bunting: true},
		{Title: "Good Friday", Date: generic.NewTimePoint(2025, time.April, 18)},
	}}
	_, router := newTestServer(t, stub)

	rec := do(t, router, http.MethodGet, "/api/bank-holidays?year=2025&region=Scotland", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[BankHolidaysDTO](t, rec)
	assert.Equal(t, "scotland", dto.Region)
	assert.True(t, dto.Available)
	require.NotNil(t, dto.Count)
	assert.Equal(t, 2, *dto.Count)
	require.Len(t, dto.Events, 2)
	assert.Equal(t, "2025-01-01", dto.Events[0].Date)
	assert.True(t, dto.Events[0].Bunting)
}

func TestGetBankHolidays_Unavailable(t *testing.T) {
	_, router := newTestServer(t, calendarStub{err: errors.New("connection refused")})

	dto := decode[BankHolidaysDTO](t, do(t, router, http.MethodGet, "/api/bank-holidays?year=2025", nil))
	assert.False(t, dto.Available)
	assert.Nil(t, dto.Count)
	assert.Empty(t, dto.Events)
}

func TestGetBankHolidays_CountsLookups(t *testing.T) {
	// GIVEN: One listing that succeeds and one that fails
	// THEN: Each lands in the lookup counter under its own outcome
	ok := metrics.HolidayLookups.WithLabelValues("northern-ireland", metrics.OutcomeOK)
	unavailable := metrics.HolidayLookups.WithLabelValues("northern-ireland", metrics.OutcomeUnavailable)
	okBefore, unavailableBefore := testutil.ToFloat64(ok), testutil.ToFloat64(unavailable)

	_, router := newTestServer(t, calendarStub{events: []holidays.Event{{Title: "St Patrick’s Day", Date: generic.NewTimePoint(2025, time.March, 17)}}})
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/bank-holidays?year=2025&region=northern-ireland", nil).Code)

	_, router = newTestServer(t, calendarStub{err: errors.New("connection refused")})
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/bank-holidays?year=2025&region=northern-ireland", nil).Code)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, unavailableBefore+1, testutil.ToFloat64(unavailable))
}

func TestGetBankHolidays_CountOnlyProvider(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 9})

	dto := decode[BankHolidaysDTO](t, do(t, router, http.MethodGet, "/api/bank-holidays", nil))
	assert.Equal(t, 2025, dto.Year)
	require.NotNil(t, dto.Count)
	assert.Equal(t, 9, *dto.Count)
}

func TestGetBankHolidays_BadQuery(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/bank-holidays?year=next", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/bank-holidays?region=mars", nil).Code)
}

func TestRegionsPolicyAndHealth(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	regions := decode[[]RegionDTO](t, do(t, router, http.MethodGet, "/api/regions", nil))
	require.Len(t, regions, 3)
	assert.Equal(t, RegionDTO{ID: "england-and-wales", Name: "England & Wales"}, regions[0])

	policy := decode[map[string]any](t, do(t, router, http.MethodGet, "/api/policy", nil))
	assert.Equal(t, "uk-standard", policy["id"])

	rec := do(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/calculations", fullTimeRequest()).Code)
	rec = do(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leave_calculations_total")
}

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestScenarios_ListAndRun(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	list := decode[[]ScenarioDTO](t, do(t, router, http.MethodGet, "/api/scenarios", nil))
	assert.Len(t, list, len(scenarios))

	// Every listed scenario runs.
	for _, s := range list {
		rec := do(t, router, http.MethodPost, "/api/scenarios/run", RunScenarioRequest{ScenarioID: s.ID, Year: 2025})
		assert.Equal(t, http.StatusCreated, rec.Code, s.ID+": "+rec.Body.String())
	}

	rec := do(t, router, http.MethodPost, "/api/scenarios/run", RunScenarioRequest{ScenarioID: "long-service", Year: 2025})
	dto := decode[CalculationDTO](t, rec)
	assert.Equal(t, 2, dto.Entitlement.LongService.Blocks)
	assert.Equal(t, 15.0, dto.Entitlement.LongService.Award)
	assert.Equal(t, 262.5, dto.Entitlement.Total)

	rec = do(t, router, http.MethodPost, "/api/scenarios/run", RunScenarioRequest{ScenarioID: "leaver", Year: 2025})
	dto = decode[CalculationDTO](t, rec)
	assert.Equal(t, 181, dto.LeaveDays)
	assert.Equal(t, 122.75, dto.Entitlement.Total)
}

func TestScenarios_Unknown(t *testing.T) {
	_, router := newTestServer(t, holidays.Fixed{Value: 8})

	rec := do(t, router, http.MethodPost, "/api/scenarios/run", RunScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/scenarios/run", RunScenarioRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
