/*
scenarios.go - Worked example calculations for demos and onboarding

PURPOSE:

	Provides pre-built calculation requests covering the cases HR staff ask
	about most: a full-timer, a part-timer, a mid-year leaver, long service
	and a contract change mid-year. Running a scenario goes through exactly
	the same path as POST /api/calculations, so the stored result, summary
	and exports are real.

AVAILABLE SCENARIOS:

	full-time:        37.5 hours, full leave year, no long service
	part-time:        22.5 hours, full leave year
	leaver:           Full-timer leaving at the end of June
	long-service:     Full-timer with 12 years' service (2 blocks)
	contract-change:  Full-time until June, 20 hours from July

USAGE VIA API:

	GET  /api/scenarios
	POST /api/scenarios/run
	{"scenario_id": "leaver", "year": 2025}

	Year defaults to the current year. Dates are placed inside that year.

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a case to scenarioRequest

SEE ALSO:
  - handlers.go: runCalculation
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/leave-entitlement/generic"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO describes a worked example.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RunScenarioRequest is the body of POST /api/scenarios/run.
type RunScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
	Year       int    `json:"year,omitempty" validate:"omitempty,min=1900,max=9999"`
	Region     string `json:"region,omitempty" validate:"max=64"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "full-time",
		Name:        "Full-Time Employee",
		Description: "37.5 hours/week for the whole leave year, under five years' service",
	},
	{
		ID:          "part-time",
		Name:        "Part-Time Employee",
		Description: "22.5 hours/week for the whole leave year",
	},
	{
		ID:          "leaver",
		Name:        "Mid-Year Leaver",
		Description: "Full-timer whose leave period ends on 30 June",
	},
	{
		ID:          "long-service",
		Name:        "Long Service",
		Description: "Full-timer with twelve years' continuous service",
	},
	{
		ID:          "contract-change",
		Name:        "Contract Change",
		Description: "Full-time to 30 June, then 20 hours/week",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// RunScenario calculates and stores a predefined scenario.
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	var req RunScenarioRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", validationDetails(err))
		return
	}

	year := req.Year
	if year == 0 {
		year = h.now().Year()
	}

	calc, ok := scenarioRequest(req.ScenarioID, year)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}
	calc.Region = req.Region

	dto, err := h.runCalculation(r.Context(), calc)
	if err != nil {
		var inErr *inputError
		if errors.As(err, &inErr) {
			writeInputError(w, inErr.err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to run scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// scenarioRequest builds the calculation request for a scenario in year.
func scenarioRequest(id string, year int) (CalculationRequest, bool) {
	date := func(y int, m time.Month, d int) string {
		return generic.NewTimePoint(y, m, d).String()
	}

	req := CalculationRequest{
		LeaveStart: date(year, time.January, 1),
		LeaveEnd:   date(year, time.December, 31),
	}

	switch id {
	case "full-time":
		req.EmployeeNumber = "DEMO-FT"
		req.HireDate = date(year-2, time.September, 1)
		req.ContractedHours = "37.5"
	case "part-time":
		req.EmployeeNumber = "DEMO-PT"
		req.HireDate = date(year-3, time.March, 14)
		req.ContractedHours = "22.5"
	case "leaver":
		req.EmployeeNumber = "DEMO-LV"
		req.HireDate = date(year-1, time.February, 1)
		req.LeaveEnd = date(year, time.June, 30)
		req.TerminationDate = req.LeaveEnd
		req.ContractedHours = "37.5"
	case "long-service":
		req.EmployeeNumber = "DEMO-LS"
		req.HireDate = date(year-12, time.January, 1)
		req.ContractedHours = "37.5"
	case "contract-change":
		req.EmployeeNumber = "DEMO-CC"
		req.HireDate = date(year-4, time.May, 1)
		req.ContractedHours = "20"
		req.ContractPeriods = []ContractPeriodRequest{
			{Start: date(year, time.January, 1), End: date(year, time.June, 30), WeeklyHours: "37.5"},
			{Start: date(year, time.July, 1), End: date(year, time.December, 31), WeeklyHours: "20"},
		}
	default:
		return CalculationRequest{}, false
	}
	return req, true
}
