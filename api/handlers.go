/*
handlers.go - HTTP API handlers for the leave entitlement service

PURPOSE:
  Exposes the entitlement engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the calculator, holiday provider,
  report renderer and calculation history.

ENDPOINTS:
  Calculations:
    POST   /api/calculations                   Calculate and store
    GET    /api/calculations?employee=&limit=  History, newest first
    GET    /api/calculations/{id}              Stored result
    GET    /api/calculations/{id}/summary      Plain-text summary
    GET    /api/calculations/{id}/export.csv   Summary as CSV (?split=true)
    GET    /api/calculations/{id}/export.pdf   Summary as PDF

  Reference data:
    GET    /api/bank-holidays?year=&region=    Holiday count and events
    GET    /api/regions                        Supported regions
    GET    /api/policy                         Active contract norms

  Scenarios (scenarios.go):
    GET    /api/scenarios                      Worked examples
    POST   /api/scenarios/run                  Run one and store it

  Operations:
    GET    /healthz                            Store reachability

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Calculation history
  - Holidays: Bank holiday provider (GOV.UK client in production)
  - Policy/Calculator: Active contract norms and the engine built from them

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (validator/v10, then domain parsing)
  3. Look up bank holidays for the leave year
  4. Calculate, render summary, persist
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Calculation not found
  - 500: Internal errors
  A failed holiday lookup is not an error; the calculation proceeds with
  zero holidays and is marked unavailable.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/leave-entitlement/entitlement"
	"github.com/warp/leave-entitlement/factory"
	"github.com/warp/leave-entitlement/generic"
	"github.com/warp/leave-entitlement/holidays"
	"github.com/warp/leave-entitlement/metrics"
	"github.com/warp/leave-entitlement/report"
	"github.com/warp/leave-entitlement/store/sqlite"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxBodyBytes     = 1 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// eventLister is implemented by providers that can list individual holidays.
type eventLister interface {
	Events(ctx context.Context, year int, region holidays.Region) ([]holidays.Event, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Holidays   holidays.Provider
	Policy     *factory.Policy
	Calculator *entitlement.Calculator

	validate *validator.Validate
	now      func() time.Time
}

// NewHandler creates a handler. A nil policy selects the UK standard norms.
func NewHandler(store *sqlite.Store, provider holidays.Provider, policy *factory.Policy) *Handler {
	if policy == nil {
		std := factory.UKStandard()
		policy = &std
	}
	return &Handler{
		Store:      store,
		Holidays:   provider,
		Policy:     policy,
		Calculator: entitlement.NewCalculator(policy.Config),
		validate:   validator.New(),
		now:        time.Now,
	}
}

// =============================================================================
// CALCULATION ENDPOINTS
// =============================================================================

// CreateCalculation handles POST /api/calculations
func (h *Handler) CreateCalculation(w http.ResponseWriter, r *http.Request) {
	var req CalculationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		metrics.Calculations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dto, err := h.runCalculation(r.Context(), req)
	if err != nil {
		var inErr *inputError
		if errors.As(err, &inErr) {
			writeInputError(w, inErr.err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// runCalculation validates req, looks up holidays, calculates and stores the
// result. Rejected input is returned as *inputError.
func (h *Handler) runCalculation(ctx context.Context, req CalculationRequest) (CalculationDTO, error) {
	if err := h.validate.Struct(req); err != nil {
		metrics.Calculations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return CalculationDTO{}, &inputError{validationDetails(err)}
	}

	in, err := h.buildInput(req)
	if err != nil {
		metrics.Calculations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return CalculationDTO{}, &inputError{err}
	}

	count := h.Holidays.BankHolidays(ctx, in.LeaveYear(), in.Region)

	result, err := h.Calculator.Calculate(in, count)
	if err != nil {
		if entitlement.IsValidationError(err) {
			metrics.Calculations.WithLabelValues(metrics.OutcomeInvalid).Inc()
			return CalculationDTO{}, &inputError{err}
		}
		metrics.Calculations.WithLabelValues(metrics.OutcomeError).Inc()
		zap.L().Error("calculation failed", zap.Error(err))
		return CalculationDTO{}, err
	}

	summary, err := report.Summary(result)
	if err != nil {
		metrics.Calculations.WithLabelValues(metrics.OutcomeError).Inc()
		zap.L().Error("render summary failed", zap.Error(err))
		return CalculationDTO{}, fmt.Errorf("render summary: %w", err)
	}

	id := uuid.NewString()
	dto := toCalculationDTO(id, result, summary, h.now().UTC())

	if err := h.saveCalculation(ctx, req, dto, result); err != nil {
		metrics.Calculations.WithLabelValues(metrics.OutcomeError).Inc()
		zap.L().Error("save calculation failed", zap.String("id", id), zap.Error(err))
		return CalculationDTO{}, err
	}

	outcome := metrics.OutcomeOK
	if !count.Available {
		outcome = metrics.OutcomeUnavailable
	}
	metrics.Calculations.WithLabelValues(outcome).Inc()

	zap.L().Info("calculation stored",
		zap.String("id", id),
		zap.String("employee", result.EmployeeNumber),
		zap.String("total_hours", result.Total.String()),
		zap.Bool("holidays_available", count.Available))

	return dto, nil
}

// ListCalculations handles GET /api/calculations
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := h.Store.ListCalculations(r.Context(), r.URL.Query().Get("employee"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calculations", err)
		return
	}

	dtos := make([]CalculationSummaryDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toCalculationSummaryDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCalculation handles GET /api/calculations/{id}
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadCalculation(w, r)
	if !ok {
		return
	}

	var dto CalculationDTO
	if err := json.Unmarshal([]byte(rec.ResultJSON), &dto); err != nil {
		writeError(w, http.StatusInternalServerError, "Stored calculation is unreadable", err)
		return
	}
	dto.Summary = rec.Summary
	dto.CreatedAt = rec.CreatedAt
	writeJSON(w, http.StatusOK, dto)
}

// GetSummary handles GET /api/calculations/{id}/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadCalculation(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rec.Summary))
}

// ExportCSV handles GET /api/calculations/{id}/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadCalculation(w, r)
	if !ok {
		return
	}
	split, _ := strconv.ParseBool(r.URL.Query().Get("split"))

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rec.Summary, split); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export CSV", err)
		return
	}
	writeAttachment(w, "text/csv", exportFilename(rec, "csv"), buf.Bytes())
}

// ExportPDF handles GET /api/calculations/{id}/export.pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadCalculation(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, rec.Summary); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export PDF", err)
		return
	}
	writeAttachment(w, "application/pdf", exportFilename(rec, "pdf"), buf.Bytes())
}

// =============================================================================
// REFERENCE DATA ENDPOINTS
// =============================================================================

// GetBankHolidays handles GET /api/bank-holidays?year=&region=
func (h *Handler) GetBankHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 9999 {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = n
	}
	region, err := holidays.ParseRegion(r.URL.Query().Get("region"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid region", err)
		return
	}

	dto := BankHolidaysDTO{Year: year, Region: string(region), Events: []HolidayEventDTO{}}

	lister, ok := h.Holidays.(eventLister)
	if !ok {
		count := h.Holidays.BankHolidays(r.Context(), year, region)
		dto.Available = count.Available
		dto.Count = holidayCount(count)
		writeJSON(w, http.StatusOK, dto)
		return
	}

	events, err := lister.Events(r.Context(), year, region)
	if err != nil {
		zap.L().Warn("bank holiday listing failed",
			zap.Int("year", year),
			zap.String("region", string(region)),
			zap.Error(err))
		metrics.HolidayLookups.WithLabelValues(string(region), metrics.OutcomeUnavailable).Inc()
		writeJSON(w, http.StatusOK, dto)
		return
	}
	metrics.HolidayLookups.WithLabelValues(string(region), metrics.OutcomeOK).Inc()
	n := len(events)
	dto.Available = true
	dto.Count = &n
	dto.Events = toHolidayEventDTOs(events)
	writeJSON(w, http.StatusOK, dto)
}

// ListRegions handles GET /api/regions
func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions := holidays.Regions()
	dtos := make([]RegionDTO, 0, len(regions))
	for _, region := range regions {
		dtos = append(dtos, RegionDTO{ID: string(region), Name: region.DisplayName()})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPolicy handles GET /api/policy
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.ToJSON(*h.Policy))
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// buildInput turns a validated request into engine input. Blank contracted
// hours mean a full-time contract; a blank region means England & Wales.
func (h *Handler) buildInput(req CalculationRequest) (entitlement.Input, error) {
	var in entitlement.Input
	var err error

	in.EmployeeNumber = req.EmployeeNumber
	if in.LeavePeriod.Start, err = generic.ParseDateField("leave_start", req.LeaveStart); err != nil {
		return in, err
	}
	if in.LeavePeriod.End, err = generic.ParseDateField("leave_end", req.LeaveEnd); err != nil {
		return in, err
	}
	if in.Employment.HireDate, err = generic.ParseDateField("hire_date", req.HireDate); err != nil {
		return in, err
	}
	if req.TerminationDate != "" {
		term, err := generic.ParseDateField("termination_date", req.TerminationDate)
		if err != nil {
			return in, err
		}
		in.Employment.TerminationDate = &term
	}
	if in.Region, err = holidays.ParseRegion(req.Region); err != nil {
		return in, err
	}
	if in.ContractedHours, err = h.Policy.Config.ParseContractedHours(req.ContractedHours); err != nil {
		return in, err
	}

	for i, p := range req.ContractPeriods {
		var cp entitlement.ContractPeriod
		if cp.Period.Start, err = generic.ParseDateField(fmt.Sprintf("contract_periods[%d].start", i), p.Start); err != nil {
			return in, err
		}
		if cp.Period.End, err = generic.ParseDateField(fmt.Sprintf("contract_periods[%d].end", i), p.End); err != nil {
			return in, err
		}
		if cp.WeeklyHours, err = h.Policy.Config.ParseContractedHours(p.WeeklyHours); err != nil {
			return in, err
		}
		in.ContractPeriods = append(in.ContractPeriods, cp)
	}
	return in, nil
}

func (h *Handler) saveCalculation(ctx context.Context, req CalculationRequest, dto CalculationDTO, result entitlement.Result) error {
	inputJSON, err := json.Marshal(req)
	if err != nil {
		return err
	}
	stored := dto
	stored.Summary = ""
	resultJSON, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	return h.Store.SaveCalculation(ctx, sqlite.CalculationRecord{
		ID:                dto.ID,
		EmployeeNumber:    result.EmployeeNumber,
		Region:            string(result.Region),
		LeaveStart:        result.LeavePeriod.Start,
		LeaveEnd:          result.LeavePeriod.End,
		TotalHours:        result.Total.String(),
		HolidaysAvailable: result.BankHolidays.Available,
		InputJSON:         string(inputJSON),
		ResultJSON:        string(resultJSON),
		Summary:           dto.Summary,
		CreatedAt:         dto.CreatedAt,
	})
}

// loadCalculation fetches {id} and writes the error response itself when
// the lookup fails.
func (h *Handler) loadCalculation(w http.ResponseWriter, r *http.Request) (*sqlite.CalculationRecord, bool) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetCalculation(r.Context(), id)
	if err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Calculation not found", nil)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to load calculation", err)
		return nil, false
	}
	return rec, true
}

// inputError marks a calculation rejected because of its input.
type inputError struct {
	err error
}

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

// writeInputError reports a rejected input. Contracted-hours errors carry a
// message meant for the user; everything else is "Invalid input".
func writeInputError(w http.ResponseWriter, err error) {
	var hoursErr *entitlement.ContractedHoursError
	if errors.As(err, &hoursErr) {
		writeError(w, http.StatusBadRequest, hoursErr.Error(), nil)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid input", err)
}

func validationDetails(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return fieldErrors(fields)
}

// fieldErrors renders as {"CalculationRequest.LeaveStart": "datetime", ...}.
type fieldErrors map[string]string

func (f fieldErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(f))
}

func exportFilename(rec *sqlite.CalculationRecord, ext string) string {
	name := rec.EmployeeNumber
	if name == "" {
		name = rec.ID
	}
	return fmt.Sprintf("leave-%s-%s.%s", name, rec.LeaveEnd.String(), ext)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if fe, ok := err.(fieldErrors); ok {
		resp.Code = "validation"
		resp.Details = map[string]string(fe)
	} else if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
