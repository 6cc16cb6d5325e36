/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the entitlement engine's types from the external API contract. Hours are
  sent as numbers with two decimal places; dates as YYYY-MM-DD strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Calculation:
    CalculationRequest, ContractPeriodRequest
    CalculationDTO, EntitlementDTO, LongServiceDTO, PeriodDTO
    CalculationSummaryDTO (history listing)

  Reference data:
    BankHolidaysDTO, HolidayEventDTO, RegionDTO

VALIDATION:
  Request shapes carry validator/v10 tags (presence, date layout, lengths).
  Domain rules (quarter-hour contracted hours, hire before termination)
  are enforced by the entitlement package.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON, returned as-is by GET /api/policy
*/
package api

import (
	"time"

	"github.com/warp/leave-entitlement/entitlement"
	"github.com/warp/leave-entitlement/holidays"
	"github.com/warp/leave-entitlement/store/sqlite"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CalculationRequest is the body of POST /api/calculations.
type CalculationRequest struct {
	EmployeeNumber  string                  `json:"employee_number" validate:"max=64"`
	LeaveStart      string                  `json:"leave_start" validate:"required,datetime=2006-01-02"`
	LeaveEnd        string                  `json:"leave_end" validate:"required,datetime=2006-01-02"`
	HireDate        string                  `json:"hire_date" validate:"required,datetime=2006-01-02"`
	TerminationDate string                  `json:"termination_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ContractedHours string                  `json:"contracted_hours,omitempty" validate:"max=16"`
	Region          string                  `json:"region,omitempty" validate:"max=64"`
	ContractPeriods []ContractPeriodRequest `json:"contract_periods,omitempty" validate:"omitempty,max=52,dive"`
}

// ContractPeriodRequest is one contract segment within the leave period.
type ContractPeriodRequest struct {
	Start       string `json:"start" validate:"required,datetime=2006-01-02"`
	End         string `json:"end" validate:"required,datetime=2006-01-02"`
	WeeklyHours string `json:"weekly_hours" validate:"max=16"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CalculationDTO is a full stored calculation.
type CalculationDTO struct {
	ID              string         `json:"id"`
	EmployeeNumber  string         `json:"employee_number"`
	Region          string         `json:"region"`
	RegionName      string         `json:"region_name"`
	LeaveStart      string         `json:"leave_start"`
	LeaveEnd        string         `json:"leave_end"`
	HireDate        string         `json:"hire_date"`
	TerminationDate string         `json:"termination_date"`
	ContractedHours float64        `json:"contracted_hours"`
	LeaveYear       int            `json:"leave_year"`
	LeaveDays       int            `json:"leave_days"`
	DaysInYear      int            `json:"days_in_year"`
	DaysEmployed    int            `json:"days_employed"`
	YearsEmployed   float64        `json:"years_employed"`
	BankHolidays    *int           `json:"bank_holidays"`
	Entitlement     EntitlementDTO `json:"entitlement"`
	Periods         []PeriodDTO    `json:"periods,omitempty"`
	Summary         string         `json:"summary"`
	CreatedAt       time.Time      `json:"created_at"`
}

// EntitlementDTO is the hours breakdown of a calculation.
type EntitlementDTO struct {
	Prorated    float64        `json:"prorated"`
	Base        float64        `json:"base"`
	BankHoliday float64        `json:"bank_holiday"`
	LongService LongServiceDTO `json:"long_service"`
	Total       float64        `json:"total"`
}

// LongServiceDTO is the long-service award.
type LongServiceDTO struct {
	Award  float64 `json:"award"`
	Blocks int     `json:"blocks"`
	Note   string  `json:"note"`
}

// PeriodDTO is the contribution of one contract period.
type PeriodDTO struct {
	Start       string  `json:"start"`
	End         string  `json:"end"`
	WeeklyHours float64 `json:"weekly_hours"`
	Days        int     `json:"days"`
	Prorated    float64 `json:"prorated"`
	LongService float64 `json:"long_service"`
}

// CalculationSummaryDTO is one row of the history listing.
type CalculationSummaryDTO struct {
	ID                string    `json:"id"`
	EmployeeNumber    string    `json:"employee_number"`
	Region            string    `json:"region"`
	LeaveStart        string    `json:"leave_start"`
	LeaveEnd          string    `json:"leave_end"`
	TotalHours        string    `json:"total_hours"`
	HolidaysAvailable bool      `json:"holidays_available"`
	CreatedAt         time.Time `json:"created_at"`
}

// BankHolidaysDTO is the response of GET /api/bank-holidays.
type BankHolidaysDTO struct {
	Year      int               `json:"year"`
	Region    string            `json:"region"`
	Available bool              `json:"available"`
	Count     *int              `json:"count"`
	Events    []HolidayEventDTO `json:"events"`
}

// HolidayEventDTO is one bank holiday.
type HolidayEventDTO struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Notes   string `json:"notes,omitempty"`
	Bunting bool   `json:"bunting"`
}

// RegionDTO is a supported holiday region.
type RegionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCalculationDTO(id string, r entitlement.Result, summary string, createdAt time.Time) CalculationDTO {
	contracted, _ := r.ContractedHours.Float64()
	years, _ := r.YearsEmployed.Round(2).Float64()

	dto := CalculationDTO{
		ID:              id,
		EmployeeNumber:  r.EmployeeNumber,
		Region:          string(r.Region),
		RegionName:      r.Region.DisplayName(),
		LeaveStart:      r.LeavePeriod.Start.String(),
		LeaveEnd:        r.LeavePeriod.End.String(),
		HireDate:        r.HireDate.String(),
		TerminationDate: r.TerminationDate.String(),
		ContractedHours: contracted,
		LeaveYear:       r.LeaveYear,
		LeaveDays:       r.LeaveDays,
		DaysInYear:      r.DaysInYear,
		DaysEmployed:    r.DaysEmployed,
		YearsEmployed:   years,
		BankHolidays:    holidayCount(r.BankHolidays),
		Entitlement: EntitlementDTO{
			Prorated:    r.Prorated.Float64(),
			Base:        r.Base.Float64(),
			BankHoliday: r.BankHoliday.Float64(),
			LongService: LongServiceDTO{
				Award:  r.LongService.Award.Float64(),
				Blocks: r.LongService.Blocks,
				Note:   r.LongService.Note,
			},
			Total: r.Total.Float64(),
		},
		Summary:   summary,
		CreatedAt: createdAt,
	}

	for _, p := range r.Periods {
		weekly, _ := p.WeeklyHours.Float64()
		dto.Periods = append(dto.Periods, PeriodDTO{
			Start:       p.Period.Start.String(),
			End:         p.Period.End.String(),
			WeeklyHours: weekly,
			Days:        p.Days,
			Prorated:    p.Prorated.Float64(),
			LongService: p.LongService.Float64(),
		})
	}
	return dto
}

func toCalculationSummaryDTO(rec sqlite.CalculationRecord) CalculationSummaryDTO {
	return CalculationSummaryDTO{
		ID:                rec.ID,
		EmployeeNumber:    rec.EmployeeNumber,
		Region:            rec.Region,
		LeaveStart:        rec.LeaveStart.String(),
		LeaveEnd:          rec.LeaveEnd.String(),
		TotalHours:        rec.TotalHours,
		HolidaysAvailable: rec.HolidaysAvailable,
		CreatedAt:         rec.CreatedAt,
	}
}

func toHolidayEventDTOs(events []holidays.Event) []HolidayEventDTO {
	out := make([]HolidayEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, HolidayEventDTO{
			Title:   e.Title,
			Date:    e.Date.String(),
			Notes:   e.Notes,
			Bunting: e.Bunting,
		})
	}
	return out
}

// holidayCount is nil when the lookup failed, so clients can tell
// "unavailable" from zero.
func holidayCount(c holidays.Count) *int {
	if !c.Available {
		return nil
	}
	n := c.Value
	return &n
}
