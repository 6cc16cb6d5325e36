/*
calculator.go - Prorated annual leave entitlement

PURPOSE:
  Turns contracted hours, a leave period, service dates and a bank holiday
  count into hours of annual leave. Everything here is a pure function of
  its arguments and the Calculator's Config.

FORMULAS (UK defaults):
  base          = 5 weeks x 37.5h                  = 187.5h
  bank holidays = holidays x 7.5h
  component'    = round¼( (hours / 37.5) x component x (leave days / days in year) )

  Applied to base + bank holidays (prorated), base, and bank holidays
  separately. Each is rounded on its own, so base + bank holidays can differ
  from prorated by a quarter hour.

  long service  = round¼( (hours / 37.5) x 7.5h x blocks x (leave days / days in year) )
  blocks        = floor(years employed / 5)
  years         = (termination - hire) days / 365.25

ROUNDING:
  Every derived duration is rounded exactly once by
  generic.RoundToQuarterHour. Sums of rounded values are not re-rounded.

LEAVE YEAR:
  The year of the leave-period end. Days-in-year is 366 for Gregorian leap
  years.

EXAMPLE:
  calc := entitlement.NewCalculator(entitlement.DefaultConfig())
  prorated, base, bh := calc.CalculateEntitlements(hours, 365, 365, 8)
  // 247.5, 187.5, 60

SEE ALSO:
  - periods.go: Multi-contract leave years
  - generic/types.go: RoundToQuarterHour
*/
package entitlement

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-entitlement/generic"
	"github.com/warp/leave-entitlement/holidays"
)

// DaysPerYearOfService converts days of service into years.
var DaysPerYearOfService = decimal.RequireFromString("365.25")

// Calculator applies a Config to calculation inputs. Safe for concurrent use.
type Calculator struct {
	Config Config
}

// NewCalculator returns a Calculator for cfg.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{Config: cfg}
}

// =============================================================================
// CORE FORMULAS
// =============================================================================

// prorate scales a full-time component by the contracted-hours ratio and the
// leave-period ratio, then rounds to the quarter hour.
func (c *Calculator) prorate(contracted, component decimal.Decimal, leaveDays, daysInYear int) generic.Amount {
	if daysInYear <= 0 || contracted.IsZero() || component.IsZero() {
		return generic.ZeroHours()
	}
	// One division keeps the intermediate exact.
	numerator := contracted.Mul(component).Mul(decimal.NewFromInt(int64(leaveDays)))
	denominator := c.Config.FullTimeWeeklyHours.Mul(decimal.NewFromInt(int64(daysInYear)))
	return generic.RoundToQuarterHour(generic.HoursFromDecimal(numerator.Div(denominator)))
}

// CalculateEntitlements returns the prorated entitlement including bank
// holidays, and its base and bank-holiday components.
func (c *Calculator) CalculateEntitlements(contracted decimal.Decimal, leaveDays, daysInYear, bankHolidays int) (prorated, base, bankHoliday generic.Amount) {
	baseFT := c.Config.BaseEntitlement()
	bankHolidayFT := c.Config.BankHolidayHours.Mul(decimal.NewFromInt(int64(bankHolidays)))

	prorated = c.prorate(contracted, baseFT.Add(bankHolidayFT), leaveDays, daysInYear)
	base = c.prorate(contracted, baseFT, leaveDays, daysInYear)
	bankHoliday = c.prorate(contracted, bankHolidayFT, leaveDays, daysInYear)
	return prorated, base, bankHoliday
}

// CalculateLongService credits LongServiceHours per completed block of
// service, prorated like the basic entitlement.
func (c *Calculator) CalculateLongService(contracted, yearsEmployed decimal.Decimal, leaveDays, daysInYear int) LongService {
	blockYears := c.Config.LongServiceYears
	blocks := int(yearsEmployed.Div(decimal.NewFromInt(int64(blockYears))).Floor().IntPart())
	if blocks <= 0 {
		return LongService{
			Award: generic.ZeroHours(),
			Note:  fmt.Sprintf("Not eligible for long service award (less than %d years)", blockYears),
		}
	}

	credited := c.Config.LongServiceHours.Mul(decimal.NewFromInt(int64(blocks)))
	return LongService{
		Award:  c.prorate(contracted, credited, leaveDays, daysInYear),
		Blocks: blocks,
		Note:   fmt.Sprintf("Eligible: %d × %d-year block(s)", blocks, blockYears),
	}
}

// YearsEmployed is the length of service in years of 365.25 days.
func YearsEmployed(hire, termination generic.TimePoint) decimal.Decimal {
	days := decimal.NewFromInt(int64(generic.DaysBetween(hire, termination)))
	return days.Div(DaysPerYearOfService)
}

// =============================================================================
// FULL CALCULATION
// =============================================================================

// Calculate validates in and produces a Result. An unavailable holiday count
// is calculated as zero holidays and carried through to the Result.
func (c *Calculator) Calculate(in Input, bankHolidays holidays.Count) (Result, error) {
	if err := c.validate(in); err != nil {
		return Result{}, err
	}

	termination := in.TerminationOrDefault()
	leaveYear := in.LeaveYear()

	r := Result{
		EmployeeNumber:  in.EmployeeNumber,
		Region:          in.Region,
		LeavePeriod:     in.LeavePeriod,
		HireDate:        in.Employment.HireDate,
		TerminationDate: termination,
		ContractedHours: in.ContractedHours,
		LeaveYear:       leaveYear,
		LeaveDays:       in.LeavePeriod.Days(),
		DaysInYear:      generic.DaysInYear(leaveYear),
		DaysEmployed:    generic.DaysBetween(in.Employment.HireDate, termination),
		YearsEmployed:   YearsEmployed(in.Employment.HireDate, termination),
		BankHolidays:    bankHolidays,
	}

	if len(in.ContractPeriods) > 0 {
		c.calculatePeriods(&r, in.ContractPeriods, bankHolidays.OrZero())
	} else {
		r.Prorated, r.Base, r.BankHoliday = c.CalculateEntitlements(r.ContractedHours, r.LeaveDays, r.DaysInYear, bankHolidays.OrZero())
		r.LongService = c.CalculateLongService(r.ContractedHours, r.YearsEmployed, r.LeaveDays, r.DaysInYear)
	}

	r.Total = r.Prorated.Add(r.LongService.Award)
	return r, nil
}

func (c *Calculator) validate(in Input) error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if err := in.LeavePeriod.Validate(); err != nil {
		return fmt.Errorf("leave period %s: %w", in.LeavePeriod, err)
	}

	termination := in.TerminationOrDefault()
	if termination.Before(in.Employment.HireDate) {
		return fmt.Errorf("%w: hired %s, terminated %s", ErrTerminationBeforeHire, in.Employment.HireDate, termination)
	}

	if len(in.ContractPeriods) > 0 {
		return c.validatePeriods(in.ContractPeriods)
	}
	if !c.Config.ContractedHoursValid(in.ContractedHours) {
		return &ContractedHoursError{Value: in.ContractedHours.String(), Max: c.Config.MaxContractedHours.String()}
	}
	return nil
}
