// Package entitlement computes prorated annual-leave entitlement.
// It uses the generic primitives with contract norms supplied as a Config.
package entitlement

import (
	"github.com/shopspring/decimal"
	"github.com/warp/leave-entitlement/generic"
	"github.com/warp/leave-entitlement/holidays"
)

// =============================================================================
// INPUT
// =============================================================================

// EmploymentRecord holds the dates of continuous service. A nil
// TerminationDate means the employee is still in post at the end of the
// leave period.
type EmploymentRecord struct {
	HireDate        generic.TimePoint
	TerminationDate *generic.TimePoint
}

// ContractPeriod is one stretch of a leave year worked on a given contract.
type ContractPeriod struct {
	Period      generic.Period
	WeeklyHours decimal.Decimal
}

// Input is everything a calculation needs apart from the holiday count.
type Input struct {
	EmployeeNumber  string
	LeavePeriod     generic.Period
	Employment      EmploymentRecord
	ContractedHours decimal.Decimal
	Region          holidays.Region

	// ContractPeriods, when set, replaces ContractedHours with per-segment
	// hours across the leave period.
	ContractPeriods []ContractPeriod
}

// LeaveYear is the calendar year holidays and leap days are counted in.
func (in Input) LeaveYear() int {
	return in.LeavePeriod.End.Year()
}

// TerminationOrDefault returns the termination date, or the leave-period end
// when none was given.
func (in Input) TerminationOrDefault() generic.TimePoint {
	if in.Employment.TerminationDate != nil {
		return *in.Employment.TerminationDate
	}
	return in.LeavePeriod.End
}

// =============================================================================
// RESULT
// =============================================================================

// LongService is the long-service part of a result.
type LongService struct {
	Award  generic.Amount
	Blocks int
	Note   string
}

// Eligible reports whether at least one block was credited.
func (ls LongService) Eligible() bool { return ls.Blocks > 0 }

// PeriodBreakdown is the contribution of one contract period.
type PeriodBreakdown struct {
	Period      generic.Period
	WeeklyHours decimal.Decimal
	Days        int
	Prorated    generic.Amount
	LongService generic.Amount
}

// Result is a finished calculation. Built once by the Calculator and never
// modified afterwards.
type Result struct {
	EmployeeNumber  string
	Region          holidays.Region
	LeavePeriod     generic.Period
	HireDate        generic.TimePoint
	TerminationDate generic.TimePoint
	// ContractedHours is the latest segment's hours for multi-contract results.
	ContractedHours decimal.Decimal

	LeaveYear     int
	LeaveDays     int
	DaysInYear    int
	DaysEmployed  int
	YearsEmployed decimal.Decimal
	BankHolidays  holidays.Count

	// Prorated is the basic entitlement including bank holidays; Base and
	// BankHoliday are its two components, each rounded on its own.
	Prorated    generic.Amount
	Base        generic.Amount
	BankHoliday generic.Amount
	LongService LongService
	Total       generic.Amount

	Periods []PeriodBreakdown
}
