/*
Package generic provides the domain-agnostic primitives the entitlement
engine is built on.

PURPOSE:
  Entitlement maths is nothing more than ratios of hours and days, but the
  results end up on payroll uploads, so every quantity is carried as a
  decimal rather than a float and every derived duration goes through one
  rounding policy.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity of hours (e.g., 187.5 hours)
  - Quarter-hour rounding: the single rounding policy for derived hours

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. One rounding step: derived hours are rounded once, by RoundToQuarterHour
  3. Immutability: Amount methods return new values

USAGE:
  fte := generic.NewHours(37.5)
  half := generic.NewHours(18.75)
  ratio := half.Value.Div(fte.Value) // 0.5

  generic.RoundToQuarterHour(generic.NewHours(123.8)) // 123.75

SEE ALSO:
  - time.go: TimePoint and leap-year helpers
  - period.go: Inclusive date ranges
  - errors.go: Sentinel errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const UnitHours Unit = "hours"

// QuartersPerHour is the number of rounding steps in one hour.
var QuartersPerHour = decimal.NewFromInt(4)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewHours(value float64) Amount           { return NewAmount(value, UnitHours) }
func HoursFromDecimal(d decimal.Decimal) Amount { return Amount{Value: d, Unit: UnitHours} }
func ZeroHours() Amount                        { return Amount{Value: decimal.Zero, Unit: UnitHours} }

func (a Amount) Add(b Amount) Amount { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) IsZero() bool        { return a.Value.IsZero() }
func (a Amount) Equal(b Amount) bool { return a.Value.Equal(b.Value) }

// Float64 returns the value as a float for JSON and text rendering only.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

// String formats the amount with two decimal places, e.g. "247.50".
func (a Amount) String() string { return a.Value.StringFixed(2) }

// =============================================================================
// ROUNDING
// =============================================================================

// RoundToQuarterHour rounds to the nearest 0.25 hour. Ties go to the even
// quarter (round(h*4)/4 with banker's rounding). Idempotent.
func RoundToQuarterHour(a Amount) Amount {
	quarters := a.Value.Mul(QuartersPerHour).RoundBank(0)
	return Amount{Value: quarters.Div(QuartersPerHour), Unit: a.Unit}
}

// IsQuarterHour reports whether d is an exact multiple of 0.25.
func IsQuarterHour(d decimal.Decimal) bool {
	scaled := d.Mul(QuartersPerHour)
	return scaled.Equal(scaled.Truncate(0))
}

// Sum adds amounts, returning zero hours for an empty list.
func Sum(amounts ...Amount) Amount {
	total := ZeroHours()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
