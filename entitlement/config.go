/*
config.go - Contract norms the engine calculates against

PURPOSE:
  The UK defaults (37.5 hour week, 5 weeks' leave, 7.5 hours per bank
  holiday, a long-service day per 5 years) live here as an explicit value
  handed to the Calculator. Nothing in the engine reads package-level
  constants, so non-UK norms are just another Config.

EXAMPLE:
  cfg := entitlement.DefaultConfig()
  cfg.WeeksEntitlement = decimal.NewFromInt(6)
  calc := entitlement.NewCalculator(cfg)

SEE ALSO:
  - factory/policy.go: Builds a Config from a JSON policy document
*/
package entitlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the contract norms used by every calculation.
type Config struct {
	// FullTimeWeeklyHours is the whole-time-equivalent week (WTE).
	FullTimeWeeklyHours decimal.Decimal

	// WeeksEntitlement is the basic entitlement in full-time weeks.
	WeeksEntitlement decimal.Decimal

	// BankHolidayHours is credited per bank holiday for a full-time employee.
	BankHolidayHours decimal.Decimal

	// LongServiceYears is the length of one long-service block.
	LongServiceYears int

	// LongServiceHours is credited per completed block for a full-time employee.
	LongServiceHours decimal.Decimal

	// MaxContractedHours is the upper bound for contracted weekly hours.
	MaxContractedHours decimal.Decimal
}

// DefaultConfig returns the UK norms.
func DefaultConfig() Config {
	return Config{
		FullTimeWeeklyHours: decimal.RequireFromString("37.5"),
		WeeksEntitlement:    decimal.NewFromInt(5),
		BankHolidayHours:    decimal.RequireFromString("7.5"),
		LongServiceYears:    5,
		LongServiceHours:    decimal.RequireFromString("7.5"),
		MaxContractedHours:  decimal.NewFromInt(40),
	}
}

// BaseEntitlement is the full-time basic entitlement in hours (weeks x WTE).
func (c Config) BaseEntitlement() decimal.Decimal {
	return c.WeeksEntitlement.Mul(c.FullTimeWeeklyHours)
}

// Validate rejects norms that would divide by zero or credit negative hours.
func (c Config) Validate() error {
	if !c.FullTimeWeeklyHours.IsPositive() {
		return fmt.Errorf("%w: full-time weekly hours must be positive", ErrInvalidConfig)
	}
	if !c.WeeksEntitlement.IsPositive() {
		return fmt.Errorf("%w: weeks entitlement must be positive", ErrInvalidConfig)
	}
	if c.BankHolidayHours.IsNegative() || c.LongServiceHours.IsNegative() {
		return fmt.Errorf("%w: credited hours must not be negative", ErrInvalidConfig)
	}
	if c.LongServiceYears <= 0 {
		return fmt.Errorf("%w: long service block must be at least one year", ErrInvalidConfig)
	}
	if !c.MaxContractedHours.IsPositive() {
		return fmt.Errorf("%w: maximum contracted hours must be positive", ErrInvalidConfig)
	}
	return nil
}
