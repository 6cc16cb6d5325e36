package entitlement

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-entitlement/generic"
)

// ValidateContractedHours reports whether value parses as a number in
// [0, 40] that is a whole number of quarter hours. Blank input is invalid.
func ValidateContractedHours(value string) bool {
	d, ok := parseHours(value)
	if !ok {
		return false
	}
	return DefaultConfig().ContractedHoursValid(d)
}

// ContractedHoursValid applies the range and quarter-hour checks to a parsed
// value.
func (c Config) ContractedHoursValid(hours decimal.Decimal) bool {
	if hours.IsNegative() || hours.GreaterThan(c.MaxContractedHours) {
		return false
	}
	return generic.IsQuarterHour(hours)
}

// ParseContractedHours turns form input into contracted hours. Blank input
// means a full-time contract.
func (c Config) ParseContractedHours(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return c.FullTimeWeeklyHours, nil
	}

	hours, ok := parseHours(value)
	if !ok || !c.ContractedHoursValid(hours) {
		return decimal.Zero, &ContractedHoursError{Value: value, Max: c.MaxContractedHours.String()}
	}
	return hours, nil
}

// parseHours reads user input as a float64 before converting, so the decimal
// exponent stays within float range. decimal.NewFromString keeps exponents
// such as "1e-99999999" verbatim and later comparisons rescale to them.
// Underflow reads as zero; overflow, NaN and Inf are rejected.
func parseHours(value string) (decimal.Decimal, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}
