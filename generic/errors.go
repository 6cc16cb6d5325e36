/*
errors.go - Centralized error types for the generic primitives

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - Malformed dates and ranges
  2. Store errors - Persistence failures and missing records

USAGE:
  if errors.Is(err, generic.ErrInvalidPeriod) {
      // reject input
  }

SEE ALSO:
  - period.go: Uses these errors
  - entitlement/errors.go: Domain errors built on top
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNotFound is returned when a stored record does not exist.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DateError names the field that failed to parse.
type DateError struct {
	Field string
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: invalid date %q (use YYYY-MM-DD)", e.Field, e.Value)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

// ParseDateField parses a YYYY-MM-DD value and reports failures as *DateError.
func ParseDateField(field, value string) (TimePoint, error) {
	tp, err := ParseDate(value)
	if err != nil {
		return TimePoint{}, &DateError{Field: field, Value: value, Err: err}
	}
	return tp, nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidDate)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
