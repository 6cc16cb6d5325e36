package entitlement

import (
	"errors"
	"fmt"

	"github.com/warp/leave-entitlement/generic"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidContractedHours is returned when contracted hours are not a
	// quarter-hour value within [0, MaxContractedHours].
	ErrInvalidContractedHours = errors.New("invalid contracted hours")

	// ErrTerminationBeforeHire is returned when the termination date precedes
	// the hire date.
	ErrTerminationBeforeHire = errors.New("termination date before hire date")

	// ErrInvalidContractPeriod is returned when a contract segment is malformed.
	ErrInvalidContractPeriod = errors.New("invalid contract period")

	// ErrInvalidConfig is returned when contract norms are unusable.
	ErrInvalidConfig = errors.New("invalid entitlement config")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ContractedHoursError carries the rejected input. Its message is the one
// shown to users.
type ContractedHoursError struct {
	Value string
	Max   string
}

func (e *ContractedHoursError) Error() string {
	return fmt.Sprintf("Contracted hours must be between 0 and %s in 15-minute increments.", e.Max)
}

func (e *ContractedHoursError) Unwrap() error {
	return ErrInvalidContractedHours
}

// IsValidationError reports whether err came from rejected input rather than
// an internal failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidContractedHours) ||
		errors.Is(err, ErrTerminationBeforeHire) ||
		errors.Is(err, ErrInvalidContractPeriod) ||
		generic.IsClientError(err)
}
