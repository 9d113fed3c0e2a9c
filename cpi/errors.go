/*
errors.go - Centralized error types for the CPI calculation core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Store and transport packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors  - InvalidPeriod, InvalidRange (caught before any lookup)
  2. Data errors   - IndexUnavailable (no published value for a period)
  3. Integrity     - DivisionByZero (degenerate start index from upstream)

USAGE:
  Callers classify errors with errors.Is or the helpers below:

    if errors.Is(err, cpi.ErrIndexUnavailable) {
        // respond 404
    }

SEE ALSO:
  - period.go: Produces PeriodError and RangeError
  - provider.go: Providers return UnavailableError
  - inflation.go: Returns ErrDivisionByZero
*/
package cpi

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a month is outside 1-12 or a year is
	// outside the supported data range.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidRange is returned when the end of a range precedes its start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrIndexUnavailable is returned by providers when no published index
	// exists for a period.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrDivisionByZero is returned when the start index is zero. This points
	// at broken upstream data, never at bad user input.
	ErrDivisionByZero = errors.New("division by zero: start index is zero")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PeriodError describes why a (year, month) pair was rejected.
type PeriodError struct {
	Year   int
	Month  int
	Reason string
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("invalid period %04d-%02d: %s", e.Year, e.Month, e.Reason)
}

func (e *PeriodError) Unwrap() error {
	return ErrInvalidPeriod
}

// RangeError carries the offending endpoints of an inverted range.
type RangeError struct {
	Start Period
	End   Period
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s precedes start %s", e.End, e.Start)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

// UnavailableError names the period a provider had no data for.
type UnavailableError struct {
	Period Period
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("index unavailable for %s", e.Period)
}

func (e *UnavailableError) Unwrap() error {
	return ErrIndexUnavailable
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidRange)
}

// IsNotFound returns true if the error indicates missing published data.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIndexUnavailable)
}

// IsDataIntegrity returns true if the error signals a problem in the
// upstream index data rather than in the request.
func IsDataIntegrity(err error) bool {
	return errors.Is(err, ErrDivisionByZero)
}
