/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Service packages (schedule, forecast) return these directly; the API
  layer maps them to HTTP statuses.

ERROR CATEGORIES:
  1. Range errors      - zero-length or inverted shift times
  2. Lock errors       - mutation attempted after the monthly cutoff
  3. Lookup errors     - submit/read against a missing record
  4. Validation errors - missing required selections (division, location)
  5. Conflict errors   - optimistic version check failed on upsert

All of these are local and recoverable: they fail a single user action and
must be surfaced to the caller, never swallowed. There is no retry policy.

USAGE:
  if errors.Is(err, engine.ErrLockedPeriod) {
      // tell the user the month is closed
  }

SEE ALSO:
  - lock.go: produces LockedPeriodError
  - schedule/shift.go, forecast/planner.go: producers
  - api/handlers.go: HTTP status mapping
*/
package engine

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a shift's end time is not after its
	// start time, or the computed duration is not positive.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrLockedPeriod is returned when a non-privileged actor mutates
	// schedule or projection data after the monthly cutoff.
	ErrLockedPeriod = errors.New("period is locked")

	// ErrNotFound is returned when an operation requires an existing record
	// and none exists (e.g. submit without a projection).
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned when a required selection is missing.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when an optimistic version check fails on
	// upsert. Only produced when the caller supplies an expected version.
	ErrConflict = errors.New("version conflict")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError reports a rejected zero-length or inverted shift.
type InvalidRangeError struct {
	SchedulableID SchedulableID
	Date          DayKey
	StartTime     string
	EndTime       string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid shift range %s-%s for %s on %s",
		e.StartTime, e.EndTime, e.SchedulableID, e.Date)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// LockedPeriodError reports a mutation blocked by the monthly cutoff.
type LockedPeriodError struct {
	Role Role
	At   time.Time
}

func (e *LockedPeriodError) Error() string {
	return fmt.Sprintf("edits are locked after day %d for role %q (now %s)",
		CutoffDay, e.Role, e.At.Format("2006-01-02"))
}

func (e *LockedPeriodError) Unwrap() error { return ErrLockedPeriod }

// NotFoundError reports a missing record where one was required.
type NotFoundError struct {
	Kind string // "projection", "employee", "shift", ...
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports a failed optimistic version check.
type ConflictError struct {
	SchedulableID SchedulableID
	Expected      int64
	Actual        int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict for %s: expected %d, have %d",
		e.SchedulableID, e.Expected, e.Actual)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// or a state the client can resolve (400-class).
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrValidation)
}

// IsLocked returns true if the error indicates a closed edit window.
func IsLocked(err error) bool { return errors.Is(err, ErrLockedPeriod) }

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict returns true if the error indicates a lost optimistic write.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
