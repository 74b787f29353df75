/*
errors.go - Centralized error types for the budget engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The taxonomy is deliberately small and maps onto distinct handling
  strategies:

  1. Missing configuration -> worker excluded from the report, not raised
  2. Missing phase         -> diagnostic zero-valued report, not raised
  3. Roster/phase fetch failure -> the one loud failure; no report can be
     built without a roster
  4. Per-worker fetch failure (timeout, connectivity) -> that worker is
     excluded with a recorded reason

USAGE:
  if engine.IsNotFound(err) {
      // exclude the worker / soft-fail the report
  }

SEE ALSO:
  - summary.go: Maps missing configuration to exclusion
  - report.go: Maps missing phase to the diagnostic report
*/
package engine

import (
	"context"
	"errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrWageConfigNotFound is returned when a worker has neither a
	// phase-scoped override nor a worker-level default wage config.
	// Callers must skip the worker, never assume a zero rate.
	ErrWageConfigNotFound = errors.New("wage config not found")

	// ErrPhaseNotFound is returned when a phase identity does not resolve.
	ErrPhaseNotFound = errors.New("phase not found")

	// ErrEntryNotFound is returned when an attendance entry id does not
	// resolve (approval gate target missing).
	ErrEntryNotFound = errors.New("attendance entry not found")

	// ErrRosterUnavailable wraps a roster fetch failure. This is the one
	// error that fails a report build loudly.
	ErrRosterUnavailable = errors.New("roster unavailable")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record rather
// than a fetch failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWageConfigNotFound) ||
		errors.Is(err, ErrPhaseNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}

// IsRetryable returns true if the error might succeed on retry
// (timeouts and cancellations at the repository boundary).
func IsRetryable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
