/*
repository.go - Data-access boundary for the budget engine

PURPOSE:
  The engine's sole external boundary. In the original system this was a
  remote relational store behind an HTTP API; here it is an interface so
  the engine can run against an in-memory fake in tests and a SQLite store
  in production without changing a line of calculation logic.

CONTRACT NOTES:
  - GetWageConfig applies override-then-default precedence itself: when a
    phase id is supplied, a phase-scoped override wins outright over the
    worker default. The two configs are never merged.
  - GetAttendance does NOT filter by approval state. Approval filtering is
    the summarizer's job, so callers that need unapproved counts (approval
    queues) see the full picture.
  - SetAttendanceApproved flips a single flag on a single row. A report
    built concurrently with an approval sees either the pre- or
    post-approval state, never a torn entry. Callers needing a strict
    "approve then report" ordering must sequence the two calls.

IMPLEMENTATIONS:
  - engine/store.Memory: in-memory, for tests and demos
  - store/sqlite.Store: production SQLite

SEE ALSO:
  - resolver.go, summary.go, report.go: The consumers
*/
package engine

import "context"

// Repository is the engine's view of the external data store. Every method
// takes a context; the fetches are the only places the engine may block.
type Repository interface {
	// GetWageConfig resolves the effective config for (worker, phase scope).
	// With a non-nil phaseID, a phase-scoped override is preferred; the
	// worker-level default is the fallback. Returns ErrWageConfigNotFound
	// when neither exists.
	GetWageConfig(ctx context.Context, workerID WorkerID, phaseID *PhaseID) (*WageConfig, error)

	// GetPhase returns the phase record (date bounds, allocated budget).
	// Returns ErrPhaseNotFound when the id does not resolve.
	GetPhase(ctx context.Context, phaseID PhaseID) (*Phase, error)

	// GetRoster returns the ids of workers assigned to the phase.
	GetRoster(ctx context.Context, phaseID PhaseID) ([]WorkerID, error)

	// GetAttendance returns entries for the phase, optionally narrowed to
	// one worker and/or a date window. Unfiltered by approval state.
	GetAttendance(ctx context.Context, phaseID PhaseID, workerID *WorkerID, window *DateRange) ([]AttendanceEntry, error)

	// SetAttendanceApproved flips the approval flag on one entry.
	// Returns ErrEntryNotFound when the id does not resolve.
	SetAttendanceApproved(ctx context.Context, entryID EntryID, approved bool) error
}
