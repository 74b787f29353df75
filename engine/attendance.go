package engine

import (
	"context"
	"fmt"
)

// =============================================================================
// ATTENDANCE AGGREGATOR - Fetch, unfiltered by approval
// =============================================================================

// AttendanceAggregator fetches attendance entries for a phase. It returns
// entries regardless of approval state: approval filtering belongs to the
// summarizer, so approval-queue callers can still see unapproved counts.
type AttendanceAggregator struct {
	Repo Repository
}

func NewAttendanceAggregator(repo Repository) *AttendanceAggregator {
	return &AttendanceAggregator{Repo: repo}
}

// Fetch returns the phase's entries, optionally narrowed to one worker
// and/or a date window.
func (a *AttendanceAggregator) Fetch(ctx context.Context, phaseID PhaseID, workerID *WorkerID, window *DateRange) ([]AttendanceEntry, error) {
	entries, err := a.Repo.GetAttendance(ctx, phaseID, workerID, window)
	if err != nil {
		return nil, fmt.Errorf("fetch attendance for phase %s: %w", phaseID, err)
	}
	return entries, nil
}

// ApprovedOnly filters to approved entries. Unapproved entries are
// invisible to every budget total.
func ApprovedOnly(entries []AttendanceEntry) []AttendanceEntry {
	var approved []AttendanceEntry
	for _, e := range entries {
		if e.Approved {
			approved = append(approved, e)
		}
	}
	return approved
}

// =============================================================================
// APPROVAL GATE - The engine's only mutation
// =============================================================================

// ApprovalGate flips the approval flag on attendance entries. It keeps no
// state: the effect of an approval is only ever observed by re-running the
// summarizer.
type ApprovalGate struct {
	Repo Repository
}

func NewApprovalGate(repo Repository) *ApprovalGate {
	return &ApprovalGate{Repo: repo}
}

// Approve marks the entry as counted.
func (g *ApprovalGate) Approve(ctx context.Context, entryID EntryID) error {
	return g.Repo.SetAttendanceApproved(ctx, entryID, true)
}

// Revoke returns the entry to pending; it stops contributing to totals.
func (g *ApprovalGate) Revoke(ctx context.Context, entryID EntryID) error {
	return g.Repo.SetAttendanceApproved(ctx, entryID, false)
}
