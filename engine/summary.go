/*
summary.go - Per-worker budget summary and strategy choice

PURPOSE:
  Combines resolver, aggregator and calculators into one worker's budget
  summary. This file holds the central business rule of the engine:

    attendance evidence always overrides proration.

  If a worker has at least one approved entry in the window, the summed
  attendance amounts ARE the budget, no matter how large or small the
  prorated monthly figure is. Proration is purely a default for workers
  with no logged attendance.

FAILURE SEMANTICS:
  A worker with no wage config yields (nil, ErrWageConfigNotFound). The
  worker is excluded from the report — absent, not zero-budgeted — so
  callers can tell "no data" apart from "zero cost". A per-worker failure
  never aborts the surrounding report build.

SEE ALSO:
  - calculator.go: The two strategies being chosen between
  - report.go: Runs this over a whole roster
*/
package engine

import "context"

// MemberBudgetSummarizer produces one worker's MemberBudgetSummary.
type MemberBudgetSummarizer struct {
	Resolver   *WageConfigResolver
	Attendance *AttendanceAggregator
}

func NewMemberBudgetSummarizer(repo Repository) *MemberBudgetSummarizer {
	return &MemberBudgetSummarizer{
		Resolver:   NewWageConfigResolver(repo),
		Attendance: NewAttendanceAggregator(repo),
	}
}

// Summarize computes the budget summary for one worker over (phase,
// window). Returns ErrWageConfigNotFound (wrapped per worker) when the
// worker has no resolvable wage config.
func (s *MemberBudgetSummarizer) Summarize(ctx context.Context, workerID WorkerID, phaseID PhaseID, window DateRange) (*MemberBudgetSummary, error) {
	cfg, err := s.Resolver.Resolve(ctx, workerID, &phaseID)
	if err != nil {
		return nil, err
	}

	entries, err := s.Attendance.Fetch(ctx, phaseID, &workerID, &window)
	if err != nil {
		return nil, err
	}
	approved := ApprovedOnly(entries)

	rate := cfg.EffectiveDailyRate()
	summary := &MemberBudgetSummary{
		WorkerID:           workerID,
		WageType:           cfg.Type,
		EffectiveDailyRate: rate,
		TotalTaskBudget:    ZeroMoney(),
		HasAttendanceData:  len(approved) > 0,
	}

	for _, e := range approved {
		switch e.Status {
		case StatusFullDay:
			summary.FullDays++
		case StatusHalfDay:
			summary.HalfDays++
		case StatusAbsent:
			summary.AbsentDays++
		}
		summary.TotalTaskBudget = summary.TotalTaskBudget.Add(EntryAmount(rate, e.Status))
	}

	// Always computed, even when attendance wins: it is cheap and keeps
	// the fallback figure visible alongside the authoritative one.
	summary.MonthlyBudget = MonthlyFallback(*cfg, window.Start, window.End)

	if summary.HasAttendanceData {
		summary.FinalBudget = summary.TotalTaskBudget
	} else {
		summary.FinalBudget = summary.MonthlyBudget
	}
	return summary, nil
}
