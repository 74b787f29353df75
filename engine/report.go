/*
report.go - Phase-level report assembly

PURPOSE:
  Runs the summarizer over every worker on a phase roster and assembles
  the aggregate ProjectBudgetReport. Per-worker computations have no data
  dependency on one another, so they fan out under a bounded errgroup;
  sequential execution (Concurrency = 1) is equally correct, only slower.

SOFT-FAIL CONTRACT:
  A missing phase yields a diagnostic, all-zero report instead of an
  error, so dashboards never crash on a dangling reference. This is the
  engine's one deliberate soft-fail. Everything else on the read path
  degrades per worker: a worker whose config is missing or whose fetch
  times out is recorded under Excluded, and totals simply leave them out.
  Only a roster or phase *fetch* failure fails the build loudly — without
  a roster there is no meaningful report to return.

SEE ALSO:
  - summary.go: The per-worker unit of work
  - repository.go: The fetch boundary and its consistency guarantees
*/
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultReportConcurrency bounds the per-worker fan-out so a large roster
// does not overwhelm the backing store.
const DefaultReportConcurrency = 4

// ReportFilters narrows a report build. All fields are optional.
type ReportFilters struct {
	WorkerID *WorkerID  // only this worker
	WageType *WageType  // only summaries of this wage type
	Window   *DateRange // overrides the phase's own date bounds
}

// ProjectBudgetReportBuilder assembles ProjectBudgetReports.
type ProjectBudgetReportBuilder struct {
	Repo       Repository
	Summarizer *MemberBudgetSummarizer

	// Concurrency bounds the per-worker fan-out; <= 0 means
	// DefaultReportConcurrency.
	Concurrency int

	// WorkerTimeout, when positive, caps each worker's fetches. A timeout
	// excludes that worker only, never the whole report.
	WorkerTimeout time.Duration
}

func NewReportBuilder(repo Repository) *ProjectBudgetReportBuilder {
	return &ProjectBudgetReportBuilder{
		Repo:       repo,
		Summarizer: NewMemberBudgetSummarizer(repo),
	}
}

// Build assembles the report for a phase. The returned totals are always
// internally consistent with the Members slice of the same report.
func (b *ProjectBudgetReportBuilder) Build(ctx context.Context, phaseID PhaseID, filters *ReportFilters) (*ProjectBudgetReport, error) {
	if filters == nil {
		filters = &ReportFilters{}
	}

	phase, err := b.Repo.GetPhase(ctx, phaseID)
	if err != nil {
		if IsNotFound(err) {
			return missingPhaseReport(phaseID), nil
		}
		return nil, fmt.Errorf("load phase %s: %w", phaseID, err)
	}

	roster, err := b.Repo.GetRoster(ctx, phaseID)
	if err != nil {
		return nil, fmt.Errorf("%w: phase %s: %v", ErrRosterUnavailable, phaseID, err)
	}
	if filters.WorkerID != nil {
		roster = filterRoster(roster, *filters.WorkerID)
	}

	window := phase.Range()
	if filters.Window != nil {
		window = *filters.Window
	}

	summaries, excluded, err := b.summarizeRoster(ctx, roster, phaseID, window)
	if err != nil {
		return nil, err
	}

	// Rates resolved during summarization drive the audit lines; workers
	// without a config have no rate and therefore no lines.
	rates := make(map[WorkerID]Money, len(summaries))
	for _, s := range summaries {
		rates[s.WorkerID] = s.EffectiveDailyRate
	}

	if filters.WageType != nil {
		summaries = filterByWageType(summaries, *filters.WageType)
	}

	lines, err := b.taskLines(ctx, phaseID, filters.WorkerID, window, rates)
	if err != nil {
		return nil, err
	}

	report := &ProjectBudgetReport{
		PhaseID:              phaseID,
		PhaseName:            phase.Name,
		Range:                window,
		TotalBudgetAllocated: phase.AllocatedBudget,
		TotalBudgetSpent:     ZeroMoney(),
		Members:              summaries,
		TaskLines:            lines,
		Excluded:             excluded,
	}
	for _, s := range summaries {
		report.TotalBudgetSpent = report.TotalBudgetSpent.Add(s.FinalBudget)
	}
	return report, nil
}

// summarizeRoster fans out per-worker summaries under a bounded group.
// Results keep roster order; failures become exclusions, never errors.
func (b *ProjectBudgetReportBuilder) summarizeRoster(ctx context.Context, roster []WorkerID, phaseID PhaseID, window DateRange) ([]MemberBudgetSummary, []WorkerExclusion, error) {
	type slot struct {
		summary  *MemberBudgetSummary
		excluded *WorkerExclusion
	}
	slots := make([]slot, len(roster))

	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultReportConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, workerID := range roster {
		i, workerID := i, workerID
		g.Go(func() error {
			wctx := gctx
			cancel := func() {}
			if b.WorkerTimeout > 0 {
				wctx, cancel = context.WithTimeout(gctx, b.WorkerTimeout)
			}
			defer cancel()

			summary, err := b.Summarizer.Summarize(wctx, workerID, phaseID, window)
			switch {
			case err == nil:
				slots[i].summary = summary
			case IsNotFound(err):
				slots[i].excluded = &WorkerExclusion{WorkerID: workerID, Reason: "missing wage configuration"}
			case IsRetryable(err) && gctx.Err() == nil:
				slots[i].excluded = &WorkerExclusion{WorkerID: workerID, Reason: "fetch timed out"}
			case gctx.Err() != nil:
				// Whole build canceled; let the group surface it.
				return gctx.Err()
			default:
				slots[i].excluded = &WorkerExclusion{WorkerID: workerID, Reason: err.Error()}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var summaries []MemberBudgetSummary
	var excluded []WorkerExclusion
	for _, s := range slots {
		if s.summary != nil {
			summaries = append(summaries, *s.summary)
		}
		if s.excluded != nil {
			excluded = append(excluded, *s.excluded)
		}
	}
	return summaries, excluded, nil
}

// taskLines builds the audit list: one line per approved entry, carrying
// the rate resolved for its worker. Entries for workers without a resolved
// rate (excluded workers) carry no line.
func (b *ProjectBudgetReportBuilder) taskLines(ctx context.Context, phaseID PhaseID, workerID *WorkerID, window DateRange, rates map[WorkerID]Money) ([]TaskBudgetLine, error) {
	entries, err := b.Repo.GetAttendance(ctx, phaseID, workerID, &window)
	if err != nil {
		return nil, fmt.Errorf("fetch attendance for phase %s: %w", phaseID, err)
	}

	var lines []TaskBudgetLine
	for _, e := range ApprovedOnly(entries) {
		rate, ok := rates[e.WorkerID]
		if !ok {
			continue
		}
		lines = append(lines, TaskBudgetLine{
			EntryID:   e.ID,
			TaskID:    e.TaskID,
			WorkerID:  e.WorkerID,
			Date:      e.Date,
			Status:    e.Status,
			DailyRate: rate,
			Amount:    EntryAmount(rate, e.Status),
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].Date.Equal(lines[j].Date) {
			return lines[i].Date.Before(lines[j].Date)
		}
		return lines[i].WorkerID < lines[j].WorkerID
	})
	return lines, nil
}

func missingPhaseReport(phaseID PhaseID) *ProjectBudgetReport {
	return &ProjectBudgetReport{
		PhaseID:              phaseID,
		PhaseName:            fmt.Sprintf("[missing phase %s]", phaseID),
		TotalBudgetAllocated: ZeroMoney(),
		TotalBudgetSpent:     ZeroMoney(),
	}
}

func filterRoster(roster []WorkerID, keep WorkerID) []WorkerID {
	var out []WorkerID
	for _, id := range roster {
		if id == keep {
			out = append(out, id)
		}
	}
	return out
}

func filterByWageType(summaries []MemberBudgetSummary, wt WageType) []MemberBudgetSummary {
	var out []MemberBudgetSummary
	for _, s := range summaries {
		if s.WageType == wt {
			out = append(out, s)
		}
	}
	return out
}
