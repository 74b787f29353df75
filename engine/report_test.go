package engine_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/warp/budget-engine/engine"
	"github.com/warp/budget-engine/engine/store"
)

// =============================================================================
// TEST FIXTURE - A phase with a three-worker roster
// =============================================================================

func seedPhaseFixture(t *testing.T) *store.Memory {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	if err := mem.SavePhase(ctx, engine.Phase{
		ID:              fixturePhase,
		Name:            "Foundation Works",
		Start:           engine.Day(2025, time.March, 1),
		End:             engine.Day(2025, time.March, 31),
		AllocatedBudget: engine.NewMoneyFromInt(25000),
	}); err != nil {
		t.Fatalf("seed phase: %v", err)
	}
	if err := mem.AddRosterWorkers(ctx, fixturePhase, []engine.WorkerID{"worker-1", "worker-2", "worker-3"}); err != nil {
		t.Fatalf("seed roster: %v", err)
	}

	// worker-1: daily 100 with approved attendance (full + half = 150)
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:  "worker-1",
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(100),
	})
	seedAttendance(t, mem, engine.StatusFullDay, 3, true)
	seedAttendance(t, mem, engine.StatusHalfDay, 4, true)

	// worker-2: monthly 3100 with no attendance; 31-day window in a 31-day
	// month over min(31, 26)=26 working days -> 3100 × 31 / 26
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:      "worker-2",
		Type:          engine.WageMonthly,
		MonthlySalary: engine.NewMoneyFromInt(3100),
	})

	// worker-3: no wage config at all — must be excluded
	return mem
}

// =============================================================================
// REPORT BUILD
// =============================================================================

func TestBuild_ExcludesWorkersWithoutConfig(t *testing.T) {
	// GIVEN: worker-3 is on the roster but has no wage config
	// THEN: it is absent from member_summaries, recorded under excluded,
	//       and the total excludes its cost entirely

	mem := seedPhaseFixture(t)
	builder := engine.NewReportBuilder(mem)

	report, err := builder.Build(context.Background(), fixturePhase, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(report.Members) != 2 {
		t.Fatalf("expected 2 member summaries, got %d", len(report.Members))
	}
	for _, m := range report.Members {
		if m.WorkerID == "worker-3" {
			t.Fatal("worker without config leaked into member summaries")
		}
	}
	if len(report.Excluded) != 1 || report.Excluded[0].WorkerID != "worker-3" {
		t.Fatalf("expected worker-3 excluded, got %+v", report.Excluded)
	}
	if report.Excluded[0].Reason != "missing wage configuration" {
		t.Errorf("unexpected exclusion reason: %s", report.Excluded[0].Reason)
	}

	// Totals are internally consistent with the member list.
	want := engine.ZeroMoney()
	for _, m := range report.Members {
		want = want.Add(m.FinalBudget)
	}
	if !report.TotalBudgetSpent.Equal(want) {
		t.Errorf("total %s inconsistent with member sum %s", report.TotalBudgetSpent, want)
	}
}

func TestBuild_MissingPhaseSoftFails(t *testing.T) {
	// GIVEN: a dangling phase reference
	// THEN: a diagnostic, all-zero report — never an error

	mem := store.NewMemory()
	builder := engine.NewReportBuilder(mem)

	report, err := builder.Build(context.Background(), "phase-ghost", nil)
	if err != nil {
		t.Fatalf("missing phase must not error: %v", err)
	}
	if !report.TotalBudgetAllocated.IsZero() || !report.TotalBudgetSpent.IsZero() {
		t.Error("missing phase report should carry zero totals")
	}
	if len(report.Members) != 0 {
		t.Error("missing phase report should carry no members")
	}
	if !strings.Contains(report.PhaseName, "phase-ghost") {
		t.Errorf("diagnostic name should signal the missing id, got %q", report.PhaseName)
	}
}

func TestBuild_WageTypeFilter(t *testing.T) {
	mem := seedPhaseFixture(t)
	builder := engine.NewReportBuilder(mem)

	wt := engine.WageMonthly
	report, err := builder.Build(context.Background(), fixturePhase, &engine.ReportFilters{WageType: &wt})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(report.Members) != 1 || report.Members[0].WorkerID != "worker-2" {
		t.Fatalf("expected only the monthly worker, got %+v", report.Members)
	}
	if !report.TotalBudgetSpent.Equal(report.Members[0].FinalBudget) {
		t.Error("filtered total must match the filtered member list")
	}
}

func TestBuild_WorkerFilter(t *testing.T) {
	mem := seedPhaseFixture(t)
	builder := engine.NewReportBuilder(mem)

	workerID := engine.WorkerID("worker-1")
	report, err := builder.Build(context.Background(), fixturePhase, &engine.ReportFilters{WorkerID: &workerID})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(report.Members) != 1 || report.Members[0].WorkerID != "worker-1" {
		t.Fatalf("expected only worker-1, got %+v", report.Members)
	}
	if !report.TotalBudgetSpent.Equal(engine.NewMoneyFromInt(150)) {
		t.Errorf("expected total 150, got %s", report.TotalBudgetSpent)
	}
}

func TestBuild_TaskLinesCarryResolvedRates(t *testing.T) {
	mem := seedPhaseFixture(t)
	builder := engine.NewReportBuilder(mem)

	report, err := builder.Build(context.Background(), fixturePhase, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// One line per approved entry (worker-1's two entries).
	if len(report.TaskLines) != 2 {
		t.Fatalf("expected 2 task lines, got %d", len(report.TaskLines))
	}
	full, half := report.TaskLines[0], report.TaskLines[1]
	if !full.DailyRate.Equal(engine.NewMoneyFromInt(100)) {
		t.Errorf("line rate: expected 100, got %s", full.DailyRate)
	}
	if !full.Amount.Equal(engine.NewMoneyFromInt(100)) {
		t.Errorf("full_day line: expected 100, got %s", full.Amount)
	}
	if !half.Amount.Equal(engine.NewMoneyFromInt(50)) {
		t.Errorf("half_day line: expected 50, got %s", half.Amount)
	}
}

func TestBuild_ConcurrentMatchesSequential(t *testing.T) {
	// The fan-out is an optimization, never a semantic change.
	mem := seedPhaseFixture(t)

	sequential := engine.NewReportBuilder(mem)
	sequential.Concurrency = 1
	parallel := engine.NewReportBuilder(mem)
	parallel.Concurrency = 8

	a, err := sequential.Build(context.Background(), fixturePhase, nil)
	if err != nil {
		t.Fatalf("sequential build: %v", err)
	}
	b, err := parallel.Build(context.Background(), fixturePhase, nil)
	if err != nil {
		t.Fatalf("parallel build: %v", err)
	}

	if !a.TotalBudgetSpent.Equal(b.TotalBudgetSpent) {
		t.Errorf("totals diverged: %s vs %s", a.TotalBudgetSpent, b.TotalBudgetSpent)
	}
	if len(a.Members) != len(b.Members) {
		t.Fatalf("member counts diverged: %d vs %d", len(a.Members), len(b.Members))
	}
	for i := range a.Members {
		if a.Members[i].WorkerID != b.Members[i].WorkerID {
			t.Errorf("member order diverged at %d: %s vs %s", i, a.Members[i].WorkerID, b.Members[i].WorkerID)
		}
	}
}

// =============================================================================
// FAILURE INJECTION - Per-worker vs whole-build failures
// =============================================================================

// flakyRepo wraps a Repository and fails chosen calls.
type flakyRepo struct {
	engine.Repository
	failAttendanceFor engine.WorkerID
	failRoster        bool
}

func (f *flakyRepo) GetRoster(ctx context.Context, phaseID engine.PhaseID) ([]engine.WorkerID, error) {
	if f.failRoster {
		return nil, fmt.Errorf("connection reset")
	}
	return f.Repository.GetRoster(ctx, phaseID)
}

func (f *flakyRepo) GetAttendance(ctx context.Context, phaseID engine.PhaseID, workerID *engine.WorkerID, window *engine.DateRange) ([]engine.AttendanceEntry, error) {
	if workerID != nil && *workerID == f.failAttendanceFor {
		return nil, context.DeadlineExceeded
	}
	return f.Repository.GetAttendance(ctx, phaseID, workerID, window)
}

func TestBuild_PerWorkerTimeoutExcludesOnlyThatWorker(t *testing.T) {
	// GIVEN: worker-1's attendance fetch times out
	// THEN: worker-1 is excluded with a reason; the report still builds

	mem := seedPhaseFixture(t)
	repo := &flakyRepo{Repository: mem, failAttendanceFor: "worker-1"}
	builder := engine.NewReportBuilder(repo)

	report, err := builder.Build(context.Background(), fixturePhase, nil)
	if err != nil {
		t.Fatalf("per-worker failure must not fail the build: %v", err)
	}

	var excludedReasons []string
	for _, x := range report.Excluded {
		if x.WorkerID == "worker-1" {
			excludedReasons = append(excludedReasons, x.Reason)
		}
	}
	if len(excludedReasons) != 1 || excludedReasons[0] != "fetch timed out" {
		t.Fatalf("expected worker-1 excluded for timeout, got %+v", report.Excluded)
	}
	for _, m := range report.Members {
		if m.WorkerID == "worker-1" {
			t.Error("timed-out worker leaked into member summaries")
		}
	}
}

func TestBuild_RosterFailureFailsLoudly(t *testing.T) {
	// GIVEN: the roster fetch itself fails
	// THEN: the build propagates — no meaningful report without a roster

	mem := seedPhaseFixture(t)
	repo := &flakyRepo{Repository: mem, failRoster: true}
	builder := engine.NewReportBuilder(repo)

	_, err := builder.Build(context.Background(), fixturePhase, nil)
	if !errors.Is(err, engine.ErrRosterUnavailable) {
		t.Fatalf("expected ErrRosterUnavailable, got %v", err)
	}
}
