package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/warp/budget-engine/engine"
	"github.com/warp/budget-engine/engine/store"
)

// =============================================================================
// TEST FIXTURE
// =============================================================================

const (
	fixturePhase  = engine.PhaseID("phase-1")
	fixtureWorker = engine.WorkerID("worker-1")
)

func fixtureWindow() engine.DateRange {
	return engine.DateRange{Start: engine.Day(2025, time.March, 1), End: engine.Day(2025, time.March, 31)}
}

func seedAttendance(t *testing.T, mem *store.Memory, status engine.AttendanceStatus, day int, approved bool) engine.EntryID {
	t.Helper()
	id, err := mem.SaveAttendance(context.Background(), engine.AttendanceEntry{
		PhaseID:  fixturePhase,
		WorkerID: fixtureWorker,
		TaskID:   "task-1",
		Date:     engine.Day(2025, time.March, day),
		Status:   status,
		Approved: approved,
	})
	if err != nil {
		t.Fatalf("seed attendance: %v", err)
	}
	return id
}

func summarize(t *testing.T, mem *store.Memory) *engine.MemberBudgetSummary {
	t.Helper()
	s := engine.NewMemberBudgetSummarizer(mem)
	summary, err := s.Summarize(context.Background(), fixtureWorker, fixturePhase, fixtureWindow())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	return summary
}

// =============================================================================
// STRATEGY CHOICE
// =============================================================================

func TestSummarize_AttendanceOverridesProration(t *testing.T) {
	// GIVEN: daily_rate=100 and two approved entries (full_day + half_day)
	// THEN: total_task_budget=150, has_attendance_data=true,
	//       final_budget=150 — regardless of the monthly fallback figure

	mem := store.NewMemory()
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:  fixtureWorker,
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(100),
	})
	seedAttendance(t, mem, engine.StatusFullDay, 3, true)
	seedAttendance(t, mem, engine.StatusHalfDay, 4, true)

	summary := summarize(t, mem)

	if !summary.HasAttendanceData {
		t.Fatal("expected has_attendance_data=true")
	}
	if !summary.TotalTaskBudget.Equal(engine.NewMoneyFromInt(150)) {
		t.Errorf("expected task budget 150, got %s", summary.TotalTaskBudget)
	}
	if !summary.FinalBudget.Equal(summary.TotalTaskBudget) {
		t.Errorf("final budget must equal task budget when attendance exists: %s vs %s",
			summary.FinalBudget, summary.TotalTaskBudget)
	}
	// The fallback is computed anyway (31 days × 100 = 3100) but never wins.
	if summary.MonthlyBudget.IsZero() {
		t.Error("monthly fallback should still be computed alongside attendance")
	}
	if summary.FullDays != 1 || summary.HalfDays != 1 || summary.AbsentDays != 0 {
		t.Errorf("day counts wrong: full=%d half=%d absent=%d",
			summary.FullDays, summary.HalfDays, summary.AbsentDays)
	}
}

func TestSummarize_PureFallbackWithoutAttendance(t *testing.T) {
	// GIVEN: monthly_salary=2600 over 26 working days, zero entries,
	//        a 13-day window in a 30-day month
	// THEN: final_budget = monthly_budget = 2600 × 13 / 26 = 1300

	mem := store.NewMemory()
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:            fixtureWorker,
		Type:                engine.WageMonthly,
		MonthlySalary:       engine.NewMoneyFromInt(2600),
		WorkingDaysPerMonth: 26,
	})

	s := engine.NewMemberBudgetSummarizer(mem)
	window := engine.DateRange{Start: engine.Day(2025, time.April, 1), End: engine.Day(2025, time.April, 13)}
	summary, err := s.Summarize(context.Background(), fixtureWorker, fixturePhase, window)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if summary.HasAttendanceData {
		t.Fatal("expected has_attendance_data=false")
	}
	if !summary.MonthlyBudget.Equal(engine.NewMoneyFromInt(1300)) {
		t.Errorf("expected monthly budget 1300, got %s", summary.MonthlyBudget)
	}
	if !summary.FinalBudget.Equal(summary.MonthlyBudget) {
		t.Errorf("final budget must equal the fallback without attendance: %s vs %s",
			summary.FinalBudget, summary.MonthlyBudget)
	}
}

func TestSummarize_UnapprovedEntriesAreInvisible(t *testing.T) {
	// GIVEN: a worker with only unapproved entries
	// THEN: final_budget and has_attendance_data are identical to having
	//       no entries at all

	mem := store.NewMemory()
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:  fixtureWorker,
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(100),
	})

	before := summarize(t, mem)

	seedAttendance(t, mem, engine.StatusFullDay, 3, false)
	seedAttendance(t, mem, engine.StatusFullDay, 4, false)

	after := summarize(t, mem)

	if after.HasAttendanceData != before.HasAttendanceData {
		t.Error("unapproved entries flipped has_attendance_data")
	}
	if !after.FinalBudget.Equal(before.FinalBudget) {
		t.Errorf("unapproved entries changed final budget: %s vs %s",
			after.FinalBudget, before.FinalBudget)
	}
}

func TestSummarize_ApprovalPromotesEntry(t *testing.T) {
	// GIVEN: an unapproved entry
	// WHEN: the approval gate promotes it
	// THEN: the next summarize observes the switch to attendance-driven

	mem := store.NewMemory()
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:  fixtureWorker,
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(100),
	})
	entryID := seedAttendance(t, mem, engine.StatusFullDay, 3, false)

	if s := summarize(t, mem); s.HasAttendanceData {
		t.Fatal("entry should be invisible before approval")
	}

	gate := engine.NewApprovalGate(mem)
	if err := gate.Approve(context.Background(), entryID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	after := summarize(t, mem)
	if !after.HasAttendanceData {
		t.Fatal("approved entry should flip has_attendance_data")
	}
	if !after.FinalBudget.Equal(engine.NewMoneyFromInt(100)) {
		t.Errorf("expected final budget 100 after approval, got %s", after.FinalBudget)
	}

	// Revoking returns to the fallback.
	if err := gate.Revoke(context.Background(), entryID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if s := summarize(t, mem); s.HasAttendanceData {
		t.Error("revoked entry should be invisible again")
	}
}

func TestSummarize_AbsentDaysCountButCostNothing(t *testing.T) {
	// GIVEN: one approved full_day and one approved absent
	// THEN: absent is counted as attendance evidence but adds zero cost

	mem := store.NewMemory()
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:  fixtureWorker,
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(120),
	})
	seedAttendance(t, mem, engine.StatusFullDay, 3, true)
	seedAttendance(t, mem, engine.StatusAbsent, 4, true)

	summary := summarize(t, mem)
	if summary.AbsentDays != 1 {
		t.Errorf("expected 1 absent day, got %d", summary.AbsentDays)
	}
	if !summary.FinalBudget.Equal(engine.NewMoneyFromInt(120)) {
		t.Errorf("absent day should cost nothing: expected 120, got %s", summary.FinalBudget)
	}
}

func TestSummarize_MissingConfigIsNotFound(t *testing.T) {
	// GIVEN: no wage config for the worker
	// THEN: ErrWageConfigNotFound, not a zero-valued summary

	mem := store.NewMemory()
	s := engine.NewMemberBudgetSummarizer(mem)
	summary, err := s.Summarize(context.Background(), fixtureWorker, fixturePhase, fixtureWindow())
	if !errors.Is(err, engine.ErrWageConfigNotFound) {
		t.Fatalf("expected ErrWageConfigNotFound, got %v", err)
	}
	if summary != nil {
		t.Error("expected nil summary for a worker without config")
	}
}
