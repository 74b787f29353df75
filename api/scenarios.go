/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Pre-built scenarios that populate the store with realistic data. Each
  scenario creates a phase, a roster, wage configs and attendance entries
  demonstrating a specific engine behavior.

AVAILABLE SCENARIOS:
  construction-crew:  Daily-wage workers with mixed approved/pending
                      attendance — shows attendance-driven totals and the
                      approval queue
  salaried-fallback:  Monthly-salaried worker with no attendance — shows
                      the prorated monthly fallback
  override-rates:     Worker with a phase-scoped wage override — shows
                      override-then-default precedence

NOTE:
  Loading a scenario resets the store. Development/demo only.

SEE ALSO:
  - handlers.go: ListScenarios, LoadScenario handlers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/warp/budget-engine/engine"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "construction-crew",
		Name:        "Construction Crew",
		Description: "Daily-wage workers with mixed approved and pending attendance",
	},
	{
		ID:          "salaried-fallback",
		Name:        "Salaried Fallback",
		Description: "Monthly-salaried worker with no attendance, budgeted by proration",
	},
	{
		ID:          "override-rates",
		Name:        "Override Rates",
		Description: "Phase-scoped wage override superseding the worker default",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the store and seeds the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset store", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "construction-crew":
		err = loadConstructionCrew(ctx, h.Store)
	case "salaried-fallback":
		err = loadSalariedFallback(ctx, h.Store)
	case "override-rates":
		err = loadOverrideRates(ctx, h.Store)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scenario", err)
		return
	}

	log.Printf("[Scenario] Loaded %s", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadConstructionCrew(ctx context.Context, store BackingStore) error {
	phase := engine.Phase{
		ID:              "phase-foundation",
		ProjectID:       "project-riverside",
		Name:            "Foundation Works",
		Start:           engine.Day(2025, 3, 1),
		End:             engine.Day(2025, 3, 31),
		AllocatedBudget: engine.NewMoneyFromInt(25000),
	}
	if err := store.SavePhase(ctx, phase); err != nil {
		return err
	}
	if err := store.AddRosterWorkers(ctx, phase.ID, []engine.WorkerID{"worker-amara", "worker-bashir"}); err != nil {
		return err
	}

	for workerID, rate := range map[engine.WorkerID]int64{"worker-amara": 100, "worker-bashir": 120} {
		if err := store.SaveWageConfig(ctx, engine.WageConfig{
			WorkerID:  workerID,
			Type:      engine.WageDaily,
			DailyRate: engine.NewMoneyFromInt(rate),
		}); err != nil {
			return err
		}
	}

	entries := []engine.AttendanceEntry{
		{PhaseID: phase.ID, WorkerID: "worker-amara", TaskID: "task-excavation", Date: engine.Day(2025, 3, 3), Status: engine.StatusFullDay, Approved: true},
		{PhaseID: phase.ID, WorkerID: "worker-amara", TaskID: "task-excavation", Date: engine.Day(2025, 3, 4), Status: engine.StatusHalfDay, Approved: true},
		{PhaseID: phase.ID, WorkerID: "worker-amara", TaskID: "task-rebar", Date: engine.Day(2025, 3, 5), Status: engine.StatusFullDay, Approved: false},
		{PhaseID: phase.ID, WorkerID: "worker-bashir", TaskID: "task-rebar", Date: engine.Day(2025, 3, 3), Status: engine.StatusFullDay, Approved: true},
		{PhaseID: phase.ID, WorkerID: "worker-bashir", TaskID: "task-rebar", Date: engine.Day(2025, 3, 4), Status: engine.StatusAbsent, Approved: true},
	}
	for _, e := range entries {
		if _, err := store.SaveAttendance(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func loadSalariedFallback(ctx context.Context, store BackingStore) error {
	phase := engine.Phase{
		ID:              "phase-design",
		ProjectID:       "project-riverside",
		Name:            "Design Review",
		Start:           engine.Day(2025, 4, 1),
		End:             engine.Day(2025, 4, 13),
		AllocatedBudget: engine.NewMoneyFromInt(5000),
	}
	if err := store.SavePhase(ctx, phase); err != nil {
		return err
	}
	if err := store.AddRosterWorkers(ctx, phase.ID, []engine.WorkerID{"worker-chidi"}); err != nil {
		return err
	}
	// 2600/month over 13 days in a 30-day month prorates to 1300.
	return store.SaveWageConfig(ctx, engine.WageConfig{
		WorkerID:            "worker-chidi",
		Type:                engine.WageMonthly,
		MonthlySalary:       engine.NewMoneyFromInt(2600),
		WorkingDaysPerMonth: 26,
	})
}

func loadOverrideRates(ctx context.Context, store BackingStore) error {
	phase := engine.Phase{
		ID:              "phase-fitout",
		ProjectID:       "project-riverside",
		Name:            "Interior Fit-Out",
		Start:           engine.Day(2025, 5, 1),
		End:             engine.Day(2025, 5, 15),
		AllocatedBudget: engine.NewMoneyFromInt(8000),
	}
	if err := store.SavePhase(ctx, phase); err != nil {
		return err
	}
	if err := store.AddRosterWorkers(ctx, phase.ID, []engine.WorkerID{"worker-amara"}); err != nil {
		return err
	}

	// Default 100/day, overridden to 150/day for this phase only.
	if err := store.SaveWageConfig(ctx, engine.WageConfig{
		WorkerID:  "worker-amara",
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(100),
	}); err != nil {
		return err
	}
	override := phase.ID
	if err := store.SaveWageConfig(ctx, engine.WageConfig{
		WorkerID:  "worker-amara",
		PhaseID:   &override,
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(150),
	}); err != nil {
		return err
	}

	_, err := store.SaveAttendance(ctx, engine.AttendanceEntry{
		PhaseID:  phase.ID,
		WorkerID: "worker-amara",
		TaskID:   "task-partitions",
		Date:     engine.Day(2025, 5, 2),
		Status:   engine.StatusFullDay,
		Approved: true,
	})
	return err
}
