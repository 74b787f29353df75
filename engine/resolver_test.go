package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/warp/budget-engine/engine"
	"github.com/warp/budget-engine/engine/store"
)

func seedConfig(t *testing.T, mem *store.Memory, cfg engine.WageConfig) {
	t.Helper()
	if err := mem.SaveWageConfig(context.Background(), cfg); err != nil {
		t.Fatalf("seed wage config: %v", err)
	}
}

func TestResolve_OverrideWinsOutright(t *testing.T) {
	// GIVEN: A worker with both a default (daily 100) and a phase override
	//        (monthly 2600)
	// WHEN: Resolving with the phase id
	// THEN: The override's values come back untouched — never a merge

	mem := store.NewMemory()
	phaseID := engine.PhaseID("phase-1")

	seedConfig(t, mem, engine.WageConfig{
		WorkerID:  "worker-1",
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(100),
	})
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:            "worker-1",
		PhaseID:             &phaseID,
		Type:                engine.WageMonthly,
		MonthlySalary:       engine.NewMoneyFromInt(2600),
		WorkingDaysPerMonth: 26,
	})

	resolver := engine.NewWageConfigResolver(mem)
	cfg, err := resolver.Resolve(context.Background(), "worker-1", &phaseID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if cfg.Type != engine.WageMonthly {
		t.Errorf("expected override wage type monthly, got %s", cfg.Type)
	}
	if !cfg.MonthlySalary.Equal(engine.NewMoneyFromInt(2600)) {
		t.Errorf("expected override salary 2600, got %s", cfg.MonthlySalary)
	}
	if !cfg.DailyRate.IsZero() {
		t.Errorf("override leaked the default's daily rate: %s", cfg.DailyRate)
	}
}

func TestResolve_FallsBackToDefault(t *testing.T) {
	// GIVEN: Only a default config
	// WHEN: Resolving with a phase id that has no override
	// THEN: The default is returned

	mem := store.NewMemory()
	seedConfig(t, mem, engine.WageConfig{
		WorkerID:  "worker-1",
		Type:      engine.WageDaily,
		DailyRate: engine.NewMoneyFromInt(100),
	})

	phaseID := engine.PhaseID("phase-1")
	resolver := engine.NewWageConfigResolver(mem)
	cfg, err := resolver.Resolve(context.Background(), "worker-1", &phaseID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.IsOverride() {
		t.Error("expected the worker default, got an override")
	}
	if !cfg.DailyRate.Equal(engine.NewMoneyFromInt(100)) {
		t.Errorf("expected rate 100, got %s", cfg.DailyRate)
	}
}

func TestResolve_NeitherConfigIsNotFound(t *testing.T) {
	// GIVEN: No config at all for the worker
	// THEN: ErrWageConfigNotFound — callers must skip the worker, not
	//       assume a zero rate

	mem := store.NewMemory()
	phaseID := engine.PhaseID("phase-1")

	resolver := engine.NewWageConfigResolver(mem)
	_, err := resolver.Resolve(context.Background(), "worker-ghost", &phaseID)
	if !errors.Is(err, engine.ErrWageConfigNotFound) {
		t.Fatalf("expected ErrWageConfigNotFound, got %v", err)
	}
	if !engine.IsNotFound(err) {
		t.Error("IsNotFound should classify a missing wage config")
	}
}

func TestEffectiveDailyRate_MonthlyDividesExactly(t *testing.T) {
	// GIVEN: monthly 2600 over 26 working days
	// THEN: effective daily rate 100
	cfg := engine.WageConfig{
		Type:                engine.WageMonthly,
		MonthlySalary:       engine.NewMoneyFromInt(2600),
		WorkingDaysPerMonth: 26,
	}
	if got := cfg.EffectiveDailyRate(); !got.Equal(engine.NewMoneyFromInt(100)) {
		t.Errorf("expected 100, got %s", got)
	}
}

func TestEffectiveDailyRate_RealDivisionNotTruncation(t *testing.T) {
	// GIVEN: monthly 1000 over 26 working days
	// THEN: a fractional rate, not an integer-truncated one
	cfg := engine.WageConfig{
		Type:                engine.WageMonthly,
		MonthlySalary:       engine.NewMoneyFromInt(1000),
		WorkingDaysPerMonth: 26,
	}
	rate := cfg.EffectiveDailyRate()
	if rate.Equal(engine.NewMoneyFromInt(38)) {
		t.Fatal("rate was integer-truncated")
	}
	// 1000/26 × 26 must round-trip back to 1000
	if got := rate.MulInt(26); !got.Value.Round(10).Equal(engine.NewMoneyFromInt(1000).Value) {
		t.Errorf("rate × 26 should recover 1000, got %s", got)
	}
}

func TestEffectiveDailyRate_DefaultsWorkingDays(t *testing.T) {
	// A config without a denominator falls back to 26.
	cfg := engine.WageConfig{
		Type:          engine.WageMonthly,
		MonthlySalary: engine.NewMoneyFromInt(2600),
	}
	if got := cfg.EffectiveDailyRate(); !got.Equal(engine.NewMoneyFromInt(100)) {
		t.Errorf("expected 100 with default 26 working days, got %s", got)
	}
}
