package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WAGE CONFIG RESOLVER - Override-then-default precedence
// =============================================================================

// WageConfigResolver resolves the effective pay configuration for a
// (worker, phase scope) pair. Precedence is absolute: a phase-scoped
// override, when present, replaces the worker default entirely — values
// are never merged across the two configs.
type WageConfigResolver struct {
	Repo Repository
}

func NewWageConfigResolver(repo Repository) *WageConfigResolver {
	return &WageConfigResolver{Repo: repo}
}

// Resolve returns the effective config, or ErrWageConfigNotFound when the
// worker has neither an override for the phase nor a default. Callers must
// skip the worker on not-found rather than assume a zero rate.
func (r *WageConfigResolver) Resolve(ctx context.Context, workerID WorkerID, phaseID *PhaseID) (*WageConfig, error) {
	cfg, err := r.Repo.GetWageConfig(ctx, workerID, phaseID)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve wage config for %s: %w", workerID, err)
	}
	return cfg, nil
}

// EffectiveDailyRate normalizes a config to its daily-equivalent rate.
// This is the only value the calculators consume; nothing downstream
// branches on WageType again for per-entry amounts.
//
//   daily   -> DailyRate
//   monthly -> MonthlySalary / WorkingDaysPerMonth (real division)
func (c WageConfig) EffectiveDailyRate() Money {
	switch c.Type {
	case WageMonthly:
		return c.MonthlySalary.Div(decimal.NewFromInt(int64(c.workingDays())))
	default:
		return c.DailyRate
	}
}
