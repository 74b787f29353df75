/*
calculator.go - The two competing budget strategies

PURPOSE:
  Pure arithmetic, no I/O. Two functions:

  EntryAmount:     attendance-driven — one amount per attendance entry,
                   a status multiplier on the effective daily rate.
  MonthlyFallback: prorated-monthly — a whole-phase amount derived from
                   the salary when no attendance evidence exists.

  Which one is authoritative for a worker is the summarizer's decision
  (summary.go); these functions carry no precedence knowledge.

ROUNDING:
  None. Amounts stay full-precision decimals; rounding belongs to
  presentation, not calculation.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1) // 0.5

// =============================================================================
// TASK BUDGET - Per attendance entry
// =============================================================================

// EntryAmount converts one attendance entry into money:
//
//	full_day   -> rate × 1.0
//	half_day   -> rate × 0.5
//	absent     -> 0
//	unrecorded -> 0
func EntryAmount(effectiveDailyRate Money, status AttendanceStatus) Money {
	switch status {
	case StatusFullDay:
		return effectiveDailyRate
	case StatusHalfDay:
		return effectiveDailyRate.Mul(half)
	default:
		return ZeroMoney()
	}
}

// =============================================================================
// MONTHLY FALLBACK - Prorated whole-phase budget
// =============================================================================

// MonthlyFallback computes the prorated budget for a worker over a phase
// window, used when no approved attendance exists.
//
// phase_days is inclusive on both ends and clamped to at least 1, so
// malformed phase dates never produce a negative budget.
//
//	monthly: salary × phase_days / min(days-in-month(start), working_days)
//	daily:   rate × phase_days
//
// A missing rate field for the wage type yields zero.
func MonthlyFallback(cfg WageConfig, phaseStart, phaseEnd time.Time) Money {
	phaseDays := DateRange{Start: phaseStart, End: phaseEnd}.Days()

	switch cfg.Type {
	case WageMonthly:
		if cfg.MonthlySalary.IsZero() {
			return ZeroMoney()
		}
		workingDays := cfg.workingDays()
		if dim := DaysInMonth(phaseStart); dim < workingDays {
			workingDays = dim
		}
		return cfg.MonthlySalary.
			MulInt(phaseDays).
			Div(decimal.NewFromInt(int64(workingDays)))

	case WageDaily:
		if cfg.DailyRate.IsZero() {
			return ZeroMoney()
		}
		return cfg.DailyRate.MulInt(phaseDays)

	default:
		return ZeroMoney()
	}
}
