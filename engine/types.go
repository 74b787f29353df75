/*
Package engine provides the wage and budget calculation engine.

PURPOSE:
  This package contains the domain types and algorithms that answer one
  question: "how much labor cost has a worker incurred on a project phase?"
  Two strategies compete — attendance-driven (one amount per approved
  attendance entry) and prorated-monthly (salary spread over the phase) —
  with a deterministic precedence rule: attendance evidence always wins,
  proration is only a default for workers with no logged attendance.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary amount backed by decimal.Decimal
  - WageConfig: How a worker is paid (daily rate or monthly salary),
    optionally scoped to a single phase as an override
  - AttendanceEntry: An immutable day-level fact; only its approval flag
    and status ever change
  - Derived report types: TaskBudgetLine, MemberBudgetSummary,
    ProjectBudgetReport — recomputed on demand, never persisted

DESIGN PRINCIPLES:
  1. Precision: Money uses decimal.Decimal, never float64
  2. Type Safety: Strong typing for IDs prevents mixing worker/phase/task IDs
  3. Statelessness: Every derived value is a pure function of WageConfig
     and AttendanceEntry rows; there is no cache to go stale
  4. Exclusion over zeroing: a worker without a wage config is absent from
     a report, not zero-budgeted, so "no data" stays distinguishable from
     "zero cost"

SEE ALSO:
  - resolver.go: Override-then-default wage config resolution
  - calculator.go: Per-entry and prorated-monthly amounts
  - summary.go: Per-worker strategy choice
  - report.go: Phase-level report assembly
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Fixed-point monetary amount
// =============================================================================

// Money is a monetary amount. It wraps decimal.Decimal so proration never
// accumulates cent-level float drift.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

// MustParseMoney parses a decimal string, returning zero on malformed input.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(o Money) Money              { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money              { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money    { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money    { return Money{Value: m.Value.Div(s)} }
func (m Money) MulInt(n int) Money             { return m.Mul(decimal.NewFromInt(int64(n))) }
func (m Money) IsZero() bool                   { return m.Value.IsZero() }
func (m Money) IsNegative() bool               { return m.Value.IsNegative() }
func (m Money) Equal(o Money) bool             { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool       { return m.Value.GreaterThan(o.Value) }
func (m Money) String() string                 { return m.Value.String() }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WorkerID string
type PhaseID string
type TaskID string
type EntryID string

// =============================================================================
// WAGE CONFIGURATION
// =============================================================================

type WageType string

const (
	WageDaily   WageType = "daily"
	WageMonthly WageType = "monthly"
)

// DefaultWorkingDaysPerMonth is the proration denominator used when a
// config does not carry one of its own.
const DefaultWorkingDaysPerMonth = 26

// WageConfig describes how one worker is paid. A config with a non-nil
// PhaseID is an override scoped to that phase; with a nil PhaseID it is the
// worker-level default. At most one default exists per worker, and at most
// one override per (worker, phase) — the stores enforce this.
type WageConfig struct {
	ID       string
	WorkerID WorkerID
	PhaseID  *PhaseID // nil = worker-level default

	Type                WageType
	DailyRate           Money // required when Type == WageDaily
	MonthlySalary       Money // required when Type == WageMonthly
	WorkingDaysPerMonth int   // proration denominator; 0 means DefaultWorkingDaysPerMonth
}

// IsOverride reports whether this config is scoped to a single phase.
func (c WageConfig) IsOverride() bool { return c.PhaseID != nil }

// workingDays returns the proration denominator, defaulted when unset.
func (c WageConfig) workingDays() int {
	if c.WorkingDaysPerMonth <= 0 {
		return DefaultWorkingDaysPerMonth
	}
	return c.WorkingDaysPerMonth
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceStatus string

const (
	StatusFullDay    AttendanceStatus = "full_day"
	StatusHalfDay    AttendanceStatus = "half_day"
	StatusAbsent     AttendanceStatus = "absent"
	StatusUnrecorded AttendanceStatus = "unrecorded"
)

// AttendanceEntry is a day-level fact: worker X stood against task Y on
// date Z. Once created, only Status and Approved ever change; entries are
// never hard-deleted in normal flow. Unapproved entries never contribute
// to budget totals.
type AttendanceEntry struct {
	ID       EntryID
	PhaseID  PhaseID
	WorkerID WorkerID
	TaskID   TaskID
	Date     time.Time // day granularity, UTC midnight
	Status   AttendanceStatus
	Approved bool

	CreatedAt time.Time
}

// =============================================================================
// PHASE
// =============================================================================

// Phase is a bounded sub-period of a project with its own date range and
// allocated budget. It is the single scoping concept of the engine: whether
// a "phase" maps to a whole project or a milestone is a choice of the
// roster/phase collaborator, not of the calculation logic.
type Phase struct {
	ID        PhaseID
	ProjectID string // optional parent project
	Name      string
	Start     time.Time
	End       time.Time

	AllocatedBudget Money
}

// Range returns the phase's own date bounds as a DateRange.
func (p Phase) Range() DateRange { return DateRange{Start: p.Start, End: p.End} }

// =============================================================================
// DERIVED REPORT TYPES - Recomputed on demand, never stored
// =============================================================================

// TaskBudgetLine is one audit line per approved attendance entry, carrying
// the rate that was resolved for the worker and the resulting amount.
type TaskBudgetLine struct {
	EntryID  EntryID
	TaskID   TaskID
	WorkerID WorkerID
	Date     time.Time
	Status   AttendanceStatus

	DailyRate Money
	Amount    Money
}

// MemberBudgetSummary is one worker's budget over a (phase, date-range)
// window. HasAttendanceData records which strategy produced FinalBudget:
// true means the attendance-driven total, false means the monthly fallback.
type MemberBudgetSummary struct {
	WorkerID WorkerID
	WageType WageType

	EffectiveDailyRate Money

	FullDays   int
	HalfDays   int
	AbsentDays int

	TotalTaskBudget   Money
	MonthlyBudget     Money
	FinalBudget       Money
	HasAttendanceData bool
}

// WorkerExclusion records a roster member that could not be summarized,
// with a human-readable reason. Excluded workers contribute nothing to
// report totals.
type WorkerExclusion struct {
	WorkerID WorkerID
	Reason   string
}

// ProjectBudgetReport is the phase-level aggregate. TotalBudgetSpent is
// always the sum of FinalBudget over exactly the Members slice returned in
// the same report — there is no partial or cached aggregation.
type ProjectBudgetReport struct {
	PhaseID   PhaseID
	PhaseName string
	Range     DateRange

	TotalBudgetAllocated Money
	TotalBudgetSpent     Money

	Members   []MemberBudgetSummary
	TaskLines []TaskBudgetLine
	Excluded  []WorkerExclusion
}
