/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ON THE WIRE:
  Monetary values are serialized as decimal strings ("1300", "433.75"),
  never as JSON numbers, so clients are not exposed to float rounding.

DATES ON THE WIRE:
  Day-granular dates as "2006-01-02".

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/budget-engine/engine"
)

const dateFormat = "2006-01-02"

// =============================================================================
// REPORT RESPONSES
// =============================================================================

// MemberSummaryDTO is one worker's budget summary in API responses.
type MemberSummaryDTO struct {
	WorkerID           string `json:"worker_id"`
	WageType           string `json:"wage_type"`
	EffectiveDailyRate string `json:"effective_daily_rate"`
	FullDays           int    `json:"full_days"`
	HalfDays           int    `json:"half_days"`
	AbsentDays         int    `json:"absent_days"`
	TotalTaskBudget    string `json:"total_task_budget"`
	MonthlyBudget      string `json:"monthly_budget"`
	FinalBudget        string `json:"final_budget"`
	HasAttendanceData  bool   `json:"has_attendance_data"`
}

// TaskLineDTO is one audit line per approved attendance entry.
type TaskLineDTO struct {
	EntryID   string `json:"entry_id"`
	TaskID    string `json:"task_id"`
	WorkerID  string `json:"worker_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	DailyRate string `json:"daily_rate"`
	Amount    string `json:"amount"`
}

// ExclusionDTO records a roster member missing from the report and why.
type ExclusionDTO struct {
	WorkerID string `json:"worker_id"`
	Reason   string `json:"reason"`
}

// ReportDTO is the full phase budget report.
type ReportDTO struct {
	PhaseID              string             `json:"phase_id"`
	PhaseName            string             `json:"phase_name"`
	RangeStart           string             `json:"range_start,omitempty"`
	RangeEnd             string             `json:"range_end,omitempty"`
	TotalBudgetAllocated string             `json:"total_budget_allocated"`
	TotalBudgetSpent     string             `json:"total_budget_spent"`
	Members              []MemberSummaryDTO `json:"member_summaries"`
	TaskLines            []TaskLineDTO      `json:"task_budget_lines"`
	ExcludedWorkers      []ExclusionDTO     `json:"excluded_workers"`
	ExcludedCount        int                `json:"excluded_count"`
}

func toReportDTO(r *engine.ProjectBudgetReport) ReportDTO {
	dto := ReportDTO{
		PhaseID:              string(r.PhaseID),
		PhaseName:            r.PhaseName,
		TotalBudgetAllocated: r.TotalBudgetAllocated.String(),
		TotalBudgetSpent:     r.TotalBudgetSpent.String(),
		Members:              make([]MemberSummaryDTO, 0, len(r.Members)),
		TaskLines:            make([]TaskLineDTO, 0, len(r.TaskLines)),
		ExcludedWorkers:      make([]ExclusionDTO, 0, len(r.Excluded)),
		ExcludedCount:        len(r.Excluded),
	}
	if !r.Range.IsZero() {
		dto.RangeStart = r.Range.Start.Format(dateFormat)
		dto.RangeEnd = r.Range.End.Format(dateFormat)
	}
	for _, m := range r.Members {
		dto.Members = append(dto.Members, MemberSummaryDTO{
			WorkerID:           string(m.WorkerID),
			WageType:           string(m.WageType),
			EffectiveDailyRate: m.EffectiveDailyRate.String(),
			FullDays:           m.FullDays,
			HalfDays:           m.HalfDays,
			AbsentDays:         m.AbsentDays,
			TotalTaskBudget:    m.TotalTaskBudget.String(),
			MonthlyBudget:      m.MonthlyBudget.String(),
			FinalBudget:        m.FinalBudget.String(),
			HasAttendanceData:  m.HasAttendanceData,
		})
	}
	for _, l := range r.TaskLines {
		dto.TaskLines = append(dto.TaskLines, TaskLineDTO{
			EntryID:   string(l.EntryID),
			TaskID:    string(l.TaskID),
			WorkerID:  string(l.WorkerID),
			Date:      l.Date.Format(dateFormat),
			Status:    string(l.Status),
			DailyRate: l.DailyRate.String(),
			Amount:    l.Amount.String(),
		})
	}
	for _, x := range r.Excluded {
		dto.ExcludedWorkers = append(dto.ExcludedWorkers, ExclusionDTO{
			WorkerID: string(x.WorkerID),
			Reason:   x.Reason,
		})
	}
	return dto
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceEntryDTO includes unapproved entries so approval-queue views
// see the full picture.
type AttendanceEntryDTO struct {
	ID       string `json:"id"`
	PhaseID  string `json:"phase_id"`
	WorkerID string `json:"worker_id"`
	TaskID   string `json:"task_id"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	Approved bool   `json:"approved"`
}

func toAttendanceDTO(e engine.AttendanceEntry) AttendanceEntryDTO {
	return AttendanceEntryDTO{
		ID:       string(e.ID),
		PhaseID:  string(e.PhaseID),
		WorkerID: string(e.WorkerID),
		TaskID:   string(e.TaskID),
		Date:     e.Date.Format(dateFormat),
		Status:   string(e.Status),
		Approved: e.Approved,
	}
}

// AttendanceListDTO wraps a listing with pending counts for queue views.
type AttendanceListDTO struct {
	Entries      []AttendanceEntryDTO `json:"entries"`
	PendingCount int                  `json:"pending_count"`
}

// LogAttendanceRequest creates a new entry. Entries always start
// unapproved; the approval gate promotes them.
type LogAttendanceRequest struct {
	PhaseID  string `json:"phase_id"`
	WorkerID string `json:"worker_id"`
	TaskID   string `json:"task_id"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

// =============================================================================
// ADMIN REQUESTS
// =============================================================================

// UpsertWageConfigRequest creates or replaces a wage config. An empty
// phase_id means the worker-level default; a set one means a phase
// override.
type UpsertWageConfigRequest struct {
	WorkerID            string `json:"worker_id"`
	PhaseID             string `json:"phase_id,omitempty"`
	WageType            string `json:"wage_type"`
	DailyRate           string `json:"daily_rate,omitempty"`
	MonthlySalary       string `json:"monthly_salary,omitempty"`
	WorkingDaysPerMonth int    `json:"working_days_per_month,omitempty"`
}

// CreatePhaseRequest creates or replaces a phase record.
type CreatePhaseRequest struct {
	ID              string `json:"id"`
	ProjectID       string `json:"project_id,omitempty"`
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	AllocatedBudget string `json:"allocated_budget"`
}

// AssignRosterRequest adds workers to a phase roster.
type AssignRosterRequest struct {
	WorkerIDs []string `json:"worker_ids"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateFormat, s, time.UTC)
}
