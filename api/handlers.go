/*
handlers.go - HTTP API handlers for the budget engine

PURPOSE:
  Exposes the wage & budget calculation engine via REST. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Reports:
    GET  /api/phases/{id}/report       Build the phase budget report
    GET  /api/phases/{id}/attendance   Raw entries incl. unapproved

  Approval gate:
    POST /api/attendance/{id}/approve  Count an entry
    POST /api/attendance/{id}/revoke   Return an entry to pending

  Admin:
    POST /api/admin/wage-configs       Upsert wage config
    POST /api/admin/phases             Create phase
    POST /api/admin/phases/{id}/roster Assign workers
    POST /api/admin/attendance         Log an entry (starts unapproved)

  Scenarios:
    GET  /api/scenarios                List demo scenarios
    POST /api/scenarios/load           Seed demo data (dev only)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input
  - 404: Missing entry/phase (where the engine doesn't soft-fail)
  - 500: Store failures
  A report build for a missing phase is NOT a 404: the engine returns a
  diagnostic zero-valued report so dashboards never crash on a dangling
  reference.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - engine/report.go: The report builder behind GetReport
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/budget-engine/engine"
)

// BackingStore is what the API needs from a store: the engine's read
// boundary plus the write side for admin and scenario seeding. Both the
// SQLite store and the in-memory fake satisfy it.
type BackingStore interface {
	engine.Repository

	SaveWageConfig(ctx context.Context, cfg engine.WageConfig) error
	SavePhase(ctx context.Context, phase engine.Phase) error
	AddRosterWorkers(ctx context.Context, phaseID engine.PhaseID, workers []engine.WorkerID) error
	SaveAttendance(ctx context.Context, entry engine.AttendanceEntry) (engine.EntryID, error)
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   BackingStore
	Builder *engine.ProjectBudgetReportBuilder
	Gate    *engine.ApprovalGate
}

// NewHandler creates a new handler over the given store.
func NewHandler(store BackingStore) *Handler {
	return &Handler{
		Store:   store,
		Builder: engine.NewReportBuilder(store),
		Gate:    engine.NewApprovalGate(store),
	}
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetReport builds the budget report for a phase.
// Query params: worker_id, wage_type, from, to (all optional).
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	phaseID := engine.PhaseID(chi.URLParam(r, "id"))

	filters := &engine.ReportFilters{}
	q := r.URL.Query()
	if v := q.Get("worker_id"); v != "" {
		id := engine.WorkerID(v)
		filters.WorkerID = &id
	}
	if v := q.Get("wage_type"); v != "" {
		wt := engine.WageType(v)
		if wt != engine.WageDaily && wt != engine.WageMonthly {
			writeError(w, http.StatusBadRequest, "invalid wage_type", nil)
			return
		}
		filters.WageType = &wt
	}
	if from, to := q.Get("from"), q.Get("to"); from != "" && to != "" {
		start, err := parseDate(from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date", err)
			return
		}
		end, err := parseDate(to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date", err)
			return
		}
		filters.Window = &engine.DateRange{Start: start, End: end}
	}

	report, err := h.Builder.Build(r.Context(), phaseID, filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// ListAttendance returns a phase's entries including unapproved ones,
// with a pending count for approval-queue views.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	phaseID := engine.PhaseID(chi.URLParam(r, "id"))

	var workerID *engine.WorkerID
	if v := r.URL.Query().Get("worker_id"); v != "" {
		id := engine.WorkerID(v)
		workerID = &id
	}

	entries, err := h.Store.GetAttendance(r.Context(), phaseID, workerID, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list attendance", err)
		return
	}

	dto := AttendanceListDTO{Entries: make([]AttendanceEntryDTO, 0, len(entries))}
	for _, e := range entries {
		if !e.Approved {
			dto.PendingCount++
		}
		dto.Entries = append(dto.Entries, toAttendanceDTO(e))
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// APPROVAL GATE HANDLERS
// =============================================================================

func (h *Handler) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	h.setApproval(w, r, true)
}

func (h *Handler) RevokeEntry(w http.ResponseWriter, r *http.Request) {
	h.setApproval(w, r, false)
}

func (h *Handler) setApproval(w http.ResponseWriter, r *http.Request, approved bool) {
	entryID := engine.EntryID(chi.URLParam(r, "id"))

	var err error
	if approved {
		err = h.Gate.Approve(r.Context(), entryID)
	} else {
		err = h.Gate.Revoke(r.Context(), entryID)
	}
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "attendance entry not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update approval", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": string(entryID), "approved": approved})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

func (h *Handler) UpsertWageConfig(w http.ResponseWriter, r *http.Request) {
	var req UpsertWageConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.WorkerID == "" {
		writeError(w, http.StatusBadRequest, "worker_id is required", nil)
		return
	}
	wt := engine.WageType(req.WageType)
	if wt != engine.WageDaily && wt != engine.WageMonthly {
		writeError(w, http.StatusBadRequest, "wage_type must be daily or monthly", nil)
		return
	}

	cfg := engine.WageConfig{
		WorkerID:            engine.WorkerID(req.WorkerID),
		Type:                wt,
		DailyRate:           engine.MustParseMoney(req.DailyRate),
		MonthlySalary:       engine.MustParseMoney(req.MonthlySalary),
		WorkingDaysPerMonth: req.WorkingDaysPerMonth,
	}
	if req.PhaseID != "" {
		id := engine.PhaseID(req.PhaseID)
		cfg.PhaseID = &id
	}

	if err := h.Store.SaveWageConfig(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save wage config", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

func (h *Handler) CreatePhase(w http.ResponseWriter, r *http.Request) {
	var req CreatePhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err)
		return
	}

	phase := engine.Phase{
		ID:              engine.PhaseID(req.ID),
		ProjectID:       req.ProjectID,
		Name:            req.Name,
		Start:           start,
		End:             end,
		AllocatedBudget: engine.MustParseMoney(req.AllocatedBudget),
	}
	if err := h.Store.SavePhase(r.Context(), phase); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save phase", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

func (h *Handler) AssignRoster(w http.ResponseWriter, r *http.Request) {
	phaseID := engine.PhaseID(chi.URLParam(r, "id"))

	var req AssignRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.WorkerIDs) == 0 {
		writeError(w, http.StatusBadRequest, "worker_ids is required", nil)
		return
	}

	workers := make([]engine.WorkerID, len(req.WorkerIDs))
	for i, id := range req.WorkerIDs {
		workers[i] = engine.WorkerID(id)
	}
	if err := h.Store.AddRosterWorkers(r.Context(), phaseID, workers); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to assign roster", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"assigned": len(workers)})
}

func (h *Handler) LogAttendance(w http.ResponseWriter, r *http.Request) {
	var req LogAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.PhaseID == "" || req.WorkerID == "" || req.TaskID == "" {
		writeError(w, http.StatusBadRequest, "phase_id, worker_id and task_id are required", nil)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	status := engine.AttendanceStatus(req.Status)
	if status == "" {
		status = engine.StatusUnrecorded
	}
	switch status {
	case engine.StatusFullDay, engine.StatusHalfDay, engine.StatusAbsent, engine.StatusUnrecorded:
	default:
		writeError(w, http.StatusBadRequest, "invalid status", nil)
		return
	}

	// Entries always start unapproved; the gate promotes them.
	id, err := h.Store.SaveAttendance(r.Context(), engine.AttendanceEntry{
		PhaseID:  engine.PhaseID(req.PhaseID),
		WorkerID: engine.WorkerID(req.WorkerID),
		TaskID:   engine.TaskID(req.TaskID),
		Date:     date,
		Status:   status,
		Approved: false,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to log attendance", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(id)})
}

// Health is a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := map[string]string{"error": msg}
	if err != nil {
		body["detail"] = fmt.Sprintf("%v", err)
	}
	writeJSON(w, status, body)
}
