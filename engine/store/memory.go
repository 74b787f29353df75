// Package store provides an in-memory Repository implementation
// (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/budget-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	configs map[scopeKey]engine.WageConfig
	phases  map[engine.PhaseID]engine.Phase
	rosters map[engine.PhaseID][]engine.WorkerID
	entries map[engine.EntryID]engine.AttendanceEntry
}

// scopeKey identifies a wage config scope: default (empty phase) or
// override. One config per scope, by construction.
type scopeKey struct {
	WorkerID engine.WorkerID
	PhaseID  engine.PhaseID
}

func NewMemory() *Memory {
	return &Memory{
		configs: make(map[scopeKey]engine.WageConfig),
		phases:  make(map[engine.PhaseID]engine.Phase),
		rosters: make(map[engine.PhaseID][]engine.WorkerID),
		entries: make(map[engine.EntryID]engine.AttendanceEntry),
	}
}

// =============================================================================
// REPOSITORY - Read side
// =============================================================================

func (m *Memory) GetWageConfig(_ context.Context, workerID engine.WorkerID, phaseID *engine.PhaseID) (*engine.WageConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if phaseID != nil {
		if cfg, ok := m.configs[scopeKey{WorkerID: workerID, PhaseID: *phaseID}]; ok {
			c := cfg
			return &c, nil
		}
	}
	if cfg, ok := m.configs[scopeKey{WorkerID: workerID}]; ok {
		c := cfg
		return &c, nil
	}
	return nil, engine.ErrWageConfigNotFound
}

func (m *Memory) GetPhase(_ context.Context, phaseID engine.PhaseID) (*engine.Phase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	phase, ok := m.phases[phaseID]
	if !ok {
		return nil, engine.ErrPhaseNotFound
	}
	p := phase
	return &p, nil
}

func (m *Memory) GetRoster(_ context.Context, phaseID engine.PhaseID) ([]engine.WorkerID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roster := make([]engine.WorkerID, len(m.rosters[phaseID]))
	copy(roster, m.rosters[phaseID])
	return roster, nil
}

func (m *Memory) GetAttendance(_ context.Context, phaseID engine.PhaseID, workerID *engine.WorkerID, window *engine.DateRange) ([]engine.AttendanceEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.AttendanceEntry
	for _, e := range m.entries {
		if e.PhaseID != phaseID {
			continue
		}
		if workerID != nil && e.WorkerID != *workerID {
			continue
		}
		if window != nil && !window.Contains(e.Date) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) SetAttendanceApproved(_ context.Context, entryID engine.EntryID, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryID]
	if !ok {
		return engine.ErrEntryNotFound
	}
	entry.Approved = approved
	m.entries[entryID] = entry
	return nil
}

// =============================================================================
// WRITE SIDE - Seeding for tests, demos, and the admin API
// =============================================================================

// SaveWageConfig upserts by scope: a second config for the same
// (worker, phase-or-default) scope replaces the first, keeping the
// at-most-one-per-scope invariant by construction.
func (m *Memory) SaveWageConfig(_ context.Context, cfg engine.WageConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	k := scopeKey{WorkerID: cfg.WorkerID}
	if cfg.PhaseID != nil {
		k.PhaseID = *cfg.PhaseID
	}
	m.configs[k] = cfg
	return nil
}

func (m *Memory) SavePhase(_ context.Context, phase engine.Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phases[phase.ID] = phase
	return nil
}

// AddRosterWorkers appends workers to a phase roster, skipping duplicates.
func (m *Memory) AddRosterWorkers(_ context.Context, phaseID engine.PhaseID, workers []engine.WorkerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := make(map[engine.WorkerID]bool, len(m.rosters[phaseID]))
	for _, id := range m.rosters[phaseID] {
		existing[id] = true
	}
	for _, id := range workers {
		if !existing[id] {
			m.rosters[phaseID] = append(m.rosters[phaseID], id)
			existing[id] = true
		}
	}
	return nil
}

// SaveAttendance stores a new entry, assigning an id when absent.
func (m *Memory) SaveAttendance(_ context.Context, entry engine.AttendanceEntry) (engine.EntryID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = engine.EntryID(uuid.NewString())
	}
	m.entries[entry.ID] = entry
	return entry.ID, nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs = make(map[scopeKey]engine.WageConfig)
	m.phases = make(map[engine.PhaseID]engine.Phase)
	m.rosters = make(map[engine.PhaseID][]engine.WorkerID)
	m.entries = make(map[engine.EntryID]engine.AttendanceEntry)
	return nil
}
