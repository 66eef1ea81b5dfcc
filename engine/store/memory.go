// Package store provides in-memory implementations of the engine's
// persistence and collaborator interfaces, for tests and dev servers.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/chantela-crypto/MGMT-sub003/engine"
)

// =============================================================================
// MEMORY - in-memory repositories + reference data
// =============================================================================

// Memory implements ShiftRepository, ProjectionRepository, Directory and
// KPIHistory. Reference data is seeded through the Save*/SetKPI helpers.
type Memory struct {
	mu          sync.RWMutex
	shifts      map[engine.Key]engine.ShiftEntry
	projections map[projectionKey]engine.RevenueProjection
	employees   map[engine.SchedulableID]engine.Employee
	units       map[engine.SchedulableID]engine.HormoneUnit
	divisions   map[engine.DivisionID]engine.Division
	kpis        map[kpiKey]engine.EmployeeKPI
}

type projectionKey struct {
	ID    engine.SchedulableID
	Month engine.MonthKey
}

type kpiKey struct {
	EmployeeID engine.SchedulableID
	Month      engine.MonthKey
}

func NewMemory() *Memory {
	return &Memory{
		shifts:      make(map[engine.Key]engine.ShiftEntry),
		projections: make(map[projectionKey]engine.RevenueProjection),
		employees:   make(map[engine.SchedulableID]engine.Employee),
		units:       make(map[engine.SchedulableID]engine.HormoneUnit),
		divisions:   make(map[engine.DivisionID]engine.Division),
		kpis:        make(map[kpiKey]engine.EmployeeKPI),
	}
}

var (
	_ engine.ShiftRepository      = (*Memory)(nil)
	_ engine.ProjectionRepository = (*Memory)(nil)
	_ engine.Directory            = (*Memory)(nil)
	_ engine.KPIHistory           = (*Memory)(nil)
)

// =============================================================================
// SHIFT REPOSITORY
// =============================================================================

func (m *Memory) PutShift(_ context.Context, entry engine.ShiftEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[entry.Key()] = entry
	return nil
}

func (m *Memory) GetShift(_ context.Context, id engine.SchedulableID, day engine.DayKey) (*engine.ShiftEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entry, ok := m.shifts[engine.Key{SchedulableID: id, Date: day}]; ok {
		out := entry
		return &out, nil
	}
	return nil, nil
}

func (m *Memory) DeleteShift(_ context.Context, id engine.SchedulableID, day engine.DayKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shifts, engine.Key{SchedulableID: id, Date: day})
	return nil
}

func (m *Memory) ListShifts(_ context.Context, id engine.SchedulableID) ([]engine.ShiftEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.ShiftEntry
	for _, entry := range m.shifts {
		if entry.SchedulableID == id {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) ListShiftsInMonth(ctx context.Context, id engine.SchedulableID, month engine.MonthKey) ([]engine.ShiftEntry, error) {
	all, err := m.ListShifts(ctx, id)
	if err != nil {
		return nil, err
	}
	var out []engine.ShiftEntry
	for _, entry := range all {
		if entry.Date.MonthKey() == month {
			out = append(out, entry)
		}
	}
	return out, nil
}

// =============================================================================
// PROJECTION REPOSITORY
// =============================================================================

func (m *Memory) PutProjection(_ context.Context, p engine.RevenueProjection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projections[projectionKey{ID: p.SchedulableID, Month: p.Month}] = p
	return nil
}

func (m *Memory) GetProjection(_ context.Context, id engine.SchedulableID, month engine.MonthKey) (*engine.RevenueProjection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.projections[projectionKey{ID: id, Month: month}]; ok {
		out := p
		return &out, nil
	}
	return nil, nil
}

func (m *Memory) ListProjections(_ context.Context, month engine.MonthKey) ([]engine.RevenueProjection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []engine.RevenueProjection
	for k, p := range m.projections {
		if k.Month == month {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SchedulableID < out[j].SchedulableID })
	return out, nil
}

// =============================================================================
// DIRECTORY (seedable reference data)
// =============================================================================

func (m *Memory) SaveEmployee(e engine.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

func (m *Memory) SaveUnit(u engine.HormoneUnit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[u.UnitID] = u
}

func (m *Memory) SaveDivision(d engine.Division) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.divisions[d.ID] = d
}

func (m *Memory) GetEmployee(_ context.Context, id engine.SchedulableID) (*engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.employees[id]; ok {
		out := e
		return &out, nil
	}
	return nil, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetUnit(_ context.Context, id engine.SchedulableID) (*engine.HormoneUnit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.units[id]; ok {
		out := u
		return &out, nil
	}
	return nil, nil
}

func (m *Memory) ListUnits(_ context.Context) ([]engine.HormoneUnit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.HormoneUnit, 0, len(m.units))
	for _, u := range m.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out, nil
}

func (m *Memory) GetDivision(_ context.Context, id engine.DivisionID) (*engine.Division, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.divisions[id]; ok {
		out := d
		return &out, nil
	}
	return nil, nil
}

func (m *Memory) ListDivisions(_ context.Context) ([]engine.Division, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.Division, 0, len(m.divisions))
	for _, d := range m.divisions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// KPI HISTORY (seedable)
// =============================================================================

func (m *Memory) SetKPI(k engine.EmployeeKPI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kpis[kpiKey{EmployeeID: k.EmployeeID, Month: k.Month}] = k
}

func (m *Memory) KPIFor(_ context.Context, employeeID engine.SchedulableID, month engine.MonthKey) (*engine.EmployeeKPI, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k, ok := m.kpis[kpiKey{EmployeeID: employeeID, Month: month}]; ok {
		out := k
		return &out, nil
	}
	return nil, nil
}

// =============================================================================
// RECORDER SINK - captures callbacks for assertions
// =============================================================================

// Recorder is a ScheduleSink that remembers the last notification of each
// kind, keyed by schedulable.
type Recorder struct {
	mu          sync.Mutex
	Hours       map[engine.SchedulableID]decimal.Decimal
	Schedules   map[engine.SchedulableID][]engine.ShiftEntry
	Projections []engine.RevenueProjection
}

func NewRecorder() *Recorder {
	return &Recorder{
		Hours:     make(map[engine.SchedulableID]decimal.Decimal),
		Schedules: make(map[engine.SchedulableID][]engine.ShiftEntry),
	}
}

var _ engine.ScheduleSink = (*Recorder)(nil)

func (r *Recorder) OnScheduledHours(_ context.Context, id engine.SchedulableID, total decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Hours[id] = total
	return nil
}

func (r *Recorder) OnSchedule(_ context.Context, id engine.SchedulableID, shifts []engine.ShiftEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Schedules[id] = shifts
	return nil
}

func (r *Recorder) OnProjection(_ context.Context, p engine.RevenueProjection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Projections = append(r.Projections, p)
	return nil
}
