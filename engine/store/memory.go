// Package store provides in-memory Source and PlanStore implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	venues      map[engine.VenueID]engine.Venue
	roles       []engine.Role
	events      map[engine.EventID]engine.Event
	roster      []engine.StaffMember
	tables      map[engine.VenueID][]engine.ManningTable
	brackets    map[engine.VenueID][]engine.ManningBracket
	rules       map[engine.VenueID][]engine.StaffingRule
	assignments []engine.EmployeeAssignment
	plans       map[planKey]*engine.Plan
}

type planKey struct {
	Date    string // yyyy-mm-dd
	VenueID engine.VenueID
}

func NewMemory() *Memory {
	return &Memory{
		venues:   make(map[engine.VenueID]engine.Venue),
		events:   make(map[engine.EventID]engine.Event),
		tables:   make(map[engine.VenueID][]engine.ManningTable),
		brackets: make(map[engine.VenueID][]engine.ManningBracket),
		rules:    make(map[engine.VenueID][]engine.StaffingRule),
		plans:    make(map[planKey]*engine.Plan),
	}
}

// =============================================================================
// FIXTURE LOADING
// =============================================================================

func (m *Memory) AddVenue(v engine.Venue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.venues[v.ID] = v
}

func (m *Memory) AddRole(r engine.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = append(m.roles, r)
}

func (m *Memory) AddEvent(e engine.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
}

func (m *Memory) AddStaff(s engine.StaffMember) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roster = append(m.roster, s)
}

func (m *Memory) AddTable(t engine.ManningTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.VenueID] = append(m.tables[t.VenueID], t)
}

func (m *Memory) AddBracket(b engine.ManningBracket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brackets[b.VenueID] = append(m.brackets[b.VenueID], b)
}

func (m *Memory) AddRule(r engine.StaffingRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[r.VenueID] = append(m.rules[r.VenueID], r)
}

func (m *Memory) AddAssignment(a engine.EmployeeAssignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = append(m.assignments, a)
}

// =============================================================================
// SOURCE
// =============================================================================

// Snapshot assembles the immutable input bundle for one event.
func (m *Memory) Snapshot(_ context.Context, eventID engine.EventID) (engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, ok := m.events[eventID]
	if !ok {
		return engine.Snapshot{}, engine.ErrEventNotFound
	}
	venue, ok := m.venues[event.VenueID]
	if !ok {
		return engine.Snapshot{}, &engine.VenueNotFoundError{VenueID: event.VenueID, EventID: eventID}
	}

	var dayAssignments []engine.EmployeeAssignment
	for _, a := range m.assignments {
		if a.Date.UTC().Truncate(24 * time.Hour).Equal(event.Date.UTC().Truncate(24 * time.Hour)) {
			dayAssignments = append(dayAssignments, a)
		}
	}

	return engine.Snapshot{
		Event:          event,
		Venue:          venue,
		Roles:          append([]engine.Role(nil), m.roles...),
		Tables:         append([]engine.ManningTable(nil), m.tables[event.VenueID]...),
		Brackets:       append([]engine.ManningBracket(nil), m.brackets[event.VenueID]...),
		Rules:          append([]engine.StaffingRule(nil), m.rules[event.VenueID]...),
		Roster:         append([]engine.StaffMember(nil), m.roster...),
		DayAssignments: dayAssignments,
	}, nil
}

// =============================================================================
// PLAN STORE
// =============================================================================

// SavePlan replaces any prior plan for (event_date, venue_id).
func (m *Memory) SavePlan(_ context.Context, plan *engine.Plan, eventDate time.Time, venueID engine.VenueID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[planKey{Date: eventDate.UTC().Format("2006-01-02"), VenueID: venueID}] = plan
	return nil
}

// LoadPlan returns the stored plan for an event, or ErrPlanNotFound.
func (m *Memory) LoadPlan(_ context.Context, eventID engine.EventID) (*engine.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, ok := m.events[eventID]
	if !ok {
		return nil, engine.ErrEventNotFound
	}
	plan, ok := m.plans[planKey{Date: event.Date.UTC().Format("2006-01-02"), VenueID: event.VenueID}]
	if !ok {
		return nil, engine.ErrPlanNotFound
	}
	return plan, nil
}
