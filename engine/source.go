/*
source.go - Read and persistence boundaries around the engine

PURPOSE:
  Defines the interfaces between the pure engine and the outside world.
  The engine itself performs no I/O: a Source supplies the immutable
  Snapshot in one fetch at the start of a plan-generation request, and a
  PlanStore persists the result after the engine returns.

SNAPSHOT CONTRACT:
  Snapshot() gathers everything scoped to one event: the event row, its
  venue, the role catalog, the venue's manning configuration (tables,
  brackets, rules), the full roster, and the event date's assignment
  history. The engine treats the bundle as read-only.

IDEMPOTENT PERSISTENCE:
  SavePlan is keyed by (event_date, venue_id) and replaces any prior
  plan for that key - regeneration never duplicates. Concurrent
  regeneration of the SAME event is not coordinated here; callers must
  serialize or accept last-write-wins.

IMPLEMENTATIONS:
  - engine/store/memory.go: in-memory, for tests and demo scenarios
  - store/sqlite/sqlite.go: production SQLite

SEE ALSO:
  - allocation.go: the computation between the two interfaces
*/
package engine

import (
	"context"
	"time"
)

// =============================================================================
// SOURCE - Snapshot read API
// =============================================================================

// Source supplies the immutable input bundle for one plan generation.
type Source interface {
	// Snapshot loads the event and everything the engine needs to plan it.
	// Returns ErrEventNotFound or ErrVenueNotFound (wrapped) on dangling
	// references.
	Snapshot(ctx context.Context, eventID EventID) (Snapshot, error)
}

// =============================================================================
// PLAN STORE - Idempotent plan persistence
// =============================================================================

// PlanStore persists generated plans. Keyed by (event_date, venue_id):
// saving again for the same key replaces, never duplicates.
type PlanStore interface {
	SavePlan(ctx context.Context, plan *Plan, eventDate time.Time, venueID VenueID) error

	// LoadPlan returns the stored plan for an event, or ErrPlanNotFound.
	LoadPlan(ctx context.Context, eventID EventID) (*Plan, error)
}

// =============================================================================
// PLANNER - Snapshot fetch + allocation in one call
// =============================================================================

// Planner wires a Source to an Allocator. It exists so callers (HTTP
// handlers, batch jobs) share one code path for "load inputs, compute
// plan"; persistence stays a separate, explicit step.
type Planner struct {
	Source    Source
	Allocator *Allocator
}

// Generate fetches the event's snapshot and computes a draft plan.
func (p *Planner) Generate(ctx context.Context, eventID EventID) (*Plan, error) {
	snap, err := p.Source.Snapshot(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return p.Allocator.Allocate(snap)
}
