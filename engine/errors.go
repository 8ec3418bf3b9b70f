/*
errors.go - Centralized error types for the staffing engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The taxonomy is deliberately lopsided: almost everything the engine
  encounters is non-fatal and degrades the plan instead of failing it.

ERROR CATEGORIES:
  1. Reference-missing - unknown venue; the only fatal case
  2. Configuration anomalies - logged, never returned as errors
  3. Store errors - persistence failures surfaced by Source/PlanStore

PROPAGATION POLICY:
  Only ErrVenueNotFound aborts plan generation. Missing manning config,
  unmapped role names, malformed bracket strings and staff shortages all
  degrade the output and are recorded in the plan's DecisionLog, because
  a best-effort draft plan is more useful to a planner than a hard
  failure.

SEE ALSO:
  - allocation.go: the single fatal path
  - manning.go: logged, non-fatal configuration anomalies
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrVenueNotFound is returned when the event references a venue the
	// snapshot could not supply. Nothing can be computed without the venue.
	ErrVenueNotFound = errors.New("venue not found")

	// ErrEventNotFound is returned by stores when an event id is unknown.
	ErrEventNotFound = errors.New("event not found")

	// ErrPlanNotFound is returned by stores when no plan exists for a key.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrStaffNotFound is returned by stores when a staff id is unknown.
	ErrStaffNotFound = errors.New("staff member not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// VenueNotFoundError identifies which venue reference was dangling.
type VenueNotFoundError struct {
	VenueID VenueID
	EventID EventID
}

func (e *VenueNotFoundError) Error() string {
	return fmt.Sprintf("venue %d not found for event %d", e.VenueID, e.EventID)
}

func (e *VenueNotFoundError) Unwrap() error {
	return ErrVenueNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrVenueNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrStaffNotFound)
}
