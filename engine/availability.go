/*
availability.go - Per-date working-hour budget tracking

PURPOSE:
  Turns (employee, date) into hours already committed, hours remaining,
  and a tri-state classification:

    available    worked < OptimalHours   (8h default)
    limited      worked >= OptimalHours  (still schedulable up to cap)
    unavailable  worked >= MaxHoursPerDay (12h default)

  The caps are injected at construction rather than read from package
  globals, so tests and alternative deployments can tune them without
  hidden process-wide state.

LOAD COMPUTATION:
  Same-day assignment rows whose status is completed or unavailable are
  considered resolved and excluded from load; everything else counts.
  hours_remaining = max(0, cap - worked).

SEE ALSO:
  - allocation.go: excludes candidates whose remaining budget is smaller
    than the event's shift length
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// TrackerConfig carries the daily hour caps.
type TrackerConfig struct {
	// MaxHoursPerDay is the hard cap; at or above it a member is unavailable.
	MaxHoursPerDay decimal.Decimal
	// OptimalHours is the soft threshold demarcating available from limited.
	OptimalHours decimal.Decimal
}

// DefaultTrackerConfig returns the documented defaults: 12h cap, 8h soft
// threshold.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		MaxHoursPerDay: decimal.NewFromInt(12),
		OptimalHours:   decimal.NewFromInt(8),
	}
}

// =============================================================================
// LOAD STATUS
// =============================================================================

type LoadStatus string

const (
	LoadAvailable   LoadStatus = "available"
	LoadLimited     LoadStatus = "limited"
	LoadUnavailable LoadStatus = "unavailable"
)

// DayLoad is one employee's committed hours for one date.
type DayLoad struct {
	Available      bool
	HoursWorked    decimal.Decimal
	HoursRemaining decimal.Decimal
	CurrentEvents  []EventID
	Status         LoadStatus
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker computes per-date hour budgets from assignment history.
type Tracker struct {
	cfg TrackerConfig
}

// NewTracker creates a Tracker. Zero-valued caps fall back to the defaults.
func NewTracker(cfg TrackerConfig) *Tracker {
	def := DefaultTrackerConfig()
	if cfg.MaxHoursPerDay.IsZero() {
		cfg.MaxHoursPerDay = def.MaxHoursPerDay
	}
	if cfg.OptimalHours.IsZero() {
		cfg.OptimalHours = def.OptimalHours
	}
	return &Tracker{cfg: cfg}
}

// DayLoad computes one employee's load for one date from their assignment
// records. Records for other dates or other employees are ignored, so the
// caller may pass an unfiltered slice.
func (t *Tracker) DayLoad(staffID StaffID, date time.Time, records []EmployeeAssignment) DayLoad {
	load := t.zeroLoad()
	for _, rec := range records {
		if rec.StaffID != staffID || !sameDay(rec.Date, date) {
			continue
		}
		t.accumulate(&load, rec)
	}
	t.classify(&load)
	return load
}

// DayLoadAll computes loads for an entire roster in one pass over the
// records. Every roster member gets an entry, including those with no
// commitments that day.
func (t *Tracker) DayLoadAll(roster []StaffMember, date time.Time, records []EmployeeAssignment) map[StaffID]DayLoad {
	loads := make(map[StaffID]DayLoad, len(roster))
	for _, member := range roster {
		loads[member.ID] = t.zeroLoad()
	}
	for _, rec := range records {
		load, ok := loads[rec.StaffID]
		if !ok || !sameDay(rec.Date, date) {
			continue
		}
		t.accumulate(&load, rec)
		loads[rec.StaffID] = load
	}
	for id, load := range loads {
		t.classify(&load)
		loads[id] = load
	}
	return loads
}

func (t *Tracker) zeroLoad() DayLoad {
	return DayLoad{
		Available:      true,
		HoursWorked:    decimal.Zero,
		HoursRemaining: t.cfg.MaxHoursPerDay,
		Status:         LoadAvailable,
	}
}

// accumulate folds one record into a load. Completed and unavailable rows
// are resolved and do not count.
func (t *Tracker) accumulate(load *DayLoad, rec EmployeeAssignment) {
	if rec.Status == RecordCompleted || rec.Status == RecordUnavailable {
		return
	}
	load.HoursWorked = load.HoursWorked.Add(rec.Hours)
	if rec.EventID != nil {
		load.CurrentEvents = append(load.CurrentEvents, *rec.EventID)
	}
}

func (t *Tracker) classify(load *DayLoad) {
	load.HoursRemaining = t.cfg.MaxHoursPerDay.Sub(load.HoursWorked)
	if load.HoursRemaining.IsNegative() {
		load.HoursRemaining = decimal.Zero
	}
	switch {
	case load.HoursWorked.GreaterThanOrEqual(t.cfg.MaxHoursPerDay):
		load.Status = LoadUnavailable
		load.Available = false
	case load.HoursWorked.GreaterThanOrEqual(t.cfg.OptimalHours):
		load.Status = LoadLimited
		load.Available = true
	default:
		load.Status = LoadAvailable
		load.Available = true
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
