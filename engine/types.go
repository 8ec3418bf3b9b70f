/*
Package engine provides the core staffing resolution and allocation engine.

PURPOSE:
  This package contains the domain types and algorithms for turning an
  event (venue, date, guest count, priority) into a staffing plan: how
  many workers of each role are needed, which available workers fill
  those slots, and which slots must be covered by freelancers.

KEY CONCEPTS IN THIS FILE (types.go):
  - Venue/Role/StaffMember/Event: read-only catalog and roster inputs
  - StaffingRule/ManningTable/ManningBracket: the three manning sources
  - Plan/PlanRequirement/PlanAssignment: the engine's output
  - DecisionLog: ordered diagnostic strings attached to every plan

DESIGN PRINCIPLES:
  1. Purity: the engine computes over an immutable Snapshot and issues
     no reads or writes of its own; persistence belongs to the caller.
  2. Precision: worked/remaining hours use decimal.Decimal to avoid
     floating-point drift across many small shift durations.
  3. Type Safety: strong integer ID types prevent mixing venue, role,
     staff and event identifiers.
  4. Best effort: anomalies degrade the plan (fewer requirements, more
     shortages) and are logged; only a missing venue aborts.

SEE ALSO:
  - manning.go: requirement resolution (table -> bracket -> ratio)
  - availability.go: per-date hour budget tracking
  - scoring.go: candidate scoring
  - allocation.go: greedy slot assignment
*/
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type VenueID int64
type RoleID int64
type StaffID int64
type EventID int64
type AssignmentID int64

// =============================================================================
// VENUE & ROLE - Read-only catalogs
// =============================================================================

type VenueCategory string

const (
	VenueCamp    VenueCategory = "camp"
	VenuePrivate VenueCategory = "private"
	VenueOther   VenueCategory = "other"
)

// Venue is owned by the admin UI; the engine only reads it.
type Venue struct {
	ID           VenueID
	Name         string
	Category     VenueCategory
	ServiceStyle string
}

// Role is a global catalog entry ("Waiter", "Bartender"). Referenced by
// id everywhere internally; the name is only for display and logging.
type Role struct {
	ID   RoleID
	Name string
}

// =============================================================================
// MANNING SOURCES - Three ways a venue's requirements can be configured
// =============================================================================

// StaffingRule is the ratio fallback: ratio_staff workers per ratio_guests
// guests, with an optional minimum headcount and an optional guest-count
// threshold that adds extra headcount above it. Multiple rules per
// (venue, department) are summed independently.
type StaffingRule struct {
	ID             int64
	VenueID        VenueID
	Department     string
	RoleID         RoleID
	RatioGuests    int
	RatioStaff     int
	MinRequired    int
	ThresholdGuests int
	ThresholdStaff  int
}

// ManningTable is the preferred bracket-lookup source: an ordered list of
// guest-count brackets ("min-max" strings, ascending, non-overlapping) and
// rows naming a role with one required count per bracket index.
type ManningTable struct {
	ID         int64
	VenueID    VenueID
	Department string
	Config     TableConfig
}

// TableConfig is the parsed form of a manning table's JSON configuration.
// Parsing happens at the boundary (factory package); the engine never sees
// raw JSON.
type TableConfig struct {
	Brackets []string
	Rows     []TableRow
}

// TableRow names a role and gives one required count per bracket index.
type TableRow struct {
	RoleName string
	Counts   []int
}

// ManningBracket is the legacy bracket source: one explicit guest range with
// a role->count mapping, stored as independent rows instead of a matrix.
type ManningBracket struct {
	ID         int64
	VenueID    VenueID
	Department string
	GuestMin   int
	GuestMax   int
	Counts     map[RoleID]int
}

// =============================================================================
// EVENT - Immutable input, created by planners
// =============================================================================

type PriorityTier string

const (
	PriorityNormal PriorityTier = "normal"
	PriorityVIP    PriorityTier = "vip"
	PriorityVVIP   PriorityTier = "vvip"
)

// SpecialRequirements carries optional named skills and named languages
// (with minimum proficiency) attached to an event. An unparseable
// requirements blob degrades to the zero value, never to an error.
type SpecialRequirements struct {
	Skills    []string
	Languages map[string]Proficiency
}

func (r SpecialRequirements) IsZero() bool {
	return len(r.Skills) == 0 && len(r.Languages) == 0
}

// Event is the unit of planning. StartTime/EndTime are wall-clock "HH:MM"
// strings; either may be empty, in which case the engine assumes a default
// shift length.
type Event struct {
	ID           EventID
	VenueID      VenueID
	Date         time.Time // day granularity, UTC
	StartTime    string
	EndTime      string
	GuestCount   int
	Priority     PriorityTier
	Requirements SpecialRequirements
}

// =============================================================================
// STAFF - Roster and per-date commitments
// =============================================================================

type EmploymentType string

const (
	EmploymentInternal   EmploymentType = "internal"
	EmploymentExternal   EmploymentType = "external"
	EmploymentFreelancer EmploymentType = "freelancer"
)

// Proficiency covers both the English tier (basic/medium/good/fluent) and
// the general language scale (basic/conversational/fluent/native). The two
// scales share values but are scored by different maps; see scoring.go.
type Proficiency string

const (
	ProficiencyBasic          Proficiency = "basic"
	ProficiencyMedium         Proficiency = "medium"
	ProficiencyGood           Proficiency = "good"
	ProficiencyConversational Proficiency = "conversational"
	ProficiencyFluent         Proficiency = "fluent"
	ProficiencyNative         Proficiency = "native"
)

// RosterStatus is the staff member's global availability flag, maintained by
// HR. Only "available" members are candidates at all; the per-date hour
// budget filter (availability.go) applies on top.
type RosterStatus string

const (
	RosterAvailable RosterStatus = "available"
	RosterOff       RosterStatus = "off"
	RosterLeave     RosterStatus = "leave"
	RosterBooked    RosterStatus = "booked"
)

type StaffMember struct {
	ID              StaffID
	Name            string
	PrimaryRoleID   RoleID
	SecondaryRoles  []RoleID
	HomeVenueID     *VenueID // nil when the member has no home base
	Employment      EmploymentType
	English         Proficiency
	OtherLanguages  map[string]Proficiency
	SpecialSkills   []string
	Status          RosterStatus
}

// HasSecondaryRole reports whether roleID is among the member's secondary roles.
func (s StaffMember) HasSecondaryRole(roleID RoleID) bool {
	for _, r := range s.SecondaryRoles {
		if r == roleID {
			return true
		}
	}
	return false
}

// AssignmentRecordStatus classifies a historical assignment row. Rows marked
// completed or unavailable are resolved and excluded from same-day load.
type AssignmentRecordStatus string

const (
	RecordScheduled   AssignmentRecordStatus = "scheduled"
	RecordConfirmed   AssignmentRecordStatus = "confirmed"
	RecordCompleted   AssignmentRecordStatus = "completed"
	RecordUnavailable AssignmentRecordStatus = "unavailable"
)

// EmployeeAssignment is a historical/other-event commitment used only to
// compute same-day load. The engine never mutates these rows.
type EmployeeAssignment struct {
	ID      AssignmentID
	StaffID StaffID
	Date    time.Time
	Hours   decimal.Decimal
	Status  AssignmentRecordStatus
	EventID *EventID
}

// =============================================================================
// PLAN - The engine's output, consumed by UI and persistence
// =============================================================================

type PlanAssignmentStatus string

const (
	AssignPending   PlanAssignmentStatus = "pending"
	AssignConfirmed PlanAssignmentStatus = "confirmed"
	AssignDeclined  PlanAssignmentStatus = "declined"
)

// FreelancerName is the display name used for freelancer placeholder slots.
const FreelancerName = "Freelancer Needed"

// PlanAssignment is the externally consumed unit. A negative StaffID marks a
// freelancer placeholder; downstream UI may toggle Status or swap the
// assignee, but those mutations never flow back through the engine.
type PlanAssignment struct {
	RoleID      RoleID
	RoleName    string
	StaffID     StaffID
	StaffName   string
	Status      PlanAssignmentStatus
	IsFreelance bool
}

// PlanRequirement is one role's slice of the plan. Invariant:
// Filled + freelancer placeholders == Count.
type PlanRequirement struct {
	RoleID      RoleID
	RoleName    string
	Count       int
	Filled      int
	Assignments []PlanAssignment
}

// Shortage records a role for which fewer internal candidates were available
// than required.
type Shortage struct {
	RoleID   RoleID
	RoleName string
	Missing  int
}

// Plan is the full allocation result for one event. Status is always "draft";
// confirmation is a human step outside the engine.
type Plan struct {
	EventID          EventID
	VenueName        string
	GuestCount       int
	Requirements     []PlanRequirement
	Shortages        []Shortage
	TotalStaff       int
	InternalAssigned int
	TotalFreelancers int
	Status           string
	Log              []string
}

// =============================================================================
// SNAPSHOT - Immutable input bundle fetched once per plan generation
// =============================================================================

// Snapshot is everything the engine reads: the event, its venue's manning
// configuration, the role catalog, the full roster, and that date's
// assignment history. Fetched once by the caller; never mutated here.
type Snapshot struct {
	Event          Event
	Venue          Venue
	Roles          []Role
	Tables         []ManningTable
	Brackets       []ManningBracket
	Rules          []StaffingRule
	Roster         []StaffMember
	DayAssignments []EmployeeAssignment
}

// =============================================================================
// DECISION LOG - Ordered diagnostics for audit UIs
// =============================================================================

// DecisionLog collects ordered human-readable strings describing which
// manning source matched, which rows were skipped and why, and how each
// role's slots were filled. Every non-fatal anomaly lands here.
type DecisionLog struct {
	entries []string
}

func (l *DecisionLog) Logf(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Entries returns the log in insertion order.
func (l *DecisionLog) Entries() []string {
	return l.entries
}
