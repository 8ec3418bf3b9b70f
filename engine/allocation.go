/*
allocation.go - Greedy slot assignment

PURPOSE:
  The Allocation Engine: consumes the Manning Resolver's requirement set
  and the staff roster (filtered through the Availability Tracker and
  scored through the Match Scorer) and produces a Plan: per-role
  assignments, freelancer placeholders for unfilled slots, shortage
  entries, aggregate totals, and the decision log.

ALGORITHM (per event):
  1. Compute the shift length from start/end wall-clock times, wrapping
     past midnight, defaulting to 8h when either time is absent.
  2. Filter the roster: global status must be "available", the per-date
     load must not be "unavailable", and the remaining hour budget must
     cover the full shift. A "limited" worker without enough remaining
     budget is excluded outright, not merely deprioritized.
  3. For each required role (ascending role id, a deterministic order
     over what is semantically a set), score the not-yet-assigned
     eligible candidates, drop score-0 candidates, sort descending by
     score with original roster order breaking ties, and commit the top
     N. Assigned staff leave the pool immediately, so nobody is
     double-booked across roles within one plan.
  4. Unfilled slots become freelancer placeholders with unique negative
     staff ids; each shortage is also recorded in the aggregate list.

  The algorithm is intentionally greedy and local: it does not search
  for a globally maximal assignment.

FAILURE SEMANTICS:
  An unknown venue is the single fatal case. Everything else degrades
  the plan and lands in the decision log.
*/
package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultShiftHours is assumed when an event's start or end time is absent
// or unparseable.
const DefaultShiftHours = 8

// =============================================================================
// ALLOCATOR
// =============================================================================

// Allocator generates staffing plans. It is a pure computation over an
// immutable Snapshot: no I/O, no shared mutable state, safe for concurrent
// use across distinct plan-generation runs.
type Allocator struct {
	tracker *Tracker
}

// NewAllocator creates an Allocator. A nil tracker falls back to the
// default hour caps.
func NewAllocator(tracker *Tracker) *Allocator {
	if tracker == nil {
		tracker = NewTracker(DefaultTrackerConfig())
	}
	return &Allocator{tracker: tracker}
}

// Allocate produces a draft Plan for the snapshot's event. The only error
// case is a snapshot whose venue does not match the event's venue
// reference; all other anomalies degrade the plan and are logged.
func (a *Allocator) Allocate(snap Snapshot) (*Plan, error) {
	event := snap.Event
	if snap.Venue.ID == 0 || snap.Venue.ID != event.VenueID {
		return nil, &VenueNotFoundError{VenueID: event.VenueID, EventID: event.ID}
	}

	log := &DecisionLog{}
	log.Logf("planning event %d at %s: %d guests, %s priority",
		event.ID, snap.Venue.Name, event.GuestCount, event.Priority)

	resolver := NewManningResolver(snap.Roles, snap.Tables, snap.Brackets, snap.Rules, log)
	requirements := resolver.Resolve(event.GuestCount)

	shiftHours := EventHours(event.StartTime, event.EndTime)
	log.Logf("shift length %sh (%s-%s)", shiftHours.String(), orUnset(event.StartTime), orUnset(event.EndTime))

	pool := a.eligiblePool(snap, shiftHours, log)

	plan := &Plan{
		EventID:    event.ID,
		VenueName:  snap.Venue.Name,
		GuestCount: event.GuestCount,
		Status:     "draft",
	}

	assigned := make(map[StaffID]bool)
	nextPlaceholder := StaffID(-1)

	for _, req := range sortedRequirements(requirements) {
		planReq := PlanRequirement{
			RoleID:   req.RoleID,
			RoleName: req.RoleName,
			Count:    req.Count,
		}

		candidates := a.scoreCandidates(pool, assigned, req.RoleID, event)
		log.Logf("role %s: need %d, %d qualified candidates", req.RoleName, req.Count, len(candidates))

		for _, c := range candidates {
			if planReq.Filled >= req.Count {
				break
			}
			planReq.Assignments = append(planReq.Assignments, PlanAssignment{
				RoleID:    req.RoleID,
				RoleName:  req.RoleName,
				StaffID:   c.member.ID,
				StaffName: c.member.Name,
				Status:    AssignPending,
			})
			assigned[c.member.ID] = true
			planReq.Filled++
			log.Logf("role %s: assigned %s (score %d)", req.RoleName, c.member.Name, c.score)
		}

		if missing := req.Count - planReq.Filled; missing > 0 {
			for i := 0; i < missing; i++ {
				planReq.Assignments = append(planReq.Assignments, PlanAssignment{
					RoleID:      req.RoleID,
					RoleName:    req.RoleName,
					StaffID:     nextPlaceholder,
					StaffName:   FreelancerName,
					Status:      AssignPending,
					IsFreelance: true,
				})
				nextPlaceholder--
			}
			plan.Shortages = append(plan.Shortages, Shortage{
				RoleID:   req.RoleID,
				RoleName: req.RoleName,
				Missing:  missing,
			})
			log.Logf("role %s: short %d, freelancers needed", req.RoleName, missing)
		}

		plan.Requirements = append(plan.Requirements, planReq)
		plan.TotalStaff += req.Count
		plan.InternalAssigned += planReq.Filled
	}

	plan.TotalFreelancers = plan.TotalStaff - plan.InternalAssigned
	log.Logf("plan complete: %d needed, %d assigned, %d freelancers", plan.TotalStaff, plan.InternalAssigned, plan.TotalFreelancers)
	plan.Log = log.Entries()
	return plan, nil
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

type poolEntry struct {
	member StaffMember
	load   DayLoad
}

// eligiblePool filters the roster to members who can work this shift at
// all, preserving roster order for deterministic tie-breaks.
func (a *Allocator) eligiblePool(snap Snapshot, shiftHours decimal.Decimal, log *DecisionLog) []poolEntry {
	loads := a.tracker.DayLoadAll(snap.Roster, snap.Event.Date, snap.DayAssignments)

	var pool []poolEntry
	for _, member := range snap.Roster {
		if member.Status != RosterAvailable {
			continue
		}
		load := loads[member.ID]
		if load.Status == LoadUnavailable {
			continue
		}
		if load.HoursRemaining.LessThan(shiftHours) {
			log.Logf("%s excluded: %sh remaining, shift needs %sh",
				member.Name, load.HoursRemaining.String(), shiftHours.String())
			continue
		}
		pool = append(pool, poolEntry{member: member, load: load})
	}
	log.Logf("eligible pool: %d of %d roster members", len(pool), len(snap.Roster))
	return pool
}

// =============================================================================
// SCORING & ORDERING
// =============================================================================

type scoredCandidate struct {
	member StaffMember
	score  int
}

// scoreCandidates scores the not-yet-assigned pool for one role, drops
// disqualified candidates, and sorts descending by score. The sort is
// stable, so equal scores keep original roster order - that is the
// documented tie-break rule.
func (a *Allocator) scoreCandidates(pool []poolEntry, assigned map[StaffID]bool, roleID RoleID, event Event) []scoredCandidate {
	var candidates []scoredCandidate
	for _, entry := range pool {
		if assigned[entry.member.ID] {
			continue
		}
		score := Score(entry.member, roleID, event, event.Requirements.Skills, event.Requirements.Languages)
		if score == 0 {
			continue
		}
		candidates = append(candidates, scoredCandidate{member: entry.member, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}

// sortedRequirements orders the requirement set by ascending role id.
// Resolution produces a map; iterating it directly would make runs
// non-reproducible.
func sortedRequirements(set RequirementSet) []*Requirement {
	reqs := make([]*Requirement, 0, len(set))
	for _, req := range set {
		reqs = append(reqs, req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].RoleID < reqs[j].RoleID })
	return reqs
}

// =============================================================================
// SHIFT LENGTH
// =============================================================================

// EventHours computes the shift length in hours from "HH:MM" wall-clock
// strings. A negative difference wraps past midnight (overnight shift).
// Absent or unparseable times fall back to DefaultShiftHours.
func EventHours(start, end string) decimal.Decimal {
	startMin, okStart := parseClockMinutes(start)
	endMin, okEnd := parseClockMinutes(end)
	if !okStart || !okEnd {
		return decimal.NewFromInt(DefaultShiftHours)
	}
	diff := endMin - startMin
	if diff < 0 {
		diff += 24 * 60
	}
	return decimal.NewFromInt(int64(diff)).Div(decimal.NewFromInt(60))
}

func parseClockMinutes(clock string) (int, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0, false
	}
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func orUnset(clock string) string {
	if strings.TrimSpace(clock) == "" {
		return "unset"
	}
	return clock
}
