package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/engine"
)

var testDay = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func record(staffID engine.StaffID, hours float64, status engine.AssignmentRecordStatus) engine.EmployeeAssignment {
	return engine.EmployeeAssignment{
		StaffID: staffID,
		Date:    testDay,
		Hours:   decimal.NewFromFloat(hours),
		Status:  status,
	}
}

func TestDayLoad_NoCommitments(t *testing.T) {
	// GIVEN: A member with no assignment records
	// WHEN: Computing their load for the day
	// THEN: Fully available, 12 hours remaining

	tracker := engine.NewTracker(engine.TrackerConfig{})
	load := tracker.DayLoad(1, testDay, nil)

	if load.Status != engine.LoadAvailable {
		t.Errorf("expected available, got %s", load.Status)
	}
	if !load.HoursRemaining.Equal(decimal.NewFromInt(12)) {
		t.Errorf("expected 12 hours remaining, got %s", load.HoursRemaining)
	}
}

func TestDayLoad_SoftThresholdMakesLimited(t *testing.T) {
	// GIVEN: A member with 9 hours already committed (past the 8h threshold)
	// WHEN: Computing their load
	// THEN: Status is limited, still schedulable, 3 hours remaining

	tracker := engine.NewTracker(engine.TrackerConfig{})
	load := tracker.DayLoad(1, testDay, []engine.EmployeeAssignment{
		record(1, 9, engine.RecordConfirmed),
	})

	if load.Status != engine.LoadLimited {
		t.Errorf("expected limited, got %s", load.Status)
	}
	if !load.Available {
		t.Error("limited members remain schedulable")
	}
	if !load.HoursRemaining.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected 3 hours remaining, got %s", load.HoursRemaining)
	}
}

func TestDayLoad_HardCapMakesUnavailable(t *testing.T) {
	// GIVEN: A member whose commitments reach the 12h cap
	// WHEN: Computing their load
	// THEN: Unavailable, zero hours remaining

	tracker := engine.NewTracker(engine.TrackerConfig{})
	load := tracker.DayLoad(1, testDay, []engine.EmployeeAssignment{
		record(1, 7, engine.RecordScheduled),
		record(1, 5, engine.RecordConfirmed),
	})

	if load.Status != engine.LoadUnavailable {
		t.Errorf("expected unavailable, got %s", load.Status)
	}
	if load.Available {
		t.Error("members at the cap must not be schedulable")
	}
	if !load.HoursRemaining.IsZero() {
		t.Errorf("expected 0 hours remaining, got %s", load.HoursRemaining)
	}
}

func TestDayLoad_ResolvedRecordsExcluded(t *testing.T) {
	// GIVEN: Completed and unavailable rows alongside a live one
	// WHEN: Computing the load
	// THEN: Only the live row counts

	tracker := engine.NewTracker(engine.TrackerConfig{})
	load := tracker.DayLoad(1, testDay, []engine.EmployeeAssignment{
		record(1, 6, engine.RecordCompleted),
		record(1, 6, engine.RecordUnavailable),
		record(1, 4, engine.RecordScheduled),
	})

	if !load.HoursWorked.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected 4 hours worked, got %s", load.HoursWorked)
	}
	if load.Status != engine.LoadAvailable {
		t.Errorf("expected available, got %s", load.Status)
	}
}

func TestDayLoad_OtherDatesAndMembersIgnored(t *testing.T) {
	// GIVEN: Records for another member and for another date
	// WHEN: Computing member 1's load for testDay
	// THEN: Neither record contributes

	other := record(2, 10, engine.RecordConfirmed)
	tomorrow := record(1, 10, engine.RecordConfirmed)
	tomorrow.Date = testDay.AddDate(0, 0, 1)

	tracker := engine.NewTracker(engine.TrackerConfig{})
	load := tracker.DayLoad(1, testDay, []engine.EmployeeAssignment{other, tomorrow})

	if !load.HoursWorked.IsZero() {
		t.Errorf("expected 0 hours worked, got %s", load.HoursWorked)
	}
}

func TestDayLoadAll_EveryRosterMemberGetsAnEntry(t *testing.T) {
	// GIVEN: A roster of three, only one with commitments
	// WHEN: Computing loads in batch
	// THEN: All three have entries; the committed one is limited

	roster := []engine.StaffMember{{ID: 1}, {ID: 2}, {ID: 3}}
	tracker := engine.NewTracker(engine.TrackerConfig{})
	loads := tracker.DayLoadAll(roster, testDay, []engine.EmployeeAssignment{
		record(2, 8, engine.RecordConfirmed),
	})

	if len(loads) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(loads))
	}
	if loads[1].Status != engine.LoadAvailable {
		t.Errorf("member 1: expected available, got %s", loads[1].Status)
	}
	if loads[2].Status != engine.LoadLimited {
		t.Errorf("member 2: expected limited, got %s", loads[2].Status)
	}
}

func TestTracker_CustomCaps(t *testing.T) {
	// GIVEN: A tracker with a 10h cap and 6h soft threshold
	// WHEN: A member has 6 hours committed
	// THEN: Limited, with 4 hours remaining

	tracker := engine.NewTracker(engine.TrackerConfig{
		MaxHoursPerDay: decimal.NewFromInt(10),
		OptimalHours:   decimal.NewFromInt(6),
	})
	load := tracker.DayLoad(1, testDay, []engine.EmployeeAssignment{
		record(1, 6, engine.RecordScheduled),
	})

	if load.Status != engine.LoadLimited {
		t.Errorf("expected limited, got %s", load.Status)
	}
	if !load.HoursRemaining.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected 4 hours remaining, got %s", load.HoursRemaining)
	}
}
