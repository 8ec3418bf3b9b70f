package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// FIXTURES
// =============================================================================

var fixtureDay = time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// seedBeachClub loads a small but complete fixture: one venue with a
// manning table, two roles, three staff members, one event.
func seedBeachClub(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	home := engine.VenueID(1)

	require.NoError(t, store.CreateVenue(ctx, engine.Venue{
		ID: 1, Name: "Laguna Beach Club", Category: engine.VenueCamp, ServiceStyle: "table",
	}))
	require.NoError(t, store.CreateRole(ctx, engine.Role{ID: 1, Name: "Waiter"}))
	require.NoError(t, store.CreateRole(ctx, engine.Role{ID: 2, Name: "Bartender"}))

	require.NoError(t, store.CreateTable(ctx, engine.ManningTable{
		ID: 1, VenueID: 1, Department: "service",
		Config: engine.TableConfig{
			Brackets: []string{"0-50", "51-120"},
			Rows: []engine.TableRow{
				{RoleName: "Waiter", Counts: []int{2, 3}},
				{RoleName: "Bartender", Counts: []int{1, 1}},
			},
		},
	}))

	staff := []engine.StaffMember{
		{ID: 11, Name: "Aiyana", PrimaryRoleID: 1, HomeVenueID: &home,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyGood,
			OtherLanguages: map[string]engine.Proficiency{"french": engine.ProficiencyFluent},
			SpecialSkills:  []string{"sommelier"},
			Status:         engine.RosterAvailable},
		{ID: 12, Name: "Bruno", PrimaryRoleID: 1,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyMedium,
			Status: engine.RosterAvailable},
		{ID: 13, Name: "Carla", PrimaryRoleID: 2, SecondaryRoles: []engine.RoleID{1},
			Employment: engine.EmploymentExternal, English: engine.ProficiencyFluent,
			Status: engine.RosterAvailable},
	}
	for _, m := range staff {
		require.NoError(t, store.CreateStaff(ctx, m))
	}

	require.NoError(t, store.CreateEvent(ctx, engine.Event{
		ID: 1, VenueID: 1, Date: fixtureDay,
		StartTime: "18:00", EndTime: "23:00",
		GuestCount: 90, Priority: engine.PriorityVIP,
	}, `{"skills": ["sommelier"], "languages": {"french": "conversational"}}`))
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestSnapshot_GathersEverything(t *testing.T) {
	store := newTestStore(t)
	seedBeachClub(t, store)

	snap, err := store.Snapshot(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, engine.EventID(1), snap.Event.ID)
	assert.Equal(t, "Laguna Beach Club", snap.Venue.Name)
	assert.Len(t, snap.Roles, 2)
	assert.Len(t, snap.Roster, 3)
	require.Len(t, snap.Tables, 1)
	assert.Equal(t, []string{"0-50", "51-120"}, snap.Tables[0].Config.Brackets)

	// Requirements JSON is parsed at the boundary.
	assert.Equal(t, []string{"sommelier"}, snap.Event.Requirements.Skills)
	assert.Equal(t, engine.ProficiencyConversational, snap.Event.Requirements.Languages["french"])

	// Staff JSON columns round-trip.
	aiyana := snap.Roster[0]
	require.NotNil(t, aiyana.HomeVenueID)
	assert.Equal(t, engine.VenueID(1), *aiyana.HomeVenueID)
	assert.Equal(t, engine.ProficiencyFluent, aiyana.OtherLanguages["french"])
	assert.Equal(t, []string{"sommelier"}, aiyana.SpecialSkills)
}

func TestSnapshot_UnknownEvent(t *testing.T) {
	store := newTestStore(t)
	seedBeachClub(t, store)

	_, err := store.Snapshot(context.Background(), 999)
	assert.ErrorIs(t, err, engine.ErrEventNotFound)
}

func TestSnapshot_MissingVenueIsNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreateEvent(ctx, engine.Event{
		ID: 5, VenueID: 42, Date: fixtureDay, GuestCount: 10, Priority: engine.PriorityNormal,
	}, ""))

	_, err := store.Snapshot(ctx, 5)
	require.Error(t, err)
	assert.True(t, engine.IsNotFound(err))
	assert.ErrorIs(t, err, engine.ErrVenueNotFound)
}

func TestSnapshot_CorruptTableConfigSkipped(t *testing.T) {
	store := newTestStore(t)
	seedBeachClub(t, store)

	// Corrupt the config behind the factory's back.
	_, err := store.db.Exec(`UPDATE manning_tables SET config_json = 'not json' WHERE id = 1`)
	require.NoError(t, err)

	snap, err := store.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, snap.Tables, "an unparseable table must look like absent configuration")
}

func TestSnapshot_DayAssignmentsScopedToDate(t *testing.T) {
	store := newTestStore(t)
	seedBeachClub(t, store)
	ctx := context.Background()

	eventRef := engine.EventID(1)
	require.NoError(t, store.CreateAssignmentRecord(ctx, engine.EmployeeAssignment{
		ID: 1, StaffID: 12, Date: fixtureDay,
		Hours: decimal.NewFromInt(9), Status: engine.RecordConfirmed, EventID: &eventRef,
	}))
	require.NoError(t, store.CreateAssignmentRecord(ctx, engine.EmployeeAssignment{
		ID: 2, StaffID: 12, Date: fixtureDay.AddDate(0, 0, 1),
		Hours: decimal.NewFromInt(8), Status: engine.RecordConfirmed,
	}))

	snap, err := store.Snapshot(ctx, 1)
	require.NoError(t, err)
	require.Len(t, snap.DayAssignments, 1)
	assert.True(t, snap.DayAssignments[0].Hours.Equal(decimal.NewFromInt(9)))
}

// =============================================================================
// PLAN PERSISTENCE TESTS
// =============================================================================

func generatePlan(t *testing.T, store *Store) *engine.Plan {
	t.Helper()
	planner := &engine.Planner{Source: store, Allocator: engine.NewAllocator(nil)}
	plan, err := planner.Generate(context.Background(), 1)
	require.NoError(t, err)
	return plan
}

func TestSavePlan_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	seedBeachClub(t, store)
	ctx := context.Background()

	plan := generatePlan(t, store)
	require.NoError(t, store.SavePlan(ctx, plan, fixtureDay, 1))

	loaded, err := store.LoadPlan(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, plan.EventID, loaded.EventID)
	assert.Equal(t, plan.VenueName, loaded.VenueName)
	assert.Equal(t, plan.TotalStaff, loaded.TotalStaff)
	assert.Equal(t, plan.InternalAssigned, loaded.InternalAssigned)
	assert.Equal(t, plan.TotalFreelancers, loaded.TotalFreelancers)
	assert.Equal(t, plan.Log, loaded.Log)
	require.Len(t, loaded.Requirements, len(plan.Requirements))
	for i, req := range plan.Requirements {
		assert.Equal(t, req.Count, loaded.Requirements[i].Count)
		assert.Equal(t, req.Filled, loaded.Requirements[i].Filled)
		assert.Len(t, loaded.Requirements[i].Assignments, len(req.Assignments))
	}
	assert.Equal(t, plan.Shortages, loaded.Shortages)
}

func TestSavePlan_RegenerationReplaces(t *testing.T) {
	store := newTestStore(t)
	seedBeachClub(t, store)
	ctx := context.Background()

	plan := generatePlan(t, store)
	require.NoError(t, store.SavePlan(ctx, plan, fixtureDay, 1))
	require.NoError(t, store.SavePlan(ctx, plan, fixtureDay, 1))

	var plans, assignments int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&plans))
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM plan_assignments`).Scan(&assignments))

	assert.Equal(t, 1, plans, "regeneration must replace, not duplicate")
	totalAssignments := 0
	for _, req := range plan.Requirements {
		totalAssignments += len(req.Assignments)
	}
	assert.Equal(t, totalAssignments, assignments)
}

func TestLoadPlan_Unknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadPlan(context.Background(), 1)
	assert.ErrorIs(t, err, engine.ErrPlanNotFound)
}

// =============================================================================
// ASSIGNMENT STATUS TESTS
// =============================================================================

func TestUpdateAssignmentStatus(t *testing.T) {
	store := newTestStore(t)
	seedBeachClub(t, store)
	ctx := context.Background()

	plan := generatePlan(t, store)
	require.NoError(t, store.SavePlan(ctx, plan, fixtureDay, 1))

	stored, err := store.ListPlanAssignments(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, stored)
	assert.Equal(t, engine.AssignPending, stored[0].Status)

	require.NoError(t, store.UpdateAssignmentStatus(ctx, stored[0].ID, engine.AssignConfirmed))

	stored, err = store.ListPlanAssignments(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, engine.AssignConfirmed, stored[0].Status)
}

func TestUpdateAssignmentStatus_UnknownRow(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateAssignmentStatus(context.Background(), 999, engine.AssignConfirmed)
	assert.ErrorIs(t, err, engine.ErrPlanNotFound)
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func TestGetVenue_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetVenue(context.Background(), 42)
	assert.ErrorIs(t, err, engine.ErrVenueNotFound)
}

func TestReset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	seedBeachClub(t, store)
	ctx := context.Background()

	require.NoError(t, store.Reset(ctx))

	venues, err := store.ListVenues(ctx)
	require.NoError(t, err)
	assert.Empty(t, venues)
	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}
