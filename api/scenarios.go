/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates venues, roles,
	manning configuration, a roster, and events that demonstrate specific
	engine behaviors.

AVAILABLE SCENARIOS:

	beach-club:      Manning table venue with skill/language requirements
	ratio-fallback:  Venue configured only with ratio rules, plus staff
	                 already loaded with same-day commitments

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create venues and the role catalog
 3. Create manning configuration (tables or rules)
 4. Create the roster and any same-day commitments
 5. Create events ready for plan generation

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "beach-club"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - store/sqlite/sqlite.go: the seeded store
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "beach-club",
		Name:        "Beach Club Gala",
		Description: "Manning table venue, vvip event with skill and language requirements",
	},
	{
		ID:          "ratio-fallback",
		Name:        "Ratio Fallback",
		Description: "Venue with only ratio rules; part of the roster is already committed",
	},
}

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads the requested scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "beach-club":
		err = loadBeachClubScenario(ctx, h)
	case "ratio-fallback":
		err = loadRatioFallbackScenario(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadBeachClubScenario(ctx context.Context, h *Handler) error {
	if err := h.Store.CreateVenue(ctx, engine.Venue{
		ID: 1, Name: "Laguna Beach Club", Category: engine.VenuePrivate, ServiceStyle: "plated",
	}); err != nil {
		return err
	}

	roles := []engine.Role{
		{ID: 1, Name: "Waiter"},
		{ID: 2, Name: "Bartender"},
		{ID: 3, Name: "Chef"},
		{ID: 4, Name: "Host"},
	}
	for _, role := range roles {
		if err := h.Store.CreateRole(ctx, role); err != nil {
			return err
		}
	}

	if err := h.Store.CreateTable(ctx, engine.ManningTable{
		ID: 1, VenueID: 1, Department: "service",
		Config: engine.TableConfig{
			Brackets: []string{"0-50", "51-120", "121-250"},
			Rows: []engine.TableRow{
				{RoleName: "Waiter", Counts: []int{4, 8, 14}},
				{RoleName: "Bartender", Counts: []int{1, 2, 4}},
				{RoleName: "Chef", Counts: []int{2, 3, 5}},
				{RoleName: "Host", Counts: []int{1, 1, 2}},
			},
		},
	}); err != nil {
		return err
	}

	home := engine.VenueID(1)
	roster := []engine.StaffMember{
		{ID: 1, Name: "Amira Hassan", PrimaryRoleID: 1, HomeVenueID: &home,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyFluent,
			OtherLanguages: map[string]engine.Proficiency{"french": engine.ProficiencyNative},
			SpecialSkills:  []string{"sommelier"}, Status: engine.RosterAvailable},
		{ID: 2, Name: "Jonas Weber", PrimaryRoleID: 1, HomeVenueID: &home,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyGood,
			OtherLanguages: map[string]engine.Proficiency{"german": engine.ProficiencyNative},
			Status:         engine.RosterAvailable},
		{ID: 3, Name: "Priya Nair", PrimaryRoleID: 1, SecondaryRoles: []engine.RoleID{4},
			Employment: engine.EmploymentInternal, English: engine.ProficiencyMedium,
			Status: engine.RosterAvailable},
		{ID: 4, Name: "Marco Rossi", PrimaryRoleID: 2, HomeVenueID: &home,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyGood,
			SpecialSkills: []string{"mixology", "barista"}, Status: engine.RosterAvailable},
		{ID: 5, Name: "Elif Demir", PrimaryRoleID: 3,
			Employment: engine.EmploymentExternal, English: engine.ProficiencyBasic,
			Status: engine.RosterAvailable},
		{ID: 6, Name: "Tom Becker", PrimaryRoleID: 3, HomeVenueID: &home,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyGood,
			Status: engine.RosterAvailable},
		{ID: 7, Name: "Lena Fischer", PrimaryRoleID: 4,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyFluent,
			OtherLanguages: map[string]engine.Proficiency{"french": engine.ProficiencyConversational},
			Status:         engine.RosterAvailable},
		{ID: 8, Name: "Omar Said", PrimaryRoleID: 1,
			Employment: engine.EmploymentFreelancer, English: engine.ProficiencyMedium,
			Status: engine.RosterOff},
	}
	for _, m := range roster {
		if err := h.Store.CreateStaff(ctx, m); err != nil {
			return err
		}
	}

	gala := engine.Event{
		ID: 1, VenueID: 1,
		Date:       time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC),
		StartTime:  "18:00", EndTime: "01:00",
		GuestCount: 90, Priority: engine.PriorityVVIP,
	}
	return h.Store.CreateEvent(ctx, gala,
		`{"skills": ["sommelier"], "languages": {"french": "conversational"}}`)
}

func loadRatioFallbackScenario(ctx context.Context, h *Handler) error {
	if err := h.Store.CreateVenue(ctx, engine.Venue{
		ID: 2, Name: "Dune Camp", Category: engine.VenueCamp, ServiceStyle: "buffet",
	}); err != nil {
		return err
	}

	roles := []engine.Role{
		{ID: 1, Name: "Waiter"},
		{ID: 2, Name: "Bartender"},
	}
	for _, role := range roles {
		if err := h.Store.CreateRole(ctx, role); err != nil {
			return err
		}
	}

	rules := []engine.StaffingRule{
		{ID: 1, VenueID: 2, Department: "service", RoleID: 1,
			RatioGuests: 10, RatioStaff: 1, MinRequired: 2},
		{ID: 2, VenueID: 2, Department: "bar", RoleID: 2,
			RatioGuests: 40, RatioStaff: 1, ThresholdGuests: 100, ThresholdStaff: 1},
	}
	for _, rule := range rules {
		if err := h.Store.CreateRule(ctx, rule); err != nil {
			return err
		}
	}

	roster := []engine.StaffMember{
		{ID: 11, Name: "Sara Lind", PrimaryRoleID: 1,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyGood,
			Status: engine.RosterAvailable},
		{ID: 12, Name: "Pavel Novak", PrimaryRoleID: 1,
			Employment: engine.EmploymentInternal, English: engine.ProficiencyMedium,
			Status: engine.RosterAvailable},
		{ID: 13, Name: "Mia Chen", PrimaryRoleID: 2, SecondaryRoles: []engine.RoleID{1},
			Employment: engine.EmploymentInternal, English: engine.ProficiencyGood,
			Status: engine.RosterAvailable},
	}
	for _, m := range roster {
		if err := h.Store.CreateStaff(ctx, m); err != nil {
			return err
		}
	}

	eventDate := time.Date(2026, time.October, 3, 0, 0, 0, 0, time.UTC)

	// Pavel is already committed for most of the day elsewhere.
	if err := h.Store.CreateAssignmentRecord(ctx, engine.EmployeeAssignment{
		ID: 1, StaffID: 12, Date: eventDate,
		Hours: decimal.NewFromInt(9), Status: engine.RecordConfirmed,
	}); err != nil {
		return err
	}

	dinner := engine.Event{
		ID: 2, VenueID: 2,
		Date:       eventDate,
		StartTime:  "17:00", EndTime: "23:00",
		GuestCount: 120, Priority: engine.PriorityNormal,
	}
	return h.Store.CreateEvent(ctx, dinner, "")
}
