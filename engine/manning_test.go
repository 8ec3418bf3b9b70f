package engine_test

import (
	"testing"

	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func catalog() []engine.Role {
	return []engine.Role{
		{ID: 1, Name: "Waiter"},
		{ID: 2, Name: "Bartender"},
		{ID: 3, Name: "Chef"},
	}
}

func resolve(t *testing.T, roles []engine.Role, tables []engine.ManningTable, brackets []engine.ManningBracket, rules []engine.StaffingRule, guests int) (engine.RequirementSet, *engine.DecisionLog) {
	t.Helper()
	log := &engine.DecisionLog{}
	r := engine.NewManningResolver(roles, tables, brackets, rules, log)
	return r.Resolve(guests), log
}

func requireCount(t *testing.T, set engine.RequirementSet, roleID engine.RoleID, want int) {
	t.Helper()
	req, ok := set[roleID]
	if !ok {
		t.Fatalf("expected requirement for role %d, got none (set: %v)", roleID, set)
	}
	if req.Count != want {
		t.Errorf("role %d: expected count %d, got %d", roleID, want, req.Count)
	}
}

// =============================================================================
// RATIO RULE TESTS
// =============================================================================

func TestRatioRule_CeilingDivision(t *testing.T) {
	// GIVEN: A rule of 1 waiter per 10 guests
	// WHEN: Resolving for 95 guests
	// THEN: ceil(95/10) * 1 = 10 waiters

	rules := []engine.StaffingRule{
		{ID: 1, VenueID: 7, RoleID: 1, RatioGuests: 10, RatioStaff: 1},
	}
	set, _ := resolve(t, catalog(), nil, nil, rules, 95)
	requireCount(t, set, 1, 10)
}

func TestRatioRule_ThresholdAndMinimum(t *testing.T) {
	// GIVEN: 1 bartender per 40 guests, +1 above 100 guests, minimum 2
	// WHEN: Resolving for 120 guests
	// THEN: ceil(120/40)*1 + 1 = 4 (threshold crossed, already above minimum)

	rules := []engine.StaffingRule{
		{ID: 1, VenueID: 7, RoleID: 2, RatioGuests: 40, RatioStaff: 1,
			MinRequired: 2, ThresholdGuests: 100, ThresholdStaff: 1},
	}
	set, _ := resolve(t, catalog(), nil, nil, rules, 120)
	requireCount(t, set, 2, 4)
}

func TestRatioRule_MinimumRaisesSmallCounts(t *testing.T) {
	// GIVEN: 1 bartender per 40 guests, minimum 2
	// WHEN: Resolving for 20 guests (ratio alone gives 1)
	// THEN: Raised to the minimum of 2

	rules := []engine.StaffingRule{
		{ID: 1, VenueID: 7, RoleID: 2, RatioGuests: 40, RatioStaff: 1, MinRequired: 2},
	}
	set, _ := resolve(t, catalog(), nil, nil, rules, 20)
	requireCount(t, set, 2, 2)
}

func TestRatioRule_MultipleRulesForSameRoleAccumulate(t *testing.T) {
	// GIVEN: Two independent waiter rules for the same venue
	// WHEN: Resolving for 100 guests
	// THEN: Counts add (10 + 5), they do not replace each other

	rules := []engine.StaffingRule{
		{ID: 1, VenueID: 7, RoleID: 1, RatioGuests: 10, RatioStaff: 1},
		{ID: 2, VenueID: 7, RoleID: 1, RatioGuests: 20, RatioStaff: 1},
	}
	set, _ := resolve(t, catalog(), nil, nil, rules, 100)
	requireCount(t, set, 1, 15)
}

func TestRatioRule_InvalidDenominatorSkipped(t *testing.T) {
	// GIVEN: A rule with ratio_guests = 0
	// WHEN: Resolving
	// THEN: The rule is skipped; no requirement, no panic

	rules := []engine.StaffingRule{
		{ID: 1, VenueID: 7, RoleID: 1, RatioGuests: 0, RatioStaff: 1},
	}
	set, _ := resolve(t, catalog(), nil, nil, rules, 50)
	if len(set) != 0 {
		t.Errorf("expected empty set, got %v", set)
	}
}

// =============================================================================
// MANNING TABLE TESTS
// =============================================================================

func waiterTable() engine.ManningTable {
	return engine.ManningTable{
		ID: 1, VenueID: 7,
		Config: engine.TableConfig{
			Brackets: []string{"0-50", "50-100"},
			Rows: []engine.TableRow{
				{RoleName: "Waiter", Counts: []int{5, 9}},
			},
		},
	}
}

func TestManningTable_BracketLookup(t *testing.T) {
	// GIVEN: Brackets ["0-50","50-100"], Waiter row [5, 9]
	// WHEN: Resolving for 40 guests
	// THEN: First bracket is active, 5 waiters

	set, _ := resolve(t, catalog(), []engine.ManningTable{waiterTable()}, nil, nil, 40)
	requireCount(t, set, 1, 5)
}

func TestManningTable_LastBracketOpenEnded(t *testing.T) {
	// GIVEN: Brackets ["0-50","50-100"], Waiter row [5, 9]
	// WHEN: Resolving for 100 and then for 120 guests
	// THEN: Both land in the last bracket (its upper bound is ignored)

	for _, guests := range []int{100, 120} {
		set, _ := resolve(t, catalog(), []engine.ManningTable{waiterTable()}, nil, nil, guests)
		requireCount(t, set, 1, 9)
	}
}

func TestManningTable_UnknownRoleRowSkipped(t *testing.T) {
	// GIVEN: A table with a row naming a role not in the catalog
	// WHEN: Resolving
	// THEN: That row is dropped with a logged warning; other rows survive

	table := engine.ManningTable{
		ID: 1, VenueID: 7,
		Config: engine.TableConfig{
			Brackets: []string{"0-100"},
			Rows: []engine.TableRow{
				{RoleName: "Waiter", Counts: []int{5}},
				{RoleName: "Fire Juggler", Counts: []int{3}},
			},
		},
	}
	set, log := resolve(t, catalog(), []engine.ManningTable{table}, nil, nil, 50)
	requireCount(t, set, 1, 5)
	if len(set) != 1 {
		t.Errorf("expected only the waiter requirement, got %v", set)
	}
	if len(log.Entries()) == 0 {
		t.Error("expected the skipped row to be logged")
	}
}

func TestManningTable_RoleNameMatchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	// GIVEN: A row naming "  wAiTeR  "
	// WHEN: Resolving
	// THEN: It matches the catalog's "Waiter"

	table := engine.ManningTable{
		ID: 1, VenueID: 7,
		Config: engine.TableConfig{
			Brackets: []string{"0-100"},
			Rows:     []engine.TableRow{{RoleName: "  wAiTeR  ", Counts: []int{4}}},
		},
	}
	set, _ := resolve(t, catalog(), []engine.ManningTable{table}, nil, nil, 50)
	requireCount(t, set, 1, 4)
}

func TestManningTable_DuplicateRoleNamesResolveToLowestID(t *testing.T) {
	// GIVEN: Two catalog roles with the same normalized name
	// WHEN: Resolving a row that names it
	// THEN: The lowest id wins, deterministically

	roles := []engine.Role{
		{ID: 9, Name: "Waiter"},
		{ID: 4, Name: "waiter"},
	}
	table := engine.ManningTable{
		ID: 1, VenueID: 7,
		Config: engine.TableConfig{
			Brackets: []string{"0-100"},
			Rows:     []engine.TableRow{{RoleName: "Waiter", Counts: []int{6}}},
		},
	}
	set, _ := resolve(t, roles, []engine.ManningTable{table}, nil, nil, 50)
	requireCount(t, set, 4, 6)
}

func TestManningTable_NoMatchingBracketContributesNothing(t *testing.T) {
	// GIVEN: A table whose brackets all start above the guest count
	// WHEN: Resolving for 10 guests
	// THEN: The table contributes nothing, and because table rows exist the
	//       resolver does NOT fall through to other sources

	table := engine.ManningTable{
		ID: 1, VenueID: 7,
		Config: engine.TableConfig{
			Brackets: []string{"50-100"},
			Rows:     []engine.TableRow{{RoleName: "Waiter", Counts: []int{9}}},
		},
	}
	rules := []engine.StaffingRule{
		{ID: 1, VenueID: 7, RoleID: 1, RatioGuests: 10, RatioStaff: 1},
	}
	set, _ := resolve(t, catalog(), []engine.ManningTable{table}, nil, rules, 10)
	if len(set) != 0 {
		t.Errorf("expected empty set (no fallback past configured tables), got %v", set)
	}
}

func TestManningTable_MalformedBracketLabelSkipped(t *testing.T) {
	// GIVEN: A malformed bracket label followed by a valid one
	// WHEN: Resolving
	// THEN: The bad label is skipped with a log, the valid one still matches

	table := engine.ManningTable{
		ID: 1, VenueID: 7,
		Config: engine.TableConfig{
			Brackets: []string{"garbage", "0-100"},
			Rows:     []engine.TableRow{{RoleName: "Waiter", Counts: []int{0, 7}}},
		},
	}
	set, log := resolve(t, catalog(), []engine.ManningTable{table}, nil, nil, 50)
	requireCount(t, set, 1, 7)
	if len(log.Entries()) == 0 {
		t.Error("expected the malformed bracket to be logged")
	}
}

// =============================================================================
// LEGACY BRACKET TESTS
// =============================================================================

func TestManningBrackets_UsedWhenNoTables(t *testing.T) {
	// GIVEN: No tables, two legacy bracket rows, one containing the count
	// WHEN: Resolving for 80 guests
	// THEN: Only the containing bracket's counts apply

	brackets := []engine.ManningBracket{
		{ID: 1, VenueID: 7, GuestMin: 0, GuestMax: 50,
			Counts: map[engine.RoleID]int{1: 4}},
		{ID: 2, VenueID: 7, GuestMin: 51, GuestMax: 150,
			Counts: map[engine.RoleID]int{1: 8, 2: 2}},
	}
	set, _ := resolve(t, catalog(), nil, brackets, nil, 80)
	requireCount(t, set, 1, 8)
	requireCount(t, set, 2, 2)
}

// =============================================================================
// PRECEDENCE TESTS
// =============================================================================

func TestPrecedence_TableBeatsBracketsAndRules(t *testing.T) {
	// GIVEN: All three sources configured for the venue
	// WHEN: Resolving
	// THEN: Only the table contributes; sources are never merged

	brackets := []engine.ManningBracket{
		{ID: 1, VenueID: 7, GuestMin: 0, GuestMax: 200,
			Counts: map[engine.RoleID]int{2: 99}},
	}
	rules := []engine.StaffingRule{
		{ID: 1, VenueID: 7, RoleID: 3, RatioGuests: 5, RatioStaff: 1},
	}
	set, _ := resolve(t, catalog(), []engine.ManningTable{waiterTable()}, brackets, rules, 40)
	requireCount(t, set, 1, 5)
	if _, ok := set[2]; ok {
		t.Error("bracket source must not contribute when tables exist")
	}
	if _, ok := set[3]; ok {
		t.Error("rule source must not contribute when tables exist")
	}
}

func TestPrecedence_NoConfigurationYieldsEmptySet(t *testing.T) {
	// GIVEN: A venue with no manning configuration at all
	// WHEN: Resolving
	// THEN: Empty requirement set, logged, not an error

	set, log := resolve(t, catalog(), nil, nil, nil, 100)
	if len(set) != 0 {
		t.Errorf("expected empty set, got %v", set)
	}
	if len(log.Entries()) == 0 {
		t.Error("expected the missing configuration to be logged")
	}
}
