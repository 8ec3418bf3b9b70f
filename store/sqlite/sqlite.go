/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements engine.Source (snapshot reads) and engine.PlanStore
  (idempotent plan persistence) using SQLite, plus the catalog/roster
  reads and writes the HTTP layer needs. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.Source:    Snapshot() - one fetch per plan generation
  engine.PlanStore: SavePlan()/LoadPlan()

KEY TABLES:
  venues, roles, staff:   catalogs and roster (admin-owned, engine reads)
  events:                 planner-owned events
  staffing_rules:         ratio fallback rules
  manning_tables:         bracket-matrix config (JSON column)
  manning_brackets:       legacy per-range rows (JSON counts column)
  employee_assignments:   per-date commitment history
  plans, plan_requirements, plan_assignments: generated output

IDEMPOTENT PLAN WRITES:
  plans carries UNIQUE(event_date, venue_id). SavePlan deletes any prior
  plan for that key and inserts the new one inside a single database
  transaction: regeneration replaces, never duplicates.

JSON COLUMNS:
  Manning table configs and event special requirements are stored as the
  JSON the admin UI produced; they are parsed defensively on read via the
  factory package, and parse failures degrade (table skipped with a log,
  requirements emptied) instead of failing the snapshot.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  and crash recovery improves.

USAGE:
  store, err := sqlite.New("./data/staffing.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  planner := &engine.Planner{Source: store, Allocator: engine.NewAllocator(nil)}

SEE ALSO:
  - engine/source.go: interface definitions
  - engine/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/staffing-engine/engine"
	"github.com/warp/staffing-engine/factory"
)

const dateLayout = "2006-01-02"

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Venue catalog (admin-owned, engine reads only)
	CREATE TABLE IF NOT EXISTS venues (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'other',
		service_style TEXT NOT NULL DEFAULT ''
	);

	-- Role catalog
	CREATE TABLE IF NOT EXISTS roles (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	-- Staff roster
	CREATE TABLE IF NOT EXISTS staff (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		primary_role_id INTEGER NOT NULL,
		secondary_roles_json TEXT NOT NULL DEFAULT '[]',
		home_venue_id INTEGER,
		employment TEXT NOT NULL DEFAULT 'internal',
		english TEXT NOT NULL DEFAULT 'basic',
		languages_json TEXT NOT NULL DEFAULT '{}',
		skills_json TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'available'
	);

	CREATE INDEX IF NOT EXISTS idx_staff_status ON staff(status);

	-- Events
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY,
		venue_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		guest_count INTEGER NOT NULL DEFAULT 0,
		priority TEXT NOT NULL DEFAULT 'normal',
		requirements_json TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_events_venue_date ON events(venue_id, date);

	-- Ratio fallback rules
	CREATE TABLE IF NOT EXISTS staffing_rules (
		id INTEGER PRIMARY KEY,
		venue_id INTEGER NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		role_id INTEGER NOT NULL,
		ratio_guests INTEGER NOT NULL,
		ratio_staff INTEGER NOT NULL,
		min_required INTEGER NOT NULL DEFAULT 0,
		threshold_guests INTEGER NOT NULL DEFAULT 0,
		threshold_staff INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_rules_venue ON staffing_rules(venue_id);

	-- Bracket-matrix manning config (preferred source)
	CREATE TABLE IF NOT EXISTS manning_tables (
		id INTEGER PRIMARY KEY,
		venue_id INTEGER NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		config_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tables_venue ON manning_tables(venue_id);

	-- Legacy per-range manning rows
	CREATE TABLE IF NOT EXISTS manning_brackets (
		id INTEGER PRIMARY KEY,
		venue_id INTEGER NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		guest_min INTEGER NOT NULL,
		guest_max INTEGER NOT NULL,
		counts_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_brackets_venue ON manning_brackets(venue_id);

	-- Per-date commitment history (read-only to the engine)
	CREATE TABLE IF NOT EXISTS employee_assignments (
		id INTEGER PRIMARY KEY,
		staff_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		hours TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		event_id INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_staff_date
		ON employee_assignments(staff_id, date);
	CREATE INDEX IF NOT EXISTS idx_assignments_date
		ON employee_assignments(date);

	-- Generated plans. One plan per (event_date, venue_id); regeneration
	-- replaces the prior plan inside one transaction.
	CREATE TABLE IF NOT EXISTS plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL,
		event_date TEXT NOT NULL,
		venue_id INTEGER NOT NULL,
		venue_name TEXT NOT NULL,
		guest_count INTEGER NOT NULL,
		total_staff INTEGER NOT NULL,
		internal_assigned INTEGER NOT NULL,
		total_freelancers INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft',
		log_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		UNIQUE(event_date, venue_id)
	);

	CREATE INDEX IF NOT EXISTS idx_plans_event ON plans(event_id);

	CREATE TABLE IF NOT EXISTS plan_requirements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id INTEGER NOT NULL,
		role_id INTEGER NOT NULL,
		role_name TEXT NOT NULL,
		required INTEGER NOT NULL,
		filled INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plan_requirements_plan ON plan_requirements(plan_id);

	CREATE TABLE IF NOT EXISTS plan_assignments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id INTEGER NOT NULL,
		role_id INTEGER NOT NULL,
		role_name TEXT NOT NULL,
		staff_id INTEGER NOT NULL,
		staff_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		is_freelance BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_plan_assignments_plan ON plan_assignments(plan_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Scenario loading only; never call in production.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"plan_assignments", "plan_requirements", "plans",
		"employee_assignments", "events", "manning_brackets",
		"manning_tables", "staffing_rules", "staff", "roles", "venues",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// CATALOG WRITES - Used by seeding/scenarios and admin endpoints
// =============================================================================

func (s *Store) CreateVenue(ctx context.Context, v engine.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO venues (id, name, category, service_style) VALUES (?, ?, ?, ?)`,
		v.ID, v.Name, v.Category, v.ServiceStyle)
	return err
}

func (s *Store) CreateRole(ctx context.Context, r engine.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO roles (id, name) VALUES (?, ?)`, r.ID, r.Name)
	return err
}

func (s *Store) CreateStaff(ctx context.Context, m engine.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	secondary, _ := json.Marshal(m.SecondaryRoles)
	languages, _ := json.Marshal(m.OtherLanguages)
	skills, _ := json.Marshal(m.SpecialSkills)

	var homeVenue any
	if m.HomeVenueID != nil {
		homeVenue = int64(*m.HomeVenueID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff
		(id, name, primary_role_id, secondary_roles_json, home_venue_id,
		 employment, english, languages_json, skills_json, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.PrimaryRoleID, string(secondary), homeVenue,
		m.Employment, m.English, string(languages), string(skills), m.Status)
	return err
}

func (s *Store) CreateEvent(ctx context.Context, e engine.Event, requirementsJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, venue_id, date, start_time, end_time, guest_count, priority, requirements_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.VenueID, e.Date.UTC().Format(dateLayout),
		e.StartTime, e.EndTime, e.GuestCount, e.Priority, requirementsJSON)
	return err
}

func (s *Store) CreateRule(ctx context.Context, r engine.StaffingRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staffing_rules
		(id, venue_id, department, role_id, ratio_guests, ratio_staff,
		 min_required, threshold_guests, threshold_staff)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.VenueID, r.Department, r.RoleID, r.RatioGuests, r.RatioStaff,
		r.MinRequired, r.ThresholdGuests, r.ThresholdStaff)
	return err
}

func (s *Store) CreateTable(ctx context.Context, t engine.ManningTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := factory.EncodeTableConfig(t.Config)
	if err != nil {
		return fmt.Errorf("encode manning table config: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO manning_tables (id, venue_id, department, config_json)
		VALUES (?, ?, ?, ?)`,
		t.ID, t.VenueID, t.Department, raw)
	return err
}

func (s *Store) CreateBracket(ctx context.Context, b engine.ManningBracket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, _ := json.Marshal(b.Counts)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO manning_brackets (id, venue_id, department, guest_min, guest_max, counts_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.VenueID, b.Department, b.GuestMin, b.GuestMax, string(counts))
	return err
}

func (s *Store) CreateAssignmentRecord(ctx context.Context, a engine.EmployeeAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var eventID any
	if a.EventID != nil {
		eventID = int64(*a.EventID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employee_assignments (id, staff_id, date, hours, status, event_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.StaffID, a.Date.UTC().Format(dateLayout), a.Hours.String(), a.Status, eventID)
	return err
}

// =============================================================================
// CATALOG READS
// =============================================================================

func (s *Store) GetVenue(ctx context.Context, id engine.VenueID) (engine.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v engine.Venue
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, service_style FROM venues WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Category, &v.ServiceStyle)
	if err == sql.ErrNoRows {
		return engine.Venue{}, engine.ErrVenueNotFound
	}
	return v, err
}

func (s *Store) ListVenues(ctx context.Context) ([]engine.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, service_style FROM venues ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []engine.Venue
	for rows.Next() {
		var v engine.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Category, &v.ServiceStyle); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

func (s *Store) ListRoles(ctx context.Context) ([]engine.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRoles(ctx)
}

func (s *Store) listRoles(ctx context.Context) ([]engine.Role, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []engine.Role
	for rows.Next() {
		var r engine.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *Store) ListStaff(ctx context.Context) ([]engine.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listStaff(ctx)
}

func (s *Store) listStaff(ctx context.Context) ([]engine.StaffMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, primary_role_id, secondary_roles_json, home_venue_id,
		       employment, english, languages_json, skills_json, status
		FROM staff ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []engine.StaffMember
	for rows.Next() {
		var m engine.StaffMember
		var secondaryJSON, languagesJSON, skillsJSON string
		var homeVenue sql.NullInt64

		if err := rows.Scan(&m.ID, &m.Name, &m.PrimaryRoleID, &secondaryJSON, &homeVenue,
			&m.Employment, &m.English, &languagesJSON, &skillsJSON, &m.Status); err != nil {
			return nil, err
		}
		if homeVenue.Valid {
			id := engine.VenueID(homeVenue.Int64)
			m.HomeVenueID = &id
		}
		// These columns are written by this store; a decode failure means
		// corruption and degrades to the empty value.
		_ = json.Unmarshal([]byte(secondaryJSON), &m.SecondaryRoles)
		_ = json.Unmarshal([]byte(languagesJSON), &m.OtherLanguages)
		_ = json.Unmarshal([]byte(skillsJSON), &m.SpecialSkills)

		roster = append(roster, m)
	}
	return roster, rows.Err()
}

func (s *Store) GetEvent(ctx context.Context, id engine.EventID) (engine.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getEvent(ctx, id)
}

func (s *Store) getEvent(ctx context.Context, id engine.EventID) (engine.Event, error) {
	var e engine.Event
	var date, requirementsJSON string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, venue_id, date, start_time, end_time, guest_count, priority, requirements_json
		FROM events WHERE id = ?`, id).
		Scan(&e.ID, &e.VenueID, &date, &e.StartTime, &e.EndTime, &e.GuestCount, &e.Priority, &requirementsJSON)
	if err == sql.ErrNoRows {
		return engine.Event{}, engine.ErrEventNotFound
	}
	if err != nil {
		return engine.Event{}, err
	}

	e.Date, err = time.Parse(dateLayout, date)
	if err != nil {
		return engine.Event{}, fmt.Errorf("event %d: bad date %q: %w", id, date, err)
	}
	e.Requirements = factory.ParseSpecialRequirements(requirementsJSON)
	return e, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]engine.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM events ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []engine.EventID
	for rows.Next() {
		var id engine.EventID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	events := make([]engine.Event, 0, len(ids))
	for _, id := range ids {
		e, err := s.getEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// =============================================================================
// SOURCE (engine.Source interface)
// =============================================================================

// Snapshot gathers the immutable input bundle for one event in one fetch.
// Manning tables with unparseable config are skipped with a log; they show
// up to the engine as absent configuration.
func (s *Store) Snapshot(ctx context.Context, eventID engine.EventID) (engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return engine.Snapshot{}, err
	}

	var venue engine.Venue
	err = s.db.QueryRowContext(ctx,
		`SELECT id, name, category, service_style FROM venues WHERE id = ?`, event.VenueID).
		Scan(&venue.ID, &venue.Name, &venue.Category, &venue.ServiceStyle)
	if err == sql.ErrNoRows {
		return engine.Snapshot{}, &engine.VenueNotFoundError{VenueID: event.VenueID, EventID: eventID}
	}
	if err != nil {
		return engine.Snapshot{}, err
	}

	roles, err := s.listRoles(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	roster, err := s.listStaff(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	tables, err := s.venueTables(ctx, event.VenueID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	brackets, err := s.venueBrackets(ctx, event.VenueID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	rules, err := s.venueRules(ctx, event.VenueID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	dayAssignments, err := s.dayAssignments(ctx, event.Date)
	if err != nil {
		return engine.Snapshot{}, err
	}

	return engine.Snapshot{
		Event:          event,
		Venue:          venue,
		Roles:          roles,
		Tables:         tables,
		Brackets:       brackets,
		Rules:          rules,
		Roster:         roster,
		DayAssignments: dayAssignments,
	}, nil
}

func (s *Store) venueTables(ctx context.Context, venueID engine.VenueID) ([]engine.ManningTable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, venue_id, department, config_json FROM manning_tables WHERE venue_id = ? ORDER BY id`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []engine.ManningTable
	for rows.Next() {
		var t engine.ManningTable
		var configJSON string
		if err := rows.Scan(&t.ID, &t.VenueID, &t.Department, &configJSON); err != nil {
			return nil, err
		}
		cfg, err := factory.ParseTableConfig(configJSON)
		if err != nil {
			log.Printf("manning table %d: %v (table skipped)", t.ID, err)
			continue
		}
		t.Config = cfg
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *Store) venueBrackets(ctx context.Context, venueID engine.VenueID) ([]engine.ManningBracket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, venue_id, department, guest_min, guest_max, counts_json
		FROM manning_brackets WHERE venue_id = ? ORDER BY guest_min, id`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brackets []engine.ManningBracket
	for rows.Next() {
		var b engine.ManningBracket
		var countsJSON string
		if err := rows.Scan(&b.ID, &b.VenueID, &b.Department, &b.GuestMin, &b.GuestMax, &countsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(countsJSON), &b.Counts); err != nil {
			log.Printf("manning bracket %d: bad counts json: %v (row skipped)", b.ID, err)
			continue
		}
		brackets = append(brackets, b)
	}
	return brackets, rows.Err()
}

func (s *Store) venueRules(ctx context.Context, venueID engine.VenueID) ([]engine.StaffingRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, venue_id, department, role_id, ratio_guests, ratio_staff,
		       min_required, threshold_guests, threshold_staff
		FROM staffing_rules WHERE venue_id = ? ORDER BY id`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []engine.StaffingRule
	for rows.Next() {
		var r engine.StaffingRule
		if err := rows.Scan(&r.ID, &r.VenueID, &r.Department, &r.RoleID, &r.RatioGuests,
			&r.RatioStaff, &r.MinRequired, &r.ThresholdGuests, &r.ThresholdStaff); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Store) dayAssignments(ctx context.Context, date time.Time) ([]engine.EmployeeAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, staff_id, date, hours, status, event_id
		FROM employee_assignments WHERE date = ? ORDER BY id`,
		date.UTC().Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []engine.EmployeeAssignment
	for rows.Next() {
		var a engine.EmployeeAssignment
		var dateStr, hoursStr string
		var eventID sql.NullInt64

		if err := rows.Scan(&a.ID, &a.StaffID, &dateStr, &hoursStr, &a.Status, &eventID); err != nil {
			return nil, err
		}
		parsedDate, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			log.Printf("assignment %d: bad date %q (row skipped)", a.ID, dateStr)
			continue
		}
		a.Date = parsedDate
		a.Hours, err = decimal.NewFromString(hoursStr)
		if err != nil {
			log.Printf("assignment %d: bad hours %q (row skipped)", a.ID, hoursStr)
			continue
		}
		if eventID.Valid {
			id := engine.EventID(eventID.Int64)
			a.EventID = &id
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// =============================================================================
// PLAN STORE (engine.PlanStore interface)
// =============================================================================

// SavePlan persists a generated plan, replacing any prior plan for the same
// (event_date, venue_id) inside a single database transaction.
func (s *Store) SavePlan(ctx context.Context, plan *engine.Plan, eventDate time.Time, venueID engine.VenueID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dateStr := eventDate.UTC().Format(dateLayout)

	// Replace, not duplicate: clear any prior plan for this key first.
	var oldPlanID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM plans WHERE event_date = ? AND venue_id = ?`, dateStr, venueID).
		Scan(&oldPlanID)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM plan_assignments WHERE plan_id = ?`, oldPlanID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM plan_requirements WHERE plan_id = ?`, oldPlanID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, oldPlanID); err != nil {
			return err
		}
	case err != sql.ErrNoRows:
		return err
	}

	logJSON, _ := json.Marshal(plan.Log)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO plans
		(event_id, event_date, venue_id, venue_name, guest_count,
		 total_staff, internal_assigned, total_freelancers, status, log_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.EventID, dateStr, venueID, plan.VenueName, plan.GuestCount,
		plan.TotalStaff, plan.InternalAssigned, plan.TotalFreelancers,
		plan.Status, string(logJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	planID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, req := range plan.Requirements {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO plan_requirements (plan_id, role_id, role_name, required, filled)
			VALUES (?, ?, ?, ?, ?)`,
			planID, req.RoleID, req.RoleName, req.Count, req.Filled); err != nil {
			return err
		}
		for _, a := range req.Assignments {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO plan_assignments
				(plan_id, role_id, role_name, staff_id, staff_name, status, is_freelance)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				planID, a.RoleID, a.RoleName, a.StaffID, a.StaffName, a.Status, a.IsFreelance); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadPlan returns the stored plan for an event, or engine.ErrPlanNotFound.
func (s *Store) LoadPlan(ctx context.Context, eventID engine.EventID) (*engine.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan := &engine.Plan{}
	var planID int64
	var logJSON string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, venue_name, guest_count,
		       total_staff, internal_assigned, total_freelancers, status, log_json
		FROM plans WHERE event_id = ?`, eventID).
		Scan(&planID, &plan.EventID, &plan.VenueName, &plan.GuestCount,
			&plan.TotalStaff, &plan.InternalAssigned, &plan.TotalFreelancers,
			&plan.Status, &logJSON)
	if err == sql.ErrNoRows {
		return nil, engine.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(logJSON), &plan.Log)

	reqRows, err := s.db.QueryContext(ctx, `
		SELECT role_id, role_name, required, filled
		FROM plan_requirements WHERE plan_id = ? ORDER BY role_id`, planID)
	if err != nil {
		return nil, err
	}
	defer reqRows.Close()

	for reqRows.Next() {
		var req engine.PlanRequirement
		if err := reqRows.Scan(&req.RoleID, &req.RoleName, &req.Count, &req.Filled); err != nil {
			return nil, err
		}
		plan.Requirements = append(plan.Requirements, req)
	}
	if err := reqRows.Err(); err != nil {
		return nil, err
	}

	asgRows, err := s.db.QueryContext(ctx, `
		SELECT role_id, role_name, staff_id, staff_name, status, is_freelance
		FROM plan_assignments WHERE plan_id = ? ORDER BY id`, planID)
	if err != nil {
		return nil, err
	}
	defer asgRows.Close()

	byRole := make(map[engine.RoleID][]engine.PlanAssignment)
	for asgRows.Next() {
		var a engine.PlanAssignment
		if err := asgRows.Scan(&a.RoleID, &a.RoleName, &a.StaffID, &a.StaffName, &a.Status, &a.IsFreelance); err != nil {
			return nil, err
		}
		byRole[a.RoleID] = append(byRole[a.RoleID], a)
	}
	if err := asgRows.Err(); err != nil {
		return nil, err
	}

	for i := range plan.Requirements {
		req := &plan.Requirements[i]
		req.Assignments = byRole[req.RoleID]
		if missing := req.Count - req.Filled; missing > 0 {
			plan.Shortages = append(plan.Shortages, engine.Shortage{
				RoleID:   req.RoleID,
				RoleName: req.RoleName,
				Missing:  missing,
			})
		}
	}

	return plan, nil
}

// =============================================================================
// ASSIGNMENT STATUS MUTATION - UI toggles, never flows through the engine
// =============================================================================

// StoredAssignment pairs a plan assignment with its database row id so the
// UI can address it for status mutation.
type StoredAssignment struct {
	ID int64
	engine.PlanAssignment
}

// ListPlanAssignments returns an event's stored assignments with row ids.
func (s *Store) ListPlanAssignments(ctx context.Context, eventID engine.EventID) ([]StoredAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT pa.id, pa.role_id, pa.role_name, pa.staff_id, pa.staff_name, pa.status, pa.is_freelance
		FROM plan_assignments pa
		JOIN plans p ON p.id = pa.plan_id
		WHERE p.event_id = ? ORDER BY pa.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredAssignment
	for rows.Next() {
		var a StoredAssignment
		if err := rows.Scan(&a.ID, &a.RoleID, &a.RoleName, &a.StaffID, &a.StaffName, &a.Status, &a.IsFreelance); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAssignmentStatus sets one stored assignment's status.
func (s *Store) UpdateAssignmentStatus(ctx context.Context, assignmentID int64, status engine.PlanAssignmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE plan_assignments SET status = ? WHERE id = ?`, status, assignmentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrPlanNotFound
	}
	return nil
}
