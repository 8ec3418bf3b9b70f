/*
manning.go - Requirement resolution from venue manning configuration

PURPOSE:
  Turns (venue, guest count) into a set of required role counts. A venue
  may carry up to three kinds of manning configuration, consulted in
  strict precedence order, first-configured-source-wins:

    1. ManningTable rows  (bracket matrix, preferred)
    2. ManningBracket rows (legacy per-range rows)
    3. StaffingRule rows   (ratio formula fallback)

  Sources are never merged: the first source with any rows for the venue
  decides the result, even if that result turns out empty (e.g. no
  bracket contains the guest count). A venue with no configuration at
  all simply needs no staff; that is logged, not an error.

BRACKET SEMANTICS:
  Brackets are "min-max" strings ordered ascending and assumed
  non-overlapping. The active bracket is the first one whose [min,max]
  contains the guest count; the LAST bracket is treated as open-ended
  (its upper bound is ignored) as a safety net for counts exceeding all
  defined ranges.

ROLE NAME RESOLUTION:
  Manning table rows name roles by display name. Resolution is exact
  case-insensitive trimmed match against the role catalog; when two
  roles share a normalized name the lowest role id wins, deterministically.
  Rows whose name resolves to nothing are skipped with a logged warning -
  their counts are dropped on purpose, not treated as a failure.

SEE ALSO:
  - types.go: ManningTable/ManningBracket/StaffingRule definitions
  - allocation.go: consumes the resolved RequirementSet
*/
package engine

import (
	"strconv"
	"strings"
)

// =============================================================================
// REQUIREMENT SET
// =============================================================================

// Requirement is one role's resolved headcount.
type Requirement struct {
	RoleID   RoleID
	RoleName string
	Count    int
}

// RequirementSet maps role id to its resolved requirement. Counts from
// multiple rows/rules for the same role accumulate by addition.
type RequirementSet map[RoleID]*Requirement

func (rs RequirementSet) add(id RoleID, name string, count int) {
	if req, ok := rs[id]; ok {
		req.Count += count
		return
	}
	rs[id] = &Requirement{RoleID: id, RoleName: name, Count: count}
}

// Total returns the summed headcount across all roles.
func (rs RequirementSet) Total() int {
	total := 0
	for _, req := range rs {
		total += req.Count
	}
	return total
}

// =============================================================================
// ROLE CATALOG INDEX
// =============================================================================

// roleIndex resolves role names and ids against the catalog.
type roleIndex struct {
	byName map[string]RoleID // normalized name -> lowest matching id
	byID   map[RoleID]string
}

func newRoleIndex(roles []Role) *roleIndex {
	idx := &roleIndex{
		byName: make(map[string]RoleID, len(roles)),
		byID:   make(map[RoleID]string, len(roles)),
	}
	for _, r := range roles {
		idx.byID[r.ID] = r.Name
		key := normalizeRoleName(r.Name)
		if existing, ok := idx.byName[key]; !ok || r.ID < existing {
			idx.byName[key] = r.ID
		}
	}
	return idx
}

func (idx *roleIndex) resolve(name string) (RoleID, bool) {
	id, ok := idx.byName[normalizeRoleName(name)]
	return id, ok
}

func (idx *roleIndex) name(id RoleID) string {
	if n, ok := idx.byID[id]; ok {
		return n
	}
	return "Role #" + strconv.FormatInt(int64(id), 10)
}

func normalizeRoleName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// =============================================================================
// BRACKET PARSING
// =============================================================================

// parseBracketRange parses a "min-max" bracket label.
func parseBracketRange(label string) (min, max int, err error) {
	parts := strings.SplitN(strings.TrimSpace(label), "-", 2)
	if len(parts) != 2 {
		return 0, 0, &BracketParseError{Label: label}
	}
	min, errMin := strconv.Atoi(strings.TrimSpace(parts[0]))
	max, errMax := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errMin != nil || errMax != nil {
		return 0, 0, &BracketParseError{Label: label}
	}
	return min, max, nil
}

// BracketParseError marks a malformed "min-max" bracket label.
type BracketParseError struct {
	Label string
}

func (e *BracketParseError) Error() string {
	return "malformed bracket label: " + strconv.Quote(e.Label)
}

// activeBracketIndex returns the index of the first bracket containing
// guests. The last bracket is open-ended: its upper bound is ignored.
func activeBracketIndex(brackets []string, guests int, log *DecisionLog) (int, bool) {
	for i, label := range brackets {
		min, max, err := parseBracketRange(label)
		if err != nil {
			if log != nil {
				log.Logf("skipping bracket %d: %v", i, err)
			}
			continue
		}
		if guests < min {
			continue
		}
		if guests <= max || i == len(brackets)-1 {
			return i, true
		}
	}
	return 0, false
}

// =============================================================================
// MANNING SOURCES - Ordered resolution strategies
// =============================================================================

// manningSource is one of the three configuration sources. configured
// reports whether the venue carries any rows of this kind: the first
// configured source wins outright, even when it resolves to nothing.
type manningSource interface {
	name() string
	configured() bool
	resolve(guests int, out RequirementSet)
}

// tableSource resolves from ManningTable rows (preferred).
type tableSource struct {
	tables []ManningTable
	roles  *roleIndex
	log    *DecisionLog
}

func (s *tableSource) name() string     { return "manning table" }
func (s *tableSource) configured() bool { return len(s.tables) > 0 }

func (s *tableSource) resolve(guests int, out RequirementSet) {
	for _, table := range s.tables {
		idx, ok := activeBracketIndex(table.Config.Brackets, guests, s.log)
		if !ok {
			s.log.Logf("manning table %d (%s): no bracket contains %d guests, table contributes nothing",
				table.ID, table.Department, guests)
			continue
		}
		s.log.Logf("manning table %d (%s): bracket %q active for %d guests",
			table.ID, table.Department, table.Config.Brackets[idx], guests)
		for _, row := range table.Config.Rows {
			roleID, ok := s.roles.resolve(row.RoleName)
			if !ok {
				s.log.Logf("manning table %d: role %q not in catalog, row skipped", table.ID, row.RoleName)
				continue
			}
			if idx >= len(row.Counts) {
				s.log.Logf("manning table %d: row %q has no count for bracket %d, row skipped",
					table.ID, row.RoleName, idx)
				continue
			}
			if count := row.Counts[idx]; count > 0 {
				out.add(roleID, s.roles.name(roleID), count)
			}
		}
	}
}

// bracketSource resolves from legacy ManningBracket rows.
type bracketSource struct {
	brackets []ManningBracket
	roles    *roleIndex
	log      *DecisionLog
}

func (s *bracketSource) name() string     { return "manning brackets" }
func (s *bracketSource) configured() bool { return len(s.brackets) > 0 }

func (s *bracketSource) resolve(guests int, out RequirementSet) {
	for _, b := range s.brackets {
		if guests < b.GuestMin || guests > b.GuestMax {
			continue
		}
		s.log.Logf("manning bracket %d (%s): range %d-%d matches %d guests",
			b.ID, b.Department, b.GuestMin, b.GuestMax, guests)
		for roleID, count := range b.Counts {
			if count > 0 {
				out.add(roleID, s.roles.name(roleID), count)
			}
		}
	}
}

// ratioSource resolves from StaffingRule ratio formulas.
type ratioSource struct {
	rules []StaffingRule
	roles *roleIndex
	log   *DecisionLog
}

func (s *ratioSource) name() string     { return "staffing rules" }
func (s *ratioSource) configured() bool { return len(s.rules) > 0 }

func (s *ratioSource) resolve(guests int, out RequirementSet) {
	for _, rule := range s.rules {
		if rule.RatioGuests <= 0 {
			s.log.Logf("staffing rule %d: invalid ratio denominator %d, rule skipped", rule.ID, rule.RatioGuests)
			continue
		}
		count := ceilDiv(guests, rule.RatioGuests) * rule.RatioStaff
		if rule.ThresholdGuests > 0 && guests >= rule.ThresholdGuests {
			count += rule.ThresholdStaff
		}
		if count < rule.MinRequired {
			count = rule.MinRequired
		}
		s.log.Logf("staffing rule %d (%s): %d guests at 1/%d ratio -> %d x %s",
			rule.ID, rule.Department, guests, rule.RatioGuests, count, s.roles.name(rule.RoleID))
		if count > 0 {
			out.add(rule.RoleID, s.roles.name(rule.RoleID), count)
		}
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// =============================================================================
// MANNING RESOLVER
// =============================================================================

// ManningResolver turns a venue's manning configuration and a guest count
// into a RequirementSet, consulting sources in fixed precedence order.
type ManningResolver struct {
	sources []manningSource
	log     *DecisionLog
}

// NewManningResolver builds a resolver over one venue's configuration.
// The role catalog is shared; tables/brackets/rules must already be
// scoped to the venue.
func NewManningResolver(roles []Role, tables []ManningTable, brackets []ManningBracket, rules []StaffingRule, log *DecisionLog) *ManningResolver {
	idx := newRoleIndex(roles)
	return &ManningResolver{
		log: log,
		sources: []manningSource{
			&tableSource{tables: tables, roles: idx, log: log},
			&bracketSource{brackets: brackets, roles: idx, log: log},
			&ratioSource{rules: rules, roles: idx, log: log},
		},
	}
}

// Resolve returns the required headcount per role for the given guest
// count. An unconfigured venue yields an empty set; that is logged and is
// not an error.
func (r *ManningResolver) Resolve(guests int) RequirementSet {
	for _, src := range r.sources {
		if !src.configured() {
			continue
		}
		out := make(RequirementSet)
		src.resolve(guests, out)
		r.log.Logf("requirements resolved from %s: %d roles, %d total staff", src.name(), len(out), out.Total())
		return out
	}
	r.log.Logf("no manning configuration for venue, no staffing need computed")
	return make(RequirementSet)
}
