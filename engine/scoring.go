/*
scoring.go - Candidate-to-role match scoring

PURPOSE:
  Turns (candidate, required role, event context) into a non-negative
  integer score. Zero means disqualified: the candidate cannot fill the
  role and must never be assigned to it.

SCORING TABLE (additive):
  +20  primary role matches the required role
  +10  required role is among the candidate's secondary roles
         (one of these two must hold, otherwise the score is 0)
  +15  home-base venue matches the event's venue
  +5   internal employment
  +5   per required skill tag present (case-insensitive), uncapped
  +8   per required language the candidate speaks, plus 2x a proficiency
       bonus (basic 1, conversational 2, fluent 3, native 4)
  English adjustment by event priority, keyed by the candidate's English
  tier: vvip {basic -10, medium -5, good +2, fluent +5}; vip +3 for good
  or fluent; normal none.

  The score has no fixed maximum. A negative sum (possible under the
  vvip penalty) floors at 0, which disqualifies.

TIE-BREAKING:
  Equal scores are broken by original roster order (stable sort in
  allocation.go); the scorer itself is order-free.
*/
package engine

import "strings"

// =============================================================================
// SCORE WEIGHTS
// =============================================================================

const (
	scorePrimaryRole   = 20
	scoreSecondaryRole = 10
	scoreHomeVenue     = 15
	scoreInternal      = 5
	scorePerSkill      = 5
	scorePerLanguage   = 8
)

// languageBonus maps a spoken-language proficiency to its bonus factor,
// doubled when applied.
var languageBonus = map[Proficiency]int{
	ProficiencyBasic:          1,
	ProficiencyConversational: 2,
	ProficiencyFluent:         3,
	ProficiencyNative:         4,
}

// englishVVIPAdjust maps the candidate's English tier to the vvip
// adjustment.
var englishVVIPAdjust = map[Proficiency]int{
	ProficiencyBasic:  -10,
	ProficiencyMedium: -5,
	ProficiencyGood:   2,
	ProficiencyFluent: 5,
}

// =============================================================================
// SCORER
// =============================================================================

// Score rates a candidate for one role slot of an event. Returns 0 when the
// candidate is disqualified (wrong role, or penalties cancel the fit).
func Score(staff StaffMember, roleID RoleID, event Event, requiredSkills []string, requiredLanguages map[string]Proficiency) int {
	score := 0

	switch {
	case staff.PrimaryRoleID == roleID:
		score += scorePrimaryRole
	case staff.HasSecondaryRole(roleID):
		score += scoreSecondaryRole
	default:
		return 0
	}

	if staff.HomeVenueID != nil && *staff.HomeVenueID == event.VenueID {
		score += scoreHomeVenue
	}
	if staff.Employment == EmploymentInternal {
		score += scoreInternal
	}

	score += skillScore(staff.SpecialSkills, requiredSkills)
	score += languageScore(staff.OtherLanguages, requiredLanguages)
	score += englishAdjustment(staff.English, event.Priority)

	if score < 0 {
		return 0
	}
	return score
}

// skillScore awards scorePerSkill for each required skill the candidate
// carries, case-insensitively, with no cap.
func skillScore(has []string, required []string) int {
	if len(required) == 0 || len(has) == 0 {
		return 0
	}
	owned := make(map[string]bool, len(has))
	for _, s := range has {
		owned[strings.ToLower(strings.TrimSpace(s))] = true
	}
	score := 0
	for _, want := range required {
		if owned[strings.ToLower(strings.TrimSpace(want))] {
			score += scorePerSkill
		}
	}
	return score
}

// languageScore awards scorePerLanguage plus twice the proficiency bonus
// for each required language the candidate speaks. The required minimum
// proficiency annotates the event but does not gate the bonus; the bonus
// is keyed by the candidate's own proficiency.
func languageScore(spoken map[string]Proficiency, required map[string]Proficiency) int {
	if len(required) == 0 || len(spoken) == 0 {
		return 0
	}
	normalized := make(map[string]Proficiency, len(spoken))
	for lang, prof := range spoken {
		normalized[strings.ToLower(strings.TrimSpace(lang))] = prof
	}
	score := 0
	for lang := range required {
		prof, ok := normalized[strings.ToLower(strings.TrimSpace(lang))]
		if !ok {
			continue
		}
		score += scorePerLanguage + languageBonus[prof]*2
	}
	return score
}

// englishAdjustment applies the priority-tier English quality adjustment,
// independent of any required-language checks.
func englishAdjustment(english Proficiency, priority PriorityTier) int {
	switch priority {
	case PriorityVVIP:
		return englishVVIPAdjust[english]
	case PriorityVIP:
		if english == ProficiencyGood || english == ProficiencyFluent {
			return 3
		}
	}
	return 0
}
