/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: Internal domain model
*/
package api

import (
	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// VenueDTO represents a venue in API responses.
type VenueDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	ServiceStyle string `json:"service_style,omitempty"`
}

// RoleDTO represents a role catalog entry.
type RoleDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StaffDTO represents a roster member in API responses.
type StaffDTO struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	PrimaryRoleID  int64             `json:"primary_role_id"`
	SecondaryRoles []int64           `json:"secondary_roles,omitempty"`
	HomeVenueID    *int64            `json:"home_venue_id,omitempty"`
	Employment     string            `json:"employment"`
	English        string            `json:"english"`
	OtherLanguages map[string]string `json:"other_languages,omitempty"`
	SpecialSkills  []string          `json:"special_skills,omitempty"`
	Status         string            `json:"status"`
}

// EventDTO represents an event in API responses.
type EventDTO struct {
	ID         int64  `json:"id"`
	VenueID    int64  `json:"venue_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	GuestCount int    `json:"guest_count"`
	Priority   string `json:"priority"`
}

// =============================================================================
// PLAN TYPES
// =============================================================================

// PlanDTO is the externally consumed plan shape.
type PlanDTO struct {
	EventID          int64                `json:"event_id"`
	VenueName        string               `json:"venue_name"`
	GuestCount       int                  `json:"guest_count"`
	Requirements     []PlanRequirementDTO `json:"requirements"`
	Shortages        []ShortageDTO        `json:"shortages,omitempty"`
	TotalStaff       int                  `json:"total_staff"`
	InternalAssigned int                  `json:"internal_assigned"`
	TotalFreelancers int                  `json:"total_freelancers"`
	Status           string               `json:"status"`
	Log              []string             `json:"log,omitempty"`
}

// PlanRequirementDTO is one role's slice of a plan.
type PlanRequirementDTO struct {
	RoleID      int64               `json:"role_id"`
	RoleName    string              `json:"role_name"`
	Count       int                 `json:"count"`
	Filled      int                 `json:"filled"`
	Assignments []PlanAssignmentDTO `json:"assignments"`
}

// PlanAssignmentDTO is one slot of a plan. A negative staff_id marks a
// freelancer placeholder.
type PlanAssignmentDTO struct {
	ID          int64  `json:"id,omitempty"` // database row id, present on stored plans
	RoleID      int64  `json:"role_id"`
	RoleName    string `json:"role_name"`
	StaffID     int64  `json:"staff_id"`
	StaffName   string `json:"staff_name"`
	Status      string `json:"status"`
	IsFreelance bool   `json:"is_freelance"`
}

// ShortageDTO records a role that needs freelance cover.
type ShortageDTO struct {
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
	Missing  int    `json:"missing"`
}

// UpdateAssignmentRequest toggles a stored assignment's status.
type UpdateAssignmentRequest struct {
	Status string `json:"status"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPlanDTO(plan *engine.Plan) PlanDTO {
	dto := PlanDTO{
		EventID:          int64(plan.EventID),
		VenueName:        plan.VenueName,
		GuestCount:       plan.GuestCount,
		TotalStaff:       plan.TotalStaff,
		InternalAssigned: plan.InternalAssigned,
		TotalFreelancers: plan.TotalFreelancers,
		Status:           plan.Status,
		Log:              plan.Log,
		Requirements:     make([]PlanRequirementDTO, 0, len(plan.Requirements)),
	}
	for _, req := range plan.Requirements {
		reqDTO := PlanRequirementDTO{
			RoleID:      int64(req.RoleID),
			RoleName:    req.RoleName,
			Count:       req.Count,
			Filled:      req.Filled,
			Assignments: make([]PlanAssignmentDTO, 0, len(req.Assignments)),
		}
		for _, a := range req.Assignments {
			reqDTO.Assignments = append(reqDTO.Assignments, toPlanAssignmentDTO(a))
		}
		dto.Requirements = append(dto.Requirements, reqDTO)
	}
	for _, s := range plan.Shortages {
		dto.Shortages = append(dto.Shortages, ShortageDTO{
			RoleID:   int64(s.RoleID),
			RoleName: s.RoleName,
			Missing:  s.Missing,
		})
	}
	return dto
}

func toPlanAssignmentDTO(a engine.PlanAssignment) PlanAssignmentDTO {
	return PlanAssignmentDTO{
		RoleID:      int64(a.RoleID),
		RoleName:    a.RoleName,
		StaffID:     int64(a.StaffID),
		StaffName:   a.StaffName,
		Status:      string(a.Status),
		IsFreelance: a.IsFreelance,
	}
}

func toStaffDTO(m engine.StaffMember) StaffDTO {
	dto := StaffDTO{
		ID:            int64(m.ID),
		Name:          m.Name,
		PrimaryRoleID: int64(m.PrimaryRoleID),
		Employment:    string(m.Employment),
		English:       string(m.English),
		SpecialSkills: m.SpecialSkills,
		Status:        string(m.Status),
	}
	for _, r := range m.SecondaryRoles {
		dto.SecondaryRoles = append(dto.SecondaryRoles, int64(r))
	}
	if m.HomeVenueID != nil {
		id := int64(*m.HomeVenueID)
		dto.HomeVenueID = &id
	}
	if len(m.OtherLanguages) > 0 {
		dto.OtherLanguages = make(map[string]string, len(m.OtherLanguages))
		for lang, prof := range m.OtherLanguages {
			dto.OtherLanguages[lang] = string(prof)
		}
	}
	return dto
}
