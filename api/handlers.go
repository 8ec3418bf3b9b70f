/*
handlers.go - HTTP API handlers for the staffing planner

PURPOSE:
  Exposes the staffing engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Catalog:
    GET    /api/venues                 List venues
    GET    /api/roles                  List roles
    GET    /api/staff                  List roster
    GET    /api/events                 List events
    GET    /api/events/{id}            Get event details

  Plans:
    POST   /api/events/{id}/plan       Generate (and persist) a draft plan
    GET    /api/events/{id}/plan       Get the stored plan
    GET    /api/events/{id}/assignments  Stored assignments with row ids
    PUT    /api/assignments/{id}       Toggle an assignment's status

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    POST   /api/scenarios/load         Load a demo scenario

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (planner, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found (event, plan, venue)
  - 500: Internal errors

  Plan generation is deliberately best-effort: shortages and skipped
  configuration rows surface inside the plan (freelancer placeholders,
  decision log), never as HTTP errors. Only a dangling venue reference
  aborts generation.

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/staffing-engine/engine"
	"github.com/warp/staffing-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Planner *engine.Planner
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		Planner: &engine.Planner{
			Source:    store,
			Allocator: engine.NewAllocator(nil),
		},
	}
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListVenues returns all venues.
func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.Store.ListVenues(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list venues", err)
		return
	}

	dtos := make([]VenueDTO, len(venues))
	for i, v := range venues {
		dtos[i] = VenueDTO{
			ID:           int64(v.ID),
			Name:         v.Name,
			Category:     string(v.Category),
			ServiceStyle: v.ServiceStyle,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListRoles returns the role catalog.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Store.ListRoles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list roles", err)
		return
	}

	dtos := make([]RoleDTO, len(roles))
	for i, role := range roles {
		dtos[i] = RoleDTO{ID: int64(role.ID), Name: role.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListStaff returns the full roster.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	roster, err := h.Store.ListStaff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list staff", err)
		return
	}

	dtos := make([]StaffDTO, len(roster))
	for i, m := range roster {
		dtos[i] = toStaffDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListEvents returns all events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.ListEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = toEventDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEvent returns a single event.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	event, err := h.Store.GetEvent(r.Context(), eventID)
	if engine.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Event not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get event", err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(event))
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// GeneratePlan computes a draft plan for an event and persists it,
// replacing any prior plan for the same (event_date, venue_id).
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	plan, err := h.Planner.Generate(ctx, eventID)
	if engine.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Cannot plan event", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Plan generation failed", err)
		return
	}

	event, err := h.Store.GetEvent(ctx, eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload event", err)
		return
	}
	if err := h.Store.SavePlan(ctx, plan, event.Date, event.VenueID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist plan", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlanDTO(plan))
}

// GetPlan returns the stored plan for an event.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	plan, err := h.Store.LoadPlan(r.Context(), eventID)
	if engine.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "No plan for event", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plan", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// ListPlanAssignments returns an event's stored assignments with their
// database row ids, so the UI can address them for status toggles.
func (h *Handler) ListPlanAssignments(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}

	stored, err := h.Store.ListPlanAssignments(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]PlanAssignmentDTO, len(stored))
	for i, a := range stored {
		dto := toPlanAssignmentDTO(a.PlanAssignment)
		dto.ID = a.ID
		dtos[i] = dto
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateAssignment toggles a stored assignment's status
// (pending/confirmed/declined). The mutation never flows back through the
// engine; regeneration overwrites it.
func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment id", err)
		return
	}

	var req UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	status := engine.PlanAssignmentStatus(req.Status)
	switch status {
	case engine.AssignPending, engine.AssignConfirmed, engine.AssignDeclined:
	default:
		writeError(w, http.StatusBadRequest, "Invalid status (use pending/confirmed/declined)", nil)
		return
	}

	err = h.Store.UpdateAssignmentStatus(r.Context(), id, status)
	if engine.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Assignment not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update assignment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func eventIDParam(w http.ResponseWriter, r *http.Request) (engine.EventID, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event id", err)
		return 0, false
	}
	return engine.EventID(id), true
}

func toEventDTO(e engine.Event) EventDTO {
	return EventDTO{
		ID:         int64(e.ID),
		VenueID:    int64(e.VenueID),
		Date:       e.Date.Format("2006-01-02"),
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		GuestCount: e.GuestCount,
		Priority:   string(e.Priority),
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
