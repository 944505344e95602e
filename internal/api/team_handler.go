package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/service"
)

// TeamHandler handles team and membership endpoints. Mutations are
// admin-only via the middleware chain; reads enforce membership scoping
// in the service.
type TeamHandler struct {
	teamService *service.TeamService
	validator   *validator.Validate
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		validator:   validator.New(),
	}
}

// Create handles POST /api/teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondBadRequestBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	team, err := h.teamService.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, teamToAPI(team, nil))
}

// List handles GET /api/teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	teams, err := h.teamService.List(r.Context(), caller)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, teamsToAPI(teams))
}

// Get handles GET /api/teams/{id}. The response embeds the member list.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	teamID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.teamService.Get(r.Context(), caller, teamID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, teamToAPI(result.Team, result.Members))
}

// Update handles PUT /api/teams/{id}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	teamID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondBadRequestBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	team, err := h.teamService.Update(r.Context(), teamID, service.TeamPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, teamToAPI(team, nil))
}

// Delete handles DELETE /api/teams/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.teamService.Delete(r.Context(), teamID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMember handles POST /api/teams/{id}/members.
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		respondBadRequestBody(w, r)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithValidationError(w, r, err)
		return
	}

	membership, err := h.teamService.AddMember(r.Context(), teamID, req.UserID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, membership)
}

// RemoveMember handles DELETE /api/teams/{id}/members/{userId}.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := getPathUUID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(r.Context(), teamID, userID); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
