package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// TeamHandler handles team management requests
type TeamHandler struct {
	teamSvc *service.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamSvc *service.TeamService) *TeamHandler {
	return &TeamHandler{teamSvc: teamSvc}
}

// Create creates a team with the caller as leader
// @Summary Create a team
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Team (name, description)"
// @Success 201 {object} models.Team "Created team"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /teams [post]
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	team, err := h.teamSvc.Create(userID, req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, team)
}

// MyTeams retrieves the caller's teams
// @Summary List own teams
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Team "Teams"
// @Router /teams [get]
func (h *TeamHandler) MyTeams(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	teams, err := h.teamSvc.MyTeams(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, teams)
}

// Get retrieves a team with its members
// @Summary Get a team
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} map[string]interface{} "Team and members"
// @Failure 404 {object} map[string]string "Not found"
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	team, members, err := h.teamSvc.Get(teamID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"members": members,
	})
}

// AddMember adds a user to the team
// @Summary Add a team member
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param request body object true "Member (user_id, role_in_team)"
// @Success 200 {object} map[string]string "Added"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Already a member"
// @Router /teams/{id}/members [post]
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	teamID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		UserID     uint   `json:"user_id"`
		RoleInTeam string `json:"role_in_team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if err := h.teamSvc.AddMember(callerID, teamID, req.UserID, req.RoleInTeam); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Member added"})
}
