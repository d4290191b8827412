package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// AchievementHandler handles achievement requests
type AchievementHandler struct {
	achievementSvc *service.AchievementService
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(achievementSvc *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementSvc: achievementSvc}
}

// Publish records an achievement for a project
// @Summary Publish an achievement
// @Tags Achievements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "Achievement (title, achievement_type, description)"
// @Success 201 {object} models.Achievement "Created achievement"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /projects/{id}/achievements [post]
func (h *AchievementHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		Title           string `json:"title"`
		AchievementType string `json:"achievement_type"`
		Description     string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	achievement, err := h.achievementSvc.Publish(userID, projectID, req.Title, req.AchievementType, req.Description)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, achievement)
}

// List retrieves the achievements of a project
// @Summary List achievements
// @Tags Achievements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {array} models.Achievement "Achievements"
// @Router /projects/{id}/achievements [get]
func (h *AchievementHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	achievements, err := h.achievementSvc.ListByProject(projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, achievements)
}
