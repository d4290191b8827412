package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// ProjectHandler handles project lifecycle requests
type ProjectHandler struct {
	projectSvc *service.ProjectService
	reviewSvc  *service.ReviewService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectSvc *service.ProjectService, reviewSvc *service.ReviewService) *ProjectHandler {
	return &ProjectHandler{
		projectSvc: projectSvc,
		reviewSvc:  reviewSvc,
	}
}

// Submit creates a new project
// @Summary Submit a project
// @Description Create a project in submitted state. Without a team_id a single-member team is created.
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Project (name, description, team_id)"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /projects [post]
func (h *ProjectHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		TeamID      uint   `json:"team_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	project, err := h.projectSvc.Submit(userID, req.Name, req.Description, req.TeamID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, project)
}

// List retrieves the projects visible to the caller
// @Summary List projects
// @Description Role-dependent listing: admins and secretaries see all, reviewers their assignments, supporters the marketplace, participants their own.
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Project "Projects"
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	projects, err := h.projectSvc.List(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, projects)
}

// Get retrieves a project
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} models.Project "Project"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	project, err := h.projectSvc.Get(userID, projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, project)
}

// Audit records a screening decision
// @Summary Audit a project
// @Description Accept moves the project to peer review, reject is terminal.
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "Decision (decision, comment)"
// @Success 201 {object} models.AuditRecord "Audit record"
// @Failure 409 {object} map[string]string "Not awaiting screening"
// @Router /projects/{id}/audit [post]
func (h *ProjectHandler) Audit(w http.ResponseWriter, r *http.Request) {
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
		Decision string `json:"decision"`
		Comment  string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	record, err := h.projectSvc.Audit(userID, projectID, req.Decision, req.Comment)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, record)
}

// AuditTrail retrieves the screening decisions of a project
// @Summary List audit records
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {array} models.AuditRecord "Audit records"
// @Router /projects/{id}/audit [get]
func (h *ProjectHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	records, err := h.projectSvc.AuditTrail(projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}

// AssignReviewer creates a review task
// @Summary Assign a reviewer
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "Assignment (reviewer_id, deadline as YYYY-MM-DD)"
// @Success 201 {object} models.ReviewTask "Review task"
// @Failure 400 {object} map[string]string "Invalid deadline"
// @Failure 409 {object} map[string]string "Already assigned"
// @Router /projects/{id}/reviewers [post]
func (h *ProjectHandler) AssignReviewer(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		ReviewerID uint   `json:"reviewer_id"`
		Deadline   string `json:"deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "deadline must be formatted as YYYY-MM-DD")
			return
		}
		deadline = &parsed
	}

	task, err := h.projectSvc.AssignReviewer(projectID, req.ReviewerID, deadline)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, task)
}

// UpdateStatus moves a project along the lifecycle
// @Summary Update project status
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "Status (status)"
// @Success 200 {object} models.Project "Updated project"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Router /projects/{id}/status [put]
func (h *ProjectHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		Status models.ProjectStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	project, err := h.projectSvc.UpdateStatus(projectID, req.Status)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, project)
}

// Opinions retrieves the submitted review opinions of a project
// @Summary List review opinions
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {array} models.ReviewOpinion "Opinions"
// @Router /projects/{id}/opinions [get]
func (h *ProjectHandler) Opinions(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	opinions, err := h.reviewSvc.ProjectOpinions(projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, opinions)
}
