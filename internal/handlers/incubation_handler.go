package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// IncubationHandler handles incubation, milestone and PoC requests
type IncubationHandler struct {
	incubationSvc *service.IncubationService
}

// NewIncubationHandler creates a new incubation handler
func NewIncubationHandler(incubationSvc *service.IncubationService) *IncubationHandler {
	return &IncubationHandler{incubationSvc: incubationSvc}
}

// Get retrieves the incubation record of a project
// @Summary Get incubation record
// @Tags Incubation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} models.IncubationRecord "Incubation record"
// @Failure 404 {object} map[string]string "Not found"
// @Router /projects/{id}/incubation [get]
func (h *IncubationHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	record, err := h.incubationSvc.Get(userID, projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// Upsert creates or patches the incubation record
// @Summary Update incubation record
// @Description Sparse update of plan and progress. The first write moves an approved project to incubating and seeds the default milestones. Progress is clamped to [0,100].
// @Tags Incubation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "Patch (plan, progress)"
// @Success 200 {object} models.IncubationRecord "Incubation record"
// @Failure 409 {object} map[string]string "Not in an incubation phase"
// @Router /projects/{id}/incubation [put]
func (h *IncubationHandler) Upsert(w http.ResponseWriter, r *http.Request) {
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
		Plan     *string `json:"plan"`
		Progress *int    `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	record, err := h.incubationSvc.Upsert(userID, projectID, service.IncubationPatch{
		Plan:     req.Plan,
		Progress: req.Progress,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// ListMilestones retrieves the milestones of a project
// @Summary List milestones
// @Tags Incubation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {array} models.Milestone "Milestones"
// @Router /projects/{id}/milestones [get]
func (h *IncubationHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
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

	milestones, err := h.incubationSvc.ListMilestones(userID, projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, milestones)
}

// UpdateMilestone patches a milestone
// @Summary Update a milestone
// @Tags Incubation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Milestone ID"
// @Param request body object true "Patch (status, deliverable, due_date)"
// @Success 200 {object} models.Milestone "Updated milestone"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /milestones/{id} [patch]
func (h *IncubationHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	milestoneID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		Status      *string `json:"status"`
		Deliverable *string `json:"deliverable"`
		DueDate     *string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	milestone, err := h.incubationSvc.UpdateMilestone(userID, milestoneID, service.MilestonePatch{
		Status:      req.Status,
		Deliverable: req.Deliverable,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, milestone)
}

// CreatePoC starts a proof of concept run
// @Summary Start a PoC
// @Description Create a PoC run and move the project to poc_in_progress.
// @Tags Incubation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "PoC (title, description)"
// @Success 201 {object} models.ProofOfConcept "Created PoC"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Router /projects/{id}/pocs [post]
func (h *IncubationHandler) CreatePoC(w http.ResponseWriter, r *http.Request) {
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
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	poc, err := h.incubationSvc.CreatePoC(userID, projectID, req.Title, req.Description)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, poc)
}

// ListPoCs retrieves the PoC runs of a project
// @Summary List PoCs
// @Tags Incubation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {array} models.ProofOfConcept "PoCs"
// @Router /projects/{id}/pocs [get]
func (h *IncubationHandler) ListPoCs(w http.ResponseWriter, r *http.Request) {
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

	pocs, err := h.incubationSvc.ListPoCs(userID, projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, pocs)
}

// UpdatePoC patches a PoC run
// @Summary Update a PoC
// @Tags Incubation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "PoC ID"
// @Param request body object true "Patch (description, status, result)"
// @Success 200 {object} models.ProofOfConcept "Updated PoC"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /pocs/{id} [patch]
func (h *IncubationHandler) UpdatePoC(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	pocID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Result      *string `json:"result"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	poc, err := h.incubationSvc.UpdatePoC(userID, pocID, req.Description, req.Status, req.Result)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, poc)
}
