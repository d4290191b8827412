package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// MarketplaceHandler handles support intentions, resources and applications
type MarketplaceHandler struct {
	marketplaceSvc *service.MarketplaceService
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(marketplaceSvc *service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceSvc: marketplaceSvc}
}

// CreateIntention files a support intention on a project
// @Summary File a support intention
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "Intention (support_type, message)"
// @Success 201 {object} models.SupportIntention "Created intention"
// @Failure 409 {object} map[string]string "Project not visible"
// @Router /projects/{id}/intentions [post]
func (h *MarketplaceHandler) CreateIntention(w http.ResponseWriter, r *http.Request) {
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
		SupportType string `json:"support_type"`
		Message     string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	intention, err := h.marketplaceSvc.CreateIntention(userID, projectID, req.SupportType, req.Message)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, intention)
}

// ProjectIntentions retrieves the intentions filed on a project
// @Summary List project intentions
// @Tags Marketplace
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {array} models.SupportIntention "Intentions"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /projects/{id}/intentions [get]
func (h *MarketplaceHandler) ProjectIntentions(w http.ResponseWriter, r *http.Request) {
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

	intentions, err := h.marketplaceSvc.ProjectIntentions(userID, projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, intentions)
}

// MyIntentions retrieves the intentions filed by the caller
// @Summary List own intentions
// @Tags Marketplace
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SupportIntention "Intentions"
// @Router /intentions [get]
func (h *MarketplaceHandler) MyIntentions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	intentions, err := h.marketplaceSvc.MyIntentions(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, intentions)
}

// PublishResource publishes a resource on the marketplace
// @Summary Publish a resource
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Resource (title, resource_type, description)"
// @Success 201 {object} models.IncubationResource "Created resource"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /resources [post]
func (h *MarketplaceHandler) PublishResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	var req struct {
		Title        string `json:"title"`
		ResourceType string `json:"resource_type"`
		Description  string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	resource, err := h.marketplaceSvc.PublishResource(userID, req.Title, req.ResourceType, req.Description)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, resource)
}

// ListResources retrieves open resources, optionally filtered by type
// @Summary List open resources
// @Tags Marketplace
// @Produce json
// @Security BearerAuth
// @Param type query string false "Resource type filter"
// @Success 200 {array} models.IncubationResourceWithProvider "Resources"
// @Router /resources [get]
func (h *MarketplaceHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.marketplaceSvc.ListOpenResources(r.URL.Query().Get("type"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resources)
}

// MyResources retrieves the resources published by the caller
// @Summary List own resources
// @Tags Marketplace
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.IncubationResource "Resources"
// @Router /resources/mine [get]
func (h *MarketplaceHandler) MyResources(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	resources, err := h.marketplaceSvc.MyResources(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resources)
}

// Apply files a resource application on behalf of a project
// @Summary Apply for a resource
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param request body object true "Application (project_id, message)"
// @Success 201 {object} models.ResourceApplication "Created application"
// @Failure 400 {object} map[string]string "Already applied"
// @Router /resources/{id}/applications [post]
func (h *MarketplaceHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	resourceID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		ProjectID uint   `json:"project_id"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	application, err := h.marketplaceSvc.Apply(userID, resourceID, req.ProjectID, req.Message)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, application)
}

// ResourceApplications retrieves the applications for a resource
// @Summary List resource applications
// @Tags Marketplace
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {array} models.ResourceApplicationWithDetails "Applications"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /resources/{id}/applications [get]
func (h *MarketplaceHandler) ResourceApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	resourceID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	applications, err := h.marketplaceSvc.ResourceApplications(userID, resourceID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, applications)
}

// MyApplications retrieves the applications filed by the caller
// @Summary List own applications
// @Tags Marketplace
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ResourceApplicationWithDetails "Applications"
// @Router /applications [get]
func (h *MarketplaceHandler) MyApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	applications, err := h.marketplaceSvc.MyApplications(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, applications)
}

// RespondToApplication updates an application's status and reply
// @Summary Respond to an application
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body object true "Response (status, reply)"
// @Success 200 {object} models.ResourceApplication "Updated application"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /applications/{id} [put]
func (h *MarketplaceHandler) RespondToApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	applicationID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		Status string `json:"status"`
		Reply  string `json:"reply"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	application, err := h.marketplaceSvc.RespondToApplication(userID, applicationID, req.Status, req.Reply)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, application)
}
