package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// ReviewHandler handles review task requests
type ReviewHandler struct {
	reviewSvc *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewSvc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// MyTasks retrieves the caller's review tasks
// @Summary List own review tasks
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ReviewTaskWithProject "Review tasks"
// @Router /review-tasks [get]
func (h *ReviewHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	tasks, err := h.reviewSvc.MyTasks(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tasks)
}

// Submit records a review opinion and completes the task
// @Summary Submit a review
// @Description Record the four dimension scores and a comment for an assigned task. The total score is the sum of the dimensions. Each task accepts one submission; reaching the quorum finalizes the review phase.
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review task ID"
// @Param request body object true "Opinion (innovation, feasibility, potentiality, teamwork, comment)"
// @Success 201 {object} models.ReviewOpinion "Submitted opinion"
// @Failure 400 {object} map[string]string "Score out of range"
// @Failure 409 {object} map[string]string "Already submitted"
// @Router /review-tasks/{id}/opinions [post]
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		Innovation   float64 `json:"innovation"`
		Feasibility  float64 `json:"feasibility"`
		Potentiality float64 `json:"potentiality"`
		Teamwork     float64 `json:"teamwork"`
		Comment      string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	scores := service.ReviewScores{
		Innovation:   req.Innovation,
		Feasibility:  req.Feasibility,
		Potentiality: req.Potentiality,
		Teamwork:     req.Teamwork,
	}
	opinion, err := h.reviewSvc.Submit(userID, taskID, scores, req.Comment)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, opinion)
}
