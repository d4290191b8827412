package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// FundHandler handles funds ledger requests
type FundHandler struct {
	fundSvc *service.FundService
}

// NewFundHandler creates a new fund handler
func NewFundHandler(fundSvc *service.FundService) *FundHandler {
	return &FundHandler{fundSvc: fundSvc}
}

// RecordFund adds an allocation to a project
// @Summary Record a fund allocation
// @Description Allocations with the same title accumulate into one row.
// @Tags Funds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "Allocation (title, amount)"
// @Success 201 {object} models.FundRecord "Fund record"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /projects/{id}/funds [post]
func (h *FundHandler) RecordFund(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidID)
		return
	}

	var req struct {
		Title  string  `json:"title"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	record, err := h.fundSvc.RecordFund(projectID, req.Title, req.Amount)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, record)
}

// RecordExpenditure adds a spend to a project
// @Summary Record an expenditure
// @Description The spend is rejected when it would overdraw the project balance.
// @Tags Funds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body object true "Expenditure (title, amount)"
// @Success 201 {object} models.Expenditure "Expenditure"
// @Failure 400 {object} map[string]string "Insufficient balance"
// @Router /projects/{id}/expenditures [post]
func (h *FundHandler) RecordExpenditure(w http.ResponseWriter, r *http.Request) {
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
		Title  string  `json:"title"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	record, err := h.fundSvc.RecordExpenditure(userID, projectID, req.Title, req.Amount)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, record)
}

// GetFunds retrieves the ledger view of a project
// @Summary Get project funds
// @Tags Funds
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} models.ProjectFunds "Ledger"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /projects/{id}/funds [get]
func (h *FundHandler) GetFunds(w http.ResponseWriter, r *http.Request) {
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

	funds, err := h.fundSvc.ProjectFunds(userID, projectID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, funds)
}
