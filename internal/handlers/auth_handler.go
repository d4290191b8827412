package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	authSvc *service.AuthService
	userSvc *service.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		userSvc: userSvc,
	}
}

// Register creates a new account
// @Summary Register a new user
// @Description Create an account. The role defaults to participant; admin accounts cannot be self-assigned.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body object true "Registration (username, password, real_name, role, affiliation, email)"
// @Success 201 {object} models.User "Created user"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string      `json:"username"`
		Password    string      `json:"password"`
		RealName    string      `json:"real_name"`
		Role        models.Role `json:"role"`
		Affiliation string      `json:"affiliation"`
		Email       string      `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	user, err := h.authSvc.Register(req.Username, req.Password, req.RealName, req.Role, req.Affiliation, req.Email)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and issues a JWT
// @Summary Log in
// @Description Verify credentials and return a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body object true "Credentials (username, password)"
// @Success 200 {object} map[string]interface{} "Token and user"
// @Failure 400 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	user, token, expiresAt, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// Me returns the authenticated user's profile
// @Summary Get own profile
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "User profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	user, err := h.userSvc.Get(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
