package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/auth"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/config"
)

// AuthHelper issues JWT tokens for tests
type AuthHelper struct {
	Service *auth.Service
}

// NewAuthHelper creates an auth helper using the shared test secret
func NewAuthHelper(secret string) *AuthHelper {
	return &AuthHelper{
		Service: auth.NewService(&config.JWTConfig{
			Secret:     secret,
			Expiration: time.Hour,
		}),
	}
}

// Token generates a bearer token for a user
func (h *AuthHelper) Token(t *testing.T, userID uint, username string) string {
	t.Helper()

	token, _, err := h.Service.GenerateToken(userID, username)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// AddAuthHeader attaches a bearer token to the request
func (h *AuthHelper) AddAuthHeader(t *testing.T, r *http.Request, userID uint, username string) {
	t.Helper()
	r.Header.Set("Authorization", "Bearer "+h.Token(t, userID, username))
}
