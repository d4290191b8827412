package middleware

import (
	"database/sql"
	"net/http"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// RBACMiddleware gates routes on the caller's account role
type RBACMiddleware struct {
	userRepo *repository.UserRepository
}

// NewRBACMiddleware creates a new RBAC middleware
func NewRBACMiddleware(db *sql.DB) *RBACMiddleware {
	return &RBACMiddleware{
		userRepo: repository.NewUserRepository(db),
	}
}

// RequireRole checks if the user holds the required role
func (m *RBACMiddleware) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return m.RequireAnyRole(role)
}

// RequireAnyRole checks if the user holds any of the required roles
func (m *RBACMiddleware) RequireAnyRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "User not authenticated")
				return
			}

			user, err := m.userRepo.GetByID(userID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Failed to get user role")
				return
			}
			if user == nil {
				respondWithError(w, http.StatusUnauthorized, "User not found")
				return
			}

			hasRole := false
			for _, required := range roles {
				if user.Role == required {
					hasRole = true
					break
				}
			}

			if !hasRole {
				respondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
