package service

import (
	"fmt"
	"log/slog"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/auth"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// UserService handles administrative user management
type UserService struct {
	userRepo *repository.UserRepository
	authSvc  *auth.Service
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, authSvc *auth.Service) *UserService {
	return &UserService{
		userRepo: userRepo,
		authSvc:  authSvc,
	}
}

// Get retrieves a user by ID
func (s *UserService) Get(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user", userID)
	}
	return user, nil
}

// List retrieves all users
func (s *UserService) List() ([]models.User, error) {
	return s.userRepo.List()
}

// Create creates an account with an arbitrary role. Unlike self-registration
// this may create admin accounts.
func (s *UserService) Create(username, password, realName string, role models.Role, affiliation, email string) (*models.User, error) {
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}
	if len(password) < 6 {
		return nil, apperrors.Validation("password must be at least 6 characters")
	}
	if !models.ValidRole(role) {
		return nil, apperrors.Validation("invalid role: %s", role)
	}

	existing, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Validation("username already taken")
	}

	passwordHash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		RealName:     realName,
		Role:         role,
		Affiliation:  affiliation,
		Email:        email,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created by admin", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Delete removes a user. An admin cannot delete their own account.
func (s *UserService) Delete(callerID, userID uint) error {
	if callerID == userID {
		return apperrors.Validation("cannot delete your own account")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return apperrors.NotFound("user", userID)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("User deleted", "user_id", userID, "deleted_by", callerID)
	return nil
}
