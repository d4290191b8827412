package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/auth"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo *repository.UserRepository
	authSvc  *auth.Service
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo *repository.UserRepository, authSvc *auth.Service) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		authSvc:  authSvc,
	}
}

// Register creates a new account. The role defaults to participant and admin
// accounts cannot be self-assigned.
func (s *AuthService) Register(username, password, realName string, role models.Role, affiliation, email string) (*models.User, error) {
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}
	if len(password) < 6 {
		return nil, apperrors.Validation("password must be at least 6 characters")
	}

	if role == "" {
		role = models.RoleParticipant
	}
	if !models.SelfAssignableRole(role) {
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

	slog.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login verifies the credentials and issues a JWT. The error is identical for
// an unknown username and a wrong password.
func (s *AuthService) Login(username, password string) (*models.User, string, time.Time, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, "", time.Time{}, apperrors.Validation("invalid username or password")
	}

	if err := s.authSvc.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.Validation("invalid username or password")
	}

	token, expiresAt, err := s.authSvc.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, expiresAt, nil
}
