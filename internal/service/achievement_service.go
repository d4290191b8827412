package service

import (
	"fmt"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// AchievementService handles published project outcomes
type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	projectRepo     *repository.ProjectRepository
	userRepo        *repository.UserRepository
	access          *accessChecker
}

// NewAchievementService creates a new achievement service
func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	teamRepo *repository.TeamRepository,
	reviewRepo *repository.ReviewRepository,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		projectRepo:     projectRepo,
		userRepo:        userRepo,
		access:          newAccessChecker(teamRepo, reviewRepo),
	}
}

// Publish records an achievement for a project
func (s *AchievementService) Publish(authorID, projectID uint, title, achievementType, description string) (*models.Achievement, error) {
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	user, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user", authorID)
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}

	allowed, err := s.access.canMutate(user, project)
	if err != nil {
		return nil, fmt.Errorf("failed to check access: %w", err)
	}
	if !allowed {
		return nil, apperrors.PermissionDenied("you cannot modify this project")
	}

	achievement := &models.Achievement{
		ProjectID:       projectID,
		Title:           title,
		AchievementType: achievementType,
		Description:     description,
		AuthorID:        authorID,
	}
	if err := s.achievementRepo.Create(achievement); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return achievement, nil
}

// ListByProject retrieves the achievements of a project
func (s *AchievementService) ListByProject(projectID uint) ([]models.Achievement, error) {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}
	return s.achievementRepo.ListByProject(projectID)
}
