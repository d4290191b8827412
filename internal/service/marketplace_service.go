package service

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/database"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// MarketplaceService handles support intentions, published resources and
// resource applications.
type MarketplaceService struct {
	db               *sql.DB
	intentionRepo    *repository.IntentionRepository
	resourceRepo     *repository.ResourceRepository
	applicationRepo  *repository.ApplicationRepository
	projectRepo      *repository.ProjectRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	access           *accessChecker
}

// NewMarketplaceService creates a new marketplace service
func NewMarketplaceService(
	db *sql.DB,
	intentionRepo *repository.IntentionRepository,
	resourceRepo *repository.ResourceRepository,
	applicationRepo *repository.ApplicationRepository,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	teamRepo *repository.TeamRepository,
	reviewRepo *repository.ReviewRepository,
	notificationRepo *repository.NotificationRepository,
) *MarketplaceService {
	return &MarketplaceService{
		db:               db,
		intentionRepo:    intentionRepo,
		resourceRepo:     resourceRepo,
		applicationRepo:  applicationRepo,
		projectRepo:      projectRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		access:           newAccessChecker(teamRepo, reviewRepo),
	}
}

// CreateIntention files a support intention on a marketplace-visible project
// and notifies the principal.
func (s *MarketplaceService) CreateIntention(supporterID, projectID uint, supportType, message string) (*models.SupportIntention, error) {
	if supportType == "" {
		return nil, apperrors.Validation("support type is required")
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}
	if !models.MarketplaceVisible(project.Status) {
		return nil, apperrors.Conflict("project is not visible on the marketplace")
	}

	intention := &models.SupportIntention{
		ProjectID:   projectID,
		SupporterID: supporterID,
		SupportType: supportType,
		Message:     message,
		Status:      models.IntentionPending,
	}
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		if err := s.intentionRepo.WithTx(tx).Create(intention); err != nil {
			return fmt.Errorf("failed to create intention: %w", err)
		}
		notification := &models.Notification{
			UserID:  project.PrincipalID,
			Content: fmt.Sprintf("A supporter expressed interest in your project %q (%s).", project.Name, supportType),
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Support intention filed", "project_id", projectID, "supporter_id", supporterID)
	return intention, nil
}

// ProjectIntentions retrieves the intentions filed on a project. Only users
// who can mutate the project, secretaries and admins may see them.
func (s *MarketplaceService) ProjectIntentions(userID, projectID uint) ([]models.SupportIntention, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user", userID)
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}

	if user.Role != models.RoleSecretary {
		allowed, err := s.access.canMutate(user, project)
		if err != nil {
			return nil, fmt.Errorf("failed to check access: %w", err)
		}
		if !allowed {
			return nil, apperrors.PermissionDenied("you cannot access this project")
		}
	}
	return s.intentionRepo.ListByProject(projectID)
}

// MyIntentions retrieves the intentions filed by the caller
func (s *MarketplaceService) MyIntentions(supporterID uint) ([]models.SupportIntention, error) {
	return s.intentionRepo.ListBySupporter(supporterID)
}

// PublishResource publishes an open resource on the marketplace
func (s *MarketplaceService) PublishResource(providerID uint, title, resourceType, description string) (*models.IncubationResource, error) {
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if resourceType == "" {
		return nil, apperrors.Validation("resource type is required")
	}

	resource := &models.IncubationResource{
		ProviderID:   providerID,
		Title:        title,
		ResourceType: resourceType,
		Description:  description,
		Status:       models.ResourceOpen,
	}
	if err := s.resourceRepo.Create(resource); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	slog.Info("Resource published", "resource_id", resource.ID, "provider_id", providerID)
	return resource, nil
}

// MyResources retrieves the resources published by the caller
func (s *MarketplaceService) MyResources(providerID uint) ([]models.IncubationResource, error) {
	return s.resourceRepo.ListByProvider(providerID)
}

// ListOpenResources retrieves all open resources, optionally filtered by type
func (s *MarketplaceService) ListOpenResources(resourceType string) ([]models.IncubationResourceWithProvider, error) {
	return s.resourceRepo.ListOpen(resourceType)
}

// Apply files a resource application on behalf of a project. Each project
// applies at most once per resource. The provider is notified.
func (s *MarketplaceService) Apply(applicantID, resourceID, projectID uint, message string) (*models.ResourceApplication, error) {
	resource, err := s.resourceRepo.GetByID(resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}
	if resource == nil {
		return nil, apperrors.NotFound("resource", resourceID)
	}
	if resource.Status != models.ResourceOpen {
		return nil, apperrors.Conflict("resource is no longer open")
	}

	user, err := s.userRepo.GetByID(applicantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user", applicantID)
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
		return nil, apperrors.PermissionDenied("you cannot apply on behalf of this project")
	}

	exists, err := s.applicationRepo.Exists(resourceID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if exists {
		return nil, apperrors.Validation("project has already applied for this resource")
	}

	application := &models.ResourceApplication{
		ResourceID:  resourceID,
		ProjectID:   projectID,
		ApplicantID: applicantID,
		Status:      models.ApplicationPending,
		Message:     message,
	}
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		if err := s.applicationRepo.WithTx(tx).Create(application); err != nil {
			if database.IsUniqueViolation(err) {
				return apperrors.Validation("project has already applied for this resource")
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		notification := &models.Notification{
			UserID:  resource.ProviderID,
			Content: fmt.Sprintf("Project %q applied for your resource %q.", project.Name, resource.Title),
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Resource application filed", "resource_id", resourceID, "project_id", projectID)
	return application, nil
}

// ResourceApplications retrieves the applications for a resource. Only the
// provider may see them.
func (s *MarketplaceService) ResourceApplications(providerID, resourceID uint) ([]models.ResourceApplicationWithDetails, error) {
	resource, err := s.resourceRepo.GetByID(resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}
	if resource == nil {
		return nil, apperrors.NotFound("resource", resourceID)
	}
	if resource.ProviderID != providerID {
		return nil, apperrors.PermissionDenied("resource belongs to another provider")
	}
	return s.applicationRepo.ListByResource(resourceID)
}

// MyApplications retrieves the applications filed by the caller
func (s *MarketplaceService) MyApplications(applicantID uint) ([]models.ResourceApplicationWithDetails, error) {
	return s.applicationRepo.ListByApplicant(applicantID)
}

// RespondToApplication lets the resource provider update an application's
// status and reply. The applicant is notified.
func (s *MarketplaceService) RespondToApplication(providerID, applicationID uint, status, reply string) (*models.ResourceApplication, error) {
	if !models.ValidApplicationStatus(status) {
		return nil, apperrors.Validation("invalid application status: %s", status)
	}

	application, err := s.applicationRepo.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if application == nil {
		return nil, apperrors.NotFound("application", applicationID)
	}

	resource, err := s.resourceRepo.GetByID(application.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resource: %w", err)
	}
	if resource == nil {
		return nil, apperrors.NotFound("resource", application.ResourceID)
	}
	if resource.ProviderID != providerID {
		return nil, apperrors.PermissionDenied("resource belongs to another provider")
	}

	application.Status = status
	application.Reply = reply
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		if err := s.applicationRepo.WithTx(tx).Update(application); err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		notification := &models.Notification{
			UserID:  application.ApplicantID,
			Content: fmt.Sprintf("Your application for resource %q is now %s.", resource.Title, status),
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}
