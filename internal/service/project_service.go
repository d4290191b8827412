package service

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/database"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// StatusReconciler finalizes a project's review phase if its conditions are
// met. Implemented by ReviewService.
type StatusReconciler interface {
	Reconcile(projectID uint) (bool, error)
}

// ProjectService handles the project lifecycle
type ProjectService struct {
	db               *sql.DB
	projectRepo      *repository.ProjectRepository
	teamRepo         *repository.TeamRepository
	userRepo         *repository.UserRepository
	auditRepo        *repository.AuditRecordRepository
	reviewRepo       *repository.ReviewRepository
	notificationRepo *repository.NotificationRepository
	reconciler       StatusReconciler
	access           *accessChecker
}

// NewProjectService creates a new project service
func NewProjectService(
	db *sql.DB,
	projectRepo *repository.ProjectRepository,
	teamRepo *repository.TeamRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditRecordRepository,
	reviewRepo *repository.ReviewRepository,
	notificationRepo *repository.NotificationRepository,
	reconciler StatusReconciler,
) *ProjectService {
	return &ProjectService{
		db:               db,
		projectRepo:      projectRepo,
		teamRepo:         teamRepo,
		userRepo:         userRepo,
		auditRepo:        auditRepo,
		reviewRepo:       reviewRepo,
		notificationRepo: notificationRepo,
		reconciler:       reconciler,
		access:           newAccessChecker(teamRepo, reviewRepo),
	}
}

// Submit creates a new project in submitted state. When no team is given a
// single-member team is created for the principal.
func (s *ProjectService) Submit(principalID uint, name, description string, teamID uint) (*models.Project, error) {
	if name == "" {
		return nil, apperrors.Validation("project name is required")
	}

	if teamID != 0 {
		team, err := s.teamRepo.GetByID(teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team: %w", err)
		}
		if team == nil {
			return nil, apperrors.NotFound("team", teamID)
		}
		member, err := s.teamRepo.IsMember(teamID, principalID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if !member {
			return nil, apperrors.PermissionDenied("you are not a member of this team")
		}
	}

	project := &models.Project{
		Name:        name,
		Description: description,
		PrincipalID: principalID,
		Status:      models.StatusSubmitted,
	}
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		teamRepo := s.teamRepo.WithTx(tx)

		if teamID == 0 {
			team := &models.Team{
				Name:     name + " Team",
				LeaderID: principalID,
			}
			if err := teamRepo.Create(team); err != nil {
				return fmt.Errorf("failed to create team: %w", err)
			}
			if err := teamRepo.AddMember(team.ID, principalID, "leader"); err != nil {
				return fmt.Errorf("failed to add leader: %w", err)
			}
			teamID = team.ID
		}

		project.TeamID = teamID
		return s.projectRepo.WithTx(tx).Create(project)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Project submitted", "project_id", project.ID, "principal_id", principalID)
	return project, nil
}

// List retrieves the projects visible to the caller. Admins and secretaries
// see everything, reviewers their assignments, supporters the marketplace,
// participants their own and their teams' projects.
func (s *ProjectService) List(userID uint) ([]models.Project, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user", userID)
	}

	switch user.Role {
	case models.RoleAdmin, models.RoleSecretary:
		return s.projectRepo.List()
	case models.RoleReviewer:
		return s.projectRepo.ListByReviewer(userID)
	case models.RoleSupporter:
		return s.projectRepo.ListByStatuses(models.StatusIncubating, models.StatusPoCInProgress)
	default:
		teamIDs, err := s.teamRepo.TeamIDsByUser(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load teams: %w", err)
		}
		return s.projectRepo.ListByPrincipalOrTeams(userID, teamIDs)
	}
}

// Get retrieves a project, repairing a stale review status on the way. A
// project still sitting in a review state whose finalization conditions are
// already met is reconciled before being returned.
func (s *ProjectService) Get(userID, projectID uint) (*models.Project, error) {
	_, project, err := s.loadForAccess(userID, projectID)
	if err != nil {
		return nil, err
	}

	if models.ReviewableStatus(project.Status) {
		changed, err := s.reconciler.Reconcile(projectID)
		if err != nil {
			slog.Error("Failed to reconcile review status", "error", err, "project_id", projectID)
		} else if changed {
			project, err = s.projectRepo.GetByID(projectID)
			if err != nil {
				return nil, fmt.Errorf("failed to reload project: %w", err)
			}
			if project == nil {
				return nil, apperrors.NotFound("project", projectID)
			}
		}
	}
	return project, nil
}

// Audit records a screening decision. Accepting moves the project to peer
// review, rejecting is terminal. Only projects still in the screening window
// can be audited.
func (s *ProjectService) Audit(auditorID, projectID uint, decision, comment string) (*models.AuditRecord, error) {
	if decision != models.AuditDecisionAccept && decision != models.AuditDecisionReject {
		return nil, apperrors.Validation("decision must be accept or reject")
	}

	record := &models.AuditRecord{
		ProjectID: projectID,
		AuditorID: auditorID,
		Decision:  decision,
		Comment:   comment,
	}
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		projectRepo := s.projectRepo.WithTx(tx)

		project, err := projectRepo.GetByIDForUpdate(projectID)
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}
		if project == nil {
			return apperrors.NotFound("project", projectID)
		}
		if !models.AuditableStatus(project.Status) {
			return apperrors.Conflict("project is not awaiting screening")
		}

		target := models.StatusRejected
		if decision == models.AuditDecisionAccept {
			target = models.StatusPeerReview
		}
		if err := projectRepo.UpdateStatus(projectID, target); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		if err := s.auditRepo.WithTx(tx).Create(record); err != nil {
			return fmt.Errorf("failed to create audit record: %w", err)
		}

		outcome := "rejected during screening"
		if decision == models.AuditDecisionAccept {
			outcome = "accepted for peer review"
		}
		notification := &models.Notification{
			UserID:  project.PrincipalID,
			Content: fmt.Sprintf("Your project %q was %s.", project.Name, outcome),
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Project audited", "project_id", projectID, "decision", decision, "auditor_id", auditorID)
	return record, nil
}

// AuditTrail retrieves the screening decisions of a project
func (s *ProjectService) AuditTrail(projectID uint) ([]models.AuditRecord, error) {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}
	return s.auditRepo.ListByProject(projectID)
}

// AssignReviewer creates a review task for a reviewer on a project, with an
// optional deadline. Each reviewer is assigned at most once per project; the
// lifecycle state does not restrict assignment.
func (s *ProjectService) AssignReviewer(projectID, reviewerID uint, deadline *time.Time) (*models.ReviewTask, error) {
	reviewer, err := s.userRepo.GetByID(reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviewer: %w", err)
	}
	if reviewer == nil {
		return nil, apperrors.NotFound("user", reviewerID)
	}
	if reviewer.Role != models.RoleReviewer {
		return nil, apperrors.Validation("user %d is not a reviewer", reviewerID)
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}

	assigned, err := s.reviewRepo.TaskExists(projectID, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if assigned {
		return nil, apperrors.Conflict("reviewer is already assigned to this project")
	}

	task := &models.ReviewTask{
		ProjectID:  projectID,
		ReviewerID: reviewerID,
		Status:     models.ReviewTaskAssigned,
		Deadline:   deadline,
	}
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		if err := s.reviewRepo.WithTx(tx).CreateTask(task); err != nil {
			if database.IsUniqueViolation(err) {
				return apperrors.Conflict("reviewer is already assigned to this project")
			}
			return fmt.Errorf("failed to create review task: %w", err)
		}
		notification := &models.Notification{
			UserID:  reviewerID,
			Content: fmt.Sprintf("You have been assigned to review project %q.", project.Name),
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Reviewer assigned", "project_id", projectID, "reviewer_id", reviewerID)
	return task, nil
}

// UpdateStatus moves a project along the lifecycle. Only transitions listed
// in the transition table are allowed.
func (s *ProjectService) UpdateStatus(projectID uint, target models.ProjectStatus) (*models.Project, error) {
	if !models.ValidProjectStatus(target) {
		return nil, apperrors.Validation("unknown status: %s", target)
	}

	var project *models.Project
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		projectRepo := s.projectRepo.WithTx(tx)

		var err error
		project, err = projectRepo.GetByIDForUpdate(projectID)
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}
		if project == nil {
			return apperrors.NotFound("project", projectID)
		}
		if !models.CanTransition(project.Status, target) {
			return apperrors.Conflict("cannot move project from %s to %s", project.Status, target)
		}

		if err := projectRepo.UpdateStatus(projectID, target); err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		project.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// loadForAccess fetches the user and project and enforces read access
func (s *ProjectService) loadForAccess(userID, projectID uint) (*models.User, *models.Project, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil, apperrors.NotFound("user", userID)
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, nil, apperrors.NotFound("project", projectID)
	}

	allowed, err := s.access.canAccess(user, project)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check access: %w", err)
	}
	if !allowed {
		return nil, nil, apperrors.PermissionDenied("you cannot access this project")
	}
	return user, project, nil
}
