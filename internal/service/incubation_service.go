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

// Default milestones seeded when a project enters incubation, with due dates
// relative to the start.
var defaultMilestones = []struct {
	title  string
	offset time.Duration
}{
	{"Prototype Validation", 90 * 24 * time.Hour},
	{"Midterm Review", 180 * 24 * time.Hour},
	{"Final Acceptance", 365 * 24 * time.Hour},
}

// IncubationPatch carries the optional fields of an incubation update. Nil
// fields are left unchanged.
type IncubationPatch struct {
	Plan     *string
	Progress *int
}

// MilestonePatch carries the optional fields of a milestone update
type MilestonePatch struct {
	Status      *string
	Deliverable *string
	DueDate     *string
}

// IncubationService handles incubation records, milestones and PoC runs
type IncubationService struct {
	db             *sql.DB
	incubationRepo *repository.IncubationRepository
	milestoneRepo  *repository.MilestoneRepository
	pocRepo        *repository.PoCRepository
	projectRepo    *repository.ProjectRepository
	userRepo       *repository.UserRepository
	access         *accessChecker
}

// NewIncubationService creates a new incubation service
func NewIncubationService(
	db *sql.DB,
	incubationRepo *repository.IncubationRepository,
	milestoneRepo *repository.MilestoneRepository,
	pocRepo *repository.PoCRepository,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	teamRepo *repository.TeamRepository,
	reviewRepo *repository.ReviewRepository,
) *IncubationService {
	return &IncubationService{
		db:             db,
		incubationRepo: incubationRepo,
		milestoneRepo:  milestoneRepo,
		pocRepo:        pocRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		access:         newAccessChecker(teamRepo, reviewRepo),
	}
}

// Get retrieves the incubation record of a project
func (s *IncubationService) Get(userID, projectID uint) (*models.IncubationRecord, error) {
	if _, _, err := s.loadForAccess(userID, projectID); err != nil {
		return nil, err
	}

	record, err := s.incubationRepo.GetByProjectID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load incubation record: %w", err)
	}
	if record == nil {
		return nil, apperrors.NotFound("incubation record", 0)
	}
	return record, nil
}

// Upsert creates or patches the incubation record of a project. An approved
// project is moved to incubating and receives the default milestones on the
// first write. Progress is clamped to [0,100].
func (s *IncubationService) Upsert(userID, projectID uint, patch IncubationPatch) (*models.IncubationRecord, error) {
	_, project, err := s.loadForManage(userID, projectID)
	if err != nil {
		return nil, err
	}

	if !models.IncubationStatus(project.Status) {
		return nil, apperrors.Conflict("project is not in an incubation phase")
	}

	var record *models.IncubationRecord
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		projectRepo := s.projectRepo.WithTx(tx)
		incubationRepo := s.incubationRepo.WithTx(tx)
		milestoneRepo := s.milestoneRepo.WithTx(tx)

		locked, err := projectRepo.GetByIDForUpdate(projectID)
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}
		if locked == nil {
			return apperrors.NotFound("project", projectID)
		}
		if !models.IncubationStatus(locked.Status) {
			return apperrors.Conflict("project is not in an incubation phase")
		}

		if locked.Status == models.StatusApproved {
			if err := projectRepo.UpdateStatus(projectID, models.StatusIncubating); err != nil {
				return fmt.Errorf("failed to start incubation: %w", err)
			}
		}

		if err := s.seedMilestones(milestoneRepo, projectID); err != nil {
			return err
		}

		record, err = incubationRepo.GetByProjectID(projectID)
		if err != nil {
			return fmt.Errorf("failed to load incubation record: %w", err)
		}
		if record == nil {
			record = &models.IncubationRecord{ProjectID: projectID}
			applyIncubationPatch(record, patch)
			return incubationRepo.Create(record)
		}

		applyIncubationPatch(record, patch)
		return incubationRepo.Update(record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func applyIncubationPatch(record *models.IncubationRecord, patch IncubationPatch) {
	if patch.Plan != nil {
		record.Plan = *patch.Plan
	}
	if patch.Progress != nil {
		record.Progress = min(100, max(0, *patch.Progress))
	}
}

// seedMilestones creates the default milestones once per project
func (s *IncubationService) seedMilestones(milestoneRepo *repository.MilestoneRepository, projectID uint) error {
	count, err := milestoneRepo.CountByProject(projectID)
	if err != nil {
		return fmt.Errorf("failed to count milestones: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for _, m := range defaultMilestones {
		milestone := &models.Milestone{
			ProjectID: projectID,
			Title:     m.title,
			DueDate:   now.Add(m.offset),
			Status:    models.MilestoneNotStarted,
		}
		if err := milestoneRepo.Create(milestone); err != nil {
			return fmt.Errorf("failed to seed milestone %q: %w", m.title, err)
		}
	}
	slog.Info("Default milestones seeded", "project_id", projectID)
	return nil
}

// ListMilestones retrieves the milestones of a project ordered by due date
func (s *IncubationService) ListMilestones(userID, projectID uint) ([]models.Milestone, error) {
	if _, _, err := s.loadForAccess(userID, projectID); err != nil {
		return nil, err
	}
	return s.milestoneRepo.ListByProject(projectID)
}

// UpdateMilestone patches a milestone. Nil fields are left unchanged.
func (s *IncubationService) UpdateMilestone(userID, milestoneID uint, patch MilestonePatch) (*models.Milestone, error) {
	milestone, err := s.milestoneRepo.GetByID(milestoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to load milestone: %w", err)
	}
	if milestone == nil {
		return nil, apperrors.NotFound("milestone", milestoneID)
	}

	if _, _, err := s.loadForManage(userID, milestone.ProjectID); err != nil {
		return nil, err
	}

	if patch.Status != nil {
		if !models.ValidMilestoneStatus(*patch.Status) {
			return nil, apperrors.Validation("invalid milestone status: %s", *patch.Status)
		}
		milestone.Status = *patch.Status
	}
	if patch.Deliverable != nil {
		milestone.Deliverable = *patch.Deliverable
	}
	if patch.DueDate != nil {
		due, err := time.Parse("2006-01-02", *patch.DueDate)
		if err != nil {
			return nil, apperrors.Validation("due date must be formatted YYYY-MM-DD")
		}
		milestone.DueDate = due
	}

	if err := s.milestoneRepo.Update(milestone); err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
	return milestone, nil
}

// CreatePoC starts a proof of concept run and moves the project to
// poc_in_progress.
func (s *IncubationService) CreatePoC(userID, projectID uint, title, description string) (*models.ProofOfConcept, error) {
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if _, _, err := s.loadForManage(userID, projectID); err != nil {
		return nil, err
	}

	poc := &models.ProofOfConcept{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      models.PoCRunning,
	}
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		projectRepo := s.projectRepo.WithTx(tx)

		locked, err := projectRepo.GetByIDForUpdate(projectID)
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}
		if locked == nil {
			return apperrors.NotFound("project", projectID)
		}

		if locked.Status != models.StatusPoCInProgress {
			if !models.CanTransition(locked.Status, models.StatusPoCInProgress) {
				return apperrors.Conflict("project cannot start a PoC from %s", locked.Status)
			}
			if err := projectRepo.UpdateStatus(projectID, models.StatusPoCInProgress); err != nil {
				return fmt.Errorf("failed to update status: %w", err)
			}
		}
		return s.pocRepo.WithTx(tx).Create(poc)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("PoC started", "project_id", projectID, "poc_id", poc.ID)
	return poc, nil
}

// ListPoCs retrieves the PoC runs of a project
func (s *IncubationService) ListPoCs(userID, projectID uint) ([]models.ProofOfConcept, error) {
	if _, _, err := s.loadForAccess(userID, projectID); err != nil {
		return nil, err
	}
	return s.pocRepo.ListByProject(projectID)
}

// UpdatePoC patches a PoC run's description, status and result. Completing
// the last running PoC finishes the incubation: the project moves from
// poc_in_progress to incubation_complete.
func (s *IncubationService) UpdatePoC(userID, pocID uint, description, status, result *string) (*models.ProofOfConcept, error) {
	if status != nil && *status != models.PoCRunning && *status != models.PoCCompleted {
		return nil, apperrors.Validation("invalid PoC status: %s", *status)
	}

	poc, err := s.pocRepo.GetByID(pocID)
	if err != nil {
		return nil, fmt.Errorf("failed to load PoC: %w", err)
	}
	if poc == nil {
		return nil, apperrors.NotFound("proof of concept", pocID)
	}

	if _, _, err := s.loadForManage(userID, poc.ProjectID); err != nil {
		return nil, err
	}

	if status != nil {
		poc.Status = *status
	}
	if description != nil {
		poc.Description = *description
	}
	if result != nil {
		poc.Result = *result
	}

	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		projectRepo := s.projectRepo.WithTx(tx)
		pocRepo := s.pocRepo.WithTx(tx)

		locked, err := projectRepo.GetByIDForUpdate(poc.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}
		if locked == nil {
			return apperrors.NotFound("project", poc.ProjectID)
		}

		if err := pocRepo.Update(poc); err != nil {
			return fmt.Errorf("failed to update PoC: %w", err)
		}

		if poc.Status != models.PoCCompleted || locked.Status != models.StatusPoCInProgress {
			return nil
		}
		unfinished, err := pocRepo.CountUnfinished(poc.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to count running PoCs: %w", err)
		}
		if unfinished > 0 {
			return nil
		}
		if err := projectRepo.UpdateStatus(poc.ProjectID, models.StatusIncubationComplete); err != nil {
			return fmt.Errorf("failed to complete incubation: %w", err)
		}
		slog.Info("Incubation completed", "project_id", poc.ProjectID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poc, nil
}

func (s *IncubationService) loadForAccess(userID, projectID uint) (*models.User, *models.Project, error) {
	return s.load(userID, projectID, s.access.canAccess, "you cannot access this project")
}

// loadForManage guards the owner-only writes. Team membership is not enough
// to change incubation data.
func (s *IncubationService) loadForManage(userID, projectID uint) (*models.User, *models.Project, error) {
	return s.load(userID, projectID, s.access.canManage, "only the project principal can modify this project")
}

func (s *IncubationService) load(
	userID, projectID uint,
	check func(*models.User, *models.Project) (bool, error),
	denied string,
) (*models.User, *models.Project, error) {
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

	allowed, err := check(user, project)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check access: %w", err)
	}
	if !allowed {
		return nil, nil, apperrors.PermissionDenied("%s", denied)
	}
	return user, project, nil
}
