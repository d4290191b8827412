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

// Review finalization thresholds. A project needs at least reviewQuorum
// completed tasks, and the mean total score over all opinions must exceed
// passingScore to be approved.
const (
	reviewQuorum = 3
	passingScore = 60.0
)

// Each review dimension is scored within these bounds. The total is the sum
// of the four dimensions and is not bounded separately.
const (
	minSubScore = 0.0
	maxSubScore = 100.0
)

// ReviewScores carries the four scored dimensions of a review
type ReviewScores struct {
	Innovation   float64
	Feasibility  float64
	Potentiality float64
	Teamwork     float64
}

// Total returns the derived total score
func (s ReviewScores) Total() float64 {
	return s.Innovation + s.Feasibility + s.Potentiality + s.Teamwork
}

func (s ReviewScores) validate() error {
	for _, dim := range []struct {
		name  string
		score float64
	}{
		{"innovation", s.Innovation},
		{"feasibility", s.Feasibility},
		{"potentiality", s.Potentiality},
		{"teamwork", s.Teamwork},
	} {
		if dim.score < minSubScore || dim.score > maxSubScore {
			return apperrors.Validation("%s score must be between 0 and 100", dim.name)
		}
	}
	return nil
}

// ReviewService handles review tasks, opinions and the automatic
// finalization of the peer review phase.
type ReviewService struct {
	db               *sql.DB
	reviewRepo       *repository.ReviewRepository
	projectRepo      *repository.ProjectRepository
	notificationRepo *repository.NotificationRepository
}

// NewReviewService creates a new review service
func NewReviewService(
	db *sql.DB,
	reviewRepo *repository.ReviewRepository,
	projectRepo *repository.ProjectRepository,
	notificationRepo *repository.NotificationRepository,
) *ReviewService {
	return &ReviewService{
		db:               db,
		reviewRepo:       reviewRepo,
		projectRepo:      projectRepo,
		notificationRepo: notificationRepo,
	}
}

// MyTasks retrieves the caller's review tasks with project details
func (s *ReviewService) MyTasks(reviewerID uint) ([]models.ReviewTaskWithProject, error) {
	return s.reviewRepo.ListTasksByReviewer(reviewerID)
}

// ProjectOpinions retrieves all submitted opinions for a project
func (s *ReviewService) ProjectOpinions(projectID uint) ([]models.ReviewOpinion, error) {
	return s.reviewRepo.ListOpinionsByProject(projectID)
}

// Submit records a review opinion and completes the task. The total score is
// derived as the sum of the four dimension scores. Each task accepts exactly
// one submission. Afterwards the project is reconciled, which may finalize
// the review phase.
func (s *ReviewService) Submit(reviewerID, taskID uint, scores ReviewScores, comment string) (*models.ReviewOpinion, error) {
	if err := scores.validate(); err != nil {
		return nil, err
	}

	task, err := s.reviewRepo.GetTaskByID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review task: %w", err)
	}
	if task == nil {
		return nil, apperrors.NotFound("review task", taskID)
	}
	if task.ReviewerID != reviewerID {
		return nil, apperrors.PermissionDenied("review task belongs to another reviewer")
	}

	opinion := &models.ReviewOpinion{
		TaskID:            taskID,
		InnovationScore:   scores.Innovation,
		FeasibilityScore:  scores.Feasibility,
		PotentialityScore: scores.Potentiality,
		TeamworkScore:     scores.Teamwork,
		TotalScore:        scores.Total(),
		Comment:           comment,
	}
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		done, err := s.reviewRepo.WithTx(tx).MarkTaskDone(taskID)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		if !done {
			return apperrors.Conflict("review already submitted for this task")
		}
		return s.reviewRepo.WithTx(tx).CreateOpinion(opinion)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Reconcile(task.ProjectID); err != nil {
		slog.Error("Failed to reconcile review status", "error", err, "project_id", task.ProjectID)
	}
	return opinion, nil
}

// Reconcile finalizes the review phase of a project once the quorum is
// reached. The project is locked for the duration of the decision, and the
// status flip is guarded so that exactly one caller performs the transition
// and sends the notification to the principal. Safe to call at any time.
func (s *ReviewService) Reconcile(projectID uint) (bool, error) {
	var finalized bool
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		projectRepo := s.projectRepo.WithTx(tx)
		reviewRepo := s.reviewRepo.WithTx(tx)

		project, err := projectRepo.GetByIDForUpdate(projectID)
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}
		if project == nil || !models.ReviewableStatus(project.Status) {
			return nil
		}

		doneCount, err := reviewRepo.CountDoneTasks(projectID)
		if err != nil {
			return fmt.Errorf("failed to count completed tasks: %w", err)
		}
		if doneCount < reviewQuorum {
			return nil
		}

		avg, ok, err := reviewRepo.AverageScore(projectID)
		if err != nil {
			return fmt.Errorf("failed to compute average score: %w", err)
		}
		if !ok {
			return nil
		}

		target := models.StatusReviewFailed
		if avg > passingScore {
			target = models.StatusApproved
		}

		changed, err := projectRepo.CompareAndSetStatus(
			projectID,
			[]models.ProjectStatus{models.StatusPeerReview, models.StatusPublicNotice},
			target,
			&avg,
		)
		if err != nil {
			return fmt.Errorf("failed to finalize review: %w", err)
		}
		if !changed {
			return nil
		}

		finalized = true
		outcome := "did not pass peer review"
		if target == models.StatusApproved {
			outcome = "was approved"
		}
		notification := &models.Notification{
			UserID:  project.PrincipalID,
			Content: fmt.Sprintf("Your project %q %s (average score %.2f).", project.Name, outcome, avg),
		}
		if err := s.notificationRepo.WithTx(tx).Create(notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}

		slog.Info("Review finalized", "project_id", projectID, "status", target, "average_score", avg)
		return nil
	})
	return finalized, err
}
