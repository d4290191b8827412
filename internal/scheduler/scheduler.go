package scheduler

import (
	"log/slog"
	"time"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/config"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// Scheduler handles periodic tasks. Its only job today is the review sweep,
// which finalizes projects whose review quorum was reached without a request
// ever triggering the reconciliation.
type Scheduler struct {
	projectRepo *repository.ProjectRepository
	reviewSvc   *service.ReviewService
	config      *config.SchedulerConfig
	stopChan    chan bool
}

// NewScheduler creates a new scheduler
func NewScheduler(
	projectRepo *repository.ProjectRepository,
	reviewSvc *service.ReviewService,
	cfg *config.SchedulerConfig,
) *Scheduler {
	return &Scheduler{
		projectRepo: projectRepo,
		reviewSvc:   reviewSvc,
		config:      cfg,
		stopChan:    make(chan bool),
	}
}

// Start starts all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler",
		"review_sweep_enabled", s.config.EnableReviewSweep,
		"review_sweep_interval", s.config.ReviewSweepInterval)

	if s.config.EnableReviewSweep {
		go s.scheduleIntervalTask(s.config.ReviewSweepInterval, "review_sweep", s.sweepReviews)
	}

	slog.Info("Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	slog.Info("Stopping scheduler")
	close(s.stopChan)
}

// scheduleIntervalTask runs a task at regular intervals, starting immediately
func (s *Scheduler) scheduleIntervalTask(interval time.Duration, taskName string, task func()) {
	slog.Info("Starting interval task", "task", taskName, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	task()

	for {
		select {
		case <-ticker.C:
			task()
		case <-s.stopChan:
			return
		}
	}
}

// sweepReviews reconciles every project still sitting in a review state
func (s *Scheduler) sweepReviews() {
	projects, err := s.projectRepo.ListByStatuses(models.StatusPeerReview, models.StatusPublicNotice)
	if err != nil {
		slog.Error("Failed to list projects for review sweep", "error", err)
		return
	}

	finalized := 0
	for _, project := range projects {
		changed, err := s.reviewSvc.Reconcile(project.ID)
		if err != nil {
			slog.Error("Failed to reconcile project", "error", err, "project_id", project.ID)
			continue
		}
		if changed {
			finalized++
		}
	}

	if finalized > 0 {
		slog.Info("Review sweep completed", "checked", len(projects), "finalized", finalized)
	}
}
