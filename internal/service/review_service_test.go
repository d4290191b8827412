package service_test

import (
	"math"
	"testing"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

// TestReviewFinalizationApproves verifies that once three reviewers have
// submitted, the project is approved when the mean total score exceeds 60.
func TestReviewFinalizationApproves(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Alpha", f.Participant.ID)
	project := f.CreateProject(t, "Alpha", f.Participant.ID, team.ID, models.StatusPeerReview)

	// Totals 70, 65 and 50, a mean of 61.67
	scores := []service.ReviewScores{
		{Innovation: 40, Feasibility: 20, Potentiality: 5, Teamwork: 5},
		{Innovation: 30, Feasibility: 20, Potentiality: 10, Teamwork: 5},
		{Innovation: 20, Feasibility: 15, Potentiality: 10, Teamwork: 5},
	}
	for i, reviewer := range f.ReviewerUsers {
		task := f.CreateReviewTask(t, project.ID, reviewer.ID)
		if _, err := env.reviewSvc.Submit(reviewer.ID, task.ID, scores[i], "ok"); err != nil {
			t.Fatalf("Failed to submit opinion: %v", err)
		}
	}

	var status models.ProjectStatus
	var score *float64
	err := env.db.QueryRow(
		`SELECT status, review_score FROM projects WHERE id = $1`, project.ID,
	).Scan(&status, &score)
	if err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}

	if status != models.StatusApproved {
		t.Errorf("Expected status %s, got %s", models.StatusApproved, status)
	}
	if score == nil {
		t.Fatal("Expected review score to be stored")
	}
	if math.Abs(*score-61.666666) > 0.001 {
		t.Errorf("Expected review score near 61.67, got %f", *score)
	}
	if n := env.notificationCount(t, f.Participant.ID); n != 1 {
		t.Errorf("Expected exactly 1 notification to the principal, got %d", n)
	}
}

// TestReviewFinalizationExactSixtyFails verifies the strict >60 threshold:
// a mean of exactly 60 is a failure.
func TestReviewFinalizationExactSixtyFails(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Beta", f.Participant.ID)
	project := f.CreateProject(t, "Beta", f.Participant.ID, team.ID, models.StatusPeerReview)

	for _, reviewer := range f.ReviewerUsers {
		task := f.CreateReviewTask(t, project.ID, reviewer.ID)
		scores := service.ReviewScores{Innovation: 15, Feasibility: 15, Potentiality: 15, Teamwork: 15}
		if _, err := env.reviewSvc.Submit(reviewer.ID, task.ID, scores, ""); err != nil {
			t.Fatalf("Failed to submit opinion: %v", err)
		}
	}

	var status models.ProjectStatus
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, project.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusReviewFailed {
		t.Errorf("Expected status %s, got %s", models.StatusReviewFailed, status)
	}
}

// TestReviewBelowQuorumDoesNotFinalize verifies nothing happens before three
// tasks are done.
func TestReviewBelowQuorumDoesNotFinalize(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Gamma", f.Participant.ID)
	project := f.CreateProject(t, "Gamma", f.Participant.ID, team.ID, models.StatusPeerReview)

	for _, reviewer := range f.ReviewerUsers[:2] {
		task := f.CreateReviewTask(t, project.ID, reviewer.ID)
		scores := service.ReviewScores{Innovation: 30, Feasibility: 25, Potentiality: 20, Teamwork: 15}
		if _, err := env.reviewSvc.Submit(reviewer.ID, task.ID, scores, ""); err != nil {
			t.Fatalf("Failed to submit opinion: %v", err)
		}
	}

	var status models.ProjectStatus
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, project.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusPeerReview {
		t.Errorf("Expected status %s, got %s", models.StatusPeerReview, status)
	}
	if n := env.notificationCount(t, f.Participant.ID); n != 0 {
		t.Errorf("Expected no notifications before quorum, got %d", n)
	}
}

// TestReviewReconcileIdempotent verifies that reconciling a finalized project
// again changes nothing and sends no second notification.
func TestReviewReconcileIdempotent(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Delta", f.Participant.ID)
	project := f.CreateProject(t, "Delta", f.Participant.ID, team.ID, models.StatusPeerReview)

	for _, reviewer := range f.ReviewerUsers {
		task := f.CreateReviewTask(t, project.ID, reviewer.ID)
		scores := service.ReviewScores{Innovation: 20, Feasibility: 20, Potentiality: 20, Teamwork: 20}
		if _, err := env.reviewSvc.Submit(reviewer.ID, task.ID, scores, ""); err != nil {
			t.Fatalf("Failed to submit opinion: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		changed, err := env.reviewSvc.Reconcile(project.ID)
		if err != nil {
			t.Fatalf("Reconcile failed: %v", err)
		}
		if changed {
			t.Errorf("Reconcile run %d should not change a finalized project", i+1)
		}
	}
	if n := env.notificationCount(t, f.Participant.ID); n != 1 {
		t.Errorf("Expected exactly 1 notification, got %d", n)
	}
}

// TestSubmitRejectsDuplicateOpinion verifies each task accepts one submission
func TestSubmitRejectsDuplicateOpinion(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Epsilon", f.Participant.ID)
	project := f.CreateProject(t, "Epsilon", f.Participant.ID, team.ID, models.StatusPeerReview)
	reviewer := f.ReviewerUsers[0]
	task := f.CreateReviewTask(t, project.ID, reviewer.ID)

	first := service.ReviewScores{Innovation: 25, Feasibility: 20, Potentiality: 15, Teamwork: 15}
	if _, err := env.reviewSvc.Submit(reviewer.ID, task.ID, first, "first"); err != nil {
		t.Fatalf("First submission failed: %v", err)
	}
	second := service.ReviewScores{Innovation: 20, Feasibility: 20, Potentiality: 20, Teamwork: 20}
	_, err := env.reviewSvc.Submit(reviewer.ID, task.ID, second, "second")
	if !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict on duplicate submission, got %v", err)
	}
}

// TestSubmitValidatesScoreRange verifies the per-dimension bounds and task
// ownership. Each of the four dimension scores must be within [0,100].
func TestSubmitValidatesScoreRange(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Zeta", f.Participant.ID)
	project := f.CreateProject(t, "Zeta", f.Participant.ID, team.ID, models.StatusPeerReview)
	task := f.CreateReviewTask(t, project.ID, f.ReviewerUsers[0].ID)

	over := service.ReviewScores{Innovation: 101, Feasibility: 50, Potentiality: 50, Teamwork: 50}
	if _, err := env.reviewSvc.Submit(f.ReviewerUsers[0].ID, task.ID, over, ""); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for innovation score 101, got %v", err)
	}
	under := service.ReviewScores{Innovation: 50, Feasibility: 50, Potentiality: 50, Teamwork: -1}
	if _, err := env.reviewSvc.Submit(f.ReviewerUsers[0].ID, task.ID, under, ""); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for teamwork score -1, got %v", err)
	}
	ok := service.ReviewScores{Innovation: 20, Feasibility: 20, Potentiality: 20, Teamwork: 20}
	if _, err := env.reviewSvc.Submit(f.ReviewerUsers[1].ID, task.ID, ok, ""); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for foreign task, got %v", err)
	}
}

// TestSubmitStoresDimensionsAndSum verifies the four dimension scores are
// persisted and the total is their sum. Totals above 100 are legitimate since
// each dimension ranges to 100 on its own.
func TestSubmitStoresDimensionsAndSum(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Theta", f.Participant.ID)
	project := f.CreateProject(t, "Theta", f.Participant.ID, team.ID, models.StatusPeerReview)

	for _, reviewer := range f.ReviewerUsers {
		task := f.CreateReviewTask(t, project.ID, reviewer.ID)
		scores := service.ReviewScores{Innovation: 60, Feasibility: 60, Potentiality: 60, Teamwork: 60}
		opinion, err := env.reviewSvc.Submit(reviewer.ID, task.ID, scores, "strong across the board")
		if err != nil {
			t.Fatalf("Failed to submit opinion: %v", err)
		}
		if opinion.TotalScore != 240 {
			t.Errorf("Expected total score 240, got %f", opinion.TotalScore)
		}
		if opinion.InnovationScore != 60 || opinion.FeasibilityScore != 60 ||
			opinion.PotentialityScore != 60 || opinion.TeamworkScore != 60 {
			t.Errorf("Dimension scores not stored as submitted: %+v", opinion)
		}
	}

	var stored float64
	err := env.db.QueryRow(`
		SELECT ro.total_score FROM review_opinions ro
		JOIN review_tasks rt ON rt.id = ro.task_id
		WHERE rt.project_id = $1
		LIMIT 1
	`, project.ID).Scan(&stored)
	if err != nil {
		t.Fatalf("Failed to read opinion: %v", err)
	}
	if stored != 240 {
		t.Errorf("Expected stored total 240, got %f", stored)
	}

	// A mean of 240 clears the 60 threshold, so quorum approves the project
	var status models.ProjectStatus
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, project.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusApproved {
		t.Errorf("Expected status %s, got %s", models.StatusApproved, status)
	}
}

// TestGetRepairsStaleReviewStatus verifies the read path finalizes a project
// whose quorum was reached without the reconciliation ever running.
func TestGetRepairsStaleReviewStatus(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Eta", f.Participant.ID)
	project := f.CreateProject(t, "Eta", f.Participant.ID, team.ID, models.StatusPeerReview)

	// Completed tasks and opinions written directly, bypassing the service
	for _, reviewer := range f.ReviewerUsers {
		var taskID uint
		err := env.db.QueryRow(`
			INSERT INTO review_tasks (project_id, reviewer_id, status)
			VALUES ($1, $2, $3)
			RETURNING id
		`, project.ID, reviewer.ID, models.ReviewTaskDone).Scan(&taskID)
		if err != nil {
			t.Fatalf("Failed to create task: %v", err)
		}
		if _, err := env.db.Exec(`
			INSERT INTO review_opinions (task_id, total_score, comment)
			VALUES ($1, $2, '')
		`, taskID, 85.0); err != nil {
			t.Fatalf("Failed to create opinion: %v", err)
		}
	}

	got, err := env.projectSvc.Get(f.Participant.ID, project.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Errorf("Expected repaired status %s, got %s", models.StatusApproved, got.Status)
	}
	if n := env.notificationCount(t, f.Participant.ID); n != 1 {
		t.Errorf("Expected exactly 1 notification, got %d", n)
	}
}
