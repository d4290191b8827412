package service_test

import (
	"testing"
	"time"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// TestSubmitCreatesTeamWhenMissing verifies a single-member team is created
// for principals who submit without one.
func TestSubmitCreatesTeamWhenMissing(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	project, err := env.projectSvc.Submit(f.Participant.ID, "Solo Project", "a description", 0)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if project.Status != models.StatusSubmitted {
		t.Errorf("Expected status %s, got %s", models.StatusSubmitted, project.Status)
	}
	if project.TeamID == 0 {
		t.Fatal("Expected a team to be created")
	}

	var name string
	var leaderID uint
	err = env.db.QueryRow(`SELECT name, leader_id FROM teams WHERE id = $1`, project.TeamID).Scan(&name, &leaderID)
	if err != nil {
		t.Fatalf("Failed to read team: %v", err)
	}
	if leaderID != f.Participant.ID {
		t.Errorf("Expected principal to lead the team, got leader %d", leaderID)
	}

	var count int
	err = env.db.QueryRow(
		`SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND user_id = $2`,
		project.TeamID, f.Participant.ID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to read membership: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected the principal to be a team member")
	}
}

// TestAuditDecisions verifies the screening outcomes and their guard
func TestAuditDecisions(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Audit", f.Participant.ID)
	accepted := f.CreateProject(t, "Accepted", f.Participant.ID, team.ID, models.StatusSubmitted)
	rejected := f.CreateProject(t, "Rejected", f.Participant.ID, team.ID, models.StatusScreening)

	record, err := env.projectSvc.Audit(f.SecretaryUser.ID, accepted.ID, models.AuditDecisionAccept, "looks good")
	if err != nil {
		t.Fatalf("Audit accept failed: %v", err)
	}
	if record.Decision != models.AuditDecisionAccept {
		t.Errorf("Expected decision accept, got %s", record.Decision)
	}

	var status models.ProjectStatus
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, accepted.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusPeerReview {
		t.Errorf("Expected status %s after accept, got %s", models.StatusPeerReview, status)
	}

	if _, err := env.projectSvc.Audit(f.SecretaryUser.ID, rejected.ID, models.AuditDecisionReject, "out of scope"); err != nil {
		t.Fatalf("Audit reject failed: %v", err)
	}
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, rejected.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusRejected {
		t.Errorf("Expected status %s after reject, got %s", models.StatusRejected, status)
	}

	// The principal is told about each decision
	if n := env.notificationCount(t, f.Participant.ID); n != 2 {
		t.Errorf("Expected 2 notifications, got %d", n)
	}

	// A finalized project cannot be audited again
	if _, err := env.projectSvc.Audit(f.SecretaryUser.ID, rejected.ID, models.AuditDecisionAccept, ""); !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict when auditing a rejected project, got %v", err)
	}
	if _, err := env.projectSvc.Audit(f.SecretaryUser.ID, accepted.ID, models.AuditDecisionReject, ""); !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict when auditing past screening, got %v", err)
	}

	trail, err := env.projectSvc.AuditTrail(accepted.ID)
	if err != nil {
		t.Fatalf("AuditTrail failed: %v", err)
	}
	if len(trail) != 1 {
		t.Errorf("Expected 1 audit record, got %d", len(trail))
	}
}

// TestAssignReviewerGuards verifies role and duplicate checks
func TestAssignReviewerGuards(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Assign", f.Participant.ID)
	project := f.CreateProject(t, "Assign", f.Participant.ID, team.ID, models.StatusPeerReview)
	reviewer := f.ReviewerUsers[0]

	task, err := env.projectSvc.AssignReviewer(project.ID, reviewer.ID, nil)
	if err != nil {
		t.Fatalf("AssignReviewer failed: %v", err)
	}
	if task.Status != models.ReviewTaskAssigned {
		t.Errorf("Expected task status %s, got %s", models.ReviewTaskAssigned, task.Status)
	}
	if task.Deadline != nil {
		t.Errorf("Expected no deadline, got %v", task.Deadline)
	}
	if n := env.notificationCount(t, reviewer.ID); n != 1 {
		t.Errorf("Expected the reviewer to be notified, got %d notifications", n)
	}

	if _, err := env.projectSvc.AssignReviewer(project.ID, reviewer.ID, nil); !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict on duplicate assignment, got %v", err)
	}
	if _, err := env.projectSvc.AssignReviewer(project.ID, f.Participant.ID, nil); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for non-reviewer, got %v", err)
	}

	// Assignment is not tied to the lifecycle state
	done := f.CreateProject(t, "Done", f.Participant.ID, team.ID, models.StatusApproved)
	if _, err := env.projectSvc.AssignReviewer(done.ID, f.ReviewerUsers[1].ID, nil); err != nil {
		t.Errorf("Assignment to an approved project should succeed, got %v", err)
	}
}

// TestAssignReviewerStoresDeadline verifies the optional deadline is persisted
// and shown to the reviewer with their tasks.
func TestAssignReviewerStoresDeadline(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Deadline", f.Participant.ID)
	project := f.CreateProject(t, "Deadline", f.Participant.ID, team.ID, models.StatusPeerReview)
	reviewer := f.ReviewerUsers[0]

	due := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	task, err := env.projectSvc.AssignReviewer(project.ID, reviewer.ID, &due)
	if err != nil {
		t.Fatalf("AssignReviewer failed: %v", err)
	}
	if task.Deadline == nil || !task.Deadline.Equal(due) {
		t.Errorf("Expected deadline %v on the task, got %v", due, task.Deadline)
	}

	tasks, err := env.reviewSvc.MyTasks(reviewer.ID)
	if err != nil {
		t.Fatalf("MyTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Deadline == nil || !tasks[0].Deadline.Equal(due) {
		t.Errorf("Expected deadline %v in task listing, got %v", due, tasks[0].Deadline)
	}
}

// TestGetEnforcesAccess verifies unrelated participants are rejected while
// admins and team members are not.
func TestGetEnforcesAccess(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Access", f.Participant.ID)
	project := f.CreateProject(t, "Access", f.Participant.ID, team.ID, models.StatusSubmitted)
	outsider := f.CreateUser(t, "stranger", models.RoleParticipant)

	if _, err := env.projectSvc.Get(outsider.ID, project.ID); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for outsider, got %v", err)
	}
	if _, err := env.projectSvc.Get(f.Participant.ID, project.ID); err != nil {
		t.Errorf("Principal should access their project, got %v", err)
	}
	if _, err := env.projectSvc.Get(f.AdminUser.ID, project.ID); err != nil {
		t.Errorf("Admin should access any project, got %v", err)
	}

	// Supporters only see marketplace-visible projects
	if _, err := env.projectSvc.Get(f.SupporterUser.ID, project.ID); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for supporter on submitted project, got %v", err)
	}
	visible := f.CreateProject(t, "Visible", f.Participant.ID, team.ID, models.StatusIncubating)
	if _, err := env.projectSvc.Get(f.SupporterUser.ID, visible.ID); err != nil {
		t.Errorf("Supporter should access incubating project, got %v", err)
	}
}

// TestUpdateStatusFollowsTransitionTable verifies only listed moves pass
func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Moves", f.Participant.ID)
	project := f.CreateProject(t, "Moves", f.Participant.ID, team.ID, models.StatusPeerReview)

	updated, err := env.projectSvc.UpdateStatus(project.ID, models.StatusPublicNotice)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.StatusPublicNotice {
		t.Errorf("Expected status %s, got %s", models.StatusPublicNotice, updated.Status)
	}

	if _, err := env.projectSvc.UpdateStatus(project.ID, models.StatusIncubating); !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict for skipped transition, got %v", err)
	}
	if _, err := env.projectSvc.UpdateStatus(project.ID, "archived"); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for unknown status, got %v", err)
	}

	terminal := f.CreateProject(t, "Terminal", f.Participant.ID, team.ID, models.StatusRejected)
	if _, err := env.projectSvc.UpdateStatus(terminal.ID, models.StatusSubmitted); !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict when leaving a terminal state, got %v", err)
	}
}

// TestListScopesByRole verifies the per-role project listing
func TestListScopesByRole(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Scope", f.Participant.ID)
	mine := f.CreateProject(t, "Mine", f.Participant.ID, team.ID, models.StatusSubmitted)
	other := f.CreateUser(t, "other", models.RoleParticipant)
	otherTeam := f.CreateTeam(t, "Other", other.ID)
	theirs := f.CreateProject(t, "Theirs", other.ID, otherTeam.ID, models.StatusIncubating)

	projects, err := env.projectSvc.List(f.Participant.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != mine.ID {
		t.Errorf("Participant should only see their own project, got %d", len(projects))
	}

	projects, err = env.projectSvc.List(f.SecretaryUser.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("Secretary should see all projects, got %d", len(projects))
	}

	projects, err = env.projectSvc.List(f.SupporterUser.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != theirs.ID {
		t.Errorf("Supporter should only see marketplace projects, got %d", len(projects))
	}

	reviewer := f.ReviewerUsers[0]
	f.CreateReviewTask(t, mine.ID, reviewer.ID)
	projects, err = env.projectSvc.List(reviewer.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != mine.ID {
		t.Errorf("Reviewer should only see assigned projects, got %d", len(projects))
	}
}
