package service_test

import (
	"testing"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// TestUpsertStartsIncubationAndSeedsMilestones verifies the first write to an
// approved project moves it to incubating and creates the three default
// milestones exactly once.
func TestUpsertStartsIncubationAndSeedsMilestones(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Seed", f.Participant.ID)
	project := f.CreateProject(t, "Seed", f.Participant.ID, team.ID, models.StatusApproved)

	record, err := env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{
		Plan: strPtr("Build the prototype"),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if record.Plan != "Build the prototype" {
		t.Errorf("Expected plan to be stored, got %q", record.Plan)
	}

	var status models.ProjectStatus
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, project.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusIncubating {
		t.Errorf("Expected status %s, got %s", models.StatusIncubating, status)
	}

	milestones, err := env.incubationSvc.ListMilestones(f.Participant.ID, project.ID)
	if err != nil {
		t.Fatalf("Failed to list milestones: %v", err)
	}
	if len(milestones) != 3 {
		t.Fatalf("Expected 3 seeded milestones, got %d", len(milestones))
	}
	wantTitles := []string{"Prototype Validation", "Midterm Review", "Final Acceptance"}
	for i, m := range milestones {
		if m.Title != wantTitles[i] {
			t.Errorf("Milestone %d: expected title %q, got %q", i, wantTitles[i], m.Title)
		}
		if m.Status != models.MilestoneNotStarted {
			t.Errorf("Milestone %q: expected status %s, got %s", m.Title, models.MilestoneNotStarted, m.Status)
		}
	}

	// A second write must not seed again
	if _, err := env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{
		Progress: intPtr(10),
	}); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	milestones, err = env.incubationSvc.ListMilestones(f.Participant.ID, project.ID)
	if err != nil {
		t.Fatalf("Failed to list milestones: %v", err)
	}
	if len(milestones) != 3 {
		t.Errorf("Expected seeding to be idempotent, got %d milestones", len(milestones))
	}
}

// TestUpsertClampsProgress verifies progress is kept within [0,100]
func TestUpsertClampsProgress(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Clamp", f.Participant.ID)
	project := f.CreateProject(t, "Clamp", f.Participant.ID, team.ID, models.StatusIncubating)

	record, err := env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{
		Progress: intPtr(150),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if record.Progress != 100 {
		t.Errorf("Expected progress clamped to 100, got %d", record.Progress)
	}

	record, err = env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{
		Progress: intPtr(-5),
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if record.Progress != 0 {
		t.Errorf("Expected progress clamped to 0, got %d", record.Progress)
	}
}

// TestUpsertSparsePatchKeepsOtherFields verifies nil fields are untouched
func TestUpsertSparsePatchKeepsOtherFields(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Sparse", f.Participant.ID)
	project := f.CreateProject(t, "Sparse", f.Participant.ID, team.ID, models.StatusIncubating)

	if _, err := env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{
		Plan:     strPtr("Original plan"),
		Progress: intPtr(40),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	record, err := env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{
		Progress: intPtr(55),
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if record.Plan != "Original plan" {
		t.Errorf("Expected plan to survive a progress-only patch, got %q", record.Plan)
	}
	if record.Progress != 55 {
		t.Errorf("Expected progress 55, got %d", record.Progress)
	}
}

// TestUpsertRejectsWrongPhase verifies only approved/incubating/poc projects
// accept incubation writes.
func TestUpsertRejectsWrongPhase(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Phase", f.Participant.ID)
	project := f.CreateProject(t, "Phase", f.Participant.ID, team.ID, models.StatusSubmitted)

	_, err := env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{
		Plan: strPtr("too early"),
	})
	if !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict for submitted project, got %v", err)
	}
}

// TestCreatePoCMovesProject verifies starting a PoC advances the lifecycle
func TestCreatePoCMovesProject(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "PoC", f.Participant.ID)
	project := f.CreateProject(t, "PoC", f.Participant.ID, team.ID, models.StatusIncubating)

	poc, err := env.incubationSvc.CreatePoC(f.Participant.ID, project.ID, "Feasibility run", "first pass")
	if err != nil {
		t.Fatalf("CreatePoC failed: %v", err)
	}
	if poc.Status != models.PoCRunning {
		t.Errorf("Expected PoC status %s, got %s", models.PoCRunning, poc.Status)
	}

	var status models.ProjectStatus
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, project.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusPoCInProgress {
		t.Errorf("Expected status %s, got %s", models.StatusPoCInProgress, status)
	}

	// A second PoC from poc_in_progress keeps the status
	if _, err := env.incubationSvc.CreatePoC(f.Participant.ID, project.ID, "Second run", ""); err != nil {
		t.Fatalf("Second CreatePoC failed: %v", err)
	}

	// But a rejected project cannot start one
	dead := f.CreateProject(t, "Dead", f.Participant.ID, team.ID, models.StatusRejected)
	if _, err := env.incubationSvc.CreatePoC(f.Participant.ID, dead.ID, "Nope", ""); !apperrors.IsConflict(err) {
		t.Errorf("Expected conflict for rejected project, got %v", err)
	}
}

// TestIncubationWritesArePrincipalOnly verifies team membership does not
// grant incubation, milestone or PoC writes; only the principal and admins
// may make them. Expenditures stay open to team members.
func TestIncubationWritesArePrincipalOnly(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Owner", f.Participant.ID)
	project := f.CreateProject(t, "Owner", f.Participant.ID, team.ID, models.StatusIncubating)
	member := f.CreateUser(t, "teammate", models.RoleParticipant)
	f.AddTeamMember(t, team.ID, member.ID)

	if _, err := env.incubationSvc.Upsert(member.ID, project.ID, service.IncubationPatch{
		Plan: strPtr("hijacked plan"),
	}); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for member upsert, got %v", err)
	}
	if _, err := env.incubationSvc.CreatePoC(member.ID, project.ID, "Member run", ""); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for member PoC, got %v", err)
	}

	// The principal seeds the milestones, the member cannot touch them
	if _, err := env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{}); err != nil {
		t.Fatalf("Principal upsert failed: %v", err)
	}
	milestones, err := env.incubationSvc.ListMilestones(member.ID, project.ID)
	if err != nil {
		t.Fatalf("Member should still read milestones, got %v", err)
	}
	if _, err := env.incubationSvc.UpdateMilestone(member.ID, milestones[0].ID, service.MilestonePatch{
		Status: strPtr(models.MilestoneInProgress),
	}); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for member milestone update, got %v", err)
	}

	poc, err := env.incubationSvc.CreatePoC(f.Participant.ID, project.ID, "Owner run", "")
	if err != nil {
		t.Fatalf("Principal CreatePoC failed: %v", err)
	}
	if _, err := env.incubationSvc.UpdatePoC(member.ID, poc.ID, nil, strPtr(models.PoCCompleted), nil); !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for member PoC update, got %v", err)
	}

	// Admins are not restricted
	if _, err := env.incubationSvc.Upsert(f.AdminUser.ID, project.ID, service.IncubationPatch{
		Progress: intPtr(20),
	}); err != nil {
		t.Errorf("Admin upsert should succeed, got %v", err)
	}

	// Team members keep spending rights
	if _, err := env.fundSvc.RecordFund(project.ID, "Seed Grant", 100); err != nil {
		t.Fatalf("Failed to record fund: %v", err)
	}
	if _, err := env.fundSvc.RecordExpenditure(member.ID, project.ID, "Travel", 10); err != nil {
		t.Errorf("Member expenditure should succeed, got %v", err)
	}
}

// TestCompletingLastPoCFinishesIncubation verifies the project leaves
// poc_in_progress once no unfinished PoC runs remain.
func TestCompletingLastPoCFinishesIncubation(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Finish", f.Participant.ID)
	project := f.CreateProject(t, "Finish", f.Participant.ID, team.ID, models.StatusIncubating)

	first, err := env.incubationSvc.CreatePoC(f.Participant.ID, project.ID, "First run", "")
	if err != nil {
		t.Fatalf("CreatePoC failed: %v", err)
	}
	second, err := env.incubationSvc.CreatePoC(f.Participant.ID, project.ID, "Second run", "")
	if err != nil {
		t.Fatalf("CreatePoC failed: %v", err)
	}

	// Completing one of two keeps the project in poc_in_progress
	if _, err := env.incubationSvc.UpdatePoC(
		f.Participant.ID, first.ID, nil, strPtr(models.PoCCompleted), strPtr("worked"),
	); err != nil {
		t.Fatalf("UpdatePoC failed: %v", err)
	}
	var status models.ProjectStatus
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, project.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusPoCInProgress {
		t.Errorf("Expected status %s with a run still open, got %s", models.StatusPoCInProgress, status)
	}

	// Completing the last one finishes the incubation
	if _, err := env.incubationSvc.UpdatePoC(
		f.Participant.ID, second.ID, nil, strPtr(models.PoCCompleted), strPtr("also worked"),
	); err != nil {
		t.Fatalf("UpdatePoC failed: %v", err)
	}
	if err := env.db.QueryRow(`SELECT status FROM projects WHERE id = $1`, project.ID).Scan(&status); err != nil {
		t.Fatalf("Failed to read project: %v", err)
	}
	if status != models.StatusIncubationComplete {
		t.Errorf("Expected status %s, got %s", models.StatusIncubationComplete, status)
	}
}

// TestUpdateMilestoneValidation verifies status and date checks
func TestUpdateMilestoneValidation(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Miles", f.Participant.ID)
	project := f.CreateProject(t, "Miles", f.Participant.ID, team.ID, models.StatusIncubating)

	if _, err := env.incubationSvc.Upsert(f.Participant.ID, project.ID, service.IncubationPatch{}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	milestones, err := env.incubationSvc.ListMilestones(f.Participant.ID, project.ID)
	if err != nil {
		t.Fatalf("Failed to list milestones: %v", err)
	}

	updated, err := env.incubationSvc.UpdateMilestone(f.Participant.ID, milestones[0].ID, service.MilestonePatch{
		Status:      strPtr(models.MilestoneInProgress),
		Deliverable: strPtr("Demo video"),
	})
	if err != nil {
		t.Fatalf("UpdateMilestone failed: %v", err)
	}
	if updated.Status != models.MilestoneInProgress || updated.Deliverable != "Demo video" {
		t.Errorf("Unexpected milestone after patch: %+v", updated)
	}

	if _, err := env.incubationSvc.UpdateMilestone(f.Participant.ID, milestones[0].ID, service.MilestonePatch{
		Status: strPtr("paused"),
	}); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for unknown status, got %v", err)
	}
	if _, err := env.incubationSvc.UpdateMilestone(f.Participant.ID, milestones[0].ID, service.MilestonePatch{
		DueDate: strPtr("not-a-date"),
	}); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for bad date, got %v", err)
	}
}
