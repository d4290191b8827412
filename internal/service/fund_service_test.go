package service_test

import (
	"testing"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// TestFundsAccumulateByTitle verifies that allocations with the same title
// collapse into a single accumulating row.
func TestFundsAccumulateByTitle(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Funds", f.Participant.ID)
	project := f.CreateProject(t, "Funds", f.Participant.ID, team.ID, models.StatusIncubating)

	if _, err := env.fundSvc.RecordFund(project.ID, "Seed Grant", 1000); err != nil {
		t.Fatalf("Failed to record fund: %v", err)
	}
	if _, err := env.fundSvc.RecordFund(project.ID, "Seed Grant", 500); err != nil {
		t.Fatalf("Failed to record fund: %v", err)
	}
	if _, err := env.fundSvc.RecordFund(project.ID, "Equipment", 200); err != nil {
		t.Fatalf("Failed to record fund: %v", err)
	}

	ledger, err := env.fundSvc.ProjectFunds(f.Participant.ID, project.ID)
	if err != nil {
		t.Fatalf("Failed to load ledger: %v", err)
	}
	if len(ledger.Funds) != 2 {
		t.Fatalf("Expected 2 fund rows, got %d", len(ledger.Funds))
	}
	if ledger.TotalFunds != 1700 {
		t.Errorf("Expected total funds 1700, got %f", ledger.TotalFunds)
	}
	for _, fund := range ledger.Funds {
		if fund.Title == "Seed Grant" && fund.Amount != 1500 {
			t.Errorf("Expected Seed Grant to accumulate to 1500, got %f", fund.Amount)
		}
	}
}

// TestExpenditureCannotOverdraw verifies the non-negative balance invariant
func TestExpenditureCannotOverdraw(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Overdraw", f.Participant.ID)
	project := f.CreateProject(t, "Overdraw", f.Participant.ID, team.ID, models.StatusIncubating)

	if _, err := env.fundSvc.RecordFund(project.ID, "Seed Grant", 100); err != nil {
		t.Fatalf("Failed to record fund: %v", err)
	}

	_, err := env.fundSvc.RecordExpenditure(f.Participant.ID, project.ID, "Hardware", 150)
	if !apperrors.IsInsufficientBalance(err) {
		t.Fatalf("Expected insufficient balance error, got %v", err)
	}

	ledger, err := env.fundSvc.ProjectFunds(f.Participant.ID, project.ID)
	if err != nil {
		t.Fatalf("Failed to load ledger: %v", err)
	}
	if len(ledger.Expenditures) != 0 {
		t.Errorf("Rejected expenditure must not be stored, found %d rows", len(ledger.Expenditures))
	}
	if ledger.Balance != 100 {
		t.Errorf("Expected balance 100, got %f", ledger.Balance)
	}
}

// TestExpendituresAccumulateAndReduceBalance verifies spending by title
func TestExpendituresAccumulateAndReduceBalance(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Spend", f.Participant.ID)
	project := f.CreateProject(t, "Spend", f.Participant.ID, team.ID, models.StatusIncubating)

	if _, err := env.fundSvc.RecordFund(project.ID, "Seed Grant", 100); err != nil {
		t.Fatalf("Failed to record fund: %v", err)
	}
	if _, err := env.fundSvc.RecordExpenditure(f.Participant.ID, project.ID, "Cloud", 30); err != nil {
		t.Fatalf("Failed to record expenditure: %v", err)
	}
	if _, err := env.fundSvc.RecordExpenditure(f.Participant.ID, project.ID, "Cloud", 30); err != nil {
		t.Fatalf("Failed to record expenditure: %v", err)
	}

	ledger, err := env.fundSvc.ProjectFunds(f.Participant.ID, project.ID)
	if err != nil {
		t.Fatalf("Failed to load ledger: %v", err)
	}
	if len(ledger.Expenditures) != 1 {
		t.Fatalf("Expected 1 expenditure row, got %d", len(ledger.Expenditures))
	}
	if ledger.Expenditures[0].Amount != 60 {
		t.Errorf("Expected accumulated expenditure 60, got %f", ledger.Expenditures[0].Amount)
	}
	if ledger.Balance != 40 {
		t.Errorf("Expected balance 40, got %f", ledger.Balance)
	}

	// Spending exactly the remaining balance is allowed
	if _, err := env.fundSvc.RecordExpenditure(f.Participant.ID, project.ID, "Cloud", 40); err != nil {
		t.Errorf("Spending the full balance should succeed, got %v", err)
	}
	_, err = env.fundSvc.RecordExpenditure(f.Participant.ID, project.ID, "Cloud", 1)
	if !apperrors.IsInsufficientBalance(err) {
		t.Errorf("Expected insufficient balance at zero, got %v", err)
	}
}

// TestExpenditureRequiresProjectMembership verifies outsiders cannot spend
func TestExpenditureRequiresProjectMembership(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Members", f.Participant.ID)
	project := f.CreateProject(t, "Members", f.Participant.ID, team.ID, models.StatusIncubating)
	outsider := f.CreateUser(t, "outsider", models.RoleParticipant)

	if _, err := env.fundSvc.RecordFund(project.ID, "Seed Grant", 100); err != nil {
		t.Fatalf("Failed to record fund: %v", err)
	}

	_, err := env.fundSvc.RecordExpenditure(outsider.ID, project.ID, "Travel", 10)
	if !apperrors.IsPermissionDenied(err) {
		t.Errorf("Expected permission denied for outsider, got %v", err)
	}
}

// TestRecordFundValidation verifies title and amount checks
func TestRecordFundValidation(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixtures

	team := f.CreateTeam(t, "Validate", f.Participant.ID)
	project := f.CreateProject(t, "Validate", f.Participant.ID, team.ID, models.StatusIncubating)

	if _, err := env.fundSvc.RecordFund(project.ID, "", 100); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for empty title, got %v", err)
	}
	if _, err := env.fundSvc.RecordFund(project.ID, "Grant", 0); !apperrors.IsValidation(err) {
		t.Errorf("Expected validation error for zero amount, got %v", err)
	}
	if _, err := env.fundSvc.RecordFund(99999, "Grant", 100); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found for missing project, got %v", err)
	}
}
