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

// FundService handles the per-project funds ledger. Allocations and
// expenditures are keyed (project, title) and accumulate; the balance never
// goes negative.
type FundService struct {
	db          *sql.DB
	fundRepo    *repository.FundRepository
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
	access      *accessChecker
}

// NewFundService creates a new fund service
func NewFundService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	teamRepo *repository.TeamRepository,
	reviewRepo *repository.ReviewRepository,
) *FundService {
	return &FundService{
		db:          db,
		fundRepo:    fundRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		access:      newAccessChecker(teamRepo, reviewRepo),
	}
}

// RecordFund adds an allocation to a project. Repeated allocations with the
// same title accumulate into one row.
func (s *FundService) RecordFund(projectID uint, title string, amount float64) (*models.FundRecord, error) {
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project", projectID)
	}

	record := &models.FundRecord{
		ProjectID: projectID,
		Title:     title,
		Amount:    amount,
	}
	if err := s.fundRepo.UpsertFund(record); err != nil {
		return nil, fmt.Errorf("failed to record fund: %w", err)
	}

	slog.Info("Fund recorded", "project_id", projectID, "title", title, "amount", amount)
	return record, nil
}

// RecordExpenditure adds a spend to a project. The project row is locked
// while the balance is checked so concurrent spends cannot overdraw it.
func (s *FundService) RecordExpenditure(userID, projectID uint, title string, amount float64) (*models.Expenditure, error) {
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user", userID)
	}

	record := &models.Expenditure{
		ProjectID: projectID,
		Title:     title,
		Amount:    amount,
	}
	err = database.WithinTx(s.db, func(tx *sql.Tx) error {
		projectRepo := s.projectRepo.WithTx(tx)
		fundRepo := s.fundRepo.WithTx(tx)

		project, err := projectRepo.GetByIDForUpdate(projectID)
		if err != nil {
			return fmt.Errorf("failed to lock project: %w", err)
		}
		if project == nil {
			return apperrors.NotFound("project", projectID)
		}

		allowed, err := s.access.canMutate(user, project)
		if err != nil {
			return fmt.Errorf("failed to check access: %w", err)
		}
		if !allowed {
			return apperrors.PermissionDenied("you cannot modify this project")
		}

		totalFunds, err := fundRepo.TotalFunds(projectID)
		if err != nil {
			return fmt.Errorf("failed to sum funds: %w", err)
		}
		totalSpent, err := fundRepo.TotalExpenditures(projectID)
		if err != nil {
			return fmt.Errorf("failed to sum expenditures: %w", err)
		}

		balance := totalFunds - totalSpent
		if amount > balance {
			return &apperrors.InsufficientBalanceError{Balance: balance, Amount: amount}
		}
		return fundRepo.UpsertExpenditure(record)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Expenditure recorded", "project_id", projectID, "title", title, "amount", amount)
	return record, nil
}

// ProjectFunds assembles the ledger view of a project
func (s *FundService) ProjectFunds(userID, projectID uint) (*models.ProjectFunds, error) {
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

	allowed, err := s.access.canAccess(user, project)
	if err != nil {
		return nil, fmt.Errorf("failed to check access: %w", err)
	}
	if !allowed {
		return nil, apperrors.PermissionDenied("you cannot access this project")
	}

	funds, err := s.fundRepo.ListFunds(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	expenditures, err := s.fundRepo.ListExpenditures(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenditures: %w", err)
	}

	var totalFunds, totalSpent float64
	for _, f := range funds {
		totalFunds += f.Amount
	}
	for _, e := range expenditures {
		totalSpent += e.Amount
	}

	return &models.ProjectFunds{
		Funds:        funds,
		Expenditures: expenditures,
		TotalFunds:   totalFunds,
		TotalSpent:   totalSpent,
		Balance:      totalFunds - totalSpent,
	}, nil
}
