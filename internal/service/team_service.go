package service

import (
	"database/sql"
	"fmt"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/database"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// TeamService handles team management
type TeamService struct {
	db       *sql.DB
	teamRepo *repository.TeamRepository
	userRepo *repository.UserRepository
}

// NewTeamService creates a new team service
func NewTeamService(db *sql.DB, teamRepo *repository.TeamRepository, userRepo *repository.UserRepository) *TeamService {
	return &TeamService{
		db:       db,
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// Create creates a team with the caller as leader and first member
func (s *TeamService) Create(leaderID uint, name, description string) (*models.Team, error) {
	if name == "" {
		return nil, apperrors.Validation("team name is required")
	}

	team := &models.Team{
		Name:        name,
		Description: description,
		LeaderID:    leaderID,
	}
	err := database.WithinTx(s.db, func(tx *sql.Tx) error {
		teamRepo := s.teamRepo.WithTx(tx)
		if err := teamRepo.Create(team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		return teamRepo.AddMember(team.ID, leaderID, "leader")
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// MyTeams retrieves all teams the user belongs to
func (s *TeamService) MyTeams(userID uint) ([]models.Team, error) {
	return s.teamRepo.GetByUserID(userID)
}

// Get retrieves a team with its members
func (s *TeamService) Get(teamID uint) (*models.Team, []models.TeamMemberWithUser, error) {
	team, err := s.teamRepo.GetByID(teamID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load team: %w", err)
	}
	if team == nil {
		return nil, nil, apperrors.NotFound("team", teamID)
	}

	members, err := s.teamRepo.ListMembers(teamID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load members: %w", err)
	}
	return team, members, nil
}

// AddMember adds a user to the team. Only the team leader may add members.
func (s *TeamService) AddMember(callerID, teamID, userID uint, roleInTeam string) error {
	team, err := s.teamRepo.GetByID(teamID)
	if err != nil {
		return fmt.Errorf("failed to load team: %w", err)
	}
	if team == nil {
		return apperrors.NotFound("team", teamID)
	}
	if team.LeaderID != callerID {
		return apperrors.PermissionDenied("only the team leader can add members")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return apperrors.NotFound("user", userID)
	}

	member, err := s.teamRepo.IsMember(teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if member {
		return apperrors.Conflict("user is already a team member")
	}

	if roleInTeam == "" {
		roleInTeam = "member"
	}
	if err := s.teamRepo.AddMember(teamID, userID, roleInTeam); err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("user is already a team member")
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}
