package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// TeamRepository handles database operations for teams and memberships
type TeamRepository struct {
	db DBTX
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *TeamRepository) WithTx(tx *sql.Tx) *TeamRepository {
	return &TeamRepository{db: tx}
}

// Create inserts a new team
func (r *TeamRepository) Create(team *models.Team) error {
	query := `
		INSERT INTO teams (name, description, leader_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(query, team.Name, team.Description, team.LeaderID).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(teamID uint) (*models.Team, error) {
	var team models.Team
	query := `
		SELECT id, name, description, leader_id, created_at, updated_at
		FROM teams
		WHERE id = $1
	`
	err := r.db.QueryRow(query, teamID).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.LeaderID,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByUserID retrieves all teams the user belongs to
func (r *TeamRepository) GetByUserID(userID uint) ([]models.Team, error) {
	query := `
		SELECT t.id, t.name, t.description, t.leader_id, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Description,
			&team.LeaderID,
			&team.CreatedAt,
			&team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// AddMember adds a user to a team
func (r *TeamRepository) AddMember(teamID, userID uint, roleInTeam string) error {
	query := `INSERT INTO team_members (user_id, team_id, role_in_team) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(query, userID, teamID, roleInTeam)
	return err
}

// IsMember reports whether the user belongs to the team
func (r *TeamRepository) IsMember(teamID, userID uint) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND user_id = $2`
	if err := r.db.QueryRow(query, teamID, userID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMembers retrieves all members of a team with profile fields
func (r *TeamRepository) ListMembers(teamID uint) ([]models.TeamMemberWithUser, error) {
	query := `
		SELECT tm.user_id, tm.team_id, tm.role_in_team, tm.created_at,
		       u.username, u.real_name, u.affiliation
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at ASC
	`
	rows, err := r.db.Query(query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMemberWithUser
	for rows.Next() {
		var m models.TeamMemberWithUser
		if err := rows.Scan(
			&m.UserID,
			&m.TeamID,
			&m.RoleInTeam,
			&m.CreatedAt,
			&m.Username,
			&m.RealName,
			&m.Affiliation,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// TeamIDsByUser retrieves the IDs of all teams the user belongs to
func (r *TeamRepository) TeamIDsByUser(userID uint) ([]uint, error) {
	rows, err := r.db.Query(`SELECT team_id FROM team_members WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teamIDs []uint
	for rows.Next() {
		var teamID uint
		if err := rows.Scan(&teamID); err != nil {
			return nil, err
		}
		teamIDs = append(teamIDs, teamID)
	}
	return teamIDs, rows.Err()
}
