package testutil

import (
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// Fixtures holds test data
type Fixtures struct {
	DB            *sql.DB
	AdminUser     *models.User
	SecretaryUser *models.User
	ReviewerUsers []*models.User
	Participant   *models.User
	SupporterUser *models.User
}

// SetupFixtures creates one account per role, plus three reviewers for the
// review quorum.
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	fixtures := &Fixtures{DB: db}
	fixtures.AdminUser = fixtures.CreateUser(t, "admin", models.RoleAdmin)
	fixtures.SecretaryUser = fixtures.CreateUser(t, "secretary", models.RoleSecretary)
	fixtures.Participant = fixtures.CreateUser(t, "participant", models.RoleParticipant)
	fixtures.SupporterUser = fixtures.CreateUser(t, "supporter", models.RoleSupporter)
	for _, name := range []string{"reviewer1", "reviewer2", "reviewer3"} {
		fixtures.ReviewerUsers = append(fixtures.ReviewerUsers, fixtures.CreateUser(t, name, models.RoleReviewer))
	}
	return fixtures
}

// CreateUser inserts a user with the given role. The password is always
// "password123".
func (f *Fixtures) CreateUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var user models.User
	err = f.DB.QueryRow(`
		INSERT INTO users (username, password_hash, real_name, role, affiliation, email)
		VALUES ($1, $2, $3, $4, '', '')
		RETURNING id, username, real_name, role, created_at, updated_at
	`, username, string(hashedPassword), username, role).Scan(
		&user.ID, &user.Username, &user.RealName, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

// CreateTeam inserts a team with the leader as its only member
func (f *Fixtures) CreateTeam(t *testing.T, name string, leaderID uint) *models.Team {
	t.Helper()

	var team models.Team
	err := f.DB.QueryRow(`
		INSERT INTO teams (name, description, leader_id)
		VALUES ($1, '', $2)
		RETURNING id, name, leader_id, created_at, updated_at
	`, name, leaderID).Scan(&team.ID, &team.Name, &team.LeaderID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create team %s: %v", name, err)
	}

	if _, err := f.DB.Exec(
		`INSERT INTO team_members (user_id, team_id, role_in_team) VALUES ($1, $2, 'leader')`,
		leaderID, team.ID,
	); err != nil {
		t.Fatalf("Failed to add team leader: %v", err)
	}
	return &team
}

// AddTeamMember inserts a plain membership row
func (f *Fixtures) AddTeamMember(t *testing.T, teamID, userID uint) {
	t.Helper()

	if _, err := f.DB.Exec(
		`INSERT INTO team_members (user_id, team_id, role_in_team) VALUES ($1, $2, 'member')`,
		userID, teamID,
	); err != nil {
		t.Fatalf("Failed to add team member: %v", err)
	}
}

// CreateProject inserts a project in the given lifecycle state
func (f *Fixtures) CreateProject(t *testing.T, name string, principalID, teamID uint, status models.ProjectStatus) *models.Project {
	t.Helper()

	var project models.Project
	err := f.DB.QueryRow(`
		INSERT INTO projects (name, description, principal_id, team_id, status)
		VALUES ($1, '', $2, $3, $4)
		RETURNING id, name, principal_id, team_id, status, created_at, updated_at
	`, name, principalID, teamID, status).Scan(
		&project.ID, &project.Name, &project.PrincipalID, &project.TeamID,
		&project.Status, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create project %s: %v", name, err)
	}
	return &project
}

// CreateReviewTask inserts an assigned review task
func (f *Fixtures) CreateReviewTask(t *testing.T, projectID, reviewerID uint) *models.ReviewTask {
	t.Helper()

	var task models.ReviewTask
	err := f.DB.QueryRow(`
		INSERT INTO review_tasks (project_id, reviewer_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, project_id, reviewer_id, status, created_at, updated_at
	`, projectID, reviewerID, models.ReviewTaskAssigned).Scan(
		&task.ID, &task.ProjectID, &task.ReviewerID, &task.Status, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create review task: %v", err)
	}
	return &task
}
