package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/lib/pq"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db DBTX
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *ProjectRepository) WithTx(tx *sql.Tx) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

const projectColumns = `id, name, description, principal_id, team_id, status, review_score, created_at, updated_at`

func scanProject(row *sql.Row) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.PrincipalID,
		&project.TeamID,
		&project.Status,
		&project.ReviewScore,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func scanProjects(rows *sql.Rows) ([]models.Project, error) {
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.PrincipalID,
			&project.TeamID,
			&project.Status,
			&project.ReviewScore,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Create inserts a new project
func (r *ProjectRepository) Create(project *models.Project) error {
	query := `
		INSERT INTO projects (name, description, principal_id, team_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		project.Name,
		project.Description,
		project.PrincipalID,
		project.TeamID,
		project.Status,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(projectID uint) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(query, projectID))
}

// GetByIDForUpdate retrieves a project by ID with a row lock. Only meaningful
// inside a transaction.
func (r *ProjectRepository) GetByIDForUpdate(projectID uint) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 FOR UPDATE`
	return scanProject(r.db.QueryRow(query, projectID))
}

// List retrieves all projects, newest first
func (r *ProjectRepository) List() ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	return scanProjects(rows)
}

// ListByPrincipalOrTeams retrieves projects owned by the user or belonging to
// any of the given teams
func (r *ProjectRepository) ListByPrincipalOrTeams(userID uint, teamIDs []uint) ([]models.Project, error) {
	ids := make([]int64, len(teamIDs))
	for i, id := range teamIDs {
		ids[i] = int64(id)
	}
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE principal_id = $1 OR team_id = ANY($2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return scanProjects(rows)
}

// ListByReviewer retrieves projects the reviewer has review tasks for
func (r *ProjectRepository) ListByReviewer(reviewerID uint) ([]models.Project, error) {
	query := `
		SELECT DISTINCT p.id, p.name, p.description, p.principal_id, p.team_id, p.status, p.review_score, p.created_at, p.updated_at
		FROM projects p
		JOIN review_tasks rt ON rt.project_id = p.id
		WHERE rt.reviewer_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(query, reviewerID)
	if err != nil {
		return nil, err
	}
	return scanProjects(rows)
}

// ListByStatuses retrieves projects in any of the given states
func (r *ProjectRepository) ListByStatuses(statuses ...models.ProjectStatus) ([]models.Project, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE status = ANY($1)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, pq.Array(values))
	if err != nil {
		return nil, err
	}
	return scanProjects(rows)
}

// UpdateStatus sets the project status unconditionally
func (r *ProjectRepository) UpdateStatus(projectID uint, status models.ProjectStatus) error {
	query := `UPDATE projects SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	_, err := r.db.Exec(query, status, projectID)
	return err
}

// CompareAndSetStatus flips the project status only if the current status is
// one of the expected states. The review score is stored when non-nil.
// Returns true if a row was updated, so concurrent callers can tell which of
// them performed the transition.
func (r *ProjectRepository) CompareAndSetStatus(projectID uint, from []models.ProjectStatus, to models.ProjectStatus, reviewScore *float64) (bool, error) {
	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = string(s)
	}
	query := `
		UPDATE projects
		SET status = $1, review_score = COALESCE($2, review_score), updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND status = ANY($4)
	`
	result, err := r.db.Exec(query, to, reviewScore, projectID, pq.Array(expected))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
