package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// MilestoneRepository handles database operations for milestones
type MilestoneRepository struct {
	db DBTX
}

// NewMilestoneRepository creates a new milestone repository
func NewMilestoneRepository(db *sql.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *MilestoneRepository) WithTx(tx *sql.Tx) *MilestoneRepository {
	return &MilestoneRepository{db: tx}
}

// Create inserts a new milestone
func (r *MilestoneRepository) Create(milestone *models.Milestone) error {
	query := `
		INSERT INTO milestones (project_id, title, due_date, status, deliverable)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		milestone.ProjectID,
		milestone.Title,
		milestone.DueDate,
		milestone.Status,
		milestone.Deliverable,
	).Scan(&milestone.ID, &milestone.CreatedAt, &milestone.UpdatedAt)
}

// GetByID retrieves a milestone by ID
func (r *MilestoneRepository) GetByID(milestoneID uint) (*models.Milestone, error) {
	var milestone models.Milestone
	query := `
		SELECT id, project_id, title, due_date, status, deliverable, created_at, updated_at
		FROM milestones
		WHERE id = $1
	`
	err := r.db.QueryRow(query, milestoneID).Scan(
		&milestone.ID,
		&milestone.ProjectID,
		&milestone.Title,
		&milestone.DueDate,
		&milestone.Status,
		&milestone.Deliverable,
		&milestone.CreatedAt,
		&milestone.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

// ListByProject retrieves all milestones of a project ordered by due date
func (r *MilestoneRepository) ListByProject(projectID uint) ([]models.Milestone, error) {
	query := `
		SELECT id, project_id, title, due_date, status, deliverable, created_at, updated_at
		FROM milestones
		WHERE project_id = $1
		ORDER BY due_date ASC
	`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		var milestone models.Milestone
		if err := rows.Scan(
			&milestone.ID,
			&milestone.ProjectID,
			&milestone.Title,
			&milestone.DueDate,
			&milestone.Status,
			&milestone.Deliverable,
			&milestone.CreatedAt,
			&milestone.UpdatedAt,
		); err != nil {
			return nil, err
		}
		milestones = append(milestones, milestone)
	}
	return milestones, rows.Err()
}

// CountByProject counts the milestones of a project
func (r *MilestoneRepository) CountByProject(projectID uint) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM milestones WHERE project_id = $1`, projectID).Scan(&count)
	return count, err
}

// Update stores status, deliverable and due date of a milestone
func (r *MilestoneRepository) Update(milestone *models.Milestone) error {
	query := `
		UPDATE milestones
		SET status = $1, deliverable = $2, due_date = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	_, err := r.db.Exec(query, milestone.Status, milestone.Deliverable, milestone.DueDate, milestone.ID)
	return err
}
