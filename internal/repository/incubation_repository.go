package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// IncubationRepository handles database operations for incubation records
type IncubationRepository struct {
	db DBTX
}

// NewIncubationRepository creates a new incubation repository
func NewIncubationRepository(db *sql.DB) *IncubationRepository {
	return &IncubationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *IncubationRepository) WithTx(tx *sql.Tx) *IncubationRepository {
	return &IncubationRepository{db: tx}
}

// GetByProjectID retrieves the incubation record of a project
func (r *IncubationRepository) GetByProjectID(projectID uint) (*models.IncubationRecord, error) {
	var record models.IncubationRecord
	query := `
		SELECT id, project_id, plan, progress, started_at, updated_at
		FROM incubation_records
		WHERE project_id = $1
	`
	err := r.db.QueryRow(query, projectID).Scan(
		&record.ID,
		&record.ProjectID,
		&record.Plan,
		&record.Progress,
		&record.StartedAt,
		&record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a new incubation record
func (r *IncubationRepository) Create(record *models.IncubationRecord) error {
	query := `
		INSERT INTO incubation_records (project_id, plan, progress)
		VALUES ($1, $2, $3)
		RETURNING id, started_at, updated_at
	`
	return r.db.QueryRow(query, record.ProjectID, record.Plan, record.Progress).
		Scan(&record.ID, &record.StartedAt, &record.UpdatedAt)
}

// Update stores the plan and progress of an incubation record
func (r *IncubationRepository) Update(record *models.IncubationRecord) error {
	query := `
		UPDATE incubation_records
		SET plan = $1, progress = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	_, err := r.db.Exec(query, record.Plan, record.Progress, record.ID)
	return err
}
