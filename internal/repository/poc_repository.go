package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// PoCRepository handles database operations for proof of concept runs
type PoCRepository struct {
	db DBTX
}

// NewPoCRepository creates a new PoC repository
func NewPoCRepository(db *sql.DB) *PoCRepository {
	return &PoCRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *PoCRepository) WithTx(tx *sql.Tx) *PoCRepository {
	return &PoCRepository{db: tx}
}

// Create inserts a new PoC
func (r *PoCRepository) Create(poc *models.ProofOfConcept) error {
	query := `
		INSERT INTO proof_of_concepts (project_id, title, description, status, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		poc.ProjectID,
		poc.Title,
		poc.Description,
		poc.Status,
		poc.Result,
	).Scan(&poc.ID, &poc.CreatedAt, &poc.UpdatedAt)
}

// GetByID retrieves a PoC by ID
func (r *PoCRepository) GetByID(pocID uint) (*models.ProofOfConcept, error) {
	var poc models.ProofOfConcept
	query := `
		SELECT id, project_id, title, description, status, result, created_at, updated_at
		FROM proof_of_concepts
		WHERE id = $1
	`
	err := r.db.QueryRow(query, pocID).Scan(
		&poc.ID,
		&poc.ProjectID,
		&poc.Title,
		&poc.Description,
		&poc.Status,
		&poc.Result,
		&poc.CreatedAt,
		&poc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &poc, nil
}

// ListByProject retrieves all PoCs of a project, newest first
func (r *PoCRepository) ListByProject(projectID uint) ([]models.ProofOfConcept, error) {
	query := `
		SELECT id, project_id, title, description, status, result, created_at, updated_at
		FROM proof_of_concepts
		WHERE project_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pocs []models.ProofOfConcept
	for rows.Next() {
		var poc models.ProofOfConcept
		if err := rows.Scan(
			&poc.ID,
			&poc.ProjectID,
			&poc.Title,
			&poc.Description,
			&poc.Status,
			&poc.Result,
			&poc.CreatedAt,
			&poc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		pocs = append(pocs, poc)
	}
	return pocs, rows.Err()
}

// CountUnfinished counts the project's PoCs that are not yet completed
func (r *PoCRepository) CountUnfinished(projectID uint) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM proof_of_concepts WHERE project_id = $1 AND status <> $2`
	err := r.db.QueryRow(query, projectID, models.PoCCompleted).Scan(&count)
	return count, err
}

// Update stores description, status and result of a PoC
func (r *PoCRepository) Update(poc *models.ProofOfConcept) error {
	query := `
		UPDATE proof_of_concepts
		SET description = $1, status = $2, result = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	_, err := r.db.Exec(query, poc.Description, poc.Status, poc.Result, poc.ID)
	return err
}
