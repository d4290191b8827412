package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// IntentionRepository handles database operations for support intentions
type IntentionRepository struct {
	db DBTX
}

// NewIntentionRepository creates a new intention repository
func NewIntentionRepository(db *sql.DB) *IntentionRepository {
	return &IntentionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *IntentionRepository) WithTx(tx *sql.Tx) *IntentionRepository {
	return &IntentionRepository{db: tx}
}

// Create inserts a support intention
func (r *IntentionRepository) Create(intention *models.SupportIntention) error {
	query := `
		INSERT INTO support_intentions (project_id, supporter_id, support_type, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		intention.ProjectID,
		intention.SupporterID,
		intention.SupportType,
		intention.Message,
		intention.Status,
	).Scan(&intention.ID, &intention.CreatedAt, &intention.UpdatedAt)
}

func scanIntentions(rows *sql.Rows) ([]models.SupportIntention, error) {
	defer rows.Close()

	var intentions []models.SupportIntention
	for rows.Next() {
		var intention models.SupportIntention
		if err := rows.Scan(
			&intention.ID,
			&intention.ProjectID,
			&intention.SupporterID,
			&intention.SupportType,
			&intention.Message,
			&intention.Status,
			&intention.CreatedAt,
			&intention.UpdatedAt,
		); err != nil {
			return nil, err
		}
		intentions = append(intentions, intention)
	}
	return intentions, rows.Err()
}

// ListByProject retrieves all intentions filed on a project, newest first
func (r *IntentionRepository) ListByProject(projectID uint) ([]models.SupportIntention, error) {
	query := `
		SELECT id, project_id, supporter_id, support_type, message, status, created_at, updated_at
		FROM support_intentions
		WHERE project_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	return scanIntentions(rows)
}

// ListBySupporter retrieves all intentions filed by a supporter, newest first
func (r *IntentionRepository) ListBySupporter(supporterID uint) ([]models.SupportIntention, error) {
	query := `
		SELECT id, project_id, supporter_id, support_type, message, status, created_at, updated_at
		FROM support_intentions
		WHERE supporter_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, supporterID)
	if err != nil {
		return nil, err
	}
	return scanIntentions(rows)
}
