package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// AuditRecordRepository handles database operations for screening decisions
type AuditRecordRepository struct {
	db DBTX
}

// NewAuditRecordRepository creates a new audit record repository
func NewAuditRecordRepository(db *sql.DB) *AuditRecordRepository {
	return &AuditRecordRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *AuditRecordRepository) WithTx(tx *sql.Tx) *AuditRecordRepository {
	return &AuditRecordRepository{db: tx}
}

// Create inserts a new audit record
func (r *AuditRecordRepository) Create(record *models.AuditRecord) error {
	query := `
		INSERT INTO audit_records (project_id, auditor_id, decision, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRow(
		query,
		record.ProjectID,
		record.AuditorID,
		record.Decision,
		record.Comment,
	).Scan(&record.ID, &record.CreatedAt)
}

// ListByProject retrieves all audit records for a project, newest first
func (r *AuditRecordRepository) ListByProject(projectID uint) ([]models.AuditRecord, error) {
	query := `
		SELECT id, project_id, auditor_id, decision, comment, created_at
		FROM audit_records
		WHERE project_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AuditRecord
	for rows.Next() {
		var record models.AuditRecord
		if err := rows.Scan(
			&record.ID,
			&record.ProjectID,
			&record.AuditorID,
			&record.Decision,
			&record.Comment,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
