package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// FundRepository handles database operations for the project funds ledger.
// Fund and expenditure rows are keyed (project_id, title) and accumulate.
type FundRepository struct {
	db DBTX
}

// NewFundRepository creates a new fund repository
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{db: tx}
}

// UpsertFund adds an allocation, accumulating onto an existing row with the
// same title
func (r *FundRepository) UpsertFund(record *models.FundRecord) error {
	query := `
		INSERT INTO fund_records (project_id, title, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, title)
		DO UPDATE SET amount = fund_records.amount + EXCLUDED.amount, updated_at = CURRENT_TIMESTAMP
		RETURNING id, amount, created_at, updated_at
	`
	return r.db.QueryRow(query, record.ProjectID, record.Title, record.Amount).
		Scan(&record.ID, &record.Amount, &record.CreatedAt, &record.UpdatedAt)
}

// UpsertExpenditure adds a spend row, accumulating onto an existing row with
// the same title
func (r *FundRepository) UpsertExpenditure(record *models.Expenditure) error {
	query := `
		INSERT INTO expenditures (project_id, title, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, title)
		DO UPDATE SET amount = expenditures.amount + EXCLUDED.amount, updated_at = CURRENT_TIMESTAMP
		RETURNING id, amount, created_at, updated_at
	`
	return r.db.QueryRow(query, record.ProjectID, record.Title, record.Amount).
		Scan(&record.ID, &record.Amount, &record.CreatedAt, &record.UpdatedAt)
}

// ListFunds retrieves the allocation rows of a project
func (r *FundRepository) ListFunds(projectID uint) ([]models.FundRecord, error) {
	query := `
		SELECT id, project_id, title, amount, created_at, updated_at
		FROM fund_records
		WHERE project_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FundRecord
	for rows.Next() {
		var record models.FundRecord
		if err := rows.Scan(
			&record.ID,
			&record.ProjectID,
			&record.Title,
			&record.Amount,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListExpenditures retrieves the spend rows of a project
func (r *FundRepository) ListExpenditures(projectID uint) ([]models.Expenditure, error) {
	query := `
		SELECT id, project_id, title, amount, created_at, updated_at
		FROM expenditures
		WHERE project_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Expenditure
	for rows.Next() {
		var record models.Expenditure
		if err := rows.Scan(
			&record.ID,
			&record.ProjectID,
			&record.Title,
			&record.Amount,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// TotalFunds sums all allocations of a project
func (r *FundRepository) TotalFunds(projectID uint) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM fund_records WHERE project_id = $1`
	err := r.db.QueryRow(query, projectID).Scan(&total)
	return total, err
}

// TotalExpenditures sums all spend rows of a project
func (r *FundRepository) TotalExpenditures(projectID uint) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenditures WHERE project_id = $1`
	err := r.db.QueryRow(query, projectID).Scan(&total)
	return total, err
}
