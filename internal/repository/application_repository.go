package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// ApplicationRepository handles database operations for resource applications
type ApplicationRepository struct {
	db DBTX
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *ApplicationRepository) WithTx(tx *sql.Tx) *ApplicationRepository {
	return &ApplicationRepository{db: tx}
}

// Create inserts a resource application
func (r *ApplicationRepository) Create(application *models.ResourceApplication) error {
	query := `
		INSERT INTO resource_applications (resource_id, project_id, applicant_id, status, message, reply)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		application.ResourceID,
		application.ProjectID,
		application.ApplicantID,
		application.Status,
		application.Message,
		application.Reply,
	).Scan(&application.ID, &application.CreatedAt, &application.UpdatedAt)
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(applicationID uint) (*models.ResourceApplication, error) {
	var application models.ResourceApplication
	query := `
		SELECT id, resource_id, project_id, applicant_id, status, message, reply, created_at, updated_at
		FROM resource_applications
		WHERE id = $1
	`
	err := r.db.QueryRow(query, applicationID).Scan(
		&application.ID,
		&application.ResourceID,
		&application.ProjectID,
		&application.ApplicantID,
		&application.Status,
		&application.Message,
		&application.Reply,
		&application.CreatedAt,
		&application.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// Exists reports whether the project already applied for the resource
func (r *ApplicationRepository) Exists(resourceID, projectID uint) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM resource_applications WHERE resource_id = $1 AND project_id = $2
		)
	`
	err := r.db.QueryRow(query, resourceID, projectID).Scan(&exists)
	return exists, err
}

func scanApplicationsWithDetails(rows *sql.Rows) ([]models.ResourceApplicationWithDetails, error) {
	defer rows.Close()

	var applications []models.ResourceApplicationWithDetails
	for rows.Next() {
		var application models.ResourceApplicationWithDetails
		if err := rows.Scan(
			&application.ID,
			&application.ResourceID,
			&application.ProjectID,
			&application.ApplicantID,
			&application.Status,
			&application.Message,
			&application.Reply,
			&application.CreatedAt,
			&application.UpdatedAt,
			&application.ResourceTitle,
			&application.ResourceType,
			&application.ProjectName,
			&application.ApplicantName,
			&application.ApplicantAffiliation,
			&application.ProviderName,
			&application.ProviderAffiliation,
		); err != nil {
			return nil, err
		}
		applications = append(applications, application)
	}
	return applications, rows.Err()
}

const applicationDetailColumns = `
	ra.id, ra.resource_id, ra.project_id, ra.applicant_id, ra.status, ra.message, ra.reply,
	ra.created_at, ra.updated_at,
	ir.title, ir.resource_type, p.name,
	applicant.real_name, applicant.affiliation,
	provider.real_name, provider.affiliation
`

// ListByResource retrieves all applications for a resource with joined details,
// newest first
func (r *ApplicationRepository) ListByResource(resourceID uint) ([]models.ResourceApplicationWithDetails, error) {
	query := `
		SELECT ` + applicationDetailColumns + `
		FROM resource_applications ra
		JOIN incubation_resources ir ON ir.id = ra.resource_id
		JOIN projects p ON p.id = ra.project_id
		JOIN users applicant ON applicant.id = ra.applicant_id
		JOIN users provider ON provider.id = ir.provider_id
		WHERE ra.resource_id = $1
		ORDER BY ra.created_at DESC
	`
	rows, err := r.db.Query(query, resourceID)
	if err != nil {
		return nil, err
	}
	return scanApplicationsWithDetails(rows)
}

// ListByApplicant retrieves all applications filed by a user with joined
// details, newest first
func (r *ApplicationRepository) ListByApplicant(applicantID uint) ([]models.ResourceApplicationWithDetails, error) {
	query := `
		SELECT ` + applicationDetailColumns + `
		FROM resource_applications ra
		JOIN incubation_resources ir ON ir.id = ra.resource_id
		JOIN projects p ON p.id = ra.project_id
		JOIN users applicant ON applicant.id = ra.applicant_id
		JOIN users provider ON provider.id = ir.provider_id
		WHERE ra.applicant_id = $1
		ORDER BY ra.created_at DESC
	`
	rows, err := r.db.Query(query, applicantID)
	if err != nil {
		return nil, err
	}
	return scanApplicationsWithDetails(rows)
}

// Update stores status and reply of an application
func (r *ApplicationRepository) Update(application *models.ResourceApplication) error {
	query := `
		UPDATE resource_applications
		SET status = $1, reply = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	_, err := r.db.Exec(query, application.Status, application.Reply, application.ID)
	return err
}
