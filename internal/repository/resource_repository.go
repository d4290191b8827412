package repository

import (
	"database/sql"
	"fmt"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// ResourceRepository handles database operations for marketplace resources
type ResourceRepository struct {
	db DBTX
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *sql.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *ResourceRepository) WithTx(tx *sql.Tx) *ResourceRepository {
	return &ResourceRepository{db: tx}
}

// Create inserts a new resource
func (r *ResourceRepository) Create(resource *models.IncubationResource) error {
	query := `
		INSERT INTO incubation_resources (provider_id, title, resource_type, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		resource.ProviderID,
		resource.Title,
		resource.ResourceType,
		resource.Description,
		resource.Status,
	).Scan(&resource.ID, &resource.CreatedAt, &resource.UpdatedAt)
}

// GetByID retrieves a resource by ID
func (r *ResourceRepository) GetByID(resourceID uint) (*models.IncubationResource, error) {
	var resource models.IncubationResource
	query := `
		SELECT id, provider_id, title, resource_type, description, status, created_at, updated_at
		FROM incubation_resources
		WHERE id = $1
	`
	err := r.db.QueryRow(query, resourceID).Scan(
		&resource.ID,
		&resource.ProviderID,
		&resource.Title,
		&resource.ResourceType,
		&resource.Description,
		&resource.Status,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// ListByProvider retrieves all resources published by a provider, newest first
func (r *ResourceRepository) ListByProvider(providerID uint) ([]models.IncubationResource, error) {
	query := `
		SELECT id, provider_id, title, resource_type, description, status, created_at, updated_at
		FROM incubation_resources
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []models.IncubationResource
	for rows.Next() {
		var resource models.IncubationResource
		if err := rows.Scan(
			&resource.ID,
			&resource.ProviderID,
			&resource.Title,
			&resource.ResourceType,
			&resource.Description,
			&resource.Status,
			&resource.CreatedAt,
			&resource.UpdatedAt,
		); err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	return resources, rows.Err()
}

// ListOpen retrieves all open resources with provider details, optionally
// filtered by resource type
func (r *ResourceRepository) ListOpen(resourceType string) ([]models.IncubationResourceWithProvider, error) {
	query := `
		SELECT ir.id, ir.provider_id, ir.title, ir.resource_type, ir.description, ir.status,
		       ir.created_at, ir.updated_at, u.real_name, u.affiliation
		FROM incubation_resources ir
		JOIN users u ON u.id = ir.provider_id
		WHERE ir.status = $1
	`
	args := []interface{}{models.ResourceOpen}
	argCount := 2

	if resourceType != "" {
		query += ` AND ir.resource_type = $` + fmt.Sprintf("%d", argCount)
		args = append(args, resourceType)
		argCount++
	}

	query += ` ORDER BY ir.created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []models.IncubationResourceWithProvider
	for rows.Next() {
		var resource models.IncubationResourceWithProvider
		if err := rows.Scan(
			&resource.ID,
			&resource.ProviderID,
			&resource.Title,
			&resource.ResourceType,
			&resource.Description,
			&resource.Status,
			&resource.CreatedAt,
			&resource.UpdatedAt,
			&resource.ProviderName,
			&resource.ProviderAffiliation,
		); err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	return resources, rows.Err()
}
