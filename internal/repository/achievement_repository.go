package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// AchievementRepository handles database operations for project achievements
type AchievementRepository struct {
	db DBTX
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *sql.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *AchievementRepository) WithTx(tx *sql.Tx) *AchievementRepository {
	return &AchievementRepository{db: tx}
}

// Create inserts an achievement
func (r *AchievementRepository) Create(achievement *models.Achievement) error {
	query := `
		INSERT INTO achievements (project_id, title, achievement_type, description, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRow(
		query,
		achievement.ProjectID,
		achievement.Title,
		achievement.AchievementType,
		achievement.Description,
		achievement.AuthorID,
	).Scan(&achievement.ID, &achievement.CreatedAt)
}

// ListByProject retrieves all achievements of a project, newest first
func (r *AchievementRepository) ListByProject(projectID uint) ([]models.Achievement, error) {
	query := `
		SELECT id, project_id, title, achievement_type, description, author_id, created_at
		FROM achievements
		WHERE project_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var achievement models.Achievement
		if err := rows.Scan(
			&achievement.ID,
			&achievement.ProjectID,
			&achievement.Title,
			&achievement.AchievementType,
			&achievement.Description,
			&achievement.AuthorID,
			&achievement.CreatedAt,
		); err != nil {
			return nil, err
		}
		achievements = append(achievements, achievement)
	}
	return achievements, rows.Err()
}
