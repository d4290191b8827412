package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// ReviewRepository handles database operations for review tasks and opinions
type ReviewRepository struct {
	db DBTX
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *ReviewRepository) WithTx(tx *sql.Tx) *ReviewRepository {
	return &ReviewRepository{db: tx}
}

// CreateTask inserts a new review task
func (r *ReviewRepository) CreateTask(task *models.ReviewTask) error {
	query := `
		INSERT INTO review_tasks (project_id, reviewer_id, status, deadline)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(query, task.ProjectID, task.ReviewerID, task.Status, task.Deadline).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

// GetTaskByID retrieves a review task by ID
func (r *ReviewRepository) GetTaskByID(taskID uint) (*models.ReviewTask, error) {
	var task models.ReviewTask
	query := `
		SELECT id, project_id, reviewer_id, status, deadline, created_at, updated_at
		FROM review_tasks
		WHERE id = $1
	`
	err := r.db.QueryRow(query, taskID).Scan(
		&task.ID,
		&task.ProjectID,
		&task.ReviewerID,
		&task.Status,
		&task.Deadline,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskExists reports whether the reviewer is already assigned to the project
func (r *ReviewRepository) TaskExists(projectID, reviewerID uint) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM review_tasks WHERE project_id = $1 AND reviewer_id = $2`
	if err := r.db.QueryRow(query, projectID, reviewerID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTasksByReviewer retrieves all tasks of a reviewer with project details
func (r *ReviewRepository) ListTasksByReviewer(reviewerID uint) ([]models.ReviewTaskWithProject, error) {
	query := `
		SELECT rt.id, rt.project_id, rt.reviewer_id, rt.status, rt.deadline, rt.created_at, rt.updated_at,
		       p.name, p.status
		FROM review_tasks rt
		JOIN projects p ON p.id = rt.project_id
		WHERE rt.reviewer_id = $1
		ORDER BY rt.created_at DESC
	`
	rows, err := r.db.Query(query, reviewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.ReviewTaskWithProject
	for rows.Next() {
		var task models.ReviewTaskWithProject
		if err := rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.ReviewerID,
			&task.Status,
			&task.Deadline,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.ProjectName,
			&task.ProjectStatus,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// MarkTaskDone flips a task from assigned to done. Returns false when the
// task was not in assigned status, so resubmissions can be rejected.
func (r *ReviewRepository) MarkTaskDone(taskID uint) (bool, error) {
	query := `
		UPDATE review_tasks
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.Exec(query, models.ReviewTaskDone, taskID, models.ReviewTaskAssigned)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountDoneTasks counts completed review tasks for a project
func (r *ReviewRepository) CountDoneTasks(projectID uint) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM review_tasks WHERE project_id = $1 AND status = $2`
	err := r.db.QueryRow(query, projectID, models.ReviewTaskDone).Scan(&count)
	return count, err
}

// CreateOpinion inserts a review opinion
func (r *ReviewRepository) CreateOpinion(opinion *models.ReviewOpinion) error {
	query := `
		INSERT INTO review_opinions
			(task_id, innovation_score, feasibility_score, potentiality_score, teamwork_score, total_score, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.db.QueryRow(query,
		opinion.TaskID,
		opinion.InnovationScore,
		opinion.FeasibilityScore,
		opinion.PotentialityScore,
		opinion.TeamworkScore,
		opinion.TotalScore,
		opinion.Comment,
	).Scan(&opinion.ID, &opinion.CreatedAt)
}

// AverageScore computes the mean total score over all opinions attached to
// the project's tasks. ok is false when no opinions exist.
func (r *ReviewRepository) AverageScore(projectID uint) (avg float64, ok bool, err error) {
	var mean sql.NullFloat64
	query := `
		SELECT AVG(ro.total_score)
		FROM review_opinions ro
		JOIN review_tasks rt ON rt.id = ro.task_id
		WHERE rt.project_id = $1
	`
	if err := r.db.QueryRow(query, projectID).Scan(&mean); err != nil {
		return 0, false, err
	}
	if !mean.Valid {
		return 0, false, nil
	}
	return mean.Float64, true, nil
}

// ListOpinionsByProject retrieves all opinions for a project's tasks
func (r *ReviewRepository) ListOpinionsByProject(projectID uint) ([]models.ReviewOpinion, error) {
	query := `
		SELECT ro.id, ro.task_id,
		       ro.innovation_score, ro.feasibility_score, ro.potentiality_score, ro.teamwork_score,
		       ro.total_score, ro.comment, ro.created_at
		FROM review_opinions ro
		JOIN review_tasks rt ON rt.id = ro.task_id
		WHERE rt.project_id = $1
		ORDER BY ro.created_at ASC
	`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opinions []models.ReviewOpinion
	for rows.Next() {
		var opinion models.ReviewOpinion
		if err := rows.Scan(
			&opinion.ID,
			&opinion.TaskID,
			&opinion.InnovationScore,
			&opinion.FeasibilityScore,
			&opinion.PotentialityScore,
			&opinion.TeamworkScore,
			&opinion.TotalScore,
			&opinion.Comment,
			&opinion.CreatedAt,
		); err != nil {
			return nil, err
		}
		opinions = append(opinions, opinion)
	}
	return opinions, rows.Err()
}
