package repository

import (
	"database/sql"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction
func (r *NotificationRepository) WithTx(tx *sql.Tx) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// Create inserts a notification
func (r *NotificationRepository) Create(notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, content)
		VALUES ($1, $2)
		RETURNING id, is_read, created_at
	`
	return r.db.QueryRow(query, notification.UserID, notification.Content).
		Scan(&notification.ID, &notification.IsRead, &notification.CreatedAt)
}

// ListByUser retrieves all notifications of a user, newest first
func (r *NotificationRepository) ListByUser(userID uint) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, content, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Content,
			&notification.IsRead,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

// MarkAllRead marks every notification of the user as read
func (r *NotificationRepository) MarkAllRead(userID uint) error {
	_, err := r.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE user_id = $1`, userID)
	return err
}
