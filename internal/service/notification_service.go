package service

import (
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
)

// NotificationService handles in-app notifications
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List retrieves the caller's notifications, newest first
func (s *NotificationService) List(userID uint) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(userID)
}

// MarkAllRead marks every notification of the caller as read
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}
