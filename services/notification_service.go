package services

import (
	"context"
	"errors"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationService covers the in-app notification feed.
type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]models.Notification, *ServiceError)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, *ServiceError)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) *ServiceError
	MarkAllRead(ctx context.Context, userID uuid.UUID) *ServiceError
}

type notificationServiceImpl struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications repository.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationServiceImpl{notifications: notifications, logger: logger}
}

func (s *notificationServiceImpl) List(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]models.Notification, *ServiceError) {
	notifications, err := s.notifications.ListByUser(ctx, userID, limit, unreadOnly)
	if err != nil {
		s.logger.Error("failed to list notifications", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to list notifications")
	}
	return notifications, nil
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, *ServiceError) {
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count notifications", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, errInternal("failed to count notifications")
	}
	return count, nil
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) *ServiceError {
	if err := s.notifications.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("notification not found")
		}
		s.logger.Error("failed to mark notification read", zap.Error(err))
		return errInternal("failed to mark notification read")
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) *ServiceError {
	if err := s.notifications.MarkAllRead(ctx, userID); err != nil {
		s.logger.Error("failed to mark notifications read", zap.String("user_id", userID.String()), zap.Error(err))
		return errInternal("failed to mark notifications read")
	}
	return nil
}
