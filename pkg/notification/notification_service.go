package notification

import (
	"context"
	"errors"

	"fluxpense-backend/domain"

	"gorm.io/gorm"
)

type (
	NotificationService interface {
		GetNotifications(ctx context.Context, userID string, page, limit int) ([]domain.NotificationResponse, int64, error)
		MarkAsRead(ctx context.Context, id string, userID string) error
		MarkAllAsRead(ctx context.Context, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
	}
)

func NewNotificationService(notificationRepository NotificationRepository) NotificationService {
	return &notificationService{
		notificationRepository: notificationRepository,
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, limit int) ([]domain.NotificationResponse, int64, error) {
	notifications, count, err := s.notificationRepository.GetNotifications(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		response = append(response, domain.NotificationResponse{
			ID:        notification.ID.String(),
			Title:     notification.Title,
			Message:   notification.Message,
			Type:      notification.Type,
			IsRead:    notification.IsRead,
			CreatedAt: notification.CreatedAt,
		})
	}

	return response, count, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id string, userID string) error {
	notification, err := s.notificationRepository.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotificationNotFound
		}
		return err
	}

	if notification.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	return s.notificationRepository.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.notificationRepository.MarkAllAsRead(ctx, userID)
}
