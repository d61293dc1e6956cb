package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/arka-hr/payroll-backend-go/internal/domain/notification"
)

const defaultListLimit = 20

type NotificationServiceImpl struct {
	notificationRepo notification.NotificationRepository
}

func NewNotificationService(notificationRepo notification.NotificationRepository) notification.NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
	}
}

// ListMine implements notification.NotificationService.
func (s *NotificationServiceImpl) ListMine(ctx context.Context, employeeID string, limit int) ([]notification.NotificationResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	items, err := s.notificationRepo.ListByEmployee(ctx, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, 0, len(items))
	for _, n := range items {
		var readAt *string
		if n.ReadAt != nil {
			s := n.ReadAt.Format(time.RFC3339)
			readAt = &s
		}
		responses = append(responses, notification.NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			ReadAt:    readAt,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}

	return responses, nil
}
