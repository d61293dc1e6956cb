package notification

import "context"

// NotificationService defines business logic for notification operations.
type NotificationService interface {
	// ListMine retrieves the newest notifications for one employee.
	ListMine(ctx context.Context, employeeID string, limit int) ([]NotificationResponse, error)
}
