package notification

import "context"

type NotificationRepository interface {
	// Create appends a notification row.
	Create(ctx context.Context, n Notification) (Notification, error)

	// ListByEmployee retrieves notifications for one employee, newest
	// first.
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Notification, error)
}
