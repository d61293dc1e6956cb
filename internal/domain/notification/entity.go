package notification

import "time"

type Type string

const (
	TypePayslipAvailable Type = "PAYSLIP_AVAILABLE"
)

// Notification is an outbox row consumed by an external dispatcher.
// Writing one is fire-and-forget from the producer's point of view.
type Notification struct {
	ID         string
	EmployeeID string
	Type       Type
	Title      string
	Message    string
	ReadAt     *time.Time
	CreatedAt  time.Time
}
