package employee

import "context"

type EmployeeRepository interface {
	// GetByID retrieves an employee by ID. Soft-deleted employees are not
	// returned.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetActive retrieves all active employees.
	GetActive(ctx context.Context) ([]Employee, error)
}
