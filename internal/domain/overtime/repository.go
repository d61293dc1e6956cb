package overtime

import "context"

type RequestRepository interface {
	// Create stores a new overtime request in PENDING state.
	Create(ctx context.Context, request Request) (Request, error)

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id string) (Request, error)

	// Update updates status and review fields.
	Update(ctx context.Context, request Request) error

	// List retrieves requests with filters and pagination.
	List(ctx context.Context, filter RequestFilter) ([]Request, int64, error)

	// ListApprovedByEmployeeAndMonth retrieves approved requests for one
	// employee inside one month.
	ListApprovedByEmployeeAndMonth(ctx context.Context, employeeID string, month, year int) ([]Request, error)
}
