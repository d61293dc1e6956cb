package overtime

import "context"

// OvertimeService runs the request workflow for SHIFT employees and the
// tiered what-if estimator.
type OvertimeService interface {
	// Submit files an explicit overtime interval for review.
	Submit(ctx context.Context, req SubmitRequest) (RequestResponse, error)

	// Approve marks a pending request approved.
	Approve(ctx context.Context, id string, adminID string) (RequestResponse, error)

	// Reject marks a pending request rejected.
	Reject(ctx context.Context, id string, adminID string, reason string) (RequestResponse, error)

	// GetRequest retrieves a single request.
	GetRequest(ctx context.Context, id string) (RequestResponse, error)

	// ListRequests retrieves requests with filters.
	ListRequests(ctx context.Context, filter RequestFilter) (ListRequestResponse, error)

	// Estimate prices a hypothetical check-out with the tiered table.
	Estimate(ctx context.Context, employeeID string, req EstimateRequest) (EstimateResponse, error)
}
