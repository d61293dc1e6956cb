package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arka-hr/payroll-backend-go/internal/domain/overtime"
	"github.com/arka-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Estimate(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{
		overtimeService: overtimeService,
	}
}

// Submit implements OvertimeHandler.
func (h *overtimeHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDFromToken(r)
	if !ok {
		response.Unauthorized(w, "Token has no employee context")
		return
	}

	var req overtime.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode overtime request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.overtimeService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime request submitted", result)
}

// Approve implements OvertimeHandler.
func (h *overtimeHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	adminID, ok := userIDFromToken(r)
	if !ok {
		response.Unauthorized(w, "Token has no user context")
		return
	}

	result, err := h.overtimeService.Approve(r.Context(), chi.URLParam(r, "id"), adminID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request approved", result)
}

// Reject implements OvertimeHandler.
func (h *overtimeHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	adminID, ok := userIDFromToken(r)
	if !ok {
		response.Unauthorized(w, "Token has no user context")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Error("Failed to decode reject request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.overtimeService.Reject(r.Context(), chi.URLParam(r, "id"), adminID, body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request rejected", result)
}

// Get implements OvertimeHandler.
func (h *overtimeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.overtimeService.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements OvertimeHandler.
func (h *overtimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseOvertimeFilter(r)
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	result, err := h.overtimeService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMine implements OvertimeHandler.
func (h *overtimeHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDFromToken(r)
	if !ok {
		response.Unauthorized(w, "Token has no employee context")
		return
	}

	filter := parseOvertimeFilter(r)
	filter.EmployeeID = &employeeID

	result, err := h.overtimeService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Estimate implements OvertimeHandler.
func (h *overtimeHandlerImpl) Estimate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDFromToken(r)
	if !ok {
		response.Unauthorized(w, "Token has no employee context")
		return
	}

	var req overtime.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode estimate request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.overtimeService.Estimate(r.Context(), employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseOvertimeFilter(r *http.Request) overtime.RequestFilter {
	q := r.URL.Query()

	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := overtime.RequestFilter{
		Month: month,
		Year:  year,
		Page:  page,
		Limit: limit,
	}

	if status := q.Get("status"); status != "" {
		s := overtime.RequestStatus(status)
		filter.Status = &s
	}

	return filter
}
