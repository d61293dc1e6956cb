package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arka-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/arka-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GenerateAll(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	ListDeductions(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode generate request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", result)
}

// GenerateAll implements PayrollHandler.
func (h *payrollHandlerImpl) GenerateAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PeriodMonth int `json:"period_month"`
		PeriodYear  int `json:"period_year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode generate-all request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.PeriodMonth < 1 || req.PeriodMonth > 12 {
		response.BadRequest(w, "period_month must be between 1 and 12", nil)
		return
	}

	results, err := h.payrollService.GenerateAll(r.Context(), req.PeriodMonth, req.PeriodYear)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated for all active employees", results)
}

// Get implements PayrollHandler.
func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parsePayrollFilter(r)
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	result, err := h.payrollService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMine implements PayrollHandler.
func (h *payrollHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDFromToken(r)
	if !ok {
		response.Unauthorized(w, "Token has no employee context")
		return
	}

	filter := parsePayrollFilter(r)
	filter.EmployeeID = &employeeID

	result, err := h.payrollService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MarkPaid implements PayrollHandler.
func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	adminID, ok := userIDFromToken(r)
	if !ok {
		response.Unauthorized(w, "Token has no user context")
		return
	}

	result, err := h.payrollService.MarkPaid(r.Context(), chi.URLParam(r, "id"), adminID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll marked as paid", result)
}

// ListDeductions implements PayrollHandler.
func (h *payrollHandlerImpl) ListDeductions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	employeeID := q.Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))

	result, err := h.payrollService.ListDeductions(r.Context(), employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parsePayrollFilter(r *http.Request) payroll.PayrollFilter {
	q := r.URL.Query()

	filter := payroll.PayrollFilter{}

	if month, err := strconv.Atoi(q.Get("month")); err == nil && month > 0 {
		filter.PeriodMonth = &month
	}
	if year, err := strconv.Atoi(q.Get("year")); err == nil && year > 0 {
		filter.PeriodYear = &year
	}
	if status := q.Get("status"); status != "" {
		s := payroll.PayrollStatus(status)
		filter.Status = &s
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	return filter
}
