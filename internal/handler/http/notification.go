package http

import (
	"net/http"
	"strconv"

	"github.com/arka-hr/payroll-backend-go/internal/domain/notification"
	"github.com/arka-hr/payroll-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notificationService notification.NotificationService
}

func NewNotificationHandler(notificationService notification.NotificationService) NotificationHandler {
	return &notificationHandlerImpl{
		notificationService: notificationService,
	}
}

// ListMine implements NotificationHandler.
func (h *notificationHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDFromToken(r)
	if !ok {
		response.Unauthorized(w, "Token has no employee context")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	result, err := h.notificationService.ListMine(r.Context(), employeeID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
