package cancel_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
	"github.com/fitform/FitForm-OrderService/internal/orderflow"
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

const (
	msgInvalidOrderID    = "некорректный идентификатор заказа"
	msgUnauthorized      = "пользователь не аутентифицирован"
	msgAccessDenied      = "нет доступа к этому заказу"
	msgOrderNotFound     = "заказ не найден"
	msgInvalidTransition = "заказ нельзя отменить в текущем статусе"
)

type Handler struct {
	service OrdersService
	logger  Logger
}

func NewHandler(service OrdersService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/orders/{orderId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseInt(vars["orderId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	order, err := h.service.Cancel(r.Context(), orderID, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("PATCH /orders/{id}/cancel - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, orders.ErrAccessDenied):
			h.logger.Warn("PATCH /orders/{id}/cancel - Access denied: order_id=%d, user_id=%d", orderID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.As(err, &stateErr):
			h.logger.Warn("PATCH /orders/{id}/cancel - Invalid transition: order_id=%d, status=%s", orderID, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /orders/{id}/cancel - Failed to cancel order: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /orders/{id}/cancel - Order cancelled: order_id=%d, user_id=%d, penalties=%f",
		orderID, userID, order.TotalPenalties)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}
