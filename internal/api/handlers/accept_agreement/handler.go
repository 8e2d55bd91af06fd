package accept_agreement

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
	msgInvalidTransition = "договор аренды нельзя принять для этого заказа"
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

// Handle POST /api/v1/orders/{orderId}/agreement
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

	order, err := h.service.AcceptAgreement(r.Context(), orderID, userID)
	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/agreement - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, orders.ErrAccessDenied):
			h.logger.Warn("POST /orders/{id}/agreement - Access denied: order_id=%d, user_id=%d", orderID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.As(err, &stateErr):
			h.logger.Warn("POST /orders/{id}/agreement - Invalid transition: order_id=%d, status=%s", orderID, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /orders/{id}/agreement - Failed to accept agreement: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/agreement - Agreement accepted: order_id=%d, customer_id=%d", orderID, userID)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}
