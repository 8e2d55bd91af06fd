package decide_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/internal/orderflow"
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

const (
	decisionAccept  = "accept"
	decisionDecline = "decline"

	msgInvalidOrderID     = "некорректный идентификатор заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDecision    = "некорректное решение, ожидается accept или decline"
	msgOrderNotFound      = "заказ не найден"
	msgInvalidTransition  = "переход недопустим в текущем статусе заказа"
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

// DecideOrderRequest решение администратора по новому заказу
type DecideOrderRequest struct {
	Decision string `json:"decision"` // accept | decline
}

// Handle POST /api/v1/orders/{orderId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseInt(vars["orderId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	var req DecideOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders/{id}/decision - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var order *domain.Order
	switch req.Decision {
	case decisionAccept:
		order, err = h.service.AdminAccept(r.Context(), orderID)
	case decisionDecline:
		order, err = h.service.AdminDecline(r.Context(), orderID)
	default:
		handlers.RespondBadRequest(w, msgInvalidDecision)
		return
	}

	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/decision - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.As(err, &stateErr):
			h.logger.Warn("POST /orders/{id}/decision - Invalid transition: order_id=%d, decision=%s, status=%s",
				orderID, req.Decision, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /orders/{id}/decision - Failed to decide order: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/decision - Order decided: order_id=%d, decision=%s, status=%s",
		orderID, req.Decision, order.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}
