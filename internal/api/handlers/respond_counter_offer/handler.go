package respond_counter_offer

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
	decisionAccept = "accept"
	decisionReject = "reject"

	msgInvalidOrderID     = "некорректный идентификатор заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDecision    = "некорректное решение, ожидается accept или reject"
	msgOrderNotFound      = "заказ не найден"
	msgInvalidTransition  = "по заказу нет встречного предложения, ожидающего решения"
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

// RespondCounterOfferRequest решение администратора по встречному предложению
type RespondCounterOfferRequest struct {
	Decision string `json:"decision"` // accept | reject
}

// Handle POST /api/v1/orders/{orderId}/counter-offer/respond
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseInt(vars["orderId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	var req RespondCounterOfferRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders/{id}/counter-offer/respond - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var order *domain.Order
	switch req.Decision {
	case decisionAccept:
		order, err = h.service.AcceptCounterOffer(r.Context(), orderID)
	case decisionReject:
		order, err = h.service.RejectCounterOffer(r.Context(), orderID)
	default:
		handlers.RespondBadRequest(w, msgInvalidDecision)
		return
	}

	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/counter-offer/respond - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.As(err, &stateErr):
			h.logger.Warn("POST /orders/{id}/counter-offer/respond - Invalid transition: order_id=%d, status=%s", orderID, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /orders/{id}/counter-offer/respond - Failed to respond: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/counter-offer/respond - Counter offer %sed: order_id=%d, status=%s",
		req.Decision, orderID, order.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}
