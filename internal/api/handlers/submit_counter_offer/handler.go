package submit_counter_offer

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
	msgInvalidOrderID     = "некорректный идентификатор заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAmount      = "сумма встречного предложения должна быть больше нуля"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgAccessDenied       = "нет доступа к этому заказу"
	msgOrderNotFound      = "заказ не найден"
	msgInvalidTransition  = "встречное предложение нельзя отправить в текущем статусе заказа"
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

// SubmitCounterOfferRequest встречное предложение клиента по котировке
type SubmitCounterOfferRequest struct {
	Amount float64 `json:"amount"`
	Notes  *string `json:"notes,omitempty"`
}

// Handle POST /api/v1/orders/{orderId}/counter-offer
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

	var req SubmitCounterOfferRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders/{id}/counter-offer - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	order, err := h.service.SubmitCounterOffer(r.Context(), orderID, userID, req.Amount, req.Notes)
	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/counter-offer - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, orders.ErrAccessDenied):
			h.logger.Warn("POST /orders/{id}/counter-offer - Access denied: order_id=%d, user_id=%d", orderID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, orders.ErrInvalidInput):
			h.logger.Warn("POST /orders/{id}/counter-offer - Invalid amount: order_id=%d, amount=%f", orderID, req.Amount)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.As(err, &stateErr):
			h.logger.Warn("POST /orders/{id}/counter-offer - Invalid transition: order_id=%d, status=%s", orderID, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /orders/{id}/counter-offer - Failed to submit counter offer: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/counter-offer - Counter offer submitted: order_id=%d, customer_id=%d, amount=%f",
		orderID, userID, req.Amount)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}
