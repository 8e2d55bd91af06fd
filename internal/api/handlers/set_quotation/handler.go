package set_quotation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/orderflow"
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

const (
	msgInvalidOrderID     = "некорректный идентификатор заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAmount      = "сумма котировки должна быть больше нуля"
	msgOrderNotFound      = "заказ не найден"
	msgInvalidTransition  = "котировку нельзя выставить в текущем статусе заказа"
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

// SetQuotationRequest котировка администратора по заказу
type SetQuotationRequest struct {
	Amount float64 `json:"amount"`
	Notes  *string `json:"notes,omitempty"`
}

// Handle POST /api/v1/orders/{orderId}/quotation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseInt(vars["orderId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	var req SetQuotationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders/{id}/quotation - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	order, err := h.service.SetQuotation(r.Context(), orderID, req.Amount, req.Notes)
	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/quotation - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, orders.ErrInvalidInput):
			h.logger.Warn("POST /orders/{id}/quotation - Invalid amount: order_id=%d, amount=%f", orderID, req.Amount)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.As(err, &stateErr):
			h.logger.Warn("POST /orders/{id}/quotation - Invalid transition: order_id=%d, status=%s", orderID, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /orders/{id}/quotation - Failed to set quotation: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/quotation - Quotation sent: order_id=%d, amount=%f", orderID, req.Amount)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}
