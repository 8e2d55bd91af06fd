package advance_fulfillment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/internal/orderflow"
	"github.com/fitform/FitForm-OrderService/internal/penalty"
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

const (
	stepReadyForPickup = "readyForPickup"
	stepPickedUp       = "pickedUp"
	stepReturned       = "returned"

	msgInvalidOrderID     = "некорректный идентификатор заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStep        = "некорректный шаг, ожидается readyForPickup, pickedUp или returned"
	msgInvalidDamageLevel = "некорректный уровень повреждений"
	msgNoQuotation        = "потолок damage fee не зафиксирован, сначала требуется котировка"
	msgOrderNotFound      = "заказ не найден"
	msgInvalidTransition  = "шаг недопустим в текущем статусе заказа"
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

// AdvanceFulfillmentRequest перевод заказа по шагам исполнения
// damageLevel учитывается только на шаге returned для аренды
type AdvanceFulfillmentRequest struct {
	Step        string  `json:"step"` // readyForPickup | pickedUp | returned
	DamageLevel *string `json:"damageLevel,omitempty"`
	DamageNotes *string `json:"damageNotes,omitempty"`
}

// Handle POST /api/v1/orders/{orderId}/fulfillment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseInt(vars["orderId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	var req AdvanceFulfillmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders/{id}/fulfillment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var order *domain.Order
	switch req.Step {
	case stepReadyForPickup:
		order, err = h.service.MarkReadyForPickup(r.Context(), orderID)
	case stepPickedUp:
		order, err = h.service.MarkPickedUp(r.Context(), orderID)
	case stepReturned:
		order, err = h.service.MarkReturned(r.Context(), orderID, req.DamageLevel, req.DamageNotes)
	default:
		handlers.RespondBadRequest(w, msgInvalidStep)
		return
	}

	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/fulfillment - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, penalty.ErrUnknownDamageLevel):
			h.logger.Warn("POST /orders/{id}/fulfillment - Unknown damage level: order_id=%d, level=%v", orderID, req.DamageLevel)
			handlers.RespondBadRequest(w, msgInvalidDamageLevel)

		case errors.Is(err, penalty.ErrNoQuotation):
			h.logger.Warn("POST /orders/{id}/fulfillment - Damage fee cap not set: order_id=%d", orderID)
			handlers.RespondConflict(w, msgNoQuotation)

		case errors.As(err, &stateErr):
			h.logger.Warn("POST /orders/{id}/fulfillment - Invalid transition: order_id=%d, step=%s, status=%s",
				orderID, req.Step, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /orders/{id}/fulfillment - Failed to advance fulfillment: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/fulfillment - Fulfillment advanced: order_id=%d, step=%s, status=%s",
		orderID, req.Step, order.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}
