package order_penalties

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
	"github.com/fitform/FitForm-OrderService/internal/orderflow"
	"github.com/fitform/FitForm-OrderService/internal/penalty"
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

const (
	msgInvalidOrderID     = "некорректный идентификатор заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDamageLevel = "некорректный уровень повреждений"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgAccessDenied       = "нет доступа к этому заказу"
	msgOrderNotFound      = "заказ не найден"
	msgNotRental          = "штрафы применимы только к арендным заказам"
	msgNoQuotation        = "потолок damage fee не зафиксирован, сначала требуется котировка"
	msgInvalidTransition  = "операция недопустима в текущем статусе заказа"
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

// HandleGet GET /api/v1/orders/{orderId}/penalties
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	breakdown, err := h.service.PenaltyBreakdown(r.Context(), orderID, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("GET /orders/{id}/penalties - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, orders.ErrAccessDenied):
			h.logger.Warn("GET /orders/{id}/penalties - Access denied: order_id=%d, user_id=%d", orderID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, penalty.ErrNotRental):
			h.logger.Warn("GET /orders/{id}/penalties - Not a rental: order_id=%d", orderID)
			handlers.RespondUnprocessable(w, msgNotRental)

		default:
			h.logger.Error("GET /orders/{id}/penalties - Failed to get breakdown: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromBreakdown(breakdown))
}

// HandleAssess POST /api/v1/orders/{orderId}/penalties
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req AssessDamageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders/{id}/penalties - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	order, err := h.service.AssessDamage(r.Context(), orderID, req.DamageLevel, req.Notes)
	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/penalties - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, penalty.ErrNotRental):
			h.logger.Warn("POST /orders/{id}/penalties - Not a rental: order_id=%d", orderID)
			handlers.RespondUnprocessable(w, msgNotRental)

		case errors.Is(err, penalty.ErrUnknownDamageLevel):
			h.logger.Warn("POST /orders/{id}/penalties - Unknown damage level: order_id=%d, level=%s", orderID, req.DamageLevel)
			handlers.RespondBadRequest(w, msgInvalidDamageLevel)

		case errors.Is(err, penalty.ErrNoQuotation):
			h.logger.Warn("POST /orders/{id}/penalties - Damage fee cap not set: order_id=%d", orderID)
			handlers.RespondConflict(w, msgNoQuotation)

		case errors.As(err, &stateErr):
			h.logger.Warn("POST /orders/{id}/penalties - Invalid transition: order_id=%d, status=%s", orderID, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /orders/{id}/penalties - Failed to assess damage: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/penalties - Damage assessed: order_id=%d, level=%s, total=%f",
		orderID, req.DamageLevel, order.TotalPenalties)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}

// HandleMarkPaid POST /api/v1/orders/{orderId}/penalties/paid
// Операция идемпотентна: повторный вызов не меняет дату оплаты
func (h *Handler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.MarkPenaltyPaid(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/penalties/paid - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, penalty.ErrNotRental):
			h.logger.Warn("POST /orders/{id}/penalties/paid - Not a rental: order_id=%d", orderID)
			handlers.RespondUnprocessable(w, msgNotRental)

		default:
			h.logger.Error("POST /orders/{id}/penalties/paid - Failed to mark paid: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/penalties/paid - Penalties paid: order_id=%d, total=%f", orderID, order.TotalPenalties)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["orderId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return 0, false
	}
	return orderID, true
}
