package create_order

import (
	"errors"
	"net/http"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgInvalidInput       = "некорректные данные заказа"
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

// Handle POST /api/v1/orders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	order, err := h.service.Create(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidInput):
			h.logger.Warn("POST /orders - Invalid input: customer_id=%d, type=%s, error=%v", userID, req.Type, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /orders - Failed to create order: customer_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders - Order created: order_id=%d, customer_id=%d, type=%s", order.ID, userID, order.Type)
	handlers.RespondJSON(w, http.StatusCreated, handlers.OrderFromDomain(*order))
}
