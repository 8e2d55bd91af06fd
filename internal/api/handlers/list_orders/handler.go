package list_orders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

const (
	msgUnauthorized      = "пользователь не аутентифицирован"
	msgInvalidCustomerID = "некорректный параметр customerId"
	msgInvalidFilter     = "некорректные параметры фильтра"
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

// OrdersListResponse список заказов
type OrdersListResponse struct {
	Orders []handlers.OrderResponse `json:"orders"`
}

// Handle GET /api/v1/orders?type=rental&status=pending&customerId=42
// Клиент всегда видит только свои заказы, фильтр customerId доступен администратору
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var filter orders.ListFilter

	if middleware.IsAdmin(r.Context()) {
		if raw := r.URL.Query().Get("customerId"); raw != "" {
			customerID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				handlers.RespondBadRequest(w, msgInvalidCustomerID)
				return
			}
			filter.CustomerID = &customerID
		}
	} else {
		filter.CustomerID = &userID
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		filter.Type = &raw
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		filter.Status = &raw
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidInput):
			h.logger.Warn("GET /orders - Invalid filter: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /orders - Failed to list orders: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := OrdersListResponse{
		Orders: make([]handlers.OrderResponse, 0, len(items)),
	}
	for _, order := range items {
		response.Orders = append(response.Orders, handlers.OrderFromDomain(*order))
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}
