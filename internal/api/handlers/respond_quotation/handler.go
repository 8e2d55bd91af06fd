package respond_quotation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
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
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgAccessDenied       = "нет доступа к этому заказу"
	msgOrderNotFound      = "заказ не найден"
	msgInvalidTransition  = "по заказу нет котировки, ожидающей ответа"
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

// RespondQuotationRequest ответ клиента на котировку
type RespondQuotationRequest struct {
	Decision string `json:"decision"` // accept | reject
}

// Handle POST /api/v1/orders/{orderId}/quotation/respond
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

	var req RespondQuotationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders/{id}/quotation/respond - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var order *domain.Order
	switch req.Decision {
	case decisionAccept:
		order, err = h.service.AcceptQuotation(r.Context(), orderID, userID)
	case decisionReject:
		order, err = h.service.RejectQuotation(r.Context(), orderID, userID)
	default:
		handlers.RespondBadRequest(w, msgInvalidDecision)
		return
	}

	if err != nil {
		var stateErr *orderflow.StateError
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("POST /orders/{id}/quotation/respond - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgOrderNotFound)

		case errors.Is(err, orders.ErrAccessDenied):
			h.logger.Warn("POST /orders/{id}/quotation/respond - Access denied: order_id=%d, user_id=%d", orderID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.As(err, &stateErr):
			h.logger.Warn("POST /orders/{id}/quotation/respond - Invalid transition: order_id=%d, status=%s", orderID, stateErr.Status)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /orders/{id}/quotation/respond - Failed to respond: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders/{id}/quotation/respond - Quotation %sed: order_id=%d, customer_id=%d, status=%s",
		req.Decision, orderID, userID, order.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.OrderFromDomain(*order))
}
