package list_orders

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

type OrdersService interface {
	List(ctx context.Context, filter orders.ListFilter) ([]*domain.Order, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
