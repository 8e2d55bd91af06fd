package cancel_order

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type OrdersService interface {
	Cancel(ctx context.Context, id int64, userID int64, isAdmin bool) (*domain.Order, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
