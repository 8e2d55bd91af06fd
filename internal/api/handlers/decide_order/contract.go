package decide_order

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type OrdersService interface {
	AdminAccept(ctx context.Context, id int64) (*domain.Order, error)
	AdminDecline(ctx context.Context, id int64) (*domain.Order, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
