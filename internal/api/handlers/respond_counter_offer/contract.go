package respond_counter_offer

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type OrdersService interface {
	AcceptCounterOffer(ctx context.Context, id int64) (*domain.Order, error)
	RejectCounterOffer(ctx context.Context, id int64) (*domain.Order, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
