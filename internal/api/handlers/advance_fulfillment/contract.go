package advance_fulfillment

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type OrdersService interface {
	MarkReadyForPickup(ctx context.Context, id int64) (*domain.Order, error)
	MarkPickedUp(ctx context.Context, id int64) (*domain.Order, error)
	MarkReturned(ctx context.Context, id int64, damageLevel *string, damageNotes *string) (*domain.Order, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
