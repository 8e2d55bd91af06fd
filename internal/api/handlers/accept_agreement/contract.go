package accept_agreement

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type OrdersService interface {
	AcceptAgreement(ctx context.Context, id int64, customerID int64) (*domain.Order, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
