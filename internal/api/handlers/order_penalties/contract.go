package order_penalties

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/internal/penalty"
)

type OrdersService interface {
	PenaltyBreakdown(ctx context.Context, id int64, userID int64, isAdmin bool) (penalty.Breakdown, error)
	AssessDamage(ctx context.Context, id int64, damageLevel string, notes *string) (*domain.Order, error)
	MarkPenaltyPaid(ctx context.Context, id int64) (*domain.Order, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
