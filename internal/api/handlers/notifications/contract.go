package notifications

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type NotificationsService interface {
	List(ctx context.Context, userID int64, isAdmin bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
