package get_appointment

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type AppointmentsService interface {
	GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
