package update_appointment_status

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type AppointmentsService interface {
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
