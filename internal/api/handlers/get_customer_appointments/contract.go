package get_customer_appointments

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type AppointmentsService interface {
	GetCustomerAppointments(ctx context.Context, customerID int64, status *string) ([]*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
