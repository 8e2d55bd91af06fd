package get_daily_capacity

import (
	"context"
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
}

// RulesProvider интерфейс источника правил бронирования
type RulesProvider interface {
	Rules(ctx context.Context) (domain.BusinessRules, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
