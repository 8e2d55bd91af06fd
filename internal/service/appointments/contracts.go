package appointments

import (
	"context"
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на примерку
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetPending(ctx context.Context) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	UpdateStatusBatch(ctx context.Context, ids []int64, status domain.AppointmentStatus) error
	UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime string, status domain.AppointmentStatus) error
}

// RulesProvider интерфейс источника правил бронирования
type RulesProvider interface {
	Rules(ctx context.Context) (domain.BusinessRules, error)
}

// NotificationDispatcher интерфейс диспетчера уведомлений
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event domain.StatusEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
