package reschedule_appointment

import (
	"context"
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime string, status domain.AppointmentStatus) error
}

// AutoApprover интерфейс применения авто-подтверждения к записи
type AutoApprover interface {
	ApplyAutoApproval(ctx context.Context, apptID int64) (domain.AppointmentStatus, error)
}

// RulesProvider интерфейс источника правил бронирования
type RulesProvider interface {
	Rules(ctx context.Context) (domain.BusinessRules, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
