package orders

import (
	"context"
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	orderRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/order"
)

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter orderRepo.Filter) ([]*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
}

// SettingsProvider интерфейс источника настроек ателье
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.ShopSettings, error)
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
