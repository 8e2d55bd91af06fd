package settings

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек ателье
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.ShopSettings, error)
	Upsert(ctx context.Context, s *domain.ShopSettings) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
