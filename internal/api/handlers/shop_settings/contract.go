package shop_settings

import (
	"context"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

type SettingsService interface {
	Get(ctx context.Context) (*domain.ShopSettings, error)
	Update(ctx context.Context, settings *domain.ShopSettings) (*domain.ShopSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
