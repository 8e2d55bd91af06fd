package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	settingsRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/settings"
)

// Service сервис настроек ателье
// Правила всегда передаются явно по значению - глобального состояния нет,
// каждая оценка работает на снимке настроек на момент вызова
type Service struct {
	repo   SettingsRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo SettingsRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Get получает текущие настройки ателье
// Пока администратор ни разу не сохранял настройки, действуют значения по умолчанию
func (s *Service) Get(ctx context.Context) (*domain.ShopSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			defaults := domain.DefaultShopSettings()
			return &defaults, nil
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return settings, nil
}

// Rules получает правила бронирования из текущих настроек
func (s *Service) Rules(ctx context.Context) (domain.BusinessRules, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return domain.BusinessRules{}, err
	}
	return settings.Rules(), nil
}

// Update сохраняет настройки ателье
func (s *Service) Update(ctx context.Context, settings *domain.ShopSettings) (*domain.ShopSettings, error) {
	if err := validate(settings); err != nil {
		s.logger.Warn("Update: invalid settings: %v", err)
		return nil, err
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: settings saved, auto_approve=%v, max_per_day=%d, hours=%s-%s",
		settings.AutoApproveEnabled, settings.MaxAppointmentsPerDay, settings.BusinessStart, settings.BusinessEnd)
	return s.Get(ctx)
}

func validate(settings *domain.ShopSettings) error {
	if settings.MaxAppointmentsPerDay < 1 {
		return fmt.Errorf("%w: max appointments per day must be positive", ErrInvalidInput)
	}
	if err := settings.BusinessStart.Validate(); err != nil {
		return fmt.Errorf("%w: business start: %v", ErrInvalidInput, err)
	}
	if err := settings.BusinessEnd.Validate(); err != nil {
		return fmt.Errorf("%w: business end: %v", ErrInvalidInput, err)
	}
	if !settings.BusinessStart.IsBefore(settings.BusinessEnd) {
		return fmt.Errorf("%w: business start must precede business end", ErrInvalidInput)
	}
	if settings.CancellationFee < 0 || settings.DamageFeeMin < 0 {
		return fmt.Errorf("%w: fees must be non-negative", ErrInvalidInput)
	}
	return nil
}
