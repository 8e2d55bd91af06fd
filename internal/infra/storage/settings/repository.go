package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/dbmetrics"
	"github.com/fitform/FitForm-OrderService/pkg/psqlbuilder"
)

// settingsRowID единственная строка настроек ателье
const settingsRowID = 1

var settingsColumns = []string{
	"auto_approve_enabled",
	"max_appointments_per_day",
	"business_start",
	"business_end",
	"cancellation_fee",
	"damage_fee_min",
	"updated_at",
}

// Repository репозиторий для работы с настройками ателье
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает строку настроек
// Если строка еще не создана, возвращает ErrSettingsNotFound -
// сервис настроек в этом случае подставляет значения по умолчанию
func (r *Repository) Get(ctx context.Context) (*domain.ShopSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("shop_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ShopSettings
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.AutoApproveEnabled,
		&s.MaxAppointmentsPerDay,
		&s.BusinessStart,
		&s.BusinessEnd,
		&s.CancellationFee,
		&s.DamageFeeMin,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	s.UpdatedAt = updatedAt.Time
	return &s, nil
}

// Upsert создает или обновляет строку настроек
func (r *Repository) Upsert(ctx context.Context, s *domain.ShopSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("shop_settings").
		Columns(
			"id",
			"auto_approve_enabled",
			"max_appointments_per_day",
			"business_start",
			"business_end",
			"cancellation_fee",
			"damage_fee_min",
		).
		Values(
			settingsRowID,
			s.AutoApproveEnabled,
			s.MaxAppointmentsPerDay,
			s.BusinessStart,
			s.BusinessEnd,
			s.CancellationFee,
			s.DamageFeeMin,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			auto_approve_enabled = EXCLUDED.auto_approve_enabled,
			max_appointments_per_day = EXCLUDED.max_appointments_per_day,
			business_start = EXCLUDED.business_start,
			business_end = EXCLUDED.business_end,
			cancellation_fee = EXCLUDED.cancellation_fee,
			damage_fee_min = EXCLUDED.damage_fee_min,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}
