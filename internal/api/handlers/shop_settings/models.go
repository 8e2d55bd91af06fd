package shop_settings

import (
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// SettingsRequest настройки ателье, задаются администратором
type SettingsRequest struct {
	AutoApproveEnabled    bool    `json:"autoApproveEnabled"`
	MaxAppointmentsPerDay int     `json:"maxAppointmentsPerDay"`
	BusinessStart         string  `json:"businessStart"` // HH:MM
	BusinessEnd           string  `json:"businessEnd"`   // HH:MM
	CancellationFee       float64 `json:"cancellationFee"`
	DamageFeeMin          float64 `json:"damageFeeMin"`
}

// ToDomain конвертирует HTTP запрос в доменную модель
func (r *SettingsRequest) ToDomain() *domain.ShopSettings {
	return &domain.ShopSettings{
		AutoApproveEnabled:    r.AutoApproveEnabled,
		MaxAppointmentsPerDay: r.MaxAppointmentsPerDay,
		BusinessStart:         types.TimeString(r.BusinessStart),
		BusinessEnd:           types.TimeString(r.BusinessEnd),
		CancellationFee:       r.CancellationFee,
		DamageFeeMin:          r.DamageFeeMin,
	}
}

// SettingsResponse текущие настройки ателье
type SettingsResponse struct {
	AutoApproveEnabled    bool      `json:"autoApproveEnabled"`
	MaxAppointmentsPerDay int       `json:"maxAppointmentsPerDay"`
	BusinessStart         string    `json:"businessStart"`
	BusinessEnd           string    `json:"businessEnd"`
	CancellationFee       float64   `json:"cancellationFee"`
	DamageFeeMin          float64   `json:"damageFeeMin"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// FromDomain конвертирует доменную модель в HTTP ответ
func FromDomain(s *domain.ShopSettings) SettingsResponse {
	return SettingsResponse{
		AutoApproveEnabled:    s.AutoApproveEnabled,
		MaxAppointmentsPerDay: s.MaxAppointmentsPerDay,
		BusinessStart:         string(s.BusinessStart),
		BusinessEnd:           string(s.BusinessEnd),
		CancellationFee:       s.CancellationFee,
		DamageFeeMin:          s.DamageFeeMin,
		UpdatedAt:             s.UpdatedAt,
	}
}
