package order_penalties

import (
	"github.com/fitform/FitForm-OrderService/internal/penalty"
)

// AssessDamageRequest оценка повреждений возвращенной вещи администратором
type AssessDamageRequest struct {
	DamageLevel string  `json:"damageLevel"` // none | minor | major | severe
	Notes       *string `json:"notes,omitempty"`
}

// BreakdownResponse постатейная раскладка начисленных штрафов
type BreakdownResponse struct {
	CancellationFee float64 `json:"cancellationFee"`
	DamageFee       float64 `json:"damageFee"`
	Total           float64 `json:"total"`
}

// FromBreakdown конвертирует раскладку штрафов в HTTP ответ
func FromBreakdown(b penalty.Breakdown) BreakdownResponse {
	return BreakdownResponse{
		CancellationFee: b.CancellationFee,
		DamageFee:       b.DamageFee,
		Total:           b.Total,
	}
}
