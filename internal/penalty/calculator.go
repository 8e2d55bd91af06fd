package penalty

import (
	"errors"
	"fmt"
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

var (
	// ErrNotRental возвращается при попытке посчитать штрафы по пошиву
	ErrNotRental = errors.New("penalty: penalties apply to rentals only")

	// ErrNoQuotation возвращается, когда потолок damage fee еще не зафиксирован
	// (котировка не выставлялась)
	ErrNoQuotation = errors.New("penalty: damage fee cap is not set, quotation required first")

	// ErrUnknownDamageLevel возвращается при неизвестном уровне повреждений
	ErrUnknownDamageLevel = errors.New("penalty: unknown damage level")
)

// Breakdown постатейная раскладка штрафов; чистая проекция без мутаций
type Breakdown struct {
	CancellationFee float64
	DamageFee       float64
	Total           float64
}

// Calculate начисляет штрафы по уровню повреждений возвращенной вещи
// Сумма damage fee монотонно растет с уровнем и ограничена damage fee cap
// Возвращает обновленную копию заказа
func Calculate(o domain.Order, level domain.DamageLevel, notes *string, now time.Time) (domain.Order, error) {
	if !o.IsRental() {
		return o, ErrNotRental
	}
	if o.DamageFeeMax == nil {
		return o, ErrNoQuotation
	}

	damage, err := damageFee(level, o.DamageFeeMin, *o.DamageFeeMax)
	if err != nil {
		return o, err
	}

	o.TotalPenalties = cancellationComponent(o) + damage
	o.PenaltyStatus = domain.PenaltyPending
	o.PenaltyNotes = notes
	calculatedAt := now
	o.PenaltyCalculatedAt = &calculatedAt
	o.UpdatedAt = now
	return o, nil
}

// GetBreakdown раскладывает текущие штрафы по статьям
// Безопасно вызывать многократно, состояние заказа не меняется
func GetBreakdown(o domain.Order) Breakdown {
	cancellation := cancellationComponent(o)
	damage := o.TotalPenalties - cancellation
	if damage < 0 {
		damage = 0
	}
	return Breakdown{
		CancellationFee: cancellation,
		DamageFee:       damage,
		Total:           cancellation + damage,
	}
}

// MarkPaid помечает штрафы оплаченными
// Идемпотентна: повторный вызов не меняет ни статус, ни penalty_paid_at
func MarkPaid(o domain.Order, now time.Time) (domain.Order, bool, error) {
	if !o.IsRental() {
		return o, false, ErrNotRental
	}
	if o.PenaltyStatus == domain.PenaltyPaid {
		return o, false, nil
	}

	o.PenaltyStatus = domain.PenaltyPaid
	paidAt := now
	o.PenaltyPaidAt = &paidAt
	o.UpdatedAt = now
	return o, true, nil
}

// damageFee лестница платы за повреждения:
// none=0, minor=минимальная ставка, major=половина потолка, severe=потолок
// Каждая ступень зажата в [0, cap], поэтому монотонность сохраняется
// и при низких котировках
func damageFee(level domain.DamageLevel, feeMin, feeMax float64) (float64, error) {
	var fee float64
	switch level {
	case domain.DamageNone:
		return 0, nil
	case domain.DamageMinor:
		fee = feeMin
	case domain.DamageMajor:
		fee = feeMax / 2
		if fee < feeMin {
			fee = feeMin
		}
	case domain.DamageSevere:
		fee = feeMax
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDamageLevel, level)
	}

	if fee > feeMax {
		fee = feeMax
	}
	if fee < 0 {
		fee = 0
	}
	return fee, nil
}

// cancellationComponent фиксированный сбор за отмену входит в итог,
// только если аренда была отменена
func cancellationComponent(o domain.Order) float64 {
	if o.Status == domain.OrderCancelled {
		return o.CancellationFee
	}
	return 0
}
