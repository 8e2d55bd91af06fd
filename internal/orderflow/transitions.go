package orderflow

import (
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// Чистые функции переходов жизненного цикла заказа
// Каждая функция принимает заказ по значению и возвращает обновленную копию
// плюс событие смены статуса; сохранение - забота вызывающего слоя

// AdminAccept админ принимает новый заказ в работу
func AdminAccept(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.Status != domain.OrderPending {
		return o, domain.StatusEvent{}, stateErr("adminAccept", "order is not pending", o.Status)
	}
	return apply(o, domain.OrderConfirmed, domain.ActorAdmin, now)
}

// AdminDecline админ отклоняет новый заказ
func AdminDecline(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.Status != domain.OrderPending {
		return o, domain.StatusEvent{}, stateErr("adminDecline", "order is not pending", o.Status)
	}
	return apply(o, domain.OrderDeclined, domain.ActorAdmin, now)
}

// SetQuotation админ выставляет цену
// Для аренды сумма котировки становится потолком damage fee
func SetQuotation(o domain.Order, amount float64, notes *string, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.Status != domain.OrderPending && o.Status != domain.OrderConfirmed {
		return o, domain.StatusEvent{}, stateErr("setQuotation", "order must be pending or confirmed", o.Status)
	}

	o.QuotationAmount = &amount
	o.QuotationNotes = notes
	sentAt := now
	o.QuotationSentAt = &sentAt
	if o.IsRental() {
		feeMax := amount
		o.DamageFeeMax = &feeMax
	}
	return apply(o, domain.OrderQuotationSent, domain.ActorAdmin, now)
}

// CustomerAcceptQuotation клиент принимает котировку
// Аренда сразу готовится к выдаче, пошив уходит в работу - различие
// сохранено намеренно, это не общий терминальный статус
func CustomerAcceptQuotation(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.Status != domain.OrderQuotationSent {
		return o, domain.StatusEvent{}, stateErr("customerAcceptQuotation", "quotation is not awaiting a response", o.Status)
	}

	respondedAt := now
	o.QuotationRespondedAt = &respondedAt
	return apply(o, acceptedQuotationTarget(o), domain.ActorCustomer, now)
}

// CustomerRejectQuotation клиент отклоняет котировку
func CustomerRejectQuotation(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.Status != domain.OrderQuotationSent {
		return o, domain.StatusEvent{}, stateErr("customerRejectQuotation", "quotation is not awaiting a response", o.Status)
	}

	respondedAt := now
	o.QuotationRespondedAt = &respondedAt
	return apply(o, domain.OrderDeclined, domain.ActorCustomer, now)
}

// CustomerCounterOffer клиент предлагает свою цену
// Допустим после отправки котировки, а также повторно из declined,
// если котировка ранее высылалась
func CustomerCounterOffer(o domain.Order, amount float64, notes *string, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.Status == domain.OrderInProgress || o.Status == domain.OrderReadyForPickup {
		return o, domain.StatusEvent{}, stateErr("customerCounterOffer", "transaction is already agreed", o.Status)
	}
	retry := o.Status == domain.OrderDeclined && o.QuotationSentAt != nil
	if o.Status != domain.OrderQuotationSent && !retry {
		return o, domain.StatusEvent{}, stateErr("customerCounterOffer", "no quotation to counter", o.Status)
	}

	o.CounterOfferAmount = &amount
	o.CounterOfferNotes = notes
	sentAt := now
	o.CounterOfferSentAt = &sentAt
	o.CounterOfferStatus = domain.CounterOfferPending
	return apply(o, domain.OrderCounterOfferPending, domain.ActorCustomer, now)
}

// AdminAcceptCounterOffer админ принимает встречное предложение:
// цена клиента становится итоговой котировкой
func AdminAcceptCounterOffer(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if !o.HasPendingCounterOffer() {
		return o, domain.StatusEvent{}, stateErr("adminAcceptCounterOffer", "no pending counter offer", o.Status)
	}

	o.QuotationAmount = o.CounterOfferAmount
	if o.IsRental() && o.CounterOfferAmount != nil {
		feeMax := *o.CounterOfferAmount
		o.DamageFeeMax = &feeMax
	}
	o.CounterOfferStatus = domain.CounterOfferAccepted
	return apply(o, acceptedQuotationTarget(o), domain.ActorAdmin, now)
}

// AdminRejectCounterOffer админ отклоняет встречное предложение
func AdminRejectCounterOffer(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if !o.HasPendingCounterOffer() {
		return o, domain.StatusEvent{}, stateErr("adminRejectCounterOffer", "no pending counter offer", o.Status)
	}

	o.CounterOfferStatus = domain.CounterOfferRejected
	return apply(o, domain.OrderDeclined, domain.ActorAdmin, now)
}

// MarkReadyForPickup заказ готов к выдаче
func MarkReadyForPickup(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.Status != domain.OrderInProgress {
		return o, domain.StatusEvent{}, stateErr("markReadyForPickup", "order is not in progress", o.Status)
	}
	return apply(o, domain.OrderReadyForPickup, domain.ActorAdmin, now)
}

// MarkPickedUp заказ выдан клиенту
func MarkPickedUp(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.Status != domain.OrderReadyForPickup {
		return o, domain.StatusEvent{}, stateErr("markPickedUp", "order is not ready for pickup", o.Status)
	}
	return apply(o, domain.OrderPickedUp, domain.ActorAdmin, now)
}

// MarkReturned арендованная вещь возвращена (только аренда)
func MarkReturned(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if !o.IsRental() {
		return o, domain.StatusEvent{}, stateErr("markReturned", "only rentals are returned", o.Status)
	}
	if o.Status != domain.OrderPickedUp {
		return o, domain.StatusEvent{}, stateErr("markReturned", "order is not picked up", o.Status)
	}
	return apply(o, domain.OrderReturned, domain.ActorAdmin, now)
}

// Cancel отмена заказа клиентом или админом
// Для аренды сразу начисляется фиксированный штраф за отмену
func Cancel(o domain.Order, actor domain.Actor, now time.Time) (domain.Order, domain.StatusEvent, error) {
	if o.IsTerminal() {
		return o, domain.StatusEvent{}, stateErr("cancel", "order is already terminal", o.Status)
	}

	if o.IsRental() {
		o.TotalPenalties = o.CancellationFee
		o.PenaltyStatus = domain.PenaltyPending
	}
	return apply(o, domain.OrderCancelled, actor, now)
}

// AcceptAgreement клиент принимает условия аренды
// Статус не меняется, событие не эмитится
func AcceptAgreement(o domain.Order, now time.Time) (domain.Order, error) {
	if !o.IsRental() {
		return o, stateErr("acceptAgreement", "only rentals carry an agreement", o.Status)
	}
	if o.IsTerminal() {
		return o, stateErr("acceptAgreement", "order is already terminal", o.Status)
	}

	o.AgreementAccepted = true
	o.UpdatedAt = now
	return o, nil
}

// acceptedQuotationTarget куда уходит заказ после согласования цены:
// аренда - ready_for_pickup, пошив - in_progress
func acceptedQuotationTarget(o domain.Order) domain.OrderStatus {
	if o.IsRental() {
		return domain.OrderReadyForPickup
	}
	return domain.OrderInProgress
}

func apply(o domain.Order, next domain.OrderStatus, actor domain.Actor, now time.Time) (domain.Order, domain.StatusEvent, error) {
	event := domain.StatusEvent{
		Kind:       domain.EventKindOrder,
		SubjectID:  o.ID,
		OrderType:  o.Type,
		CustomerID: o.CustomerID,
		Actor:      actor,
		OldStatus:  string(o.Status),
		NewStatus:  string(next),
		OccurredAt: now,
	}
	o.Status = next
	o.UpdatedAt = now
	return o, event, nil
}
