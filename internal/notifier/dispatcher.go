package notifier

import (
	"context"
	"fmt"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// Dispatcher превращает события смены статуса в строки уведомлений.
// Действия клиента рассылаются администраторам (user_id = NULL),
// действия администратора и системы адресуются клиенту.
// Доставка за пределы таблицы уведомлений - внешняя забота
type Dispatcher struct {
	repo   NotificationRepository
	logger Logger
}

// NewDispatcher создает новый диспетчер уведомлений
func NewDispatcher(repo NotificationRepository, logger Logger) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		logger: logger,
	}
}

// Dispatch сохраняет уведомление для события
// Вызывается после фиксации транзакции; ошибка не откатывает переход
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.StatusEvent) error {
	message := buildMessage(event)
	if message == "" {
		return nil
	}

	n := &domain.Notification{
		Message:    message,
		SenderRole: string(event.Actor),
	}

	if event.Actor == domain.ActorCustomer {
		n.RecipientRole = domain.RecipientAdmin
	} else {
		n.RecipientRole = domain.RecipientCustomer
		n.UserID = &event.CustomerID
	}

	if _, err := d.repo.Create(ctx, n); err != nil {
		d.logger.Error("Dispatch: failed to create notification for %s #%d: %v", event.Kind, event.SubjectID, err)
		return err
	}

	d.logger.Info("Dispatch: notification created for %s #%d (%s -> %s)", event.Kind, event.SubjectID, event.OldStatus, event.NewStatus)
	return nil
}

func buildMessage(event domain.StatusEvent) string {
	if event.Kind == domain.EventKindAppointment {
		return appointmentMessage(event)
	}
	return orderMessage(event)
}

func appointmentMessage(event domain.StatusEvent) string {
	if event.Actor == domain.ActorCustomer {
		switch domain.AppointmentStatus(event.NewStatus) {
		case domain.AppointmentPending:
			return fmt.Sprintf("New fitting appointment #%d has been requested.", event.SubjectID)
		case domain.AppointmentConfirmed:
			// авто-подтверждение при бронировании - админам видно сразу
			return fmt.Sprintf("New fitting appointment #%d has been booked and confirmed.", event.SubjectID)
		case domain.AppointmentCancelled:
			return fmt.Sprintf("Customer cancelled fitting appointment #%d.", event.SubjectID)
		}
		return ""
	}

	switch domain.AppointmentStatus(event.NewStatus) {
	case domain.AppointmentConfirmed:
		return fmt.Sprintf("Your fitting appointment #%d has been confirmed.", event.SubjectID)
	case domain.AppointmentCancelled:
		return fmt.Sprintf("Your fitting appointment #%d has been cancelled.", event.SubjectID)
	case domain.AppointmentCompleted:
		return fmt.Sprintf("Your fitting appointment #%d has been completed.", event.SubjectID)
	}
	return ""
}

func orderMessage(event domain.StatusEvent) string {
	kind := string(event.OrderType)

	if event.Actor == domain.ActorCustomer {
		switch domain.OrderStatus(event.NewStatus) {
		case domain.OrderPending:
			return fmt.Sprintf("You have a new %s order #%d.", kind, event.SubjectID)
		case domain.OrderCounterOfferPending:
			return fmt.Sprintf("Customer made a counter offer for %s order #%d.", kind, event.SubjectID)
		case domain.OrderInProgress, domain.OrderReadyForPickup:
			return fmt.Sprintf("Customer accepted the quotation for %s order #%d.", kind, event.SubjectID)
		case domain.OrderDeclined:
			return fmt.Sprintf("Customer rejected the quotation for %s order #%d.", kind, event.SubjectID)
		case domain.OrderCancelled:
			return fmt.Sprintf("Customer cancelled %s order #%d.", kind, event.SubjectID)
		}
		return ""
	}

	switch domain.OrderStatus(event.NewStatus) {
	case domain.OrderConfirmed:
		return fmt.Sprintf("Your %s order #%d has been accepted by admin.", kind, event.SubjectID)
	case domain.OrderDeclined:
		if domain.OrderStatus(event.OldStatus) == domain.OrderCounterOfferPending {
			return fmt.Sprintf("Your counter offer for %s order #%d has been rejected.", kind, event.SubjectID)
		}
		return fmt.Sprintf("Your %s order #%d has been declined by admin.", kind, event.SubjectID)
	case domain.OrderQuotationSent:
		return fmt.Sprintf("A quotation has been sent for your %s order #%d.", kind, event.SubjectID)
	case domain.OrderInProgress:
		if domain.OrderStatus(event.OldStatus) == domain.OrderCounterOfferPending {
			return fmt.Sprintf("Your counter offer for %s order #%d has been accepted!", kind, event.SubjectID)
		}
		return fmt.Sprintf("Your %s order #%d is now in progress.", kind, event.SubjectID)
	case domain.OrderReadyForPickup:
		if domain.OrderStatus(event.OldStatus) == domain.OrderCounterOfferPending {
			return fmt.Sprintf("Your counter offer for %s order #%d has been accepted!", kind, event.SubjectID)
		}
		return fmt.Sprintf("Your %s order #%d is ready for pickup!", kind, event.SubjectID)
	case domain.OrderPickedUp:
		return fmt.Sprintf("Your %s order #%d has been marked as picked up.", kind, event.SubjectID)
	case domain.OrderReturned:
		return fmt.Sprintf("Your %s order #%d has been marked as returned.", kind, event.SubjectID)
	case domain.OrderCancelled:
		return fmt.Sprintf("Your %s order #%d has been cancelled.", kind, event.SubjectID)
	}
	return ""
}
