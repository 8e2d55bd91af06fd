package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitform/FitForm-OrderService/internal/autoapproval"
	"github.com/fitform/FitForm-OrderService/internal/domain"
	appointmentRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/appointment"
)

// Service сервис для работы с записями на примерку
type Service struct {
	repo         AppointmentRepository
	rules        RulesProvider
	txManager    TransactionManager
	dispatcher   NotificationDispatcher
	logger       Logger
	timeProvider TimeProvider
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	repo AppointmentRepository,
	rules RulesProvider,
	txManager TransactionManager,
	dispatcher NotificationDispatcher,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		rules:        rules,
		txManager:    txManager,
		dispatcher:   dispatcher,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID
// Клиент видит только свои записи, администратор - любые
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !isAdmin && appt.CustomerID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return appt, nil
}

// GetCustomerAppointments получает записи клиента, опционально фильтруя по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, customerID int64, status *string) ([]*domain.Appointment, error) {
	var domainStatus *domain.AppointmentStatus
	if status != nil {
		parsed, err := parseStatus(*status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for customer=%d", *status, customerID)
			return nil, err
		}
		domainStatus = &parsed
	}

	appointments, err := s.repo.GetByCustomerID(ctx, customerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	return appointments, nil
}

// Cancel отменяет запись
// Клиент отменяет только свою запись; completed и уже отмененные не отменяются
func (s *Service) Cancel(ctx context.Context, id int64, userID int64, isAdmin bool) error {
	var event domain.StatusEvent

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		appt, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !isAdmin && appt.CustomerID != userID {
			return ErrAccessDenied
		}

		if !appt.CanBeCancelled() {
			return fmt.Errorf("%w: status is %s", ErrCannotCancel, appt.Status)
		}

		if err := s.repo.UpdateStatus(ctx, id, domain.AppointmentCancelled); err != nil {
			return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
		}

		actor := domain.ActorCustomer
		if isAdmin {
			actor = domain.ActorAdmin
		}
		event = statusEvent(appt, actor, appt.Status, domain.AppointmentCancelled, s.timeProvider)
		return nil
	})

	if err != nil {
		s.logger.Warn("Cancel: appointment id=%d not cancelled: %v", id, err)
		return err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled by user=%d", id, userID)
	s.notify(ctx, event)
	return nil
}

// UpdateStatus устанавливает статус записи (администратор)
// Допустимы только confirmed, cancelled и completed; отменённую или
// завершённую запись вернуть в работу нельзя
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Appointment, error) {
	newStatus, err := parseAdminStatus(status)
	if err != nil {
		return nil, err
	}

	var event domain.StatusEvent
	var updated *domain.Appointment

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		appt, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if appt.Status != newStatus &&
			(appt.Status == domain.AppointmentCancelled || appt.Status == domain.AppointmentCompleted) {
			return fmt.Errorf("%w: status is %s", ErrStatusFinal, appt.Status)
		}

		if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
			return fmt.Errorf("%w: UpdateStatus - update status: %v", ErrInternal, err)
		}

		event = statusEvent(appt, domain.ActorAdmin, appt.Status, newStatus, s.timeProvider)
		appt.Status = newStatus
		updated = appt
		return nil
	})

	if err != nil {
		s.logger.Warn("UpdateStatus: appointment id=%d not updated: %v", id, err)
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d set to %s", id, newStatus)
	if event.OldStatus != event.NewStatus {
		s.notify(ctx, event)
	}
	return updated, nil
}

// ApplyAutoApproval прогоняет запись через авто-подтверждение
// Выполняется в отдельной сериализуемой транзакции: строки дня блокируются,
// решение применяется атомарно. Любая ошибка оставляет запись pending
func (s *Service) ApplyAutoApproval(ctx context.Context, apptID int64) (domain.AppointmentStatus, error) {
	rules, err := s.rules.Rules(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: ApplyAutoApproval - load rules: %v", ErrInternal, err)
	}

	var events []domain.StatusEvent
	var finalStatus domain.AppointmentStatus

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		appt, err := s.repo.GetByID(ctx, apptID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: ApplyAutoApproval - repository error: %v", ErrInternal, err)
		}

		finalStatus = appt.Status
		if appt.Status != domain.AppointmentPending {
			return nil
		}

		sameDayPtrs, err := s.repo.GetByDate(ctx, appt.Date)
		if err != nil {
			return fmt.Errorf("%w: ApplyAutoApproval - load day snapshot: %v", ErrInternal, err)
		}

		sameDay := make([]domain.Appointment, 0, len(sameDayPtrs))
		for _, p := range sameDayPtrs {
			sameDay = append(sameDay, *p)
		}

		outcome, err := autoapproval.Evaluate(*appt, sameDay, rules)
		if err != nil {
			return err
		}

		if err := s.repo.UpdateStatusBatch(ctx, outcome.CancelIDs, domain.AppointmentCancelled); err != nil {
			return fmt.Errorf("%w: ApplyAutoApproval - cancel conflicts: %v", ErrInternal, err)
		}

		cancelled := make(map[int64]bool, len(outcome.CancelIDs))
		for _, id := range outcome.CancelIDs {
			cancelled[id] = true
		}
		for _, sibling := range sameDay {
			if cancelled[sibling.ID] {
				events = append(events, statusEvent(&sibling, domain.ActorSystem, sibling.Status, domain.AppointmentCancelled, s.timeProvider))
			}
		}

		if outcome.Status != appt.Status {
			if err := s.repo.UpdateStatus(ctx, appt.ID, outcome.Status); err != nil {
				return fmt.Errorf("%w: ApplyAutoApproval - update status: %v", ErrInternal, err)
			}
			events = append(events, statusEvent(appt, domain.ActorSystem, appt.Status, outcome.Status, s.timeProvider))
		}

		finalStatus = outcome.Status
		return nil
	})

	if err != nil {
		return "", err
	}

	for _, event := range events {
		s.notify(ctx, event)
	}
	return finalStatus, nil
}

// ReevaluatePending прогоняет все pending записи через авто-подтверждение
// в порядке created_at. Ошибка по одной записи не прерывает остальные
func (s *Service) ReevaluatePending(ctx context.Context) error {
	pending, err := s.repo.GetPending(ctx)
	if err != nil {
		return fmt.Errorf("%w: ReevaluatePending - load pending: %v", ErrInternal, err)
	}

	s.logger.Info("ReevaluatePending: processing %d pending appointments", len(pending))

	for _, appt := range pending {
		if _, err := s.ApplyAutoApproval(ctx, appt.ID); err != nil {
			s.logger.Error("ReevaluatePending: appointment id=%d left unchanged: %v", appt.ID, err)
		}
	}

	return nil
}

func (s *Service) notify(ctx context.Context, event domain.StatusEvent) {
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.Error("notify: dispatch failed for appointment #%d: %v", event.SubjectID, err)
	}
}

func statusEvent(appt *domain.Appointment, actor domain.Actor, oldStatus, newStatus domain.AppointmentStatus, tp TimeProvider) domain.StatusEvent {
	return domain.StatusEvent{
		Kind:       domain.EventKindAppointment,
		SubjectID:  appt.ID,
		CustomerID: appt.CustomerID,
		Actor:      actor,
		OldStatus:  string(oldStatus),
		NewStatus:  string(newStatus),
		OccurredAt: tp.Now(),
	}
}

func parseStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.AppointmentPending, domain.AppointmentConfirmed, domain.AppointmentCancelled, domain.AppointmentCompleted:
		return domain.AppointmentStatus(status), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
}

// parseAdminStatus статусы, которые администратор может выставить вручную
// pending выставляется только системой при создании и переносе
func parseAdminStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.AppointmentConfirmed, domain.AppointmentCancelled, domain.AppointmentCompleted:
		return domain.AppointmentStatus(status), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
}
