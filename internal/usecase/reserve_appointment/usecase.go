package reserve_appointment

import (
	"context"
	"fmt"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// UseCase use case бронирования примерки
// Допуск (лимит клиента, занятость слота, вместимость дня) проверяется
// в сериализуемой транзакции на заблокированном снимке дня; авто-подтверждение
// запускается после фиксации и никогда не роняет уже созданную запись
type UseCase struct {
	appointmentRepo AppointmentRepository
	autoApprover    AutoApprover
	rules           RulesProvider
	dispatcher      NotificationDispatcher
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	autoApprover AutoApprover,
	rules RulesProvider,
	dispatcher NotificationDispatcher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		autoApprover:    autoApprover,
		rules:           rules,
		dispatcher:      dispatcher,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет бронирование примерки
// Порядок проверок фиксирован: лимит клиента на день, точное совпадение
// времени, вместимость дня - первая сработавшая проверка выигрывает
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveAppointment: customer=%d, date=%s, time=%s, service=%s",
		req.CustomerID, req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceType)

	// 1. Валидация входных данных, прошедшие даты отклоняются до проверок допуска
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("ReserveAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем правила бронирования
	rules, err := uc.rules.Rules(ctx)
	if err != nil {
		uc.logger.Error("ReserveAppointment: failed to load rules: %v", err)
		return nil, fmt.Errorf("%w: failed to load rules: %v", ErrInternal, err)
	}

	var created *domain.Appointment

	// 3. Допуск и создание записи в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Снимок дня с блокировкой строк (FOR UPDATE)
		sameDay, err := uc.appointmentRepo.GetByDate(txCtx, req.Date)
		if err != nil {
			uc.logger.Error("ReserveAppointment: failed to load day snapshot: %v", err)
			return fmt.Errorf("%w: failed to load day snapshot: %v", ErrInternal, err)
		}

		// 3.2. Проверки допуска в фиксированном порядке
		if err := checkAdmission(req, sameDay, rules.MaxAppointmentsPerDay); err != nil {
			uc.logger.Warn("ReserveAppointment: admission refused for customer=%d: %v", req.CustomerID, err)
			return err
		}

		// 3.3. Создаем запись в статусе pending
		appt := &domain.Appointment{
			CustomerID:  req.CustomerID,
			Date:        req.Date,
			StartTime:   req.StartTime,
			ServiceType: req.ServiceType,
			Status:      domain.AppointmentPending,
			Notes:       req.Notes,
		}

		created, err = uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("ReserveAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ReserveAppointment: created appointment id=%d", created.ID)

	// 4. Уведомляем администраторов о новой заявке
	uc.notifyRequested(ctx, created)

	// 5. Авто-подтверждение в отдельной транзакции
	// Ошибка здесь не отменяет бронирование - запись остается pending
	finalStatus := created.Status
	if status, err := uc.autoApprover.ApplyAutoApproval(ctx, created.ID); err != nil {
		uc.logger.Error("ReserveAppointment: auto-approval failed for id=%d, left pending: %v", created.ID, err)
	} else {
		finalStatus = status
	}

	// 6. Авто-подтверждение обновило запись - перечитываем свежие поля
	if finalStatus != created.Status {
		if fresh, err := uc.appointmentRepo.GetByID(ctx, created.ID); err != nil {
			uc.logger.Warn("ReserveAppointment: failed to reload appointment id=%d: %v", created.ID, err)
		} else {
			created = fresh
		}
	}

	return &Response{
		ID:          created.ID,
		CustomerID:  created.CustomerID,
		Date:        created.Date,
		StartTime:   created.StartTime,
		ServiceType: created.ServiceType,
		Status:      string(finalStatus),
		Notes:       created.Notes,
		CreatedAt:   created.CreatedAt,
		UpdatedAt:   created.UpdatedAt,
	}, nil
}

// checkAdmission проверки допуска на заблокированном снимке дня
// Первая сработавшая проверка выигрывает
func checkAdmission(req *Request, sameDay []*domain.Appointment, maxPerDay int) error {
	booked := 0
	for _, appt := range sameDay {
		if !appt.IsActive() {
			continue
		}
		if appt.CustomerID == req.CustomerID {
			return ErrDailyLimitExceeded
		}
	}

	for _, appt := range sameDay {
		if !appt.IsActive() {
			continue
		}
		if appt.StartTime == req.StartTime {
			return ErrTimeSlotTaken
		}
	}

	for _, appt := range sameDay {
		if appt.IsActive() {
			booked++
		}
	}
	if booked >= maxPerDay {
		return ErrCapacityExceeded
	}

	return nil
}

func (uc *UseCase) notifyRequested(ctx context.Context, appt *domain.Appointment) {
	event := domain.StatusEvent{
		Kind:       domain.EventKindAppointment,
		SubjectID:  appt.ID,
		CustomerID: appt.CustomerID,
		Actor:      domain.ActorCustomer,
		NewStatus:  string(domain.AppointmentPending),
		OccurredAt: uc.timeProvider.Now(),
	}
	if err := uc.dispatcher.Dispatch(ctx, event); err != nil {
		uc.logger.Error("ReserveAppointment: notification dispatch failed for id=%d: %v", appt.ID, err)
	}
}
