package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	appointmentRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/appointment"
)

// UseCase use case переноса примерки на другую дату/время
// Перенос проходит те же проверки допуска, что и новое бронирование,
// но запись сохраняет исходный created_at - приоритет FCFS не сгорает.
// Статус сбрасывается в pending и прогоняется через авто-подтверждение заново
type UseCase struct {
	appointmentRepo AppointmentRepository
	autoApprover    AutoApprover
	rules           RulesProvider
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	repo AppointmentRepository,
	autoApprover AutoApprover,
	rules RulesProvider,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: repo,
		autoApprover:    autoApprover,
		rules:           rules,
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

// Execute выполняет перенос примерки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, user=%d, date=%s, time=%s",
		req.AppointmentID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	rules, err := uc.rules.Rules(ctx)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to load rules: %v", err)
		return nil, fmt.Errorf("%w: failed to load rules: %v", ErrInternal, err)
	}

	var moved *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to load appointment: %v", ErrInternal, err)
		}

		if !req.IsAdmin && appt.CustomerID != req.UserID {
			return ErrAccessDenied
		}

		if !appt.CanBeRescheduled() {
			return fmt.Errorf("%w: status is %s", ErrCannotReschedule, appt.Status)
		}

		// Снимок новой даты с блокировкой строк (FOR UPDATE)
		sameDay, err := uc.appointmentRepo.GetByDate(txCtx, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to load day snapshot: %v", ErrInternal, err)
		}

		if err := checkAdmission(appt, req, sameDay, rules.MaxAppointmentsPerDay); err != nil {
			uc.logger.Warn("RescheduleAppointment: admission refused for id=%d: %v", req.AppointmentID, err)
			return err
		}

		// created_at не меняется, статус сбрасывается в pending
		if err := uc.appointmentRepo.UpdateSchedule(txCtx, appt.ID, req.Date, string(req.StartTime), domain.AppointmentPending); err != nil {
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}

		appt.Date = req.Date
		appt.StartTime = req.StartTime
		appt.Status = domain.AppointmentPending
		moved = appt
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s %s",
		moved.ID, req.Date.Format(domain.DateFormat), req.StartTime)

	// Повторное авто-подтверждение; ошибка оставляет запись pending
	finalStatus := moved.Status
	if status, err := uc.autoApprover.ApplyAutoApproval(ctx, moved.ID); err != nil {
		uc.logger.Error("RescheduleAppointment: auto-approval failed for id=%d, left pending: %v", moved.ID, err)
	} else {
		finalStatus = status
	}

	return &Response{
		ID:          moved.ID,
		CustomerID:  moved.CustomerID,
		Date:        moved.Date,
		StartTime:   moved.StartTime,
		ServiceType: moved.ServiceType,
		Status:      string(finalStatus),
		Notes:       moved.Notes,
		CreatedAt:   moved.CreatedAt,
	}, nil
}

// checkAdmission проверки допуска на новой дате, сама запись исключается
func checkAdmission(appt *domain.Appointment, req *Request, sameDay []*domain.Appointment, maxPerDay int) error {
	booked := 0
	for _, other := range sameDay {
		if other.ID == appt.ID || !other.IsActive() {
			continue
		}
		if other.CustomerID == appt.CustomerID {
			return ErrDailyLimitExceeded
		}
	}

	for _, other := range sameDay {
		if other.ID == appt.ID || !other.IsActive() {
			continue
		}
		if other.StartTime == req.StartTime {
			return ErrTimeSlotTaken
		}
	}

	for _, other := range sameDay {
		if other.ID == appt.ID || !other.IsActive() {
			continue
		}
		booked++
	}
	if booked >= maxPerDay {
		return ErrCapacityExceeded
	}

	return nil
}

func validateRequest(req *Request, now time.Time) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if beforeToday(req.Date, now) {
		return fmt.Errorf("%w: date must not be in the past", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	return nil
}

// beforeToday сравнивает календарные даты, время суток не учитывается
func beforeToday(date, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	return date.Before(today)
}
