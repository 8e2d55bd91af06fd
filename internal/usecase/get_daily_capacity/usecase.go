package get_daily_capacity

import (
	"context"
	"fmt"
	"sort"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// UseCase use case загрузки дня
// Отмененные записи не занимают ни места, ни времени
type UseCase struct {
	appointmentRepo AppointmentRepository
	rules           RulesProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, rules RulesProvider, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		rules:           rules,
		logger:          logger,
	}
}

// Execute возвращает загрузку указанной даты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	rules, err := uc.rules.Rules(ctx)
	if err != nil {
		uc.logger.Error("GetDailyCapacity: failed to load rules: %v", err)
		return nil, fmt.Errorf("%w: failed to load rules: %v", ErrInternal, err)
	}

	sameDay, err := uc.appointmentRepo.GetByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetDailyCapacity: failed to load appointments for %s: %v",
			req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	booked := 0
	takenTimes := make([]types.TimeString, 0, len(sameDay))
	for _, appt := range sameDay {
		if !appt.IsActive() {
			continue
		}
		booked++
		takenTimes = append(takenTimes, appt.StartTime)
	}

	sort.Slice(takenTimes, func(i, j int) bool {
		return takenTimes[i].IsBefore(takenTimes[j])
	})

	available := rules.MaxAppointmentsPerDay - booked
	if available < 0 {
		available = 0
	}

	return &Response{
		Date:           req.Date,
		BookedCount:    booked,
		MaxCapacity:    rules.MaxAppointmentsPerDay,
		AvailableSlots: available,
		TakenTimes:     takenTimes,
	}, nil
}
