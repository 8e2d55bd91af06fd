package autoapproval

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

var (
	// ErrBadTimeValue возвращается, когда время записи не парсится
	// Вызывающий код обязан оставить запись в прежнем статусе
	ErrBadTimeValue = errors.New("autoapproval: malformed appointment time")
)

// Outcome результат оценки одной записи
// CancelIDs - pending-конфликты, которые проигрывают этой записи по created_at
type Outcome struct {
	Status    domain.AppointmentStatus
	CancelIDs []int64
}

// Evaluate чистая функция авто-подтверждения записи
// Решение зависит только от порядка created_at, близости времени, рабочих часов
// и текущей загрузки дня: повторный вызов на том же снимке дает тот же результат
//
// Алгоритм:
//  1. авто-подтверждение выключено - статус не меняется
//  2. время вне рабочих часов - остается pending
//  3. конфликты: активные записи того же дня в окне +-15 минут, по created_at
//  4. запись создана позже самого раннего конфликта - отменяется;
//     иначе отменяются все pending-конфликты
//  5. день заполнен до лимита - остается pending
//  6. иначе - confirmed
func Evaluate(appt domain.Appointment, sameDay []domain.Appointment, rules domain.BusinessRules) (Outcome, error) {
	unchanged := Outcome{Status: appt.Status}

	if !rules.AutoApproveEnabled {
		return unchanged, nil
	}

	if err := appt.StartTime.Validate(); err != nil {
		return unchanged, fmt.Errorf("%w: id=%d: %v", ErrBadTimeValue, appt.ID, err)
	}

	if !rules.WithinBusinessHours(appt.StartTime) {
		return unchanged, nil
	}

	conflicts, err := conflictSet(appt, sameDay)
	if err != nil {
		return unchanged, err
	}

	var cancelIDs []int64
	if len(conflicts) > 0 {
		if createdLater(appt, conflicts[0]) {
			return Outcome{Status: domain.AppointmentCancelled}, nil
		}
		// Эта запись самая ранняя - pending-конфликты проигрывают
		for _, c := range conflicts {
			if c.Status == domain.AppointmentPending {
				cancelIDs = append(cancelIDs, c.ID)
			}
		}
	}

	if activeCount(appt, sameDay, cancelIDs) >= rules.MaxAppointmentsPerDay {
		return Outcome{Status: appt.Status, CancelIDs: cancelIDs}, nil
	}

	return Outcome{Status: domain.AppointmentConfirmed, CancelIDs: cancelIDs}, nil
}

// conflictSet возвращает активные записи того же дня в окне +-15 минут,
// отсортированные по created_at (при равенстве - по id)
func conflictSet(appt domain.Appointment, sameDay []domain.Appointment) ([]domain.Appointment, error) {
	var conflicts []domain.Appointment

	for _, other := range sameDay {
		if other.ID == appt.ID || !other.IsActive() {
			continue
		}
		diff, err := appt.StartTime.MinutesBetween(other.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: id=%d: %v", ErrBadTimeValue, other.ID, err)
		}
		if diff <= domain.ConflictWindowMinutes {
			conflicts = append(conflicts, other)
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].CreatedAt.Equal(conflicts[j].CreatedAt) {
			return conflicts[i].ID < conflicts[j].ID
		}
		return conflicts[i].CreatedAt.Before(conflicts[j].CreatedAt)
	})

	return conflicts, nil
}

// createdLater возвращает true, если a создана строго позже b
// При равных created_at порядок фиксируется по id, чтобы решение
// не зависело от порядка вычисления
func createdLater(a, b domain.Appointment) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// activeCount считает активные записи дня включая саму запись,
// без конфликтов, которые будут отменены этим же решением
func activeCount(appt domain.Appointment, sameDay []domain.Appointment, cancelIDs []int64) int {
	cancelled := make(map[int64]bool, len(cancelIDs))
	for _, id := range cancelIDs {
		cancelled[id] = true
	}

	count := 1 // сама запись
	for _, other := range sameDay {
		if other.ID == appt.ID || !other.IsActive() || cancelled[other.ID] {
			continue
		}
		count++
	}
	return count
}
