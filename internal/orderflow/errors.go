package orderflow

import (
	"fmt"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// StateError возвращается, когда precondition перехода нарушен
// Переход никогда не выполняется "вхолостую": нарушение всегда ошибка
type StateError struct {
	Transition string
	Guard      string
	Status     domain.OrderStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("orderflow: %s rejected: %s (status=%s)", e.Transition, e.Guard, e.Status)
}

func stateErr(transition, guard string, status domain.OrderStatus) error {
	return &StateError{Transition: transition, Guard: guard, Status: status}
}
