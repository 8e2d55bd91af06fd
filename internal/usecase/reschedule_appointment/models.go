package reschedule_appointment

import (
	"time"

	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// Request модель запроса на перенос примерки
type Request struct {
	AppointmentID int64            // ID записи
	UserID        int64            // Кто переносит
	IsAdmin       bool             // Администратор переносит любую запись
	Date          time.Time        // Новая дата
	StartTime     types.TimeString // Новое время начала
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID          int64            // ID записи
	CustomerID  int64            // ID клиента
	Date        time.Time        // Новая дата
	StartTime   types.TimeString // Новое время
	ServiceType string           // Тип услуги
	Status      string           // Статус после повторного авто-подтверждения
	Notes       *string          // Заметки
	CreatedAt   time.Time        // Исходное время создания (приоритет FCFS сохранен)
}
