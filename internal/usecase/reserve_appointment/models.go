package reserve_appointment

import (
	"time"

	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// Request модель запроса на бронирование примерки
type Request struct {
	CustomerID  int64            // ID клиента
	Date        time.Time        // Дата примерки (без времени)
	StartTime   types.TimeString // Время начала (например, "12:30")
	ServiceType string           // Тип услуги (fitting, consultation, ...)
	Notes       *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
// Status отражает итог авто-подтверждения, если оно успело отработать
type Response struct {
	ID          int64            // ID созданной записи
	CustomerID  int64            // ID клиента
	Date        time.Time        // Дата примерки
	StartTime   types.TimeString // Время начала
	ServiceType string           // Тип услуги
	Status      string           // Итоговый статус записи
	Notes       *string          // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
