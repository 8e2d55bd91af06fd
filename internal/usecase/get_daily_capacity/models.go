package get_daily_capacity

import (
	"time"

	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// Request модель запроса загрузки дня
type Request struct {
	Date time.Time // Дата (без времени)
}

// Response модель ответа с загрузкой дня
type Response struct {
	Date           time.Time          // Дата
	BookedCount    int                // Количество активных записей
	MaxCapacity    int                // Лимит записей на день
	AvailableSlots int                // Свободные места, не меньше нуля
	TakenTimes     []types.TimeString // Занятые времена по возрастанию
}
