package get_daily_capacity

import (
	getDailyCapacity "github.com/fitform/FitForm-OrderService/internal/usecase/get_daily_capacity"
)

// GetDailyCapacityResponse HTTP ответ с загрузкой дня
type GetDailyCapacityResponse struct {
	Date           string   `json:"date"`
	BookedCount    int      `json:"bookedCount"`
	MaxCapacity    int      `json:"maxCapacity"`
	AvailableSlots int      `json:"availableSlots"`
	TakenTimes     []string `json:"takenTimes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *getDailyCapacity.Response) GetDailyCapacityResponse {
	takenTimes := make([]string, 0, len(resp.TakenTimes))
	for _, t := range resp.TakenTimes {
		takenTimes = append(takenTimes, string(t))
	}

	return GetDailyCapacityResponse{
		Date:           resp.Date.Format("2006-01-02"),
		BookedCount:    resp.BookedCount,
		MaxCapacity:    resp.MaxCapacity,
		AvailableSlots: resp.AvailableSlots,
		TakenTimes:     takenTimes,
	}
}
