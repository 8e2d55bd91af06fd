package get_daily_capacity

import (
	"errors"
	"net/http"
	"time"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	getDailyCapacity "github.com/fitform/FitForm-OrderService/internal/usecase/get_daily_capacity"
)

const (
	msgMissingDate  = "не указана дата, ожидается query параметр date=YYYY-MM-DD"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput = "некорректные данные запроса"
)

type Handler struct {
	useCase GetDailyCapacityUseCase
	logger  Logger
}

func NewHandler(useCase GetDailyCapacityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/capacity?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		h.logger.Warn("GET /capacity - Invalid date: date=%s, error=%v", rawDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getDailyCapacity.Request{Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getDailyCapacity.ErrInvalidInput):
			h.logger.Warn("GET /capacity - Invalid input: date=%s, error=%v", rawDate, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /capacity - Failed to get daily capacity: date=%s, error=%v", rawDate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
