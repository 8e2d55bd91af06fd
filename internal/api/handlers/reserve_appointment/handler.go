package reserve_appointment

import (
	"errors"
	"net/http"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
	reserveAppointment "github.com/fitform/FitForm-OrderService/internal/usecase/reserve_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgDailyLimitExceeded = "у вас уже есть запись на эту дату"
	msgTimeSlotTaken      = "выбранное время уже занято"
	msgCapacityExceeded   = "на эту дату больше нет свободных мест"
	msgInvalidInput       = "некорректные данные записи"
)

type Handler struct {
	useCase ReserveAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ReserveAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req ReserveAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveAppointment.ErrDailyLimitExceeded):
			h.logger.Warn("POST /appointments - Daily limit exceeded: customer_id=%d, date=%s", userID, req.Date)
			handlers.RespondConflict(w, msgDailyLimitExceeded)

		case errors.Is(err, reserveAppointment.ErrTimeSlotTaken):
			h.logger.Warn("POST /appointments - Time slot taken: customer_id=%d, date=%s, time=%s", userID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgTimeSlotTaken)

		case errors.Is(err, reserveAppointment.ErrCapacityExceeded):
			h.logger.Warn("POST /appointments - Capacity exceeded: customer_id=%d, date=%s", userID, req.Date)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, reserveAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: customer_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to reserve appointment: customer_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment reserved: appointment_id=%d, customer_id=%d, status=%s",
		result.ID, userID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
