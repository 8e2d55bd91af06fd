package get_customer_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
	"github.com/fitform/FitForm-OrderService/internal/service/appointments"
)

const (
	msgInvalidUserID = "некорректный идентификатор пользователя"
	msgUnauthorized  = "пользователь не аутентифицирован"
	msgAccessDenied  = "нет доступа к записям этого пользователя"
	msgInvalidStatus = "некорректный статус записи"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// AppointmentsListResponse список записей клиента
type AppointmentsListResponse struct {
	Appointments []handlers.AppointmentResponse `json:"appointments"`
}

// Handle GET /api/v1/users/{userId}/appointments?status=pending
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	targetID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	// Клиент видит только свои записи, администратор - любые
	if targetID != userID && !middleware.IsAdmin(r.Context()) {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var status *string
	if raw := r.URL.Query().Get("status"); raw != "" {
		status = &raw
	}

	appts, err := h.service.GetCustomerAppointments(r.Context(), targetID, status)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidStatus):
			h.logger.Warn("GET /users/{id}/appointments - Invalid status filter: user_id=%d, status=%v", targetID, status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{id}/appointments - Failed to list appointments: user_id=%d, error=%v", targetID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := AppointmentsListResponse{
		Appointments: make([]handlers.AppointmentResponse, 0, len(appts)),
	}
	for _, appt := range appts {
		response.Appointments = append(response.Appointments, handlers.AppointmentFromDomain(*appt))
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}
