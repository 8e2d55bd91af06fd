package notifications

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	"github.com/fitform/FitForm-OrderService/internal/api/middleware"
	"github.com/fitform/FitForm-OrderService/internal/domain"
	notificationsService "github.com/fitform/FitForm-OrderService/internal/service/notifications"
)

const (
	msgInvalidNotificationID = "некорректный идентификатор уведомления"
	msgInvalidUserID         = "некорректный идентификатор пользователя"
	msgUnauthorized          = "пользователь не аутентифицирован"
	msgAccessDenied          = "доступ запрещён"
	msgNotificationNotFound  = "уведомление не найдено"
)

type Handler struct {
	service NotificationsService
	logger  Logger
}

func NewHandler(service NotificationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// NotificationResponse уведомление в ленте пользователя
type NotificationResponse struct {
	ID         int64     `json:"id"`
	SenderRole string    `json:"senderRole"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NotificationsListResponse лента уведомлений, новые первыми
type NotificationsListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

// HandleList GET /api/v1/users/{userId}/notifications
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if targetID != userID && !middleware.IsAdmin(r.Context()) {
		h.logger.Warn("GET /users/{id}/notifications - Access denied: user_id=%d, target_id=%d", userID, targetID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	adminFeed := middleware.IsAdmin(r.Context()) && targetID == userID
	items, err := h.service.List(r.Context(), targetID, adminFeed)
	if err != nil {
		h.logger.Error("GET /users/{id}/notifications - Failed to list notifications: user_id=%d, error=%v", targetID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromDomainList(items))
}

// HandleMarkRead PATCH /api/v1/notifications/{notificationId}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := strconv.ParseInt(mux.Vars(r)["notificationId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidNotificationID)
		return
	}

	if err := h.service.MarkRead(r.Context(), notificationID); err != nil {
		switch {
		case errors.Is(err, notificationsService.ErrNotificationNotFound):
			h.logger.Warn("PATCH /notifications/{id}/read - Notification not found: notification_id=%d", notificationID)
			handlers.RespondNotFound(w, msgNotificationNotFound)

		default:
			h.logger.Error("PATCH /notifications/{id}/read - Failed to mark read: notification_id=%d, error=%v", notificationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func fromDomainList(items []*domain.Notification) NotificationsListResponse {
	response := NotificationsListResponse{
		Notifications: make([]NotificationResponse, 0, len(items)),
	}
	for _, n := range items {
		response.Notifications = append(response.Notifications, NotificationResponse{
			ID:         n.ID,
			SenderRole: n.SenderRole,
			Message:    n.Message,
			Read:       n.Read,
			CreatedAt:  n.CreatedAt,
		})
	}
	return response
}
