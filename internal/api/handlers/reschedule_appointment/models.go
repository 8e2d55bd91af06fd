package reschedule_appointment

import (
	"time"

	rescheduleAppointment "github.com/fitform/FitForm-OrderService/internal/usecase/reschedule_appointment"
	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// RescheduleAppointmentRequest HTTP запрос на перенос примерки
type RescheduleAppointmentRequest struct {
	Date      string `json:"date"`      // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID, userID int64, isAdmin bool) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, err
	}

	startTime := types.TimeString(r.StartTime)
	if err := startTime.Validate(); err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		UserID:        userID,
		IsAdmin:       isAdmin,
		Date:          date,
		StartTime:     startTime,
	}, nil
}

// RescheduleAppointmentResponse HTTP ответ с перенесенной записью
type RescheduleAppointmentResponse struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customerId"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	ServiceType string    `json:"serviceType,omitempty"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *rescheduleAppointment.Response) RescheduleAppointmentResponse {
	return RescheduleAppointmentResponse{
		ID:          resp.ID,
		CustomerID:  resp.CustomerID,
		Date:        resp.Date.Format("2006-01-02"),
		StartTime:   string(resp.StartTime),
		ServiceType: resp.ServiceType,
		Status:      resp.Status,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt,
	}
}
