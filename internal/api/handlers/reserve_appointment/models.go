package reserve_appointment

import (
	"time"

	"github.com/fitform/FitForm-OrderService/internal/api/handlers"
	reserveAppointment "github.com/fitform/FitForm-OrderService/internal/usecase/reserve_appointment"
	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// ReserveAppointmentRequest HTTP запрос на бронирование примерки
type ReserveAppointmentRequest struct {
	Date        string  `json:"date"`      // YYYY-MM-DD
	StartTime   string  `json:"startTime"` // HH:MM
	ServiceType string  `json:"serviceType"`
	Notes       *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveAppointmentRequest) ToUseCaseRequest(customerID int64) (*reserveAppointment.Request, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, err
	}

	startTime := types.TimeString(r.StartTime)
	if err := startTime.Validate(); err != nil {
		return nil, err
	}

	return &reserveAppointment.Request{
		CustomerID:  customerID,
		Date:        date,
		StartTime:   startTime,
		ServiceType: r.ServiceType,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *reserveAppointment.Response) handlers.AppointmentResponse {
	return handlers.AppointmentResponse{
		ID:          resp.ID,
		CustomerID:  resp.CustomerID,
		Date:        resp.Date.Format("2006-01-02"),
		StartTime:   string(resp.StartTime),
		ServiceType: resp.ServiceType,
		Status:      resp.Status,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt,
		UpdatedAt:   resp.UpdatedAt,
	}
}
