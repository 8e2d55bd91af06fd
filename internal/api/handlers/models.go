package handlers

import (
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
)

// OrderResponse представление заказа в ответах API, общее для всех операций
type OrderResponse struct {
	ID           int64              `json:"id"`
	CustomerID   int64              `json:"customerId"`
	Type         string             `json:"type"`
	ItemName     string             `json:"itemName"`
	ClothingType string             `json:"clothingType,omitempty"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
	Status       string             `json:"status"`

	QuotationAmount      *float64   `json:"quotationAmount,omitempty"`
	QuotationNotes       *string    `json:"quotationNotes,omitempty"`
	QuotationSentAt      *time.Time `json:"quotationSentAt,omitempty"`
	QuotationRespondedAt *time.Time `json:"quotationRespondedAt,omitempty"`

	CounterOfferAmount *float64   `json:"counterOfferAmount,omitempty"`
	CounterOfferNotes  *string    `json:"counterOfferNotes,omitempty"`
	CounterOfferStatus string     `json:"counterOfferStatus"`
	CounterOfferSentAt *time.Time `json:"counterOfferSentAt,omitempty"`

	CancellationFee     float64    `json:"cancellationFee,omitempty"`
	DamageFeeMin        float64    `json:"damageFeeMin,omitempty"`
	DamageFeeMax        *float64   `json:"damageFeeMax,omitempty"`
	TotalPenalties      float64    `json:"totalPenalties"`
	PenaltyStatus       string     `json:"penaltyStatus"`
	PenaltyNotes        *string    `json:"penaltyNotes,omitempty"`
	PenaltyCalculatedAt *time.Time `json:"penaltyCalculatedAt,omitempty"`
	PenaltyPaidAt       *time.Time `json:"penaltyPaidAt,omitempty"`
	AgreementAccepted   bool       `json:"agreementAccepted"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderFromDomain конвертирует доменный заказ в ответ API
func OrderFromDomain(order domain.Order) OrderResponse {
	return OrderResponse{
		ID:                   order.ID,
		CustomerID:           order.CustomerID,
		Type:                 string(order.Type),
		ItemName:             order.ItemName,
		ClothingType:         order.ClothingType,
		Measurements:         order.Measurements,
		Notes:                order.Notes,
		Status:               string(order.Status),
		QuotationAmount:      order.QuotationAmount,
		QuotationNotes:       order.QuotationNotes,
		QuotationSentAt:      order.QuotationSentAt,
		QuotationRespondedAt: order.QuotationRespondedAt,
		CounterOfferAmount:   order.CounterOfferAmount,
		CounterOfferNotes:    order.CounterOfferNotes,
		CounterOfferStatus:   string(order.CounterOfferStatus),
		CounterOfferSentAt:   order.CounterOfferSentAt,
		CancellationFee:      order.CancellationFee,
		DamageFeeMin:         order.DamageFeeMin,
		DamageFeeMax:         order.DamageFeeMax,
		TotalPenalties:       order.TotalPenalties,
		PenaltyStatus:        string(order.PenaltyStatus),
		PenaltyNotes:         order.PenaltyNotes,
		PenaltyCalculatedAt:  order.PenaltyCalculatedAt,
		PenaltyPaidAt:        order.PenaltyPaidAt,
		AgreementAccepted:    order.AgreementAccepted,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// AppointmentResponse представление записи на примерку в ответах API
type AppointmentResponse struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customerId"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	ServiceType string    `json:"serviceType,omitempty"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AppointmentFromDomain конвертирует доменную запись в ответ API
func AppointmentFromDomain(appt domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          appt.ID,
		CustomerID:  appt.CustomerID,
		Date:        appt.Date.Format("2006-01-02"),
		StartTime:   string(appt.StartTime),
		ServiceType: appt.ServiceType,
		Status:      string(appt.Status),
		Notes:       appt.Notes,
		CreatedAt:   appt.CreatedAt,
		UpdatedAt:   appt.UpdatedAt,
	}
}
