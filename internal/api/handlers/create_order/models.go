package create_order

import (
	"github.com/fitform/FitForm-OrderService/internal/service/orders"
)

// CreateOrderRequest HTTP запрос на создание заказа
type CreateOrderRequest struct {
	Type         string             `json:"type"` // rental | purchase
	ItemName     string             `json:"itemName"`
	ClothingType string             `json:"clothingType,omitempty"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateOrderRequest) ToServiceRequest(customerID int64) *orders.CreateOrderRequest {
	return &orders.CreateOrderRequest{
		CustomerID:   customerID,
		Type:         r.Type,
		ItemName:     r.ItemName,
		ClothingType: r.ClothingType,
		Measurements: r.Measurements,
		Notes:        r.Notes,
	}
}
