package domain

import "time"

// OrderType discriminates the two transaction kinds sharing the lifecycle
type OrderType string

const (
	OrderTypeRental   OrderType = "rental"
	OrderTypePurchase OrderType = "purchase"
)

// OrderStatus represents the shared order lifecycle status
type OrderStatus string

const (
	OrderPending             OrderStatus = "pending"
	OrderConfirmed           OrderStatus = "confirmed"
	OrderDeclined            OrderStatus = "declined"
	OrderQuotationSent       OrderStatus = "quotation_sent"
	OrderCounterOfferPending OrderStatus = "counter_offer_pending"
	OrderInProgress          OrderStatus = "in_progress"
	OrderReadyForPickup      OrderStatus = "ready_for_pickup"
	OrderPickedUp            OrderStatus = "picked_up"
	OrderReturned            OrderStatus = "returned"
	OrderCancelled           OrderStatus = "cancelled"
)

// CounterOfferStatus represents the state of a customer counter-offer
type CounterOfferStatus string

const (
	CounterOfferNone     CounterOfferStatus = "none"
	CounterOfferPending  CounterOfferStatus = "pending"
	CounterOfferAccepted CounterOfferStatus = "accepted"
	CounterOfferRejected CounterOfferStatus = "rejected"
)

// PenaltyStatus represents the state of rental penalties
type PenaltyStatus string

const (
	PenaltyNone    PenaltyStatus = "none"
	PenaltyPending PenaltyStatus = "pending"
	PenaltyPaid    PenaltyStatus = "paid"
)

// DamageLevel severity of damage assessed on a returned rental garment
type DamageLevel string

const (
	DamageNone   DamageLevel = "none"
	DamageMinor  DamageLevel = "minor"
	DamageMajor  DamageLevel = "major"
	DamageSevere DamageLevel = "severe"
)

// Order represents a rental or purchase transaction
// Rental-only fields are zero-valued for purchases and never written by
// purchase transitions
type Order struct {
	ID           int64
	CustomerID   int64
	Type         OrderType
	ItemName     string
	ClothingType string
	Measurements map[string]float64
	Notes        *string
	Status       OrderStatus

	QuotationAmount      *float64
	QuotationNotes       *string
	QuotationSentAt      *time.Time
	QuotationRespondedAt *time.Time

	CounterOfferAmount *float64
	CounterOfferNotes  *string
	CounterOfferStatus CounterOfferStatus
	CounterOfferSentAt *time.Time

	// Rental only
	CancellationFee     float64
	DamageFeeMin        float64
	DamageFeeMax        *float64
	TotalPenalties      float64
	PenaltyStatus       PenaltyStatus
	PenaltyNotes        *string
	PenaltyCalculatedAt *time.Time
	PenaltyPaidAt       *time.Time
	AgreementAccepted   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRental returns true for rental orders
func (o *Order) IsRental() bool {
	return o.Type == OrderTypeRental
}

// IsTerminal returns true once no further quotation or counter-offer
// mutation is permitted
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderPickedUp, OrderReturned, OrderDeclined, OrderCancelled:
		return true
	default:
		return false
	}
}

// HasPendingCounterOffer returns true if a customer counter-offer awaits
// an admin decision
func (o *Order) HasPendingCounterOffer() bool {
	return o.Status == OrderCounterOfferPending && o.CounterOfferStatus == CounterOfferPending
}
