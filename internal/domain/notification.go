package domain

import "time"

// RecipientRole who a notification is addressed to
type RecipientRole string

const (
	RecipientCustomer RecipientRole = "customer"
	RecipientAdmin    RecipientRole = "admin"
)

// Notification an in-app notification row produced by the dispatcher
// Delivery beyond this table is an external concern
type Notification struct {
	ID            int64
	UserID        *int64 // nil for admin broadcasts
	RecipientRole RecipientRole
	SenderRole    string
	Message       string
	Read          bool
	CreatedAt     time.Time
}
