package domain

import "time"

// EventKind discriminates what a status event is about
type EventKind string

const (
	EventKindAppointment EventKind = "appointment"
	EventKindOrder       EventKind = "order"
)

// Actor identifies who triggered a transition
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
	ActorSystem   Actor = "system"
)

// StatusEvent is emitted on every status-changing transition and handed to
// the notification dispatcher; emission is a side effect, never a precondition
type StatusEvent struct {
	Kind       EventKind
	SubjectID  int64
	OrderType  OrderType // empty for appointment events
	CustomerID int64
	Actor      Actor
	OldStatus  string
	NewStatus  string
	OccurredAt time.Time
}
