package domain

import (
	"time"

	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// AppointmentStatus represents the status of a fitting appointment
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Appointment represents a fitting appointment at the shop
// Value semantics: instances are never mutated in place, transitions
// produce updated copies that are persisted through the repository
type Appointment struct {
	ID          int64
	CustomerID  int64
	Date        time.Time // calendar date, time part zeroed
	StartTime   types.TimeString
	ServiceType string
	Status      AppointmentStatus
	Notes       *string

	// CreatedAt is the first-come-first-served priority; immutable after insert
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment counts against capacity
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentConfirmed
}

// CanBeRescheduled returns true if the appointment date/time can be edited
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentConfirmed
}

// DailyCapacity describes how full a calendar date is
type DailyCapacity struct {
	Date           time.Time
	BookedCount    int
	MaxCapacity    int
	AvailableSlots int
	TakenTimes     []types.TimeString
}
