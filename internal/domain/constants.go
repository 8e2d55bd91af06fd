package domain

import "github.com/fitform/FitForm-OrderService/pkg/types"

// Default business rules
const (
	DefaultMaxAppointmentsPerDay = 5
	DefaultBusinessStart         = types.TimeString("10:00")
	DefaultBusinessEnd           = types.TimeString("19:00")
)

// Scheduling constants
const (
	// ConflictWindowMinutes two appointments within this window on the same
	// date compete for the slot; the earlier-created one wins
	ConflictWindowMinutes = 15
)

// Rental fee defaults
const (
	DefaultCancellationFee = 500.00
	DefaultDamageFeeMin    = 200.00
)

// Business validation constants
const (
	MaxNotesLength       = 1000
	MaxServiceTypeLength = 255
	MaxItemNameLength    = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
