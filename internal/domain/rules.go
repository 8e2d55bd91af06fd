package domain

import (
	"time"

	"github.com/fitform/FitForm-OrderService/pkg/types"
)

// BusinessRules tunable shop rules supplied by the settings provider
// Passed explicitly into every evaluation; never read from ambient state
type BusinessRules struct {
	AutoApproveEnabled    bool
	MaxAppointmentsPerDay int
	BusinessStart         types.TimeString
	BusinessEnd           types.TimeString
}

// DefaultBusinessRules returns the rules used when no settings row exists yet
func DefaultBusinessRules() BusinessRules {
	return BusinessRules{
		AutoApproveEnabled:    false,
		MaxAppointmentsPerDay: DefaultMaxAppointmentsPerDay,
		BusinessStart:         DefaultBusinessStart,
		BusinessEnd:           DefaultBusinessEnd,
	}
}

// WithinBusinessHours returns true if t falls inside [BusinessStart, BusinessEnd]
func (r BusinessRules) WithinBusinessHours(t types.TimeString) bool {
	return !t.IsBefore(r.BusinessStart) && !t.IsAfter(r.BusinessEnd)
}

// ShopSettings the single admin-editable settings row
// Rule and pricing defaults apply when the row has never been written
type ShopSettings struct {
	AutoApproveEnabled    bool
	MaxAppointmentsPerDay int
	BusinessStart         types.TimeString
	BusinessEnd           types.TimeString
	CancellationFee       float64
	DamageFeeMin          float64
	UpdatedAt             time.Time
}

// DefaultShopSettings returns the settings used before the first admin write
func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		AutoApproveEnabled:    false,
		MaxAppointmentsPerDay: DefaultMaxAppointmentsPerDay,
		BusinessStart:         DefaultBusinessStart,
		BusinessEnd:           DefaultBusinessEnd,
		CancellationFee:       DefaultCancellationFee,
		DamageFeeMin:          DefaultDamageFeeMin,
	}
}

// Rules projects the booking rules out of the settings row
func (s ShopSettings) Rules() BusinessRules {
	return BusinessRules{
		AutoApproveEnabled:    s.AutoApproveEnabled,
		MaxAppointmentsPerDay: s.MaxAppointmentsPerDay,
		BusinessStart:         s.BusinessStart,
		BusinessEnd:           s.BusinessEnd,
	}
}
