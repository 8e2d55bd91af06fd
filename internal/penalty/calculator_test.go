package penalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/ptr"
)

var now = time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)

func quotedRental(status domain.OrderStatus, feeMax float64) domain.Order {
	return domain.Order{
		ID:              3,
		Type:            domain.OrderTypeRental,
		Status:          status,
		CancellationFee: domain.DefaultCancellationFee,
		DamageFeeMin:    domain.DefaultDamageFeeMin,
		DamageFeeMax:    ptr.Ptr(feeMax),
		PenaltyStatus:   domain.PenaltyNone,
	}
}

func TestCalculate_DamageLadder(t *testing.T) {
	tests := []struct {
		name  string
		level domain.DamageLevel
		want  float64
	}{
		{name: "none", level: domain.DamageNone, want: 0},
		{name: "minor", level: domain.DamageMinor, want: 200},
		{name: "major", level: domain.DamageMajor, want: 2500},
		{name: "severe", level: domain.DamageSevere, want: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(quotedRental(domain.OrderReturned, 5000), tt.level, nil, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TotalPenalties)
			assert.Equal(t, domain.PenaltyPending, got.PenaltyStatus)
			require.NotNil(t, got.PenaltyCalculatedAt)
			assert.Equal(t, now, *got.PenaltyCalculatedAt)
		})
	}
}

func TestCalculate_MonotonicAndCapped(t *testing.T) {
	// Низкая котировка: каждая ступень зажата потолком, порядок сохраняется
	levels := []domain.DamageLevel{domain.DamageNone, domain.DamageMinor, domain.DamageMajor, domain.DamageSevere}
	prev := -1.0
	for _, level := range levels {
		got, err := Calculate(quotedRental(domain.OrderReturned, 150), level, nil, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.TotalPenalties, prev, "level %s", level)
		assert.LessOrEqual(t, got.TotalPenalties, 150.0, "level %s", level)
		prev = got.TotalPenalties
	}
}

func TestCalculate_CancelledRentalKeepsCancellationFee(t *testing.T) {
	got, err := Calculate(quotedRental(domain.OrderCancelled, 5000), domain.DamageMinor, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 500.0+200.0, got.TotalPenalties)
}

func TestCalculate_Guards(t *testing.T) {
	_, err := Calculate(domain.Order{Type: domain.OrderTypePurchase}, domain.DamageMinor, nil, now)
	assert.ErrorIs(t, err, ErrNotRental)

	unquoted := quotedRental(domain.OrderReturned, 0)
	unquoted.DamageFeeMax = nil
	_, err = Calculate(unquoted, domain.DamageMinor, nil, now)
	assert.ErrorIs(t, err, ErrNoQuotation)

	_, err = Calculate(quotedRental(domain.OrderReturned, 5000), "catastrophic", nil, now)
	assert.ErrorIs(t, err, ErrUnknownDamageLevel)
}

func TestGetBreakdown(t *testing.T) {
	o := quotedRental(domain.OrderCancelled, 5000)
	o.TotalPenalties = 700 // 500 отмена + 200 повреждения

	b := GetBreakdown(o)
	assert.Equal(t, 500.0, b.CancellationFee)
	assert.Equal(t, 200.0, b.DamageFee)
	assert.Equal(t, 700.0, b.Total)

	// Повторный вызов дает тот же результат
	assert.Equal(t, b, GetBreakdown(o))
}

func TestGetBreakdown_NotCancelled(t *testing.T) {
	o := quotedRental(domain.OrderReturned, 5000)
	o.TotalPenalties = 200

	b := GetBreakdown(o)
	assert.Zero(t, b.CancellationFee)
	assert.Equal(t, 200.0, b.DamageFee)
	assert.Equal(t, 200.0, b.Total)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	o := quotedRental(domain.OrderReturned, 5000)
	o.TotalPenalties = 200
	o.PenaltyStatus = domain.PenaltyPending

	first, changed, err := MarkPaid(o, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.PenaltyPaid, first.PenaltyStatus)
	require.NotNil(t, first.PenaltyPaidAt)
	assert.Equal(t, now, *first.PenaltyPaidAt)

	// Второй вызов ничего не меняет, включая penalty_paid_at
	second, changed, err := MarkPaid(first, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestMarkPaid_PurchaseRejected(t *testing.T) {
	_, _, err := MarkPaid(domain.Order{Type: domain.OrderTypePurchase}, now)
	assert.ErrorIs(t, err, ErrNotRental)
}
