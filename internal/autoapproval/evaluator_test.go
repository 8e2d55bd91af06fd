package autoapproval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/types"
)

var testDate = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

func rules() domain.BusinessRules {
	return domain.BusinessRules{
		AutoApproveEnabled:    true,
		MaxAppointmentsPerDay: 5,
		BusinessStart:         "09:00",
		BusinessEnd:           "17:00",
	}
}

func appt(id int64, start types.TimeString, status domain.AppointmentStatus, createdOffset time.Duration) domain.Appointment {
	return domain.Appointment{
		ID:         id,
		CustomerID: id * 100,
		Date:       testDate,
		StartTime:  start,
		Status:     status,
		CreatedAt:  time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC).Add(createdOffset),
	}
}

func TestEvaluate_DisabledLeavesPending(t *testing.T) {
	r := rules()
	r.AutoApproveEnabled = false

	out, err := Evaluate(appt(1, "10:00", domain.AppointmentPending, 0), nil, r)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentPending, out.Status)
	assert.Empty(t, out.CancelIDs)
}

func TestEvaluate_OutsideBusinessHoursLeavesPending(t *testing.T) {
	tests := []struct {
		name  string
		start types.TimeString
	}{
		{name: "before opening", start: "08:45"},
		{name: "after closing", start: "17:15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Evaluate(appt(1, tt.start, domain.AppointmentPending, 0), nil, rules())
			require.NoError(t, err)
			assert.Equal(t, domain.AppointmentPending, out.Status)
		})
	}
}

func TestEvaluate_NoConflictsConfirms(t *testing.T) {
	sameDay := []domain.Appointment{
		appt(2, "11:00", domain.AppointmentConfirmed, -time.Hour),
	}

	out, err := Evaluate(appt(1, "10:00", domain.AppointmentPending, 0), sameDay, rules())
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, out.Status)
	assert.Empty(t, out.CancelIDs)
}

// Scenario: X books 09:00 first, Y books 09:10 later - X wins, Y is cancelled
func TestEvaluate_LaterCreationInConflictWindowIsCancelled(t *testing.T) {
	x := appt(1, "09:00", domain.AppointmentPending, 0)
	y := appt(2, "09:10", domain.AppointmentPending, time.Minute)

	outX, err := Evaluate(x, []domain.Appointment{y}, rules())
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, outX.Status)
	assert.Equal(t, []int64{y.ID}, outX.CancelIDs)

	outY, err := Evaluate(y, []domain.Appointment{x}, rules())
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentCancelled, outY.Status)
	assert.Empty(t, outY.CancelIDs)
}

func TestEvaluate_DeterministicRegardlessOfOrder(t *testing.T) {
	x := appt(1, "09:00", domain.AppointmentPending, 0)
	y := appt(2, "09:10", domain.AppointmentPending, time.Minute)

	// Повторный прогон на том же снимке дает тот же результат
	for i := 0; i < 3; i++ {
		outX, err := Evaluate(x, []domain.Appointment{y}, rules())
		require.NoError(t, err)
		outY, err := Evaluate(y, []domain.Appointment{x}, rules())
		require.NoError(t, err)

		assert.Equal(t, domain.AppointmentConfirmed, outX.Status)
		assert.Equal(t, domain.AppointmentCancelled, outY.Status)
	}
}

func TestEvaluate_EqualCreatedAtBreaksTieByID(t *testing.T) {
	x := appt(1, "10:00", domain.AppointmentPending, 0)
	y := appt(2, "10:05", domain.AppointmentPending, 0)

	outX, err := Evaluate(x, []domain.Appointment{y}, rules())
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, outX.Status)

	outY, err := Evaluate(y, []domain.Appointment{x}, rules())
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentCancelled, outY.Status)
}

func TestEvaluate_OnlyPendingConflictsAreCancelled(t *testing.T) {
	winner := appt(1, "10:00", domain.AppointmentPending, 0)
	pendingLoser := appt(2, "10:10", domain.AppointmentPending, time.Minute)
	confirmedSibling := appt(3, "10:05", domain.AppointmentConfirmed, 2*time.Minute)

	out, err := Evaluate(winner, []domain.Appointment{pendingLoser, confirmedSibling}, rules())
	require.NoError(t, err)
	// Уже подтвержденный конфликт не трогаем, отменяем только pending
	assert.Equal(t, []int64{pendingLoser.ID}, out.CancelIDs)
	assert.Equal(t, domain.AppointmentConfirmed, out.Status)
}

func TestEvaluate_CancelledSiblingsIgnored(t *testing.T) {
	cancelled := appt(2, "10:05", domain.AppointmentCancelled, -time.Hour)

	out, err := Evaluate(appt(1, "10:00", domain.AppointmentPending, 0), []domain.Appointment{cancelled}, rules())
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, out.Status)
	assert.Empty(t, out.CancelIDs)
}

func TestEvaluate_OutsideConflictWindowNotAConflict(t *testing.T) {
	sibling := appt(2, "10:16", domain.AppointmentPending, -time.Hour)

	out, err := Evaluate(appt(1, "10:00", domain.AppointmentPending, 0), []domain.Appointment{sibling}, rules())
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, out.Status)
	assert.Empty(t, out.CancelIDs)
}

func TestEvaluate_FullDayStaysPending(t *testing.T) {
	sameDay := []domain.Appointment{
		appt(2, "09:00", domain.AppointmentConfirmed, -4*time.Hour),
		appt(3, "10:00", domain.AppointmentConfirmed, -3*time.Hour),
		appt(4, "11:00", domain.AppointmentConfirmed, -2*time.Hour),
		appt(5, "12:00", domain.AppointmentConfirmed, -time.Hour),
	}

	// 4 активных + сама запись = 5 >= лимита 5: остается pending
	out, err := Evaluate(appt(1, "14:00", domain.AppointmentPending, 0), sameDay, rules())
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentPending, out.Status)
}

func TestEvaluate_CapacityCountSkipsFreshlyCancelledConflicts(t *testing.T) {
	sameDay := []domain.Appointment{
		appt(2, "09:00", domain.AppointmentConfirmed, -4*time.Hour),
		appt(3, "10:00", domain.AppointmentConfirmed, -3*time.Hour),
		appt(4, "11:00", domain.AppointmentConfirmed, -2*time.Hour),
		appt(5, "14:10", domain.AppointmentPending, time.Minute), // проиграет по окну
	}

	out, err := Evaluate(appt(1, "14:00", domain.AppointmentPending, 0), sameDay, rules())
	require.NoError(t, err)
	// Отмененный конфликт освобождает место: 3 + 1 = 4 < 5
	assert.Equal(t, domain.AppointmentConfirmed, out.Status)
	assert.Equal(t, []int64{5}, out.CancelIDs)
}

func TestEvaluate_MalformedTimeFailsSafe(t *testing.T) {
	bad := appt(1, "garbage", domain.AppointmentPending, 0)

	out, err := Evaluate(bad, nil, rules())
	assert.ErrorIs(t, err, ErrBadTimeValue)
	assert.Equal(t, domain.AppointmentPending, out.Status)
}
