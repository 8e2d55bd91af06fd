package get_daily_capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/types"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

type mockRulesProvider struct {
	mock.Mock
}

func (m *mockRulesProvider) Rules(ctx context.Context) (domain.BusinessRules, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.BusinessRules), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func appt(startTime string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		Date:      testDate,
		StartTime: types.TimeString(startTime),
		Status:    status,
	}
}

func TestExecute_CountsOnlyActive(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := NewUseCase(repo, rules, nopLogger{})

	rules.On("Rules", mock.Anything).Return(domain.BusinessRules{MaxAppointmentsPerDay: 5}, nil)
	repo.On("GetByDate", mock.Anything, testDate).Return([]*domain.Appointment{
		appt("14:00", domain.AppointmentConfirmed),
		appt("10:00", domain.AppointmentPending),
		appt("12:00", domain.AppointmentCancelled),
		appt("11:00", domain.AppointmentCompleted),
	}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.BookedCount)
	assert.Equal(t, 5, resp.MaxCapacity)
	assert.Equal(t, 2, resp.AvailableSlots)
	assert.Equal(t, []types.TimeString{"10:00", "11:00", "14:00"}, resp.TakenTimes)
}

func TestExecute_AvailableSlotsNeverNegative(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := NewUseCase(repo, rules, nopLogger{})

	rules.On("Rules", mock.Anything).Return(domain.BusinessRules{MaxAppointmentsPerDay: 1}, nil)
	repo.On("GetByDate", mock.Anything, testDate).Return([]*domain.Appointment{
		appt("10:00", domain.AppointmentConfirmed),
		appt("11:00", domain.AppointmentConfirmed),
	}, nil)

	resp, err := uc.Execute(context.Background(), &Request{Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AvailableSlots)
}

func TestExecute_MissingDate(t *testing.T) {
	uc := NewUseCase(new(mockAppointmentRepo), new(mockRulesProvider), nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
