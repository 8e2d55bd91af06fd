package reschedule_appointment

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

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) GetByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime string, status domain.AppointmentStatus) error {
	args := m.Called(ctx, id, date, startTime, status)
	return args.Error(0)
}

type mockAutoApprover struct {
	mock.Mock
}

func (m *mockAutoApprover) ApplyAutoApproval(ctx context.Context, apptID int64) (domain.AppointmentStatus, error) {
	args := m.Called(ctx, apptID)
	return args.Get(0).(domain.AppointmentStatus), args.Error(1)
}

type mockRulesProvider struct {
	mock.Mock
}

func (m *mockRulesProvider) Rules(ctx context.Context) (domain.BusinessRules, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.BusinessRules), args.Error(1)
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

var (
	testNow = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	oldDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	newDate = time.Date(2026, 9, 21, 0, 0, 0, 0, time.UTC)
)

func existing() *domain.Appointment {
	return &domain.Appointment{
		ID:          11,
		CustomerID:  7,
		Date:        oldDate,
		StartTime:   "12:30",
		ServiceType: "fitting",
		Status:      domain.AppointmentConfirmed,
		CreatedAt:   time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
}

func validRequest() *Request {
	return &Request{
		AppointmentID: 11,
		UserID:        7,
		Date:          newDate,
		StartTime:     "15:00",
	}
}

func newUseCase(repo *mockAppointmentRepo, approver *mockAutoApprover, rules *mockRulesProvider) *UseCase {
	return NewUseCase(repo, approver, rules, passthroughTxManager{}, nopLogger{}).
		WithTimeProvider(fixedTime{now: testNow})
}

func TestExecute_PastDateRejected(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, new(mockAutoApprover), rules)

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	rules.AssertNotCalled(t, "Rules", mock.Anything)
	repo.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_KeepsOriginalCreatedAt(t *testing.T) {
	repo := new(mockAppointmentRepo)
	approver := new(mockAutoApprover)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, approver, rules)

	rules.On("Rules", mock.Anything).Return(domain.BusinessRules{MaxAppointmentsPerDay: 5}, nil)
	repo.On("GetByID", mock.Anything, int64(11)).Return(existing(), nil)
	repo.On("GetByDate", mock.Anything, newDate).Return([]*domain.Appointment{}, nil)
	repo.On("UpdateSchedule", mock.Anything, int64(11), newDate, "15:00", domain.AppointmentPending).Return(nil)
	approver.On("ApplyAutoApproval", mock.Anything, int64(11)).Return(domain.AppointmentConfirmed, nil)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, existing().CreatedAt, resp.CreatedAt)
	assert.Equal(t, newDate, resp.Date)
	assert.Equal(t, types.TimeString("15:00"), resp.StartTime)
	assert.Equal(t, string(domain.AppointmentConfirmed), resp.Status)
	repo.AssertExpectations(t)
}

func TestExecute_OwnershipEnforced(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, new(mockAutoApprover), rules)

	rules.On("Rules", mock.Anything).Return(domain.BusinessRules{MaxAppointmentsPerDay: 5}, nil)
	repo.On("GetByID", mock.Anything, int64(11)).Return(existing(), nil)

	req := validRequest()
	req.UserID = 99

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
	repo.AssertNotCalled(t, "UpdateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_CancelledCannotBeRescheduled(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, new(mockAutoApprover), rules)

	appt := existing()
	appt.Status = domain.AppointmentCancelled

	rules.On("Rules", mock.Anything).Return(domain.BusinessRules{MaxAppointmentsPerDay: 5}, nil)
	repo.On("GetByID", mock.Anything, int64(11)).Return(appt, nil)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestExecute_SelfIsExcludedFromAdmission(t *testing.T) {
	repo := new(mockAppointmentRepo)
	approver := new(mockAutoApprover)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, approver, rules)

	// перенос в пределах того же дня: собственная строка не должна
	// срабатывать ни как лимит клиента, ни как занятый слот
	self := existing()

	rules.On("Rules", mock.Anything).Return(domain.BusinessRules{MaxAppointmentsPerDay: 1}, nil)
	repo.On("GetByID", mock.Anything, int64(11)).Return(self, nil)
	repo.On("GetByDate", mock.Anything, oldDate).Return([]*domain.Appointment{self}, nil)
	repo.On("UpdateSchedule", mock.Anything, int64(11), oldDate, "15:00", domain.AppointmentPending).Return(nil)
	approver.On("ApplyAutoApproval", mock.Anything, int64(11)).Return(domain.AppointmentPending, nil)

	req := validRequest()
	req.Date = oldDate

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_TimeSlotTakenOnNewDate(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, new(mockAutoApprover), rules)

	rules.On("Rules", mock.Anything).Return(domain.BusinessRules{MaxAppointmentsPerDay: 5}, nil)
	repo.On("GetByID", mock.Anything, int64(11)).Return(existing(), nil)
	repo.On("GetByDate", mock.Anything, newDate).Return([]*domain.Appointment{
		{ID: 20, CustomerID: 8, Date: newDate, StartTime: "15:00", Status: domain.AppointmentConfirmed},
	}, nil)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTimeSlotTaken)
}
