package reserve_appointment

import (
	"context"
	"errors"
	"fmt"
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

func (m *mockAppointmentRepo) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	args := m.Called(ctx, appt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
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

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, event domain.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
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
	testNow  = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
)

func defaultRules() domain.BusinessRules {
	return domain.BusinessRules{
		AutoApproveEnabled:    true,
		MaxAppointmentsPerDay: 5,
		BusinessStart:         "10:00",
		BusinessEnd:           "19:00",
	}
}

func validRequest() *Request {
	return &Request{
		CustomerID:  7,
		Date:        testDate,
		StartTime:   types.TimeString("12:30"),
		ServiceType: "fitting",
	}
}

func appt(id, customerID int64, startTime string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		CustomerID: customerID,
		Date:       testDate,
		StartTime:  types.TimeString(startTime),
		Status:     status,
	}
}

func newUseCase(repo *mockAppointmentRepo, approver *mockAutoApprover, rules *mockRulesProvider, dispatcher *mockDispatcher) *UseCase {
	return NewUseCase(repo, approver, rules, dispatcher, passthroughTxManager{}, nopLogger{}).
		WithTimeProvider(fixedTime{now: testNow})
}

func TestExecute_Success(t *testing.T) {
	repo := new(mockAppointmentRepo)
	approver := new(mockAutoApprover)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	uc := newUseCase(repo, approver, rules, dispatcher)

	rules.On("Rules", mock.Anything).Return(defaultRules(), nil)
	repo.On("GetByDate", mock.Anything, testDate).Return([]*domain.Appointment{
		appt(1, 8, "15:00", domain.AppointmentConfirmed),
	}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Appointment) bool {
		return a.Status == domain.AppointmentPending && a.CustomerID == 7
	})).Return(appt(2, 7, "12:30", domain.AppointmentPending), nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)
	approver.On("ApplyAutoApproval", mock.Anything, int64(2)).Return(domain.AppointmentConfirmed, nil)

	confirmed := appt(2, 7, "12:30", domain.AppointmentConfirmed)
	confirmed.UpdatedAt = testNow.Add(time.Second)
	repo.On("GetByID", mock.Anything, int64(2)).Return(confirmed, nil)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.ID)
	assert.Equal(t, string(domain.AppointmentConfirmed), resp.Status)
	// после авто-подтверждения отдаются свежие поля записи
	assert.Equal(t, confirmed.UpdatedAt, resp.UpdatedAt)
	repo.AssertExpectations(t)
	approver.AssertExpectations(t)
}

func TestExecute_PastDateRejected(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, new(mockAutoApprover), rules, new(mockDispatcher))

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	rules.AssertNotCalled(t, "Rules", mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_SameDayIsAllowed(t *testing.T) {
	repo := new(mockAppointmentRepo)
	approver := new(mockAutoApprover)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	uc := newUseCase(repo, approver, rules, dispatcher)

	today := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)
	req := validRequest()
	req.Date = today

	rules.On("Rules", mock.Anything).Return(defaultRules(), nil)
	repo.On("GetByDate", mock.Anything, today).Return([]*domain.Appointment{}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(appt(4, 7, "12:30", domain.AppointmentPending), nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)
	approver.On("ApplyAutoApproval", mock.Anything, int64(4)).Return(domain.AppointmentPending, nil)

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_ValidationFailure(t *testing.T) {
	uc := newUseCase(new(mockAppointmentRepo), new(mockAutoApprover), new(mockRulesProvider), new(mockDispatcher))

	req := validRequest()
	req.StartTime = "25:99"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_DailyLimitWinsOverSlotTaken(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, new(mockAutoApprover), rules, new(mockDispatcher))

	rules.On("Rules", mock.Anything).Return(defaultRules(), nil)
	// у клиента уже есть запись, и слот 12:30 занят другим - лимит клиента важнее
	repo.On("GetByDate", mock.Anything, testDate).Return([]*domain.Appointment{
		appt(1, 7, "16:00", domain.AppointmentConfirmed),
		appt(2, 8, "12:30", domain.AppointmentConfirmed),
	}, nil)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDailyLimitExceeded)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	repo := new(mockAppointmentRepo)
	approver := new(mockAutoApprover)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	uc := newUseCase(repo, approver, rules, dispatcher)

	rules.On("Rules", mock.Anything).Return(defaultRules(), nil)
	// отмененная запись клиента на ту же дату и отмененный слот не мешают
	repo.On("GetByDate", mock.Anything, testDate).Return([]*domain.Appointment{
		appt(1, 7, "16:00", domain.AppointmentCancelled),
		appt(2, 8, "12:30", domain.AppointmentCancelled),
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(appt(3, 7, "12:30", domain.AppointmentPending), nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)
	approver.On("ApplyAutoApproval", mock.Anything, int64(3)).Return(domain.AppointmentPending, nil)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_TimeSlotTaken(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, new(mockAutoApprover), rules, new(mockDispatcher))

	rules.On("Rules", mock.Anything).Return(defaultRules(), nil)
	repo.On("GetByDate", mock.Anything, testDate).Return([]*domain.Appointment{
		appt(1, 8, "12:30", domain.AppointmentPending),
	}, nil)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTimeSlotTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	uc := newUseCase(repo, new(mockAutoApprover), rules, new(mockDispatcher))

	rules.On("Rules", mock.Anything).Return(defaultRules(), nil)

	// день уже заполнен пятью активными записями других клиентов
	day := make([]*domain.Appointment, 0, 5)
	for i := 0; i < 5; i++ {
		day = append(day, appt(int64(i+1), int64(10+i), fmt.Sprintf("1%d:00", i), domain.AppointmentConfirmed))
	}
	repo.On("GetByDate", mock.Anything, testDate).Return(day, nil)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_AutoApprovalFailureLeavesPending(t *testing.T) {
	repo := new(mockAppointmentRepo)
	approver := new(mockAutoApprover)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	uc := newUseCase(repo, approver, rules, dispatcher)

	rules.On("Rules", mock.Anything).Return(defaultRules(), nil)
	repo.On("GetByDate", mock.Anything, testDate).Return([]*domain.Appointment{}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(appt(2, 7, "12:30", domain.AppointmentPending), nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)
	approver.On("ApplyAutoApproval", mock.Anything, int64(2)).Return(domain.AppointmentStatus(""), errors.New("deadlock"))

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.AppointmentPending), resp.Status)
}
