package appointments

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

func (m *mockAppointmentRepo) GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	args := m.Called(ctx, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) GetPending(ctx context.Context) ([]*domain.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockAppointmentRepo) UpdateStatusBatch(ctx context.Context, ids []int64, status domain.AppointmentStatus) error {
	args := m.Called(ctx, ids, status)
	return args.Error(0)
}

func (m *mockAppointmentRepo) UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime string, status domain.AppointmentStatus) error {
	args := m.Called(ctx, id, date, startTime, status)
	return args.Error(0)
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

func (f fixedTime) Now() time.Time {
	return f.now
}

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockAppointmentRepo, rules *mockRulesProvider, dispatcher *mockDispatcher) *Service {
	return NewService(repo, rules, passthroughTxManager{}, dispatcher, nopLogger{}).
		WithTimeProvider(fixedTime{now: testNow})
}

func testAppointment(id, customerID int64, startTime string, status domain.AppointmentStatus, createdAt time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:         id,
		CustomerID: customerID,
		Date:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  types.TimeString(startTime),
		Status:     status,
		CreatedAt:  createdAt,
	}
}

func autoApproveRules(maxPerDay int) domain.BusinessRules {
	return domain.BusinessRules{
		AutoApproveEnabled:    true,
		MaxAppointmentsPerDay: maxPerDay,
		BusinessStart:         "10:00",
		BusinessEnd:           "19:00",
	}
}

func TestService_GetByID_OwnershipEnforced(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(1, 10, "11:00", domain.AppointmentConfirmed, testNow)
	repo.On("GetByID", mock.Anything, int64(1)).Return(appt, nil)

	_, err := svc.GetByID(context.Background(), 1, 99, false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	got, err := svc.GetByID(context.Background(), 1, 99, true)
	require.NoError(t, err)
	assert.Equal(t, appt, got)
}

func TestService_Cancel_DispatchesEvent(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(5, 10, "11:00", domain.AppointmentConfirmed, testNow)
	repo.On("GetByID", mock.Anything, int64(5)).Return(appt, nil)
	repo.On("UpdateStatus", mock.Anything, int64(5), domain.AppointmentCancelled).Return(nil)
	dispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(e domain.StatusEvent) bool {
		return e.Kind == domain.EventKindAppointment &&
			e.SubjectID == 5 &&
			e.Actor == domain.ActorCustomer &&
			e.NewStatus == string(domain.AppointmentCancelled)
	})).Return(nil)

	err := svc.Cancel(context.Background(), 5, 10, false)
	require.NoError(t, err)

	repo.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestService_Cancel_CompletedIsFinal(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(5, 10, "11:00", domain.AppointmentCompleted, testNow)
	repo.On("GetByID", mock.Anything, int64(5)).Return(appt, nil)

	err := svc.Cancel(context.Background(), 5, 10, false)
	assert.ErrorIs(t, err, ErrCannotCancel)

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_SameStatusIsSilent(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(7, 10, "11:00", domain.AppointmentConfirmed, testNow)
	repo.On("GetByID", mock.Anything, int64(7)).Return(appt, nil)
	repo.On("UpdateStatus", mock.Anything, int64(7), domain.AppointmentConfirmed).Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), 7, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, updated.Status)

	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_InvalidStatus(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	_, err := svc.UpdateStatus(context.Background(), 7, "approved")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_PendingNotSettableByAdmin(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	_, err := svc.UpdateStatus(context.Background(), 7, "pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_CancelledCannotBeResurrected(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(7, 10, "11:00", domain.AppointmentCancelled, testNow)
	repo.On("GetByID", mock.Anything, int64(7)).Return(appt, nil)

	_, err := svc.UpdateStatus(context.Background(), 7, "confirmed")
	assert.ErrorIs(t, err, ErrStatusFinal)

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestService_UpdateStatus_CompletedCannotBeReopened(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(7, 10, "11:00", domain.AppointmentCompleted, testNow)
	repo.On("GetByID", mock.Anything, int64(7)).Return(appt, nil)

	_, err := svc.UpdateStatus(context.Background(), 7, "cancelled")
	assert.ErrorIs(t, err, ErrStatusFinal)

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ApplyAutoApproval_EarliestWinsCancelsConflicts(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(1, 10, "11:00", domain.AppointmentPending, testNow)
	loser := testAppointment(2, 20, "11:10", domain.AppointmentPending, testNow.Add(time.Minute))
	farAway := testAppointment(3, 30, "16:00", domain.AppointmentConfirmed, testNow.Add(2*time.Minute))

	rules.On("Rules", mock.Anything).Return(autoApproveRules(5), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(appt, nil)
	repo.On("GetByDate", mock.Anything, appt.Date).Return([]*domain.Appointment{appt, loser, farAway}, nil)
	repo.On("UpdateStatusBatch", mock.Anything, []int64{2}, domain.AppointmentCancelled).Return(nil)
	repo.On("UpdateStatus", mock.Anything, int64(1), domain.AppointmentConfirmed).Return(nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	status, err := svc.ApplyAutoApproval(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, status)

	// Одно событие за отмену проигравшего, одно за подтверждение
	dispatcher.AssertNumberOfCalls(t, "Dispatch", 2)
	repo.AssertExpectations(t)
}

func TestService_ApplyAutoApproval_LaterArrivalIsCancelled(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	winner := testAppointment(1, 10, "11:00", domain.AppointmentConfirmed, testNow)
	appt := testAppointment(2, 20, "11:10", domain.AppointmentPending, testNow.Add(time.Minute))

	rules.On("Rules", mock.Anything).Return(autoApproveRules(5), nil)
	repo.On("GetByID", mock.Anything, int64(2)).Return(appt, nil)
	repo.On("GetByDate", mock.Anything, appt.Date).Return([]*domain.Appointment{winner, appt}, nil)
	repo.On("UpdateStatusBatch", mock.Anything, []int64(nil), domain.AppointmentCancelled).Return(nil)
	repo.On("UpdateStatus", mock.Anything, int64(2), domain.AppointmentCancelled).Return(nil)
	dispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(e domain.StatusEvent) bool {
		return e.SubjectID == 2 && e.Actor == domain.ActorSystem && e.NewStatus == string(domain.AppointmentCancelled)
	})).Return(nil)

	status, err := svc.ApplyAutoApproval(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentCancelled, status)
}

func TestService_ApplyAutoApproval_SkipsNonPending(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(1, 10, "11:00", domain.AppointmentConfirmed, testNow)
	rules.On("Rules", mock.Anything).Return(autoApproveRules(5), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(appt, nil)

	status, err := svc.ApplyAutoApproval(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, status)

	repo.AssertNotCalled(t, "GetByDate", mock.Anything, mock.Anything)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestService_ApplyAutoApproval_DisabledLeavesPending(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	appt := testAppointment(1, 10, "11:00", domain.AppointmentPending, testNow)
	rules.On("Rules", mock.Anything).Return(domain.DefaultBusinessRules(), nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(appt, nil)
	repo.On("GetByDate", mock.Anything, appt.Date).Return([]*domain.Appointment{appt}, nil)
	repo.On("UpdateStatusBatch", mock.Anything, []int64(nil), domain.AppointmentCancelled).Return(nil)

	status, err := svc.ApplyAutoApproval(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentPending, status)

	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestService_ReevaluatePending_ErrorDoesNotStopOthers(t *testing.T) {
	repo := new(mockAppointmentRepo)
	rules := new(mockRulesProvider)
	dispatcher := new(mockDispatcher)
	svc := newTestService(repo, rules, dispatcher)

	broken := testAppointment(1, 10, "11:00", domain.AppointmentPending, testNow)
	healthy := testAppointment(2, 20, "16:00", domain.AppointmentPending, testNow.Add(time.Minute))

	rules.On("Rules", mock.Anything).Return(autoApproveRules(5), nil)
	repo.On("GetPending", mock.Anything).Return([]*domain.Appointment{broken, healthy}, nil)
	repo.On("GetByID", mock.Anything, int64(1)).Return(nil, assert.AnError)
	repo.On("GetByID", mock.Anything, int64(2)).Return(healthy, nil)
	repo.On("GetByDate", mock.Anything, healthy.Date).Return([]*domain.Appointment{healthy}, nil)
	repo.On("UpdateStatusBatch", mock.Anything, []int64(nil), domain.AppointmentCancelled).Return(nil)
	repo.On("UpdateStatus", mock.Anything, int64(2), domain.AppointmentConfirmed).Return(nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	err := svc.ReevaluatePending(context.Background())
	require.NoError(t, err)

	repo.AssertCalled(t, "UpdateStatus", mock.Anything, int64(2), domain.AppointmentConfirmed)
}
