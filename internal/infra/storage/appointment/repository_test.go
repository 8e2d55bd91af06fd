package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/types"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(db), mock, func() { _ = db.Close() }
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns)
}

func addAppointmentRow(rows *sqlmock.Rows, id int64, startTime string, status domain.AppointmentStatus) *sqlmock.Rows {
	now := time.Now()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(id, int64(7), date, startTime, "fitting", status, nil, now, now)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(int64(7), date, "12:30", "fitting", domain.AppointmentPending, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	appt, err := repo.Create(context.Background(), &domain.Appointment{
		CustomerID:  7,
		Date:        date,
		StartTime:   types.TimeString("12:30"),
		ServiceType: "fitting",
		Status:      domain.AppointmentPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), appt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(appointmentRows())

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByDate(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	rows := addAppointmentRow(appointmentRows(), 11, "12:30", domain.AppointmentConfirmed)
	rows = addAppointmentRow(rows, 12, "14:00", domain.AppointmentPending)

	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE appointment_date = \$1 ORDER BY start_time ASC, id ASC`).
		WithArgs(date).
		WillReturnRows(rows)

	appointments, err := repo.GetByDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, types.TimeString("12:30"), appointments[0].StartTime)
	assert.Equal(t, domain.AppointmentPending, appointments[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetPending(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	rows := addAppointmentRow(appointmentRows(), 12, "14:00", domain.AppointmentPending)

	mock.ExpectQuery(`SELECT (.+) FROM appointments WHERE status = \$1 ORDER BY created_at ASC, id ASC`).
		WithArgs(domain.AppointmentPending).
		WillReturnRows(rows)

	appointments, err := repo.GetPending(context.Background())
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, int64(12), appointments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("UPDATE appointments SET").
		WithArgs(domain.AppointmentCancelled, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 11, domain.AppointmentCancelled)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("UPDATE appointments SET").
		WithArgs(domain.AppointmentCancelled, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, domain.AppointmentCancelled)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatusBatch_EmptyIDs(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	err := repo.UpdateStatusBatch(context.Background(), nil, domain.AppointmentCancelled)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
