package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	"github.com/fitform/FitForm-OrderService/pkg/ptr"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(db), mock, func() { _ = db.Close() }
}

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows(orderColumns)
}

func addOrderRow(rows *sqlmock.Rows, id int64, orderType domain.OrderType, status domain.OrderStatus) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, int64(7), orderType, "Evening gown", "dress", []byte(`{"bust":92.5}`), nil,
		status,
		nil, nil, nil, nil,
		nil, nil, domain.CounterOfferNone, nil,
		500.0, 200.0, nil,
		0.0, domain.PenaltyNone, nil, nil, nil,
		false,
		now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(
			int64(7), domain.OrderTypeRental, "Evening gown", "dress",
			[]byte(`{"bust":92.5}`), nil, domain.OrderPending,
			domain.CounterOfferNone, 500.0, 200.0, domain.PenaltyNone,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(41), now, now))

	created, err := repo.Create(context.Background(), &domain.Order{
		CustomerID:         7,
		Type:               domain.OrderTypeRental,
		ItemName:           "Evening gown",
		ClothingType:       "dress",
		Measurements:       map[string]float64{"bust": 92.5},
		Status:             domain.OrderPending,
		CounterOfferStatus: domain.CounterOfferNone,
		CancellationFee:    500,
		DamageFeeMin:       200,
		PenaltyStatus:      domain.PenaltyNone,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(41), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id = \$1`).
		WithArgs(int64(41)).
		WillReturnRows(addOrderRow(orderRows(), 41, domain.OrderTypeRental, domain.OrderPending))

	o, err := repo.GetByID(context.Background(), 41)
	require.NoError(t, err)
	assert.Equal(t, int64(41), o.ID)
	assert.Equal(t, domain.OrderTypeRental, o.Type)
	assert.Equal(t, map[string]float64{"bust": 92.5}, o.Measurements)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(orderRows())

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_Filtered(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	rows := addOrderRow(orderRows(), 41, domain.OrderTypeRental, domain.OrderQuotationSent)
	rows = addOrderRow(rows, 38, domain.OrderTypeRental, domain.OrderQuotationSent)

	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE customer_id = \$1 AND order_type = \$2 AND status = \$3 ORDER BY created_at DESC, id DESC`).
		WithArgs(int64(7), domain.OrderTypeRental, domain.OrderQuotationSent).
		WillReturnRows(rows)

	orders, err := repo.List(context.Background(), Filter{
		CustomerID: ptr.Ptr(int64(7)),
		Type:       ptr.Ptr(domain.OrderTypeRental),
		Status:     ptr.Ptr(domain.OrderQuotationSent),
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(41), orders[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_Empty(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT (.+) FROM orders ORDER BY created_at DESC, id DESC`).
		WillReturnRows(orderRows())

	orders, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("UPDATE orders SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &domain.Order{
		ID:              41,
		Status:          domain.OrderQuotationSent,
		QuotationAmount: ptr.Ptr(1200.0),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("UPDATE orders SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Order{ID: 99})
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
