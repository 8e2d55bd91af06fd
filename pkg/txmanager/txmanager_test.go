package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitform/FitForm-OrderService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr error
	rollbacks int
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error { return t.commitErr }

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

// fakeBeginner выдает по одной транзакции на попытку; ошибки коммита
// задаются заранее в порядке попыток
type fakeBeginner struct {
	commitErrs []error
	begins     int
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	var commitErr error
	if b.begins < len(b.commitErrs) {
		commitErr = b.commitErrs[b.begins]
	}
	b.begins++
	return &fakeTx{commitErr: commitErr}, nil
}

func serializationFailure() *pq.Error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializable_RetriesCommitSerializationFailure(t *testing.T) {
	db := &fakeBeginner{commitErrs: []error{serializationFailure(), nil}}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, db.begins)
	assert.Equal(t, 2, calls)
}

func TestDoSerializable_RetriesSerializationFailureFromFn(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return serializationFailure()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, db.begins)
}

func TestDoSerializable_NonRetryableCommitErrorFailsFast(t *testing.T) {
	db := &fakeBeginner{commitErrs: []error{errors.New("connection reset")}}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrCommitTx)
	assert.Equal(t, 1, db.begins)
}

func TestDoSerializable_ExhaustsRetries(t *testing.T) {
	db := &fakeBeginner{commitErrs: []error{
		serializationFailure(), serializationFailure(), serializationFailure(),
	}}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, maxRetries, db.begins)
	assert.True(t, IsSerializationError(err))
}

func TestIsSerializationError(t *testing.T) {
	assert.True(t, IsSerializationError(serializationFailure()))
	assert.True(t, IsSerializationError(&pq.Error{Code: "40P01"}))
	assert.False(t, IsSerializationError(errors.New("plain")))
	assert.False(t, IsSerializationError(&pq.Error{Code: "23505"}))
}
