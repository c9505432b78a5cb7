package txmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/metrics"
)

// fakeDriver lets a test script what each successive Commit returns, so
// commit-time serialization failures can be exercised without postgres.
type fakeDriver struct {
	mu         sync.Mutex
	beginCount int
	commitErrs []error
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	return &fakeConn{d: d}, nil
}

func (d *fakeDriver) begins() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.beginCount
}

type fakeConn struct {
	d *fakeDriver
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("fakeConn: prepare not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *fakeConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	c.d.beginCount++
	return &fakeTx{d: c.d}, nil
}

type fakeTx struct {
	d *fakeDriver
}

func (t *fakeTx) Commit() error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	if len(t.d.commitErrs) == 0 {
		return nil
	}
	err := t.d.commitErrs[0]
	t.d.commitErrs = t.d.commitErrs[1:]
	return err
}

func (t *fakeTx) Rollback() error { return nil }

var fakeDriverSeq int64

func newFakeDB(t *testing.T, commitErrs ...error) (*sql.DB, *fakeDriver) {
	t.Helper()
	d := &fakeDriver{commitErrs: commitErrs}
	name := fmt.Sprintf("txmanager-fake-%d", atomic.AddInt64(&fakeDriverSeq, 1))
	sql.Register(name, d)
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, d
}

var testCollector = metrics.New("txmanager-test")

func serializationFailure() error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializableRetriesCommitConflict(t *testing.T) {
	db, d := newFakeDB(t, serializationFailure())
	m := NewTransactionManager(dbmetrics.Wrap(db, testCollector))

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, d.begins())
	assert.Equal(t, 2, calls)
}

func TestDoSerializableExhaustsCommitRetries(t *testing.T) {
	db, d := newFakeDB(t,
		serializationFailure(),
		serializationFailure(),
		serializationFailure(),
		serializationFailure(),
	)
	m := NewTransactionManager(dbmetrics.Wrap(db, testCollector))

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.Equal(t, maxRetries+1, d.begins())
}

func TestDoSerializableRetriesConflictFromFn(t *testing.T) {
	db, d := newFakeDB(t)
	m := NewTransactionManager(dbmetrics.Wrap(db, testCollector))

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return serializationFailure()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, d.begins())
}

func TestDoSerializableDoesNotRetryBusinessErrors(t *testing.T) {
	db, d := newFakeDB(t)
	m := NewTransactionManager(dbmetrics.Wrap(db, testCollector))

	errSlotFull := errors.New("slot is fully booked")
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return errSlotFull
	})

	assert.ErrorIs(t, err, errSlotFull)
	assert.Equal(t, 1, d.begins())
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))
	assert.True(t, IsSerializationFailure(fmt.Errorf("commit: %w", &pq.Error{Code: "40001"})))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("plain")))
}
