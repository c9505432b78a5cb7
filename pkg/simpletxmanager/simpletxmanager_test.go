package simpletxmanager

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

	"github.com/agendafacil/booking-service/pkg/txmanager"
)

// fakeDriver scripts what each successive Commit returns.
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
	name := fmt.Sprintf("simpletxmanager-fake-%d", atomic.AddInt64(&fakeDriverSeq, 1))
	sql.Register(name, d)
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, d
}

func TestDoSerializableRetriesCommitConflict(t *testing.T) {
	db, d := newFakeDB(t, &pq.Error{Code: "40001"})
	m := NewTransactionManager(db)

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
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "40001"},
		&pq.Error{Code: "40001"},
	)
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, txmanager.ErrTxFailed)
	assert.Equal(t, maxRetries+1, d.begins())
}

func TestDoSerializableDoesNotRetryBusinessErrors(t *testing.T) {
	db, d := newFakeDB(t)
	m := NewTransactionManager(db)

	errBusiness := errors.New("slot is fully booked")
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, d.begins())
}
