package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmdang/querypad/internal/apperrors"
	"github.com/vmdang/querypad/internal/db"
	"github.com/vmdang/querypad/internal/history"
	"github.com/vmdang/querypad/internal/templates"
)

// fakeExecutor stands in for the dispatcher
type fakeExecutor struct {
	mu       sync.Mutex
	executed []string
	err      error
	block    chan struct{} // when set, Execute waits for close or ctx
}

func (f *fakeExecutor) Execute(ctx context.Context, _ db.Descriptor, queryText string, _ bool) (*db.QueryResult, error) {
	f.mu.Lock()
	f.executed = append(f.executed, queryText)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &db.QueryResult{IsSelect: true, RowCount: 1}, nil
}

func (f *fakeExecutor) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.executed...)
}

func newTestCoordinator(t *testing.T, exec Executor, opts Options) (*Coordinator, *history.Store, *templates.Store) {
	t.Helper()
	dir := t.TempDir()

	historyLog, err := history.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { historyLog.Close() })

	templateStore, err := templates.Open(filepath.Join(dir, "templates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { templateStore.Close() })

	return New(exec, historyLog, templateStore, opts, nil), historyLog, templateStore
}

func pgConn() db.Descriptor {
	return db.Descriptor{Type: db.Postgres, URL: "postgres://localhost/app", TableName: "orders"}
}

func TestRunRequiresActiveConnection(t *testing.T) {
	coord, _, _ := newTestCoordinator(t, &fakeExecutor{}, Options{})

	_, err := coord.Run(context.Background(), "SELECT 1", false)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
}

func TestUseConnectionValidation(t *testing.T) {
	coord, _, _ := newTestCoordinator(t, &fakeExecutor{}, Options{})

	err := coord.UseConnection(db.Descriptor{Type: "oracle", URL: "oracle://x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	err = coord.UseConnection(db.Descriptor{Type: db.Postgres})
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	require.NoError(t, coord.UseConnection(pgConn()))
	active := coord.ActiveConnection()
	require.NotNil(t, active)
	assert.Equal(t, db.Postgres, active.Type)
}

func TestSuccessfulRunRecordsResolvedText(t *testing.T) {
	exec := &fakeExecutor{}
	coord, historyLog, _ := newTestCoordinator(t, exec, Options{})
	require.NoError(t, coord.UseConnection(pgConn()))

	res, err := coord.Run(context.Background(), "SELECT * FROM {table_name}", true)
	require.NoError(t, err)
	assert.True(t, res.IsSelect)

	entries, err := historyLog.List(false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SELECT * FROM orders", entries[0].QueryText)
	assert.Equal(t, db.Postgres, entries[0].DatabaseType)

	assert.Equal(t, []string{"SELECT * FROM orders"}, exec.calls())
}

func TestFailedRunRecordsNothingByDefault(t *testing.T) {
	exec := &fakeExecutor{err: db.WrapQueryError(errors.New("syntax error"))}
	coord, historyLog, _ := newTestCoordinator(t, exec, Options{})
	require.NoError(t, coord.UseConnection(pgConn()))

	_, err := coord.Run(context.Background(), "SELEC 1", false)
	require.Error(t, err)

	count, err := historyLog.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFailedRunRecordedWithPolicyOn(t *testing.T) {
	exec := &fakeExecutor{err: db.WrapQueryError(errors.New("syntax error"))}
	coord, historyLog, _ := newTestCoordinator(t, exec, Options{RecordFailures: true})
	require.NoError(t, coord.UseConnection(pgConn()))

	_, err := coord.Run(context.Background(), "SELEC 1", false)
	require.Error(t, err)

	count, err := historyLog.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReadOnlyGuardStopsBeforeDispatcher(t *testing.T) {
	exec := &fakeExecutor{}
	coord, historyLog, _ := newTestCoordinator(t, exec, Options{})
	require.NoError(t, coord.UseConnection(pgConn()))

	_, err := coord.Run(context.Background(), "DELETE FROM t", true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, exec.calls())

	count, err := historyLog.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = coord.Run(context.Background(), "SELECT * FROM t", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT * FROM t"}, exec.calls())
}

func TestMissingTableNameNeverDispatches(t *testing.T) {
	exec := &fakeExecutor{}
	coord, historyLog, _ := newTestCoordinator(t, exec, Options{})
	require.NoError(t, coord.UseConnection(db.Descriptor{Type: db.Postgres, URL: "postgres://localhost/app"}))

	_, err := coord.Run(context.Background(), "SELECT * FROM {table_name}", false)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
	assert.Empty(t, exec.calls())

	count, err := historyLog.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSecondRunWhileInFlightIsRejected(t *testing.T) {
	exec := &fakeExecutor{block: make(chan struct{})}
	coord, _, _ := newTestCoordinator(t, exec, Options{})
	require.NoError(t, coord.UseConnection(pgConn()))

	done := make(chan error, 1)
	go func() {
		_, err := coord.Run(context.Background(), "SELECT 1", false)
		done <- err
	}()

	// Wait until the first run reaches the executor
	require.Eventually(t, func() bool {
		return len(exec.calls()) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := coord.Run(context.Background(), "SELECT 2", false)
	assert.ErrorIs(t, err, apperrors.ErrBusy)

	close(exec.block)
	require.NoError(t, <-done)

	// Coordinator is idle again and accepts new runs
	assert.Equal(t, StateIdle, coord.State())
	_, err = coord.Run(context.Background(), "SELECT 3", false)
	require.NoError(t, err)
}

func TestCancelSuppressesHistory(t *testing.T) {
	exec := &fakeExecutor{block: make(chan struct{}), err: errors.New("never reached")}
	coord, historyLog, _ := newTestCoordinator(t, exec, Options{RecordFailures: true})
	require.NoError(t, coord.UseConnection(pgConn()))

	done := make(chan error, 1)
	go func() {
		_, err := coord.Run(context.Background(), "SELECT pg_sleep(60)", false)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return len(exec.calls()) == 1
	}, time.Second, 5*time.Millisecond)

	coord.Cancel()
	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// Even with RecordFailures on, a cancelled attempt leaves no entry
	count, err := historyLog.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUseConnectionRejectedWhileInFlight(t *testing.T) {
	exec := &fakeExecutor{block: make(chan struct{})}
	coord, _, _ := newTestCoordinator(t, exec, Options{})
	require.NoError(t, coord.UseConnection(pgConn()))

	done := make(chan error, 1)
	go func() {
		_, err := coord.Run(context.Background(), "SELECT 1", false)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return len(exec.calls()) == 1
	}, time.Second, 5*time.Millisecond)

	err := coord.UseConnection(db.Descriptor{Type: db.MySQL, URL: "mysql://localhost/app"})
	assert.ErrorIs(t, err, apperrors.ErrBusy)

	close(exec.block)
	require.NoError(t, <-done)
}

func TestApplyTemplateLoadsWithoutExecuting(t *testing.T) {
	exec := &fakeExecutor{}
	coord, _, templateStore := newTestCoordinator(t, exec, Options{})

	tmpl, err := templateStore.Create("count", db.Postgres, "SELECT COUNT(*) FROM {table_name}")
	require.NoError(t, err)

	text, err := coord.ApplyTemplate(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM {table_name}", text)
	assert.Empty(t, exec.calls())

	_, err = coord.ApplyTemplate(9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
