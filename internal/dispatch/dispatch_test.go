package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmdang/querypad/internal/apperrors"
	"github.com/vmdang/querypad/internal/db"
)

// fakeDriver records calls instead of talking to a database
type fakeDriver struct {
	driverType   db.DriverType
	connectedURL string
	executed     []string
	connectErr   error
	executeErr   error
	result       *db.QueryResult
	closed       bool
}

func (f *fakeDriver) Connect(_ context.Context, url string) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connectedURL = url
	return nil
}

func (f *fakeDriver) Close() error {
	f.closed = true
	return nil
}

func (f *fakeDriver) Execute(_ context.Context, query string) (*db.QueryResult, error) {
	f.executed = append(f.executed, query)
	if f.executeErr != nil {
		return nil, f.executeErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &db.QueryResult{IsSelect: true}, nil
}

func (f *fakeDriver) Ping(context.Context) error { return nil }
func (f *fakeDriver) Type() db.DriverType        { return f.driverType }

func newFakeDispatcher(fake *fakeDriver) *Dispatcher {
	return NewWithFactory(func(t db.DriverType) (db.Driver, error) {
		fake.driverType = t
		return fake, nil
	}, nil)
}

func TestResolveTableName(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		tableName string
		want      string
		wantErr   bool
	}{
		{
			name:      "single occurrence",
			query:     "SELECT * FROM {table_name}",
			tableName: "orders",
			want:      "SELECT * FROM orders",
		},
		{
			name:      "every occurrence replaced",
			query:     "SELECT * FROM {table_name} a JOIN {table_name} b ON a.id = b.id",
			tableName: "orders",
			want:      "SELECT * FROM orders a JOIN orders b ON a.id = b.id",
		},
		{
			name:      "no placeholder passes through",
			query:     "SELECT * FROM users",
			tableName: "",
			want:      "SELECT * FROM users",
		},
		{
			name:    "placeholder without table name",
			query:   "SELECT * FROM {table_name}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTableName(tt.query, tt.tableName)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckReadOnly(t *testing.T) {
	forbidden := []string{
		"INSERT INTO t VALUES (1)",
		"update t set a = 1",
		"DELETE FROM t",
		"Drop TABLE t",
		"ALTER TABLE t ADD c int",
		"truncate t",
		"CREATE TABLE t (id int)",
	}
	for _, q := range forbidden {
		assert.ErrorIs(t, CheckReadOnly(q), apperrors.ErrForbidden, q)
	}

	allowed := []string{
		"SELECT * FROM t",
		"  select 1",
		"WITH x AS (SELECT 1) SELECT * FROM x",
		"EXPLAIN SELECT 1",
		"SHOW TABLES",
		"",
	}
	for _, q := range allowed {
		assert.NoError(t, CheckReadOnly(q), q)
	}
}

func TestExecuteReadOnlyGuardStopsBeforeDriver(t *testing.T) {
	fake := &fakeDriver{}
	d := newFakeDispatcher(fake)
	desc := db.Descriptor{Type: db.Postgres, URL: "postgres://localhost/app"}

	_, err := d.Execute(context.Background(), desc, "DELETE FROM t", true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, fake.connectedURL, "guard must reject before connecting")
	assert.Empty(t, fake.executed)

	res, err := d.Execute(context.Background(), desc, "SELECT * FROM t", true)
	require.NoError(t, err)
	assert.True(t, res.IsSelect)
	assert.Equal(t, []string{"SELECT * FROM t"}, fake.executed)
}

func TestExecuteMutatingAllowedWhenNotReadOnly(t *testing.T) {
	fake := &fakeDriver{result: &db.QueryResult{AffectedRows: 1}}
	d := newFakeDispatcher(fake)
	desc := db.Descriptor{Type: db.MySQL, URL: "mysql://localhost/app"}

	res, err := d.Execute(context.Background(), desc, "DELETE FROM t", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.AffectedRows)
}

func TestExecuteResolvesBeforeDispatch(t *testing.T) {
	fake := &fakeDriver{}
	d := newFakeDispatcher(fake)
	desc := db.Descriptor{Type: db.Postgres, URL: "postgres://localhost/app", TableName: "orders"}

	_, err := d.Execute(context.Background(), desc, "SELECT * FROM {table_name}", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT * FROM orders"}, fake.executed)
}

func TestExecuteMissingTableNameNeverDispatches(t *testing.T) {
	fake := &fakeDriver{}
	d := newFakeDispatcher(fake)
	desc := db.Descriptor{Type: db.Postgres, URL: "postgres://localhost/app"}

	_, err := d.Execute(context.Background(), desc, "SELECT * FROM {table_name}", false)
	assert.ErrorIs(t, err, apperrors.ErrInvalid)
	assert.Empty(t, fake.executed)
}

func TestExecuteClosesDriver(t *testing.T) {
	fake := &fakeDriver{}
	d := newFakeDispatcher(fake)
	desc := db.Descriptor{Type: db.Postgres, URL: "postgres://localhost/app"}

	_, err := d.Execute(context.Background(), desc, "SELECT 1", false)
	require.NoError(t, err)
	assert.True(t, fake.closed)
}

func TestExecutePropagatesDriverErrors(t *testing.T) {
	connErr := db.WrapConnectionError(errors.New("connection refused"))
	fake := &fakeDriver{connectErr: connErr}
	d := newFakeDispatcher(fake)
	desc := db.Descriptor{Type: db.MongoDB, URL: "mongodb://localhost/app"}

	_, err := d.Execute(context.Background(), desc, "{\"find\": \"t\"}", false)
	var ce *db.ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "connection refused")
}
